package logger

import (
	"context"
	"encoding/binary"
	"errors"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrWriterClosed = errors.New("kafka log writer is closed")

// Writer kafka.Writer 的子集, 測試時可替換
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
}

/*
KafkaWriter 把 zerolog 的每一筆 json 送到 kafka
非同步寫入, log 不能拖慢請求
key 為遞增的 log id, 讓訊息平均分到各 partition
*/
type KafkaWriter struct {
	w      Writer
	logId  atomic.Int64
	closed atomic.Bool
}

func NewKafkaWriter(cfg KafkaConfig) (*KafkaWriter, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka log writer needs brokers and topic")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: 5 * time.Second,
		MaxAttempts:  3,
		Async:        true,
	}
	return NewKafkaWriterWith(w), nil
}

func NewKafkaWriterWith(w Writer) *KafkaWriter {
	return &KafkaWriter{w: w}
}

func (kw *KafkaWriter) Write(p []byte) (int, error) {
	if kw.closed.Load() {
		return 0, ErrWriterClosed
	}

	// zerolog 會重用 p, 必須複製
	value := make([]byte, len(p))
	copy(value, p)

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(kw.logId.Add(1)))

	if err := kw.w.WriteMessages(context.Background(), kafka.Message{Key: key, Value: value}); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (kw *KafkaWriter) Close() error {
	if !kw.closed.CompareAndSwap(false, true) {
		return nil
	}
	return kw.w.Close()
}
