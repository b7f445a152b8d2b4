package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/config"
	"github.com/RoyceAzure/lab/pickup/internal/constants"
	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 依設定建立 logger
// debug/dev 環境輸出 console 格式, 其他環境輸出 json
// 有設定 LOG_KAFKA_BROKERS 時同時送到 kafka, 回傳的 Closer 負責 flush
func New(cf *config.Config) (zerolog.Logger, io.Closer, error) {
	var out io.Writer = os.Stdout
	if cf.Env == constants.Debug || cf.Env == constants.Dev {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	if !cf.KafkaLogEnabled() {
		return Build(cf.ServiceName, cf.LogLevel, out), nopCloser{}, nil
	}

	kw, err := NewKafkaWriter(KafkaConfig{Brokers: cf.LogKafkaBrokers, Topic: cf.LogKafkaTopic})
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return Build(cf.ServiceName, cf.LogLevel, out, kw), kw, nil
}

// Build 組合多個輸出, 每筆 log 帶 service 與時間
func Build(service, level string, writers ...io.Writer) zerolog.Logger {
	var w io.Writer
	switch len(writers) {
	case 0:
		w = os.Stdout
	case 1:
		w = writers[0]
	default:
		w = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// ParseLevel 無法解析時使用 info
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
