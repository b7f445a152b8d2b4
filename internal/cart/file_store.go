package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore 每個 key 一個 json 檔, 寫入時先寫暫存檔再 rename
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid cart key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Load(_ context.Context, key string) ([]Line, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (s *FileStore) Save(_ context.Context, key string, lines []Line) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cart: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write cart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replace cart: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
