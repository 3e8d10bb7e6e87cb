package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Storage - хранилище файлов поддержек курсов
type Storage interface {
	// Save сохраняет файл и возвращает число записанных байт
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)

	// Open открывает файл для чтения
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает публичный URL файла
	GetURL(path string) string
}

// Config holds storage configuration
type Config struct {
	Type     string // local
	BasePath string
	BaseURL  string
}

// NewStorage создает хранилище по конфигурации
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
