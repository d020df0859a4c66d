package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"drift_inc/internal/storage"
)

// LocalStorage реализация MediaStorage на локальной файловой системе,
// используется для локальной разработки и тестов
type LocalStorage struct {
	baseDir string
	baseURL string
}

func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	const op = "objectstore.LocalStorage.Upload"

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", op, storage.ErrEmptyObject)
	}

	filePath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *LocalStorage) RemoveByURL(ctx context.Context, rawURL string) error {
	const op = "objectstore.LocalStorage.RemoveByURL"

	key := strings.TrimPrefix(rawURL, s.baseURL+"/")
	if key == rawURL || key == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrForeignURL)
	}

	filePath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrObjectNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
