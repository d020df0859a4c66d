package objectstore

import "context"

// MediaStorage интерфейс Media Store: бинарное хранилище с публичными URL
type MediaStorage interface {
	// Upload сохраняет объект под ключом и возвращает публичный URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// RemoveByURL удаляет объект по ранее выданному публичному URL
	RemoveByURL(ctx context.Context, rawURL string) error
}
