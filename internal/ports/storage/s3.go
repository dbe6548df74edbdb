package storage

import "context"

// IS3Client объектное хранилище файлов товаров.
// PutFile возвращает ссылку s3://bucket/key, остальные методы принимают ссылку или ключ.
type IS3Client interface {
	PutFile(ctx context.Context, key string, data []byte, contentType string) (string, error)
	GetFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
}
