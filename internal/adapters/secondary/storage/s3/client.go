package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/minio/minio-go/v7"
)

const (
	refScheme          = "s3://"
	defaultContentType = "application/octet-stream"
)

// ErrObjectTooLarge объект больше MAX_OBJECT_MB
var ErrObjectTooLarge = errors.New("object too large")

// Client файлы товаров в одном бакете. Наружу отдаются ссылки s3://bucket/key,
// методы принимают как ссылку, так и голый ключ.
type Client struct {
	client   *minio.Client
	bucket   string
	maxBytes int64
	log      *slog.Logger
}

func NewClient(client *minio.Client, cfg *Config, log *slog.Logger) *Client {
	return &Client{
		client:   client,
		bucket:   cfg.Bucket,
		maxBytes: cfg.MaxObjectBytes(),
		log:      log.With("component", "s3", "bucket", cfg.Bucket),
	}
}

func (c *Client) PutFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = c.objectKey(key)
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return "", fmt.Errorf("put %s (%d bytes): %w", key, len(data), ErrObjectTooLarge)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		c.log.Error("failed to upload object", "key", key, "size", len(data), "error", err)
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	c.log.Debug("object uploaded", "key", key, "size", len(data))
	return c.Ref(key), nil
}

func (c *Client) GetFile(ctx context.Context, key string) ([]byte, error) {
	key = c.objectKey(key)
	object, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError("get", key, err)
	}
	defer object.Close()

	// GetObject ленивый: ошибка NoSuchKey приходит при первом чтении
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, mapError("read", key, err)
	}
	return data, nil
}

// DeleteFile удаление отсутствующего объекта не считается ошибкой
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	key = c.objectKey(key)
	if err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if errors.Is(mapError("remove", key, err), domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("remove %s: %w", key, err)
	}
	c.log.Debug("object removed", "key", key)
	return nil
}

func (c *Client) Ref(key string) string {
	return refScheme + c.bucket + "/" + key
}

// objectKey s3://bucket/a/b.pdf -> a/b.pdf; ключ без схемы возвращается как есть
func (c *Client) objectKey(refOrKey string) string {
	rest, ok := strings.CutPrefix(refOrKey, refScheme)
	if !ok {
		return strings.TrimPrefix(refOrKey, "/")
	}
	if key, ok := strings.CutPrefix(rest, c.bucket+"/"); ok {
		return key
	}
	// чужой бакет в ссылке: берём путь после первого сегмента
	if _, key, ok := strings.Cut(rest, "/"); ok {
		return key
	}
	return rest
}

func mapError(op, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return fmt.Errorf("%s %s: %w", op, key, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s %s: %w", op, key, err)
	}
}
