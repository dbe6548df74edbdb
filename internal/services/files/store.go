package files

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/storage"
	"github.com/admin/tg-bots/market-bot/internal/ports/telegram"
	"github.com/google/uuid"
)

const (
	telegramRefPrefix = "tg:"
	s3RefPrefix       = "s3://"
)

// Store файлы товаров: в S3 (Backblaze B2), если он настроен, иначе ссылка на file_id в Telegram.
// Ссылка хранится в products.main_file_url / cover_image_url.
type Store struct {
	s3  storage.IS3Client
	tg  telegram.IClient
	log *slog.Logger
}

func NewStore(s3 storage.IS3Client, tg telegram.IClient, log *slog.Logger) *Store {
	return &Store{s3: s3, tg: tg, log: log}
}

// Save сохраняет присланный пользователем файл и возвращает ссылку на него
func (s *Store) Save(ctx context.Context, fileID, folder, name string) (string, error) {
	if s.s3 == nil {
		return telegramRefPrefix + fileID, nil
	}

	data, tgPath, err := s.tg.DownloadFile(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("failed to download telegram file: %w", err)
	}
	if name == "" {
		name = path.Base(tgPath)
	}

	objectPath := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), strings.ToLower(filepath.Ext(name)))
	ref, err := s.s3.PutFile(ctx, objectPath, data, contentType(name))
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	s.log.Debug("file stored", "ref", ref, "size", len(data))
	return ref, nil
}

// Open файл для отправки по ссылке
func (s *Store) Open(ctx context.Context, ref, name, caption string) (domain.OutgoingFile, error) {
	switch {
	case strings.HasPrefix(ref, telegramRefPrefix):
		return domain.OutgoingFile{
			Name:    name,
			FileID:  strings.TrimPrefix(ref, telegramRefPrefix),
			Caption: caption,
		}, nil
	case strings.HasPrefix(ref, s3RefPrefix):
		if s.s3 == nil {
			return domain.OutgoingFile{}, fmt.Errorf("file %s is in object storage but storage is not configured", ref)
		}
		data, err := s.s3.GetFile(ctx, ref)
		if err != nil {
			return domain.OutgoingFile{}, fmt.Errorf("failed to fetch file: %w", err)
		}
		return domain.OutgoingFile{Name: name, Data: data, Caption: caption}, nil
	default:
		return domain.OutgoingFile{}, fmt.Errorf("unknown file reference %q", ref)
	}
}

// Delete удаляет файл из S3, ссылки на Telegram не трогает
func (s *Store) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s3RefPrefix) || s.s3 == nil {
		return nil
	}
	if err := s.s3.DeleteFile(ctx, ref); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
