package session

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// Store хранилище состояния диалогов по telegram id
type Store interface {
	Load(ctx context.Context, userID int64) (domain.SessionBag, error)
	Save(ctx context.Context, userID int64, bag domain.SessionBag) error
	Delete(ctx context.Context, userID int64) error
}
