package repository

import (
	"context"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/google/uuid"
)

// IPayoutRepo интерфейс для работы с выплатами продавцам
type IPayoutRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payout, error)
	ListBySeller(ctx context.Context, sellerID int64, limit int) ([]*domain.Payout, error)
	ListByStatus(ctx context.Context, statuses []domain.PayoutStatus, limit int) ([]*domain.Payout, error)
	// MarkReady переводит pending выплаты с истёкшим эскроу в ready
	MarkReady(ctx context.Context, now time.Time) ([]*domain.Payout, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// UpdateOpenWallet переносит новый кошелёк продавца на ещё не выплаченные выплаты
	UpdateOpenWallet(ctx context.Context, sellerID int64, wallet string) (int64, error)

	CreateTx(ctx context.Context, tx persistence.Transaction, payout *domain.Payout) error
	ExistsForOrderTx(ctx context.Context, tx persistence.Transaction, orderID string) (bool, error)
}
