package repository

import (
	"context"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

// IOrderRepo интерфейс для работы с заказами
type IOrderRepo interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetByGatewayID(ctx context.Context, paymentID string) (*domain.Order, error)
	FindOpen(ctx context.Context, buyerID int64, productID string, since time.Time) (*domain.Order, error)
	HasCompleted(ctx context.Context, buyerID int64, productID string) (bool, error)
	ListCompletedByBuyer(ctx context.Context, buyerID int64) ([]*domain.Order, error)
	ListCompletedBySeller(ctx context.Context, sellerID int64, limit int) ([]*domain.Order, error)
	// UpdateStatus меняет статус только если текущий статус один из from
	UpdateStatus(ctx context.Context, orderID string, to domain.PaymentStatus, from ...domain.PaymentStatus) (bool, error)
	ExpireStale(ctx context.Context, before time.Time) (int64, error)
	// ClaimDelivery атомарно ставит file_delivered=true, false если файл уже доставлен
	ClaimDelivery(ctx context.Context, orderID string) (bool, error)
	ReleaseDelivery(ctx context.Context, orderID string) error
	IncrementDownloads(ctx context.Context, orderID string) error
	Stats(ctx context.Context) (completed int64, volume decimal.Decimal, err error)

	WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error
	// MarkCompletedTx переводит заказ в completed, false если он уже был completed
	MarkCompletedTx(ctx context.Context, tx persistence.Transaction, orderID string, at time.Time) (bool, error)
}
