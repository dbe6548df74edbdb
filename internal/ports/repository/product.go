package repository

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

// IProductRepo интерфейс для работы с товарами
type IProductRepo interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, productID string) (*domain.Product, error)
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]*domain.Product, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Product, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Product, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	UpdateField(ctx context.Context, productID string, field domain.ProductField, value interface{}) error
	// UpdatePrice меняет цену в долларах вместе с витринной ценой в евро
	UpdatePrice(ctx context.Context, productID string, priceUSD, priceEUR decimal.Decimal) error
	SetStatus(ctx context.Context, productID string, status domain.ProductStatus, adminLocked bool) error
	// SuspendBySeller снимает активные товары продавца и помечает их seller_suspended
	SuspendBySeller(ctx context.Context, sellerID int64) (int64, error)
	// RestoreBySeller возвращает только товары, снятые вместе с продавцом
	RestoreBySeller(ctx context.Context, sellerID int64) (int64, error)
	IncrementViews(ctx context.Context, productID string) error
	UpdateRating(ctx context.Context, productID string) error
	Delete(ctx context.Context, productID string, sellerID int64) error
	Count(ctx context.Context) (total int64, active int64, err error)

	IncrementSalesTx(ctx context.Context, tx persistence.Transaction, productID string) error
}
