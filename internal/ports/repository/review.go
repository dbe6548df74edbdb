package repository

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

type IReviewRepo interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]*domain.Review, error)
}
