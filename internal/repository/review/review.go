package reviewRepo

import (
	"context"
	"fmt"

	ports "github.com/admin/tg-bots/market-bot/internal/ports/repository"

	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
)

const reviewColumns = "id, product_id, buyer_id, rating, comment, created_at"

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func New(db persistence.Persistence, log *slog.Logger) ports.IReviewRepo {
	return &Repository{db: db, Log: log}
}

// Create сохраняет отзыв. Повторный отзыв того же покупателя даёт ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, review *domain.Review) error {
	err := r.db.Exec(ctx, `INSERT INTO reviews (`+reviewColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID,
		review.ProductID,
		review.BuyerID,
		review.Rating,
		review.Comment,
		review.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			r.Log.Warn("duplicate review", "product_id", review.ProductID, "buyer_id", review.BuyerID)
		} else {
			r.Log.Error("failed to create review", "error", err, "product_id", review.ProductID)
		}
		return pg.MapError("failed to create review", err)
	}
	return nil
}

func (r *Repository) ListByProduct(ctx context.Context, productID string, limit int) ([]*domain.Review, error) {
	var reviews []*domain.Review
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2`
	if err := r.db.Select(ctx, &reviews, query, productID, limit); err != nil {
		r.Log.Error("failed to list reviews", "error", err, "product_id", productID)
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
