package categoryRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	ports "github.com/admin/tg-bots/market-bot/internal/ports/repository"

	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
)

const listQuery = `SELECT c.key, c.name, c.emoji, c.sort_order,
	(SELECT COUNT(*) FROM products p WHERE p.category = c.key AND p.status = 'active') AS products_count
	FROM categories c`

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func New(db persistence.Persistence, log *slog.Logger) ports.ICategoryRepo {
	return &Repository{db: db, Log: log}
}

// List категории в порядке отображения с количеством активных товаров
func (r *Repository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := r.db.Select(ctx, &categories, listQuery+` ORDER BY c.sort_order, c.key`); err != nil {
		r.Log.Error("failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *Repository) GetByKey(ctx context.Context, key string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.Get(ctx, &category, listQuery+` WHERE c.key = $1`, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", key, domain.ErrNotFound)
		}
		r.Log.Error("failed to get category", "error", err, "key", key)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// Counters последовательные счётчики идентификаторов в таблице id_counters
type Counters struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func NewCounters(db persistence.Persistence, log *slog.Logger) ports.ICounterRepo {
	return &Counters{db: db, Log: log}
}

// Next увеличивает счётчик одним UPDATE ... RETURNING,
// конкурентные вызовы сериализуются блокировкой строки.
func (c *Counters) Next(ctx context.Context, counter domain.CounterType) (int64, error) {
	var value int64
	query := `INSERT INTO id_counters (counter_type, last_value) VALUES ($1, 1)
		ON CONFLICT (counter_type) DO UPDATE SET last_value = id_counters.last_value + 1
		RETURNING last_value`
	if err := c.db.QueryRow(ctx, query, counter).Scan(&value); err != nil {
		c.Log.Error("failed to increment counter", "error", err, "counter", counter)
		return 0, fmt.Errorf("failed to increment counter %s: %w", counter, err)
	}
	return value, nil
}
