package categoryRepo

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_NextIsStrictlyIncreasing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	counters := NewCounters(pg.NewDB(sqlx.NewDb(db, "sqlmock")), slog.New(slog.NewTextHandler(io.Discard, nil)))
	query := regexp.QuoteMeta(`RETURNING last_value`)
	for i := int64(1); i <= 3; i++ {
		mock.ExpectQuery(query).
			WithArgs(domain.CounterProduct).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(i))
	}

	var prev int64
	for i := 0; i < 3; i++ {
		v, err := counters.Next(context.Background(), domain.CounterProduct)
		require.NoError(t, err)
		assert.Greater(t, v, prev)
		prev = v
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ScansCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := New(pg.NewDB(sqlx.NewDb(db, "sqlmock")), slog.New(slog.NewTextHandler(io.Discard, nil)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM categories c ORDER BY c.sort_order`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "name", "emoji", "sort_order", "products_count"}).
			AddRow("finance", "Finance", "💰", 1, 4).
			AddRow("tech", "Tech", "💻", 3, 0))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "finance", categories[0].Key)
	assert.Equal(t, int64(4), categories[0].ProductsCount)
	assert.Equal(t, "💻 Tech", categories[1].Label())
}
