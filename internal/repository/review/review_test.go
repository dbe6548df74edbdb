package reviewRepo

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_DuplicateReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := New(pg.NewDB(sqlx.NewDb(db, "sqlmock")), slog.New(slog.NewTextHandler(io.Discard, nil)))

	comment := "solide"
	review := &domain.Review{
		ID:        uuid.New(),
		ProductID: "TBF-1",
		BuyerID:   5,
		Rating:    4,
		Comment:   &comment,
		CreatedAt: time.Now().UTC(),
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "reviews_product_id_buyer_id_key"})

	err = repo.Create(context.Background(), review)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
