package productRepo

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(pg.NewDB(sqlx.NewDb(db, "sqlmock")), log).(*Repository), mock
}

var productRowColumns = []string{
	"product_id", "seller_id", "title", "description", "category", "price_usd", "price_eur",
	"main_file_url", "file_name", "file_size_mb", "cover_image_url", "status", "admin_locked",
	"seller_suspended", "views_count", "sales_count", "rating", "reviews_count", "created_at", "updated_at",
}

func TestGetByID_ScansRow(t *testing.T) {
	repo, mock := newRepo(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE product_id = $1`)).
		WithArgs("TBF-1-000001").
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow("TBF-1-000001", int64(111), "Go", "", "programming", "50.00", "46.00",
				"tg:file-1", "course.zip", 1.5, nil, "suspended", true,
				true, int64(3), int64(1), 4.5, int64(2), at, at))

	p, err := repo.GetByID(context.Background(), "TBF-1-000001")
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusSuspended, p.Status)
	assert.True(t, p.AdminLocked)
	assert.True(t, p.SellerSuspended)
	assert.Equal(t, "46", p.PriceEUR.String())
	assert.Nil(t, p.CoverImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE product_id = $1`)).
		WithArgs("TBF-0").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "TBF-0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStatus_ClearsSellerMark(t *testing.T) {
	repo, mock := newRepo(t)
	query := regexp.QuoteMeta(`UPDATE products SET status = $2, admin_locked = $3, seller_suspended = FALSE, updated_at = NOW() WHERE product_id = $1`)

	mock.ExpectExec(query).
		WithArgs("TBF-1", domain.ProductStatusSuspended, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs("TBF-2", domain.ProductStatusActive, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetStatus(context.Background(), "TBF-1", domain.ProductStatusSuspended, true))
	err := repo.SetStatus(context.Background(), "TBF-2", domain.ProductStatusActive, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuspendBySeller_OnlyActiveUnlocked(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET status = $2, admin_locked = TRUE, seller_suspended = TRUE, updated_at = NOW()
		WHERE seller_id = $1 AND status = $3 AND NOT admin_locked`)).
		WithArgs(int64(111), domain.ProductStatusSuspended, domain.ProductStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.SuspendBySeller(context.Background(), 111)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestoreBySeller_OnlyMarked(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET status = $2, admin_locked = FALSE, seller_suspended = FALSE, updated_at = NOW()
		WHERE seller_id = $1 AND seller_suspended`)).
		WithArgs(int64(111), domain.ProductStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.RestoreBySeller(context.Background(), 111)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePrice_WritesBothCurrencies(t *testing.T) {
	repo, mock := newRepo(t)
	usd, eur := decimal.NewFromInt(80), decimal.RequireFromString("73.60")

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET price_usd = $2, price_eur = $3, updated_at = NOW() WHERE product_id = $1`)).
		WithArgs("TBF-1", usd, eur).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePrice(context.Background(), "TBF-1", usd, eur))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateField_RejectsUnknownField(t *testing.T) {
	repo, mock := newRepo(t)
	err := repo.UpdateField(context.Background(), "TBF-1", domain.ProductField("views"), 1)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, escapeLike(`50% off_now \o/`))
}
