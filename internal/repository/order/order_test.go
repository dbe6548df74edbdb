package orderRepo

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
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := New(pg.NewDB(sqlx.NewDb(db, "sqlmock")), log).(*Repository)
	return repo, mock
}

func TestClaimDelivery_OnlyFirstCallerWins(t *testing.T) {
	repo, mock := newRepo(t)
	query := regexp.QuoteMeta(`UPDATE orders SET file_delivered = TRUE WHERE order_id = $1 AND file_delivered = FALSE`)

	mock.ExpectExec(query).
		WithArgs("ORD-1", domain.PaymentStatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs("ORD-1", domain.PaymentStatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.ClaimDelivery(context.Background(), "ORD-1")
	require.NoError(t, err)
	second, err := repo.ClaimDelivery(context.Background(), "ORD-1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCompletedTx_SkipsAlreadyCompleted(t *testing.T) {
	repo, mock := newRepo(t)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	query := regexp.QuoteMeta(`UPDATE orders SET payment_status = $2, completed_at = $3 WHERE order_id = $1 AND payment_status <> $2`)

	mock.ExpectBegin()
	mock.ExpectExec(query).
		WithArgs("ORD-7", domain.PaymentStatusCompleted, at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	var applied bool
	err := repo.WithTransaction(context.Background(), func(ctx context.Context, tx persistence.Transaction) error {
		var err error
		applied, err = repo.MarkCompletedTx(ctx, tx, "ORD-7", at)
		return err
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_BuildsSourceStatusList(t *testing.T) {
	repo, mock := newRepo(t)
	query := regexp.QuoteMeta(`UPDATE orders SET payment_status = $2 WHERE order_id = $1 AND payment_status IN ($3, $4)`)

	mock.ExpectExec(query).
		WithArgs("ORD-2", domain.PaymentStatusExpired, domain.PaymentStatusPending, domain.PaymentStatusWaiting).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateStatus(context.Background(), "ORD-2", domain.PaymentStatusExpired,
		domain.PaymentStatusPending, domain.PaymentStatusWaiting)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_RequiresSourceStatuses(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.UpdateStatus(context.Background(), "ORD-2", domain.PaymentStatusExpired)
	assert.Error(t, err)
}

func TestGetByGatewayID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE nowpayments_id = $1`)).
		WithArgs("np-404").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	_, err := repo.GetByGatewayID(context.Background(), "np-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
