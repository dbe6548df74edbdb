package payoutRepo

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
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
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

var payoutRowColumns = []string{
	"id", "seller_id", "order_ids", "total_amount_usd", "wallet_address",
	"currency", "status", "release_after", "created_at", "completed_at",
}

func TestMarkReady_ReturnsReleasedPayouts(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE seller_payouts SET status = $1 WHERE status = $2 AND release_after <= $3 RETURNING`)).
		WithArgs(domain.PayoutStatusReady, domain.PayoutStatusPending, now).
		WillReturnRows(sqlmock.NewRows(payoutRowColumns).
			AddRow(id.String(), int64(77), "{ORD-1}", "9.50", "So1anaWa11et", "SOL", "ready", now.Add(-time.Hour), now.Add(-25*time.Hour), nil))

	payouts, err := repo.MarkReady(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, id, payouts[0].ID)
	assert.Equal(t, []string{"ORD-1"}, []string(payouts[0].OrderIDs))
	assert.Equal(t, "9.5", payouts[0].TotalAmountUSD.String())
	assert.Nil(t, payouts[0].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCompleted_IsIdempotent(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()
	at := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(`UPDATE seller_payouts SET status = $2, completed_at = $3 WHERE id = $1 AND status <> $2`)

	mock.ExpectExec(query).WithArgs(id, domain.PayoutStatusCompleted, at).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(id, domain.PayoutStatusCompleted, at).WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.MarkCompleted(context.Background(), id, at)
	require.NoError(t, err)
	second, err := repo.MarkCompleted(context.Background(), id, at)
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM seller_payouts WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOpenWallet_TouchesOnlyUnpaid(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seller_payouts SET wallet_address = $2 WHERE seller_id = $1 AND status = ANY($3)`)).
		WithArgs(int64(77), "NewWa11et", pq.StringArray{"pending", "ready"}).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.UpdateOpenWallet(context.Background(), 77, "NewWa11et")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
