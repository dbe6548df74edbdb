package userRepo

import (
	"context"
	"database/sql"
	"errors"
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

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(pg.NewDB(sqlx.NewDb(db, "sqlmock")), log).(*Repository), mock
}

func TestTransferSeller_MovesProfileInOneTransaction(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT email FROM users WHERE telegram_id = $1 FOR UPDATE`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("seller@mail.fr"))
	// блокировка продавца переезжает вместе с профилем
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users AS dst SET`)+`(?s).*`+
		regexp.QuoteMeta(`status = CASE WHEN src.status = 'suspended' THEN src.status ELSE dst.status END`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_seller = FALSE`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET email = $2 WHERE telegram_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET seller_id = $2`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seller_payouts SET seller_id = $2`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.TransferSeller(context.Background(), 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferSeller_RollsBackWhenTargetMissing(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT email FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("seller@mail.fr"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users AS dst SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.TransferSeller(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByTelegramID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE telegram_id = $1`)).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)
	_, err := repo.GetByTelegramID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE telegram_id = $1`)).
		WithArgs(int64(9)).
		WillReturnError(errors.New("conn reset"))
	_, err = repo.GetByTelegramID(context.Background(), 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
