package pg

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Embedded(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Contains(t, migrations[0].Content, "CREATE TABLE")
}

func TestLoadMigrations_OrderAndDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_payouts.sql": {Data: []byte("SELECT 2")},
		"migrations/0001_init.sql":    {Data: []byte("SELECT 1")},
		"migrations/README.md":        {Data: []byte("notes")},
	}
	migrations, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, "payouts", migrations[1].Name)

	fsys["migrations/0002_other.sql"] = &fstest.MapFile{Data: []byte("SELECT 3")}
	_, err = loadMigrations(fsys)
	require.Error(t, err)
}

func TestParseMigrationName(t *testing.T) {
	v, name, err := parseMigrationName("0007_support_tickets.sql")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
	assert.Equal(t, "support_tickets", name)

	for _, bad := range []string{"init.sql", "abc_init.sql", "0000_zero.sql", "0003_.sql"} {
		_, _, err := parseMigrationName(bad)
		assert.Error(t, err, bad)
	}
}

func TestRunMigrations_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"migrations/0001_init.sql":   {Data: []byte("CREATE TABLE users (id BIGINT)")},
		"migrations/0002_orders.sql": {Data: []byte("CREATE TABLE orders (id TEXT)")},
	}

	mock.ExpectExec("pg_advisory_lock").WithArgs(migrationLockID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COALESCE").WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(int64(2), "orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec("pg_advisory_unlock").WithArgs(migrationLockID).WillReturnResult(sqlmock.NewResult(0, 0))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, runMigrations(context.Background(), sqlx.NewDb(db, "sqlmock"), fsys, log))
	assert.NoError(t, mock.ExpectationsWereMet())
}
