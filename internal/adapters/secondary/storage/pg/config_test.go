package pg

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DSNEscapesPassword(t *testing.T) {
	cfg := &Config{
		Host:     "db.internal",
		Port:     "5432",
		Username: "market",
		Password: "p@ss word/:?",
		Database: "market",
		SSLMode:  "disable",
	}

	parsed, err := pgx.ParseConfig(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal", parsed.Host)
	assert.Equal(t, uint16(5432), parsed.Port)
	assert.Equal(t, "p@ss word/:?", parsed.Password)
	assert.Equal(t, "market", parsed.Database)
	assert.Equal(t, "60000", parsed.RuntimeParams["statement_timeout"])
	assert.Equal(t, "market-bot", parsed.RuntimeParams["application_name"])
}
