package pg

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	defaultStatementTimeoutMillis = 60000
	applicationName               = "market-bot"
)

type Config struct {
	Host                   string        `envconfig:"HOST"`
	Port                   string        `envconfig:"PORT" default:"5432"`
	Username               string        `envconfig:"USERNAME"`
	Password               string        `envconfig:"PASSWORD"`
	Database               string        `envconfig:"DATABASE"`
	SSLMode                string        `envconfig:"SSL_MODE" default:"disable"`
	MigrateOnStart         bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	StatementTimeoutMillis int           `envconfig:"STATEMENT_TIMEOUT" default:"60000"`
	MaxOpenConns           int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns           int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime        time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"5m"`
	ConnMaxIdleTime        time.Duration `envconfig:"CONN_MAX_IDLE_TIME" default:"1m"`
}

// DSN строка подключения в URL-форме: пароль со спецсимволами экранируется
func (c *Config) DSN() string {
	timeout := c.StatementTimeoutMillis
	if timeout <= 0 {
		timeout = defaultStatementTimeoutMillis
	}
	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	query.Set("application_name", applicationName)
	query.Set("statement_timeout", strconv.Itoa(timeout))

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}

// NewConnection пул sqlx поверх pgx; statement_timeout задаётся параметром сессии,
// поэтому действует на каждое соединение пула
func (c *Config) NewConnection() (*sqlx.DB, error) {
	connConfig, err := pgx.ParseConfig(c.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	db, err := sqlx.Connect("pgx", stdlib.RegisterConnConfig(connConfig))
	if err != nil {
		return nil, fmt.Errorf("connect db error: %w", err)
	}

	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	return db, nil
}
