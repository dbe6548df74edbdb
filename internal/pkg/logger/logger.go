package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Encoding string `envconfig:"ENCODING"`
	Level    string `envconfig:"LEVEL"`
}

// секреты не попадают в лог ни при каком уровне
var redactedKeys = map[string]bool{
	"password":      true,
	"password_hash": true,
	"api_key":       true,
	"secret":        true,
	"token":         true,
	"recovery_code": true,
}

// адреса почты покупателей и продавцов маскируются
var maskedKeys = map[string]bool{
	"email": true,
	"to":    true,
}

// New json в stdout для прода, text в stderr для локальной разработки
func New(app string, cfg *Config) *slog.Logger {
	w := io.Writer(os.Stderr)
	if cfg != nil && cfg.Encoding == "json" {
		w = os.Stdout
	}
	logger := slog.New(NewHandler(w, cfg)).With("app", app)
	slog.SetDefault(logger)
	return logger
}

func NewHandler(w io.Writer, cfg *Config) slog.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		AddSource:   true,
		ReplaceAttr: sanitize,
	}

	switch cfg.Encoding {
	case "json":
		return slog.NewJSONHandler(w, opts)
	case "", "console":
		return slog.NewTextHandler(w, opts)
	default:
		panic(fmt.Errorf("invalid logger config: encoding %s is not supported", cfg.Encoding))
	}
}

func sanitize(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	switch {
	case redactedKeys[key]:
		return slog.String(a.Key, "[redacted]")
	case maskedKeys[key] && a.Value.Kind() == slog.KindString:
		return slog.String(a.Key, MaskEmail(a.Value.String()))
	}
	return a
}

// MaskEmail j***@example.com
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return email
	}
	return local[:1] + "***@" + domain
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "", "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Errorf("invalid logger config: level %s is not supported", level))
	}
}
