package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/admin/tg-bots/market-bot/internal/app"
)

const appName = "market_bot"

func main() {
	if err := run(); err != nil {
		slog.Error("market bot stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.NewEnvConfig(appName)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.New(appName, cfg).Run(ctx)
}
