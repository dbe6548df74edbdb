package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const webhookDeleteTimeout = 10 * time.Second

// runServices HTTP (IPN и webhook), polling, kafka consumer и джобы живут в одной errgroup:
// падение любого из них останавливает остальные
func (a *App) runServices(ctx context.Context, deps *Dependencies) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server", "host", a.Cfg.Server.Host, "port", a.Cfg.Server.Port)
		if err := deps.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if a.Cfg.Telegram.IsWebhookEnabled() {
		a.Log.Info("telegram updates mode: webhook", "webhook_url", a.Cfg.Telegram.WebhookURL)
	} else {
		g.Go(func() error {
			return a.runPolling(gCtx, deps)
		})
	}

	if deps.KafkaConsumer != nil {
		g.Go(func() error {
			a.Log.Info("starting kafka consumer", "topic", a.Cfg.Kafka.Topic)
			return deps.KafkaConsumer.Start(gCtx)
		})
	}

	if deps.JobScheduler != nil {
		g.Go(func() error {
			return deps.JobScheduler.Start(gCtx)
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := deps.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("failed to shutdown http server", "error", err)
		}
		return nil
	})

	err := g.Wait()
	a.closeDependencies(deps)
	if err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}
	a.Log.Info("application shutdown completed")
	return nil
}

// closeDependencies вызывается после остановки всех потребителей: сначала kafka
// (producer дописывает очередь писем), затем кэш, база последней
func (a *App) closeDependencies(deps *Dependencies) {
	closers := []struct {
		name   string
		closer io.Closer
	}{
		{"kafka consumer", nilIfAbsent(deps.KafkaConsumer != nil, deps.KafkaConsumer)},
		{"kafka producer", nilIfAbsent(deps.KafkaProducer != nil, deps.KafkaProducer)},
		{"cache", nilIfAbsent(deps.Cache != nil, deps.Cache)},
		{"database", nilIfAbsent(deps.DB != nil, deps.DB)},
	}
	for _, c := range closers {
		if c.closer == nil {
			continue
		}
		if err := c.closer.Close(); err != nil {
			a.Log.Error("failed to close "+c.name, "error", err)
		}
	}
}

func nilIfAbsent(present bool, c io.Closer) io.Closer {
	if !present {
		return nil
	}
	return c
}

// runPolling снимает webhook и читает getUpdates до отмены контекста
func (a *App) runPolling(ctx context.Context, deps *Dependencies) error {
	if deps.TelegramPoller == nil {
		return fmt.Errorf("telegram poller is not initialized")
	}

	deleteCtx, cancel := context.WithTimeout(ctx, webhookDeleteTimeout)
	defer cancel()

	if err := deps.TelegramClient.DeleteWebhook(deleteCtx); err != nil {
		// поллер сам переживёт 409, пока Telegram не снимет webhook
		a.Log.Warn("failed to delete webhook, continuing anyway", "error", err)
	} else {
		a.Log.Info("webhook deleted, starting polling")
	}

	return deps.TelegramPoller.Start(ctx)
}
