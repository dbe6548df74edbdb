package alerter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/telegram"
)

type threadSender interface {
	SendMessageToThread(ctx context.Context, chatID int64, threadID *int64, text string) error
}

// Client пишет алерты в служебный чат или топик форума
type Client struct {
	sender   threadSender
	chatID   int64
	threadID *int64
	log      *slog.Logger
}

// NewClient алерты шлёт отдельный бот, если задан его токен, иначе основной.
// Без чата возвращает nil.
func NewClient(cfg *Config, mainClient *telegram.Client, log *slog.Logger) *Client {
	if !cfg.Enabled() {
		return nil
	}

	var sender threadSender = mainClient
	if cfg.BotToken != "" {
		sender = telegram.NewClient(cfg.BotToken, log)
	}
	return newClient(sender, cfg.ChatID, cfg.MessageThreadID, log)
}

func newClient(sender threadSender, chatID int64, threadID *int64, log *slog.Logger) *Client {
	return &Client{
		sender:   sender,
		chatID:   chatID,
		threadID: threadID,
		log:      log.With("component", "alerter", "chat_id", chatID),
	}
}

func (c *Client) SendAlert(ctx context.Context, message string) error {
	if err := c.sender.SendMessageToThread(ctx, c.chatID, c.threadID, message); err != nil {
		c.log.Warn("failed to send alert", "error", err)
		return fmt.Errorf("send alert: %w", err)
	}
	c.log.Debug("alert sent")
	return nil
}
