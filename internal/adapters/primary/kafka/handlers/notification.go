package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	kafkaPorts "github.com/admin/tg-bots/market-bot/internal/ports/kafka"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
)

// NotificationHandler отправляет письма из событий шины уведомлений
type NotificationHandler struct {
	Sender service.IEmailSender
	Log    *slog.Logger
}

// NewNotificationHandler создаёт handler событий уведомлений
func NewNotificationHandler(sender service.IEmailSender, log *slog.Logger) kafkaPorts.MessageHandler {
	return &NotificationHandler{
		Sender: sender,
		Log:    log,
	}
}

// HandleMessage битое событие помечается бизнес-ошибкой и пропускается,
// ошибка отправки возвращается как есть, offset не коммитится
func (h *NotificationHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	var event domain.Event
	if err := json.Unmarshal(value, &event); err != nil {
		h.Log.Warn("malformed notification event", "key", key, "error", err)
		return domain.WrapBusinessError(fmt.Errorf("failed to unmarshal event: %w", err))
	}

	switch event.Type {
	case domain.EventEmailRequested:
		if event.Email == nil || event.Email.To == "" {
			h.Log.Warn("email event without recipient", "key", key)
			return domain.WrapBusinessError(fmt.Errorf("email event %s has no recipient", key))
		}
		if err := h.Sender.Send(ctx, *event.Email); err != nil {
			return fmt.Errorf("failed to send email for %s: %w", key, err)
		}
		h.Log.Debug("email event processed", "key", key, "event_id", event.ID, "subject", event.Email.Subject)
		return nil
	default:
		h.Log.Debug("ignoring notification event", "type", event.Type, "key", key)
		return nil
	}
}
