package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// HandleUpdate Основной метод для обработки всех типов обновлений.
// Ошибки обработчиков не выходят наружу: пользователь получает сообщение об ошибке, бот продолжает работу.
func (s *Service) HandleUpdate(ctx context.Context, update *domain.Update) (err error) {
	if update == nil {
		return fmt.Errorf("update is nil")
	}
	if s.Handler == nil {
		return fmt.Errorf("bot handler is not set")
	}

	chatID := updateChatID(update)
	defer func() {
		if r := recover(); r != nil {
			s.Log.Error("panic in update handler",
				"panic", r,
				"update_id", update.UpdateID,
				"stack", string(debug.Stack()),
			)
			if chatID != 0 {
				s.Handler.ReportFailure(ctx, chatID, fmt.Errorf("panic: %v", r))
			}
			err = nil
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		err = s.HandleCallback(ctx, update.CallbackQuery, update.UpdateID)
	case update.Message != nil:
		err = s.HandleMessage(ctx, update.Message, update.UpdateID)
	default:
		return nil
	}

	if err != nil {
		s.Log.Error("update handling failed",
			"error", err,
			"update_id", update.UpdateID,
			"chat_id", chatID,
		)
		if chatID != 0 {
			s.Handler.ReportFailure(ctx, chatID, err)
		}
	}
	return nil
}

// HandleMessage обрабатывает входящее сообщение - роутинг в usecase
func (s *Service) HandleMessage(ctx context.Context, message *domain.Message, updateID int64) error {
	if message.From == nil || message.From.IsBot {
		s.Log.Debug("ignoring message from bot", "update_id", updateID)
		return nil
	}

	if message.Chat != nil && message.Chat.Type != "private" {
		s.Log.Warn("ignoring message from group/chat",
			"update_id", updateID,
			"chat_type", message.Chat.Type,
			"chat_id", message.Chat.ID,
		)
		return nil
	}

	user, err := s.Handler.GetOrCreateUser(ctx, message.From)
	if err != nil {
		return fmt.Errorf("failed to get or create user: %w", err)
	}

	switch {
	case message.Document != nil || message.Video != nil || len(message.Photo) > 0:
		return s.Handler.HandleUpload(ctx, user, message)
	case message.Text != nil && IsCommand(*message.Text):
		command, args := ParseCommand(*message.Text)
		chatID := message.From.ID
		if message.Chat != nil {
			chatID = message.Chat.ID
		}
		return s.Handler.HandleCommand(ctx, user, chatID, command, args)
	case message.Text != nil:
		return s.Handler.HandleText(ctx, user, message)
	}
	return nil
}

// HandleCallback нажатие inline-кнопки
func (s *Service) HandleCallback(ctx context.Context, query *domain.CallbackQuery, updateID int64) error {
	if query.From == nil || query.Data == nil {
		s.Log.Debug("ignoring callback without sender or data", "update_id", updateID)
		return nil
	}
	user, err := s.Handler.GetOrCreateUser(ctx, query.From)
	if err != nil {
		return fmt.Errorf("failed to get or create user: %w", err)
	}
	return s.Handler.HandleCallback(ctx, user, query)
}

func updateChatID(update *domain.Update) int64 {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	}
	return 0
}

// ParseCommand "/start@market_bot ref_42" -> ("start", "ref_42")
func ParseCommand(text string) (string, string) {
	text = strings.TrimPrefix(text, "/")

	args := ""
	if idx := strings.IndexAny(text, " \n"); idx != -1 {
		args = strings.TrimSpace(text[idx+1:])
		text = text[:idx]
	}

	if idx := strings.Index(text, "@"); idx != -1 {
		text = text[:idx]
	}

	return strings.ToLower(text), args
}

func IsCommand(text string) bool {
	return len(text) > 0 && text[0] == '/'
}
