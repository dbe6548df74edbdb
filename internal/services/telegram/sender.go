package telegram

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// SendMessage отправляет текстовое сообщение пользователю
func (s *Service) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := s.Client.SendMessage(ctx, chatID, text); err != nil {
		s.Log.Error("failed to send message",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.Log.Debug("message sent successfully", "chat_id", chatID)
	return nil
}

// SendMessageWithKeyboard отправляет сообщение с клавиатурой, возвращает id сообщения
func (s *Service) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) (int64, error) {
	messageID, err := s.Client.SendMessageWithKeyboard(ctx, chatID, text, keyboard)
	if err != nil {
		s.Log.Error("failed to send message with keyboard",
			"error", err,
			"chat_id", chatID,
		)
		return 0, fmt.Errorf("failed to send message with keyboard: %w", err)
	}

	s.Log.Debug("message with keyboard sent successfully",
		"chat_id", chatID,
		"message_id", messageID,
	)
	return messageID, nil
}

// EditMessage меняет текст и клавиатуру сообщения; если сообщение нельзя изменить, отправляет новое
func (s *Service) EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard domain.Keyboard) error {
	if messageID == 0 {
		_, err := s.SendMessageWithKeyboard(ctx, chatID, text, keyboard)
		return err
	}
	err := s.Client.EditMessageText(ctx, chatID, messageID, text, keyboard)
	if err == nil || telegram.IsMessageNotModified(err) {
		return nil
	}
	s.Log.Warn("failed to edit message, sending a new one",
		"error", err,
		"chat_id", chatID,
		"message_id", messageID,
	)
	_, err = s.SendMessageWithKeyboard(ctx, chatID, text, keyboard)
	return err
}

// AnswerCallbackQuery отправляет ответ на callback query
func (s *Service) AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error {
	if callbackID == "" {
		return nil
	}
	if err := s.Client.AnswerCallbackQuery(ctx, callbackID, text, showAlert); err != nil {
		// query мог устареть, это не ошибка обработки
		s.Log.Warn("failed to answer callback query",
			"error", err,
			"callback_id", callbackID,
		)
	}
	return nil
}

// SendDocument отправляет файл товара
func (s *Service) SendDocument(ctx context.Context, chatID int64, file domain.OutgoingFile) error {
	if err := s.Client.SendDocument(ctx, chatID, file); err != nil {
		s.Log.Error("failed to send document",
			"error", err,
			"chat_id", chatID,
			"file_name", file.Name,
		)
		return fmt.Errorf("failed to send document: %w", err)
	}

	s.Log.Debug("document sent successfully",
		"chat_id", chatID,
		"file_name", file.Name,
	)
	return nil
}

// SendPhoto отправляет картинку (QR-код оплаты)
func (s *Service) SendPhoto(ctx context.Context, chatID int64, photo []byte, filename string) error {
	if _, err := s.Client.SendPhoto(ctx, chatID, nil, photo, filename); err != nil {
		s.Log.Error("failed to send photo",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}
