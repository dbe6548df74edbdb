package service

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// ITelegramService отправка сообщений пользователям бота
type ITelegramService interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) (int64, error)
	EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard domain.Keyboard) error
	AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error
	SendDocument(ctx context.Context, chatID int64, file domain.OutgoingFile) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, filename string) error
}

// IBotHandler обработчики бота
type IBotHandler interface {
	HandleCommand(ctx context.Context, user *domain.User, chatID int64, command string, args string) error
	HandleText(ctx context.Context, user *domain.User, msg *domain.Message) error
	HandleUpload(ctx context.Context, user *domain.User, msg *domain.Message) error
	HandleCallback(ctx context.Context, user *domain.User, query *domain.CallbackQuery) error
	GetOrCreateUser(ctx context.Context, tgUser *domain.TelegramUser) (*domain.User, error)
	ReportFailure(ctx context.Context, chatID int64, err error)
}
