package telegram

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// IClient интерфейс для клиента Telegram API
type IClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, keyboard domain.Keyboard) error
	AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error
	SendDocument(ctx context.Context, chatID int64, file domain.OutgoingFile) error
	SendPhoto(ctx context.Context, chatID int64, messageThreadID *int64, photoData []byte, filename string) (string, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, string, error)
}
