package telegram

import (
	"context"
	"time"

	"log/slog"
	"net/http"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

const (
	telegramAPIBaseURL  = "https://api.telegram.org"
	apiTimeout          = 30 * time.Second
	defaultParseMode    = "HTML"
	maxMessageTextRunes = 4096
)

// Client клиент для работы с Telegram Bot API
type Client struct {
	httpClient *http.Client
	apiURL     string
	baseURL    string
	token      string
	log        *slog.Logger
}

// NewClient создаёт новый клиент для Telegram Bot API
func NewClient(token string, log *slog.Logger) *Client {
	return NewClientWithURL(telegramAPIBaseURL, token, log)
}

// NewClientWithURL клиент с другим адресом API (локальный Bot API сервер, тесты)
func NewClientWithURL(apiURL, token string, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
		apiURL:  apiURL,
		baseURL: apiURL + "/bot" + token,
		token:   token,
		log:     log,
	}
}

// inlineKeyboardMarkup разметка inline-клавиатуры
type inlineKeyboardMarkup struct {
	InlineKeyboard domain.Keyboard `json:"inline_keyboard"`
}

func markup(keyboard domain.Keyboard) *inlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}
	return &inlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID                int64                 `json:"chat_id"`
	MessageThreadID       *int64                `json:"message_thread_id,omitempty"`
	Text                  string                `json:"text"`
	ParseMode             string                `json:"parse_mode,omitempty"` // "HTML", "Markdown", "MarkdownV2"
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *inlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// SendMessageResult результат отправки сообщения
type SendMessageResult struct {
	MessageID int64 `json:"message_id"`
	Chat      struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Date int64 `json:"date"`
}

// SendMessage отправляет текстовое сообщение
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.SendMessageWithKeyboard(ctx, chatID, text, nil)
	return err
}

// SendMessageToThread отправляет сообщение в топик форума, threadID может быть nil
func (c *Client) SendMessageToThread(ctx context.Context, chatID int64, threadID *int64, text string) error {
	req := SendMessageRequest{
		ChatID:                chatID,
		MessageThreadID:       threadID,
		Text:                  truncateRunes(text, maxMessageTextRunes),
		ParseMode:             defaultParseMode,
		DisableWebPagePreview: true,
	}
	return c.callJSON(ctx, "sendMessage", req, nil)
}

// SendMessageWithKeyboard отправляет сообщение с inline-клавиатурой и возвращает message_id
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) (int64, error) {
	req := SendMessageRequest{
		ChatID:                chatID,
		Text:                  truncateRunes(text, maxMessageTextRunes),
		ParseMode:             defaultParseMode,
		DisableWebPagePreview: true,
		ReplyMarkup:           markup(keyboard),
	}

	var result SendMessageResult
	if err := c.callJSON(ctx, "sendMessage", req, &result); err != nil {
		return 0, err
	}

	c.log.Debug("message sent successfully",
		"chat_id", chatID,
		"message_id", result.MessageID,
	)
	return result.MessageID, nil
}

// EditMessageText редактирует сообщение меню. Ошибка "message is not modified" не считается ошибкой.
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, keyboard domain.Keyboard) error {
	req := struct {
		ChatID                int64                 `json:"chat_id"`
		MessageID             int64                 `json:"message_id"`
		Text                  string                `json:"text"`
		ParseMode             string                `json:"parse_mode,omitempty"`
		DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
		ReplyMarkup           *inlineKeyboardMarkup `json:"reply_markup,omitempty"`
	}{
		ChatID:                chatID,
		MessageID:             messageID,
		Text:                  truncateRunes(text, maxMessageTextRunes),
		ParseMode:             defaultParseMode,
		DisableWebPagePreview: true,
		ReplyMarkup:           markup(keyboard),
	}

	err := c.callJSON(ctx, "editMessageText", req, nil)
	if IsMessageNotModified(err) {
		return nil
	}
	return err
}

// GetMe получает информацию о боте
func (c *Client) GetMe(ctx context.Context) (*domain.TelegramUser, error) {
	var me domain.TelegramUser
	if err := c.callJSON(ctx, "getMe", struct{}{}, &me); err != nil {
		return nil, err
	}
	c.log.Info("bot info retrieved successfully", "username", me.Username)
	return &me, nil
}

// BotCommand представляет команду бота
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// SetMyCommands регистрирует команды бота в меню
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	reqBody := struct {
		Commands []BotCommand `json:"commands"`
	}{
		Commands: commands,
	}

	if err := c.callJSON(ctx, "setMyCommands", reqBody, nil); err != nil {
		return err
	}

	c.log.Info("bot commands registered successfully", "commands_count", len(commands))
	return nil
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
