package domain

// дока - https://core.telegram.org/bots/api

// Update - входящее обновление от Telegram Bot API
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// CallbackQuery - callback query от Telegram Bot API
type CallbackQuery struct {
	ID      string        `json:"id"`
	From    *TelegramUser `json:"from,omitempty"`
	Message *Message      `json:"message,omitempty"`
	Data    *string       `json:"data,omitempty"` // данные callback кнопки
}

// Message - сообщение от Telegram Bot API
type Message struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from,omitempty"`
	Chat      *Chat         `json:"chat"`
	Date      int64         `json:"date"`
	Text      *string       `json:"text,omitempty"`
	Caption   *string       `json:"caption,omitempty"`
	Entities  []Entity      `json:"entities,omitempty"`
	Document  *Document     `json:"document,omitempty"`
	Photo     []PhotoSize   `json:"photo,omitempty"`
	Video     *Document     `json:"video,omitempty"`
}

// User - пользователя Telegram (не domain.User)
type TelegramUser struct {
	ID           int64   `json:"id"`
	IsBot        bool    `json:"is_bot"`
	FirstName    string  `json:"first_name"`
	LastName     *string `json:"last_name,omitempty"`
	Username     *string `json:"username,omitempty"`
	LanguageCode *string `json:"language_code,omitempty"`
}

// Chat - чат в Telegram
type Chat struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"` // "private", "group", "supergroup", "channel"
	Title     *string `json:"title,omitempty"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
}

// Entity - сущность в сообщении (команда, упоминание и т.д.)
type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// Document файл (документ или видео), присланный пользователем
type Document struct {
	FileID       string  `json:"file_id"`
	FileUniqueID string  `json:"file_unique_id"`
	FileName     *string `json:"file_name,omitempty"`
	MimeType     *string `json:"mime_type,omitempty"`
	FileSize     int64   `json:"file_size,omitempty"`
}

type PhotoSize struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileSize     int64  `json:"file_size,omitempty"`
}

// Button inline-кнопка
type Button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Keyboard inline-клавиатура, строки кнопок
type Keyboard [][]Button

// Row удобный конструктор строки
func Row(buttons ...Button) []Button {
	return buttons
}

func CallbackButton(text, data string) Button {
	return Button{Text: text, CallbackData: data}
}

func URLButton(text, url string) Button {
	return Button{Text: text, URL: url}
}

// OutgoingFile файл для отправки пользователю
// Если FileID задан, файл пересылается по file_id без загрузки Data
type OutgoingFile struct {
	Name    string
	Data    []byte
	FileID  string
	Caption string
}
