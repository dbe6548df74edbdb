package fakes

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// Sent одно исходящее сообщение
type Sent struct {
	ChatID    int64
	MessageID int64
	Text      string
	Keyboard  domain.Keyboard
	File      *domain.OutgoingFile
	Edited    bool
	Photo     bool
}

// Telegram telegram.IClient, запоминающий всё отправленное
type Telegram struct {
	mu        sync.Mutex
	nextID    int64
	sent      []Sent
	callbacks []string
	files     map[string][]byte

	// FailDocuments SendDocument возвращает ошибку
	FailDocuments bool
}

func NewTelegram() *Telegram {
	return &Telegram{nextID: 100, files: make(map[string][]byte)}
}

func (t *Telegram) record(s Sent) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.MessageID == 0 {
		t.nextID++
		s.MessageID = t.nextID
	}
	t.sent = append(t.sent, s)
	return s.MessageID
}

func (t *Telegram) SendMessage(_ context.Context, chatID int64, text string) error {
	t.record(Sent{ChatID: chatID, Text: text})
	return nil
}

func (t *Telegram) SendMessageWithKeyboard(_ context.Context, chatID int64, text string, keyboard domain.Keyboard) (int64, error) {
	return t.record(Sent{ChatID: chatID, Text: text, Keyboard: keyboard}), nil
}

func (t *Telegram) EditMessageText(_ context.Context, chatID, messageID int64, text string, keyboard domain.Keyboard) error {
	t.record(Sent{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard, Edited: true})
	return nil
}

func (t *Telegram) AnswerCallbackQuery(_ context.Context, callbackID string, text string, _ bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callbacks = append(t.callbacks, callbackID+":"+text)
	return nil
}

func (t *Telegram) SendDocument(_ context.Context, chatID int64, file domain.OutgoingFile) error {
	if t.FailDocuments {
		return errors.New("telegram: document upload failed")
	}
	t.record(Sent{ChatID: chatID, Text: file.Caption, File: &file})
	return nil
}

func (t *Telegram) SendPhoto(_ context.Context, chatID int64, _ *int64, photoData []byte, filename string) (string, error) {
	id := t.record(Sent{ChatID: chatID, File: &domain.OutgoingFile{Name: filename, Data: photoData}, Photo: true})
	return "photo-" + strconv.FormatInt(id, 10), nil
}

// PutFile регистрирует файл для DownloadFile
func (t *Telegram) PutFile(fileID string, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[fileID] = data
}

func (t *Telegram) DownloadFile(_ context.Context, fileID string) ([]byte, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.files[fileID]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return data, "documents/" + fileID, nil
}

// Sent копия всех исходящих сообщений
func (t *Telegram) Sent() []Sent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Sent(nil), t.sent...)
}

// SentTo сообщения в конкретный чат
func (t *Telegram) SentTo(chatID int64) []Sent {
	var out []Sent
	for _, s := range t.Sent() {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// Documents отправленные документы
func (t *Telegram) Documents() []Sent {
	var out []Sent
	for _, s := range t.Sent() {
		if s.File != nil && !s.Photo {
			out = append(out, s)
		}
	}
	return out
}

// Last последнее сообщение в чат
func (t *Telegram) Last(chatID int64) (Sent, bool) {
	msgs := t.SentTo(chatID)
	if len(msgs) == 0 {
		return Sent{}, false
	}
	return msgs[len(msgs)-1], true
}

func (t *Telegram) Callbacks() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.callbacks...)
}

func (t *Telegram) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
	t.callbacks = nil
}
