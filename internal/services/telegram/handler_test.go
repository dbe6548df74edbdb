package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/testutil/fakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	commands  []string
	chats     []int64
	texts     []string
	uploads   int
	callbacks []string
	failures  []error
	err       error
	panicMsg  string
}

func (h *stubHandler) HandleCommand(_ context.Context, _ *domain.User, chatID int64, command, args string) error {
	h.commands = append(h.commands, command+"|"+args)
	h.chats = append(h.chats, chatID)
	return h.err
}

func (h *stubHandler) HandleText(_ context.Context, _ *domain.User, msg *domain.Message) error {
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	h.texts = append(h.texts, *msg.Text)
	return h.err
}

func (h *stubHandler) HandleUpload(context.Context, *domain.User, *domain.Message) error {
	h.uploads++
	return h.err
}

func (h *stubHandler) HandleCallback(_ context.Context, _ *domain.User, q *domain.CallbackQuery) error {
	h.callbacks = append(h.callbacks, *q.Data)
	return h.err
}

func (h *stubHandler) GetOrCreateUser(_ context.Context, tg *domain.TelegramUser) (*domain.User, error) {
	return &domain.User{TelegramID: tg.ID, FirstName: tg.FirstName}, nil
}

func (h *stubHandler) ReportFailure(_ context.Context, _ int64, err error) {
	h.failures = append(h.failures, err)
}

func strPtr(s string) *string { return &s }

func message(text string) *domain.Update {
	return &domain.Update{
		UpdateID: 1,
		Message: &domain.Message{
			MessageID: 10,
			From:      &domain.TelegramUser{ID: 7, FirstName: "Ann"},
			Chat:      &domain.Chat{ID: 7, Type: "private"},
			Text:      strPtr(text),
		},
	}
}

func newService(h *stubHandler) *Service {
	return New(fakes.NewTelegram(), h, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleUpdate_Routing(t *testing.T) {
	h := &stubHandler{}
	s := newService(h)
	ctx := context.Background()

	require.NoError(t, s.HandleUpdate(ctx, message("/start@market_bot ref_1")))
	require.NoError(t, s.HandleUpdate(ctx, message("Intro to Python")))

	upload := message("")
	upload.Message.Text = nil
	upload.Message.Document = &domain.Document{FileID: "f1"}
	require.NoError(t, s.HandleUpdate(ctx, upload))

	require.NoError(t, s.HandleUpdate(ctx, &domain.Update{
		UpdateID: 2,
		CallbackQuery: &domain.CallbackQuery{
			ID:   "cb",
			From: &domain.TelegramUser{ID: 7},
			Data: strPtr("buy_menu"),
		},
	}))

	assert.Equal(t, []string{"start|ref_1"}, h.commands)
	assert.Equal(t, []string{"Intro to Python"}, h.texts)
	assert.Equal(t, 1, h.uploads)
	assert.Equal(t, []string{"buy_menu"}, h.callbacks)
}

func TestHandleUpdate_IgnoresGroupsAndBots(t *testing.T) {
	h := &stubHandler{}
	s := newService(h)

	group := message("hello")
	group.Message.Chat.Type = "group"
	require.NoError(t, s.HandleUpdate(context.Background(), group))

	bot := message("hello")
	bot.Message.From.IsBot = true
	require.NoError(t, s.HandleUpdate(context.Background(), bot))

	assert.Empty(t, h.texts)
}

func TestHandleUpdate_ErrorsAreReportedNotReturned(t *testing.T) {
	h := &stubHandler{err: errors.New("db down")}
	s := newService(h)

	require.NoError(t, s.HandleUpdate(context.Background(), message("hi")))
	require.Len(t, h.failures, 1)
	assert.EqualError(t, h.failures[0], "db down")
}

func TestHandleUpdate_PanicIsRecovered(t *testing.T) {
	h := &stubHandler{panicMsg: "nil map"}
	s := newService(h)

	require.NotPanics(t, func() {
		require.NoError(t, s.HandleUpdate(context.Background(), message("boom")))
	})
	require.Len(t, h.failures, 1)
	assert.Contains(t, h.failures[0].Error(), "nil map")
}

func TestHandleUpdate_CommandWithoutChat(t *testing.T) {
	h := &stubHandler{}
	s := newService(h)

	update := message("/help")
	update.Message.Chat = nil
	require.NoError(t, s.HandleUpdate(context.Background(), update))
	assert.Equal(t, []string{"help|"}, h.commands)
	assert.Equal(t, []int64{7}, h.chats)
	assert.Empty(t, h.failures)
}

func TestParseCommand(t *testing.T) {
	cmd, args := ParseCommand("/Admin")
	assert.Equal(t, "admin", cmd)
	assert.Empty(t, args)

	cmd, args = ParseCommand("/start@bot  deep link ")
	assert.Equal(t, "start", cmd)
	assert.Equal(t, "deep link", args)
}
