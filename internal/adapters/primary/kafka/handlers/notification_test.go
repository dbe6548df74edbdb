package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	sent []domain.EmailMessage
	err  error
}

func (s *stubSender) Send(_ context.Context, msg domain.EmailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newTestHandler(sender *stubSender) *NotificationHandler {
	return &NotificationHandler{Sender: sender, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestHandleEmailEvent(t *testing.T) {
	sender := &stubSender{}
	h := newTestHandler(sender)

	value, err := json.Marshal(domain.Event{
		Type:  domain.EventEmailRequested,
		Key:   "ORD-1",
		Email: &domain.EmailMessage{To: "seller@example.com", Subject: "Sale"},
	})
	require.NoError(t, err)

	require.NoError(t, h.HandleMessage(context.Background(), "ORD-1", value))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "seller@example.com", sender.sent[0].To)
}

func TestHandleMalformedEventIsBusinessError(t *testing.T) {
	h := newTestHandler(&stubSender{})
	err := h.HandleMessage(context.Background(), "k", []byte("{not json"))
	require.Error(t, err)
	assert.True(t, domain.IsBusinessError(err))
}

func TestHandleSendFailureIsRetryable(t *testing.T) {
	h := newTestHandler(&stubSender{err: errors.New("smtp down")})
	value, _ := json.Marshal(domain.Event{
		Type:  domain.EventEmailRequested,
		Email: &domain.EmailMessage{To: "x@example.com"},
	})
	err := h.HandleMessage(context.Background(), "k", value)
	require.Error(t, err)
	assert.False(t, domain.IsBusinessError(err))
}
