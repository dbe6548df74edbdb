package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMailjet_Send(t *testing.T) {
	var got struct {
		Messages []mailjetMessage `json:"Messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"Messages":[{"Status":"success"}]}`))
	}))
	defer srv.Close()

	m := NewMailjet(&Config{
		FromEmail:        "noreply@market.test",
		FromName:         "Market",
		MailjetAPIKey:    "key",
		MailjetAPISecret: "secret",
		MailjetBaseURL:   srv.URL + "/",
	}, testLogger())

	err := m.Send(context.Background(), domain.EmailMessage{To: "seller@example.com", Subject: "Sale", HTML: "<b>hi</b>"})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "noreply@market.test", got.Messages[0].From.Email)
	assert.Equal(t, "seller@example.com", got.Messages[0].To[0].Email)
	assert.Equal(t, "<b>hi</b>", got.Messages[0].HTMLPart)
}

func TestMailjet_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Messages":[{"Status":"error","Errors":[{"ErrorMessage":"bad sender"}]}]}`))
	}))
	defer srv.Close()

	m := NewMailjet(&Config{MailjetBaseURL: srv.URL}, testLogger())
	err := m.Send(context.Background(), domain.EmailMessage{To: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad sender")
}

type stubProvider struct {
	name  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Send(context.Context, domain.EmailMessage) error {
	s.calls++
	return s.err
}

func TestChain_FallsBackToNextProvider(t *testing.T) {
	first := &stubProvider{name: "mailjet", err: errors.New("down")}
	second := &stubProvider{name: "smtp"}
	chain := NewChainOf(testLogger(), first, second)

	require.NoError(t, chain.Send(context.Background(), domain.EmailMessage{To: "a@b.c"}))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChain_AllFail(t *testing.T) {
	chain := NewChainOf(testLogger(),
		&stubProvider{name: "mailjet", err: errors.New("down")},
		&stubProvider{name: "smtp", err: errors.New("refused")},
	)
	err := chain.Send(context.Background(), domain.EmailMessage{To: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Contains(t, err.Error(), "refused")
}

func TestChain_EmptyRecipient(t *testing.T) {
	chain := NewChain(&Config{}, testLogger())
	err := chain.Send(context.Background(), domain.EmailMessage{Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, chain.Send(context.Background(), domain.EmailMessage{To: "a@b.c"}))
}
