package alerter

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) SendAlert(_ context.Context, message string) error {
	r.sent = append(r.sent, message)
	return nil
}

func newTestService(window time.Duration) (*Service, *recordingSender, *time.Time) {
	rec := &recordingSender{}
	s := newService(rec, window, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, rec, &now
}

func TestSendAlert_EscapesHTML(t *testing.T) {
	s, rec, _ := newTestService(0)

	require.NoError(t, s.SendAlert(context.Background(), "order <TBF-1> failed & retried"))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "🚨 order &lt;TBF-1&gt; failed &amp; retried", rec.sent[0])
}

func TestSendAlert_SuppressesDuplicatesWithinWindow(t *testing.T) {
	s, rec, now := newTestService(5 * time.Minute)
	ctx := context.Background()

	require.NoError(t, s.SendAlert(ctx, "ipn signature mismatch"))
	require.NoError(t, s.SendAlert(ctx, "ipn signature mismatch"))
	require.NoError(t, s.SendAlert(ctx, "ipn signature mismatch"))
	require.NoError(t, s.SendAlert(ctx, "payout failed"))
	assert.Len(t, rec.sent, 2)

	*now = now.Add(6 * time.Minute)
	require.NoError(t, s.SendAlert(ctx, "ipn signature mismatch"))
	require.Len(t, rec.sent, 3)
	assert.Contains(t, rec.sent[2], "+2 повтор")
}

func TestNew_NilClientOnlyLogs(t *testing.T) {
	s := New(nil, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, s.SendAlert(context.Background(), "anything"))
}
