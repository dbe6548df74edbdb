package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishEncodesEvent(t *testing.T) {
	cfg := &Config{Topic: "market.notifications"}
	mock := mocks.NewSyncProducer(t, nil)

	var got domain.Event
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "market.notifications", msg.Topic)
		assert.Equal(t, "ORD-1", string(mustEncode(t, msg.Key)))
		require.Len(t, msg.Headers, 2)
		assert.Equal(t, "event_type", string(msg.Headers[0].Key))
		assert.Equal(t, string(domain.EventEmailRequested), string(msg.Headers[0].Value))
		assert.Equal(t, "event_id", string(msg.Headers[1].Key))
		assert.NotEmpty(t, msg.Headers[1].Value)
		raw, err := msg.Value.Encode()
		require.NoError(t, err)
		return json.Unmarshal(raw, &got)
	})

	p := NewProducerWith(mock, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := p.Publish(context.Background(), domain.Event{
		Type:  domain.EventEmailRequested,
		Key:   "ORD-1",
		Email: &domain.EmailMessage{To: "a@b.c", Subject: "hi"},
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	assert.Equal(t, "ORD-1", got.Key)
	require.NotNil(t, got.Email)
	assert.Equal(t, "a@b.c", got.Email.To)
	assert.False(t, got.OccurredAt.IsZero())
	assert.NotEmpty(t, got.ID)
}

func mustEncode(t *testing.T, enc sarama.Encoder) []byte {
	t.Helper()
	raw, err := enc.Encode()
	require.NoError(t, err)
	return raw
}

func TestPublishRespectsCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	p := NewProducerWith(mock, &Config{Topic: "market.notifications"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Publish(ctx, domain.Event{Type: domain.EventEmailRequested, Key: "ORD-2"})
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, p.Close())
}

func TestGetBrokersTrimsSpaces(t *testing.T) {
	cfg := &Config{Brokers: "k1:9092, k2:9092 ,"}
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.GetBrokers())
	assert.True(t, cfg.Enabled())
	assert.False(t, (&Config{}).Enabled())
}
