package kafka

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// IKafkaProducer шина событий уведомлений
type IKafkaProducer interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
