package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/google/uuid"
)

const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

// Producer публикует события уведомлений. Ключ сообщения = ключ события (номер заказа,
// id тикета), поэтому события одного заказа попадают в одну партицию по порядку.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// NewProducer идемпотентный sync producer: повтор после таймаута не дублирует письмо в топике
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_1_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Producer.Retry.Max = 5
	config.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.ApplySecurity(config)

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewProducerWith(producer, cfg, log), nil
}

// NewProducerWith оборачивает готовый sarama producer
func NewProducerWith(producer sarama.SyncProducer, cfg *Config, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    cfg.Topic,
		log:      log.With("component", "kafka_producer", "topic", cfg.Topic),
	}
}

// Publish дописывает id и время события, если их нет
func (p *Producer) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(event.Type)},
			{Key: []byte(headerEventID), Value: []byte(event.ID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish %s [key=%s]: %w", event.Type, event.Key, err)
	}

	p.log.Debug("event published",
		"event_id", event.ID,
		"event_type", event.Type,
		"key", event.Key,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
