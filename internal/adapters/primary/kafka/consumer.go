package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	kafkaAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/kafka"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	kafkaPorts "github.com/admin/tg-bots/market-bot/internal/ports/kafka"
)

// паузы между попытками отправить письмо из одного события
var defaultRetries = []time.Duration{time.Second, 5 * time.Second, 15 * time.Second}

// Consumer читает события уведомлений группой потребителей
type Consumer struct {
	group   sarama.ConsumerGroup
	cfg     *kafkaAdapter.Config
	handler *claimHandler
	log     *slog.Logger
}

func NewConsumer(cfg *kafkaAdapter.Config, handler kafkaPorts.MessageHandler, log *slog.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Return.Errors = true
	cfg.ApplySecurity(config)

	group, err := sarama.NewConsumerGroup(cfg.GetBrokers(), cfg.ConsumerGroup, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	log.Info("kafka consumer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
		"consumer_group", cfg.ConsumerGroup,
	)

	return &Consumer{
		group:   group,
		cfg:     cfg,
		handler: newClaimHandler(handler, defaultRetries, log),
		log:     log,
	}, nil
}

// Start блокируется до отмены контекста, после ребалансировки подписывается заново
func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.log.Warn("kafka consumer group error", "error", err, "topic", c.cfg.Topic)
		}
	}()

	topics := []string{c.cfg.Topic}
	for {
		err := c.group.Consume(ctx, topics, c.handler)
		if ctx.Err() != nil || errors.Is(err, sarama.ErrClosedConsumerGroup) {
			c.log.Info("kafka consumer stopping", "topic", c.cfg.Topic)
			return nil
		}
		if err != nil {
			return fmt.Errorf("consume %s: %w", c.cfg.Topic, err)
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	c.log.Info("kafka consumer closed", "topic", c.cfg.Topic)
	return nil
}

// claimHandler реализует sarama.ConsumerGroupHandler.
// Offset коммитится после успеха, бизнес-ошибки или исчерпания попыток;
// при остановке посреди повторов событие остаётся некоммиченным и придёт снова.
type claimHandler struct {
	handler kafkaPorts.MessageHandler
	retries []time.Duration
	log     *slog.Logger
}

func newClaimHandler(handler kafkaPorts.MessageHandler, retries []time.Duration, log *slog.Logger) *claimHandler {
	return &claimHandler{handler: handler, retries: retries, log: log}
}

func (h *claimHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *claimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *claimHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if !h.process(session.Context(), message) {
				return nil
			}
			session.MarkMessage(message, "")
		}
	}
}

// process false только если контекст отменён до завершения попыток
func (h *claimHandler) process(ctx context.Context, message *sarama.ConsumerMessage) bool {
	key := string(message.Key)
	for attempt := 0; ; attempt++ {
		err := h.handler.HandleMessage(ctx, key, message.Value)
		if err == nil || domain.IsBusinessError(err) {
			return true
		}
		if attempt >= len(h.retries) {
			h.log.Error("notification event dropped after retries",
				"error", err,
				"key", key,
				"attempts", attempt+1,
				"partition", message.Partition,
				"offset", message.Offset,
			)
			return true
		}
		h.log.Warn("failed to handle kafka message, retrying",
			"error", err,
			"key", key,
			"attempt", attempt+1,
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(h.retries[attempt]):
		}
	}
}
