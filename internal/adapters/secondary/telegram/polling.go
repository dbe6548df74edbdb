package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

const (
	defaultPollingTimeout = 30
	minPollBackoff        = time.Second
	maxPollBackoff        = 30 * time.Second
	conflictBackoff       = 5 * time.Second
)

// UpdateHandler обработка одного обновления
type UpdateHandler func(ctx context.Context, update *domain.Update) error

// Poller long polling getUpdates для локальной разработки
type Poller struct {
	client  *Client
	timeout int
	handler UpdateHandler
	offset  int64
	log     *slog.Logger
}

func NewPoller(client *Client, config *Config, handler UpdateHandler, log *slog.Logger) *Poller {
	timeout := config.PollingTimeout
	if timeout <= 0 {
		timeout = defaultPollingTimeout
	}
	// long poll держит соединение timeout секунд, общий клиент оборвал бы его раньше
	pollClient := *client
	pollClient.httpClient = &http.Client{Timeout: time.Duration(timeout+10) * time.Second}

	return &Poller{
		client:  &pollClient,
		timeout: timeout,
		handler: handler,
		log:     log,
	}
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates"`
}

// Start блокируется до отмены контекста. Ошибки сети ждут с нарастающей паузой,
// 409 означает активный webhook или второй экземпляр бота.
func (p *Poller) Start(ctx context.Context) error {
	p.log.Info("starting telegram polling", "timeout", p.timeout)

	backoff := minPollBackoff
	for {
		updates, err := p.poll(ctx)
		if ctx.Err() != nil {
			p.log.Info("polling stopped")
			return nil
		}
		if err != nil {
			wait := backoff
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
				p.log.Warn("telegram polling conflict, webhook or another instance is active", "description", apiErr.Description)
				wait = conflictBackoff
			} else {
				p.log.Error("failed to get updates", "error", err, "retry_in", wait)
				backoff = min(backoff*2, maxPollBackoff)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		backoff = minPollBackoff

		for i := range updates {
			p.dispatch(ctx, &updates[i])
		}
	}
}

func (p *Poller) poll(ctx context.Context) ([]domain.Update, error) {
	var updates []domain.Update
	err := p.client.callJSON(ctx, "getUpdates", getUpdatesRequest{
		Offset:         p.offset,
		Timeout:        p.timeout,
		AllowedUpdates: []string{"message", "callback_query"},
	}, &updates)
	return updates, err
}

// dispatch offset сдвигается до обработки: упавшее обновление не придёт повторно
func (p *Poller) dispatch(ctx context.Context, update *domain.Update) {
	if update.UpdateID >= p.offset {
		p.offset = update.UpdateID + 1
	}
	if err := p.handler(ctx, update); err != nil {
		p.log.Error("failed to handle update", "error", err, "update_id", update.UpdateID)
	}
}
