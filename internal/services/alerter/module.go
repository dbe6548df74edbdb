package alerter

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/alerter"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
)

type sender interface {
	SendAlert(ctx context.Context, message string) error
}

// Service реализует IAlerterService.
// Одинаковые алерты внутри окна схлопываются: уходит первый, следующий после окна
// несёт счётчик пропущенных. Без настроенного чата алерты только логируются.
type Service struct {
	client sender
	window time.Duration
	now    func() time.Time
	log    *slog.Logger

	mu     sync.Mutex
	recent map[string]*recentAlert
}

type recentAlert struct {
	sentAt     time.Time
	suppressed int
}

// New client может быть nil: тогда алерты только пишутся в лог
func New(client *alerter.Client, window time.Duration, log *slog.Logger) service.IAlerterService {
	if client == nil {
		return newService(nil, window, log)
	}
	return newService(client, window, log)
}

func newService(client sender, window time.Duration, log *slog.Logger) *Service {
	return &Service{
		client: client,
		window: window,
		now:    time.Now,
		log:    log,
		recent: make(map[string]*recentAlert),
	}
}

// SendAlert текст экранируется под HTML parse mode
func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		s.log.Warn("alert (alerter disabled)", "message", message)
		return nil
	}

	suppressed, ok := s.admit(message)
	if !ok {
		s.log.Debug("duplicate alert suppressed", "message", message)
		return nil
	}

	text := "🚨 " + html.EscapeString(message)
	if suppressed > 0 {
		text += fmt.Sprintf("\n\n(+%d повтор(ов) за последние %s)", suppressed, s.window)
	}
	return s.client.SendAlert(ctx, text)
}

func (s *Service) admit(message string) (int, bool) {
	if s.window <= 0 {
		return 0, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, r := range s.recent {
		if now.Sub(r.sentAt) >= s.window && r.suppressed == 0 {
			delete(s.recent, key)
		}
	}

	r, seen := s.recent[message]
	if !seen {
		s.recent[message] = &recentAlert{sentAt: now}
		return 0, true
	}
	if now.Sub(r.sentAt) < s.window {
		r.suppressed++
		return 0, false
	}

	suppressed := r.suppressed
	r.sentAt, r.suppressed = now, 0
	return suppressed, true
}
