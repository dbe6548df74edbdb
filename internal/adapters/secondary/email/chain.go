package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// Provider один способ отправки
type Provider interface {
	Name() string
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// Chain пробует провайдеров по очереди до первой успешной отправки
type Chain struct {
	providers []Provider
	log       *slog.Logger
}

// NewChain Mailjet, затем SMTP; если ничего не настроено, письма только логируются
func NewChain(cfg *Config, log *slog.Logger) *Chain {
	var providers []Provider
	if cfg.MailjetEnabled() {
		providers = append(providers, NewMailjet(cfg, log))
	}
	if cfg.SMTPEnabled() {
		providers = append(providers, NewSMTP(cfg, log))
	}
	if len(providers) == 0 {
		log.Warn("no email provider configured, emails will only be logged")
		providers = append(providers, &LogOnly{log: log})
	}
	return &Chain{providers: providers, log: log}
}

func NewChainOf(log *slog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, log: log}
}

func (c *Chain) Send(ctx context.Context, msg domain.EmailMessage) error {
	if msg.To == "" {
		return domain.NewValidationError("to", "empty recipient")
	}
	var errs []error
	for _, p := range c.providers {
		err := p.Send(ctx, msg)
		if err == nil {
			return nil
		}
		c.log.Warn("email provider failed", "provider", p.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return fmt.Errorf("all email providers failed: %w", errors.Join(errs...))
}

// LogOnly пишет письмо в лог вместо отправки
type LogOnly struct {
	log *slog.Logger
}

func (l *LogOnly) Name() string { return "log" }

func (l *LogOnly) Send(_ context.Context, msg domain.EmailMessage) error {
	l.log.Info("email (not sent, no provider)", "to", msg.To, "subject", msg.Subject)
	return nil
}
