package service

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// IEmailSender отправка писем (Mailjet, SMTP)
type IEmailSender interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}
