package repository

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// ISupportRepo тикеты поддержки и переписка
type ISupportRepo interface {
	CreateTicket(ctx context.Context, ticket *domain.SupportTicket, first *domain.SupportMessage) error
	GetTicket(ctx context.Context, ticketID string) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.SupportTicket, error)
	ListOpen(ctx context.Context, limit int) ([]*domain.SupportTicket, error)
	AddMessage(ctx context.Context, msg *domain.SupportMessage, status domain.TicketStatus) error
	ListMessages(ctx context.Context, ticketID string) ([]*domain.SupportMessage, error)
	SetStatus(ctx context.Context, ticketID string, status domain.TicketStatus, adminID *int64) error
}
