package supportRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	ports "github.com/admin/tg-bots/market-bot/internal/ports/repository"

	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
)

const (
	ticketColumns  = "ticket_id, user_id, seller_id, order_id, subject, status, assigned_admin_id, created_at, updated_at"
	messageColumns = "id, ticket_id, sender_id, sender_role, body, created_at"
)

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

// New создаёт репозиторий тикетов поддержки
func New(db persistence.Persistence, log *slog.Logger) ports.ISupportRepo {
	return &Repository{db: db, Log: log}
}

// CreateTicket создаёт тикет вместе с первым сообщением
func (r *Repository) CreateTicket(ctx context.Context, ticket *domain.SupportTicket, first *domain.SupportMessage) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		err := tx.Exec(ctx, `INSERT INTO support_tickets (`+ticketColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			ticket.TicketID,
			ticket.UserID,
			ticket.SellerID,
			ticket.OrderID,
			ticket.Subject,
			ticket.Status,
			ticket.AssignedAdminID,
			ticket.CreatedAt,
			ticket.UpdatedAt)
		if err != nil {
			return pg.MapError("insert ticket", err)
		}
		if first == nil {
			return nil
		}
		return insertMessage(ctx, tx, first)
	})
	if err != nil {
		r.Log.Error("failed to create ticket", "error", err, "ticket_id", ticket.TicketID, "user_id", ticket.UserID)
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	r.Log.Info("support ticket created", "ticket_id", ticket.TicketID, "user_id", ticket.UserID)
	return nil
}

func (r *Repository) GetTicket(ctx context.Context, ticketID string) (*domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	err := r.db.Get(ctx, &ticket, `SELECT `+ticketColumns+` FROM support_tickets WHERE ticket_id = $1`, ticketID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("ticket not found", "ticket_id", ticketID)
			return nil, fmt.Errorf("ticket %s: %w", ticketID, domain.ErrNotFound)
		}
		r.Log.Error("failed to get ticket", "error", err, "ticket_id", ticketID)
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

// ListByUser тикеты, где пользователь автор или продавец
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.SupportTicket, error) {
	var tickets []*domain.SupportTicket
	query := `SELECT ` + ticketColumns + ` FROM support_tickets
		WHERE user_id = $1 OR seller_id = $1
		ORDER BY updated_at DESC LIMIT $2`
	if err := r.db.Select(ctx, &tickets, query, userID, limit); err != nil {
		r.Log.Error("failed to list user tickets", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list user tickets: %w", err)
	}
	return tickets, nil
}

// ListOpen незакрытые тикеты для админа, эскалированные первыми
func (r *Repository) ListOpen(ctx context.Context, limit int) ([]*domain.SupportTicket, error) {
	var tickets []*domain.SupportTicket
	query := `SELECT ` + ticketColumns + ` FROM support_tickets
		WHERE status <> $1
		ORDER BY (status = $2) DESC, updated_at ASC LIMIT $3`
	if err := r.db.Select(ctx, &tickets, query, domain.TicketStatusClosed, domain.TicketStatusEscalated, limit); err != nil {
		r.Log.Error("failed to list open tickets", "error", err)
		return nil, fmt.Errorf("failed to list open tickets: %w", err)
	}
	return tickets, nil
}

// AddMessage добавляет сообщение и переводит тикет в новый статус
func (r *Repository) AddMessage(ctx context.Context, msg *domain.SupportMessage, status domain.TicketStatus) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		if err := insertMessage(ctx, tx, msg); err != nil {
			return err
		}
		rows, err := tx.ExecWithResult(ctx, `UPDATE support_tickets SET status = $2, updated_at = NOW() WHERE ticket_id = $1`,
			msg.TicketID, status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("ticket %s: %w", msg.TicketID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		r.Log.Error("failed to add ticket message", "error", err, "ticket_id", msg.TicketID)
		return fmt.Errorf("failed to add ticket message: %w", err)
	}
	r.Log.Debug("ticket message added", "ticket_id", msg.TicketID, "role", msg.SenderRole, "status", status)
	return nil
}

func (r *Repository) ListMessages(ctx context.Context, ticketID string) ([]*domain.SupportMessage, error) {
	var messages []*domain.SupportMessage
	query := `SELECT ` + messageColumns + ` FROM support_messages WHERE ticket_id = $1 ORDER BY created_at ASC`
	if err := r.db.Select(ctx, &messages, query, ticketID); err != nil {
		r.Log.Error("failed to list ticket messages", "error", err, "ticket_id", ticketID)
		return nil, fmt.Errorf("failed to list ticket messages: %w", err)
	}
	return messages, nil
}

// SetStatus меняет статус тикета, adminID назначает ответственного
func (r *Repository) SetStatus(ctx context.Context, ticketID string, status domain.TicketStatus, adminID *int64) error {
	query := `UPDATE support_tickets SET status = $2, assigned_admin_id = COALESCE($3, assigned_admin_id), updated_at = NOW() WHERE ticket_id = $1`
	rows, err := r.db.ExecWithResult(ctx, query, ticketID, status, adminID)
	if err != nil {
		r.Log.Error("failed to set ticket status", "error", err, "ticket_id", ticketID)
		return fmt.Errorf("failed to set ticket status: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ticket %s: %w", ticketID, domain.ErrNotFound)
	}
	return nil
}

func insertMessage(ctx context.Context, ex persistence.Executor, msg *domain.SupportMessage) error {
	err := ex.Exec(ctx, `INSERT INTO support_messages (`+messageColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID,
		msg.TicketID,
		msg.SenderID,
		msg.SenderRole,
		msg.Body,
		msg.CreatedAt)
	if err != nil {
		return pg.MapError("insert ticket message", err)
	}
	return nil
}
