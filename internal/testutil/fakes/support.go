package fakes

import (
	"context"
	"sort"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/google/uuid"
)

// SupportRepo repository.ISupportRepo поверх DB
type SupportRepo struct {
	*DB
}

func (r SupportRepo) CreateTicket(_ context.Context, ticket *domain.SupportTicket, first *domain.SupportMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.TicketID]; ok {
		return domain.ErrAlreadyExists
	}
	now := r.Now()
	t := *ticket
	t.CreatedAt, t.UpdatedAt = now, now
	r.tickets[t.TicketID] = t
	if first != nil {
		r.appendMessage(first)
	}
	return nil
}

func (r SupportRepo) appendMessage(msg *domain.SupportMessage) {
	m := *msg
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.Now()
	}
	r.messages[m.TicketID] = append(r.messages[m.TicketID], m)
}

func (r SupportRepo) GetTicket(_ context.Context, ticketID string) (*domain.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r SupportRepo) ListByUser(_ context.Context, userID int64, limit int) ([]*domain.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SupportTicket, 0)
	for _, t := range r.tickets {
		if t.UserID == userID || (t.SellerID != nil && *t.SellerID == userID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return page(out, limit, 0), nil
}

func (r SupportRepo) ListOpen(_ context.Context, limit int) ([]*domain.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SupportTicket, 0)
	for _, t := range r.tickets {
		if t.Status != domain.TicketStatusClosed {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].Status == domain.TicketStatusEscalated, out[j].Status == domain.TicketStatusEscalated
		if ei != ej {
			return ei
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return page(out, limit, 0), nil
}

func (r SupportRepo) AddMessage(_ context.Context, msg *domain.SupportMessage, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[msg.TicketID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = r.Now()
	r.tickets[t.TicketID] = t
	r.appendMessage(msg)
	return nil
}

func (r SupportRepo) ListMessages(_ context.Context, ticketID string) ([]*domain.SupportMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.messages[ticketID], 0, 0), nil
}

func (r SupportRepo) SetStatus(_ context.Context, ticketID string, status domain.TicketStatus, adminID *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[ticketID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	if adminID != nil {
		t.AssignedAdminID = adminID
	}
	t.UpdatedAt = r.Now()
	r.tickets[ticketID] = t
	return nil
}
