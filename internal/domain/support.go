package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "open"
	TicketStatusPendingUser  TicketStatus = "pending_user"
	TicketStatusPendingAdmin TicketStatus = "pending_admin"
	TicketStatusEscalated    TicketStatus = "escalated"
	TicketStatusClosed       TicketStatus = "closed"
)

type SenderRole string

const (
	SenderRoleUser   SenderRole = "user"
	SenderRoleSeller SenderRole = "seller"
	SenderRoleAdmin  SenderRole = "admin"
)

type SupportTicket struct {
	TicketID        string       `json:"ticket_id" db:"ticket_id"`
	UserID          int64        `json:"user_id" db:"user_id"`
	SellerID        *int64       `json:"seller_id,omitempty" db:"seller_id"`
	OrderID         *string      `json:"order_id,omitempty" db:"order_id"`
	Subject         string       `json:"subject" db:"subject"`
	Status          TicketStatus `json:"status" db:"status"`
	AssignedAdminID *int64       `json:"assigned_admin_id,omitempty" db:"assigned_admin_id"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// IsParticipant покупатель, продавец тикета или админ
func (t *SupportTicket) IsParticipant(userID int64, isAdmin bool) bool {
	if isAdmin || t.UserID == userID {
		return true
	}
	return t.SellerID != nil && *t.SellerID == userID
}

// StatusAfterReply кто ответил, от того и ждём следующего хода
func (t *SupportTicket) StatusAfterReply(role SenderRole) TicketStatus {
	if t.Status == TicketStatusEscalated && role != SenderRoleAdmin {
		return TicketStatusEscalated
	}
	if role == SenderRoleAdmin || role == SenderRoleSeller {
		return TicketStatusPendingUser
	}
	return TicketStatusPendingAdmin
}

type SupportMessage struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TicketID   string     `json:"ticket_id" db:"ticket_id"`
	SenderID   int64      `json:"sender_id" db:"sender_id"`
	SenderRole SenderRole `json:"sender_role" db:"sender_role"`
	Body       string     `json:"body" db:"body"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
