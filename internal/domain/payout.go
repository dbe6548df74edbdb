package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"   // в эскроу
	PayoutStatusReady     PayoutStatus = "ready"     // эскроу истёк, ждёт перевода админом
	PayoutStatusCompleted PayoutStatus = "completed" // переведено продавцу
)

const DefaultEscrowWindow = 24 * time.Hour

type Payout struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	SellerID       int64           `json:"seller_id" db:"seller_id"`
	OrderIDs       pq.StringArray  `json:"order_ids" db:"order_ids"`
	TotalAmountUSD decimal.Decimal `json:"total_amount_usd" db:"total_amount_usd"`
	WalletAddress  string          `json:"wallet_address" db:"wallet_address"`
	Currency       string          `json:"currency" db:"currency"`
	Status         PayoutStatus    `json:"status" db:"status"`
	ReleaseAfter   time.Time       `json:"release_after" db:"release_after"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

// IsReleasable эскроу проверяется при чтении, а не только таймером
func (p *Payout) IsReleasable(now time.Time) bool {
	if p.Status == PayoutStatusCompleted {
		return false
	}
	return !now.Before(p.ReleaseAfter)
}

// IsOpen выплата ещё не переведена продавцу
func (p *Payout) IsOpen() bool {
	return p.Status == PayoutStatusPending || p.Status == PayoutStatusReady
}
