package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserStatus статус аккаунта, задаётся только администратором
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	TelegramID    int64           `json:"telegram_id" db:"telegram_id"`
	Username      *string         `json:"username,omitempty" db:"username"`
	FirstName     string          `json:"first_name" db:"first_name"`
	Locale        string          `json:"locale" db:"locale"`
	IsSeller      bool            `json:"is_seller" db:"is_seller"`
	SellerName    *string         `json:"seller_name,omitempty" db:"seller_name"`
	SellerBio     *string         `json:"seller_bio,omitempty" db:"seller_bio"`
	Email         *string         `json:"email,omitempty" db:"email"`
	SolanaAddress *string         `json:"solana_address,omitempty" db:"solana_address"`
	PasswordHash  *string         `json:"-" db:"password_hash"`
	Status        UserStatus      `json:"status" db:"status"`
	TotalSales    int64           `json:"total_sales" db:"total_sales"`
	TotalRevenue  decimal.Decimal `json:"total_revenue" db:"total_revenue"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

// DisplayName имя продавца, если оно есть, иначе имя из Telegram
func (u *User) DisplayName() string {
	if u.IsSeller && u.SellerName != nil && *u.SellerName != "" {
		return *u.SellerName
	}
	return u.FirstName
}

func (u *User) HasWallet() bool {
	return u.SolanaAddress != nil && *u.SolanaAddress != ""
}
