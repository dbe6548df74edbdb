package repository

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

// IUserRepo интерфейс для работы с пользователями
type IUserRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateLocale(ctx context.Context, telegramID int64, locale string) error
	BecomeSeller(ctx context.Context, telegramID int64, sellerName, email, solanaAddress string) error
	UpdateSellerBio(ctx context.Context, telegramID int64, bio string) error
	UpdateSolanaAddress(ctx context.Context, telegramID int64, address string) error
	SetPasswordHash(ctx context.Context, telegramID int64, hash string) error
	SetStatus(ctx context.Context, telegramID int64, status domain.UserStatus) error
	// TransferSeller переносит профиль продавца и его товары на другой telegram аккаунт
	TransferSeller(ctx context.Context, fromID, toID int64) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Count(ctx context.Context) (total int64, sellers int64, err error)

	WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error
	AddSaleTx(ctx context.Context, tx persistence.Transaction, sellerID int64, revenue decimal.Decimal) error
}
