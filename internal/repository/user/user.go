package userRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	ports "github.com/admin/tg-bots/market-bot/internal/ports/repository"

	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

type userColumns struct {
	TableName     string
	TelegramID    string
	Username      string
	FirstName     string
	Locale        string
	IsSeller      string
	SellerName    string
	SellerBio     string
	Email         string
	SolanaAddress string
	PasswordHash  string
	Status        string
	TotalSales    string
	TotalRevenue  string
	CreatedAt     string
	UpdatedAt     string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns userColumns
}

// New создаёт новый репозиторий для работы с пользователями
func New(db persistence.Persistence, log *slog.Logger) ports.IUserRepo {
	cols := userColumns{
		TableName:     "users",
		TelegramID:    "telegram_id",
		Username:      "username",
		FirstName:     "first_name",
		Locale:        "locale",
		IsSeller:      "is_seller",
		SellerName:    "seller_name",
		SellerBio:     "seller_bio",
		Email:         "email",
		SolanaAddress: "solana_address",
		PasswordHash:  "password_hash",
		Status:        "status",
		TotalSales:    "total_sales",
		TotalRevenue:  "total_revenue",
		CreatedAt:     "created_at",
		UpdatedAt:     "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (15 колонок)
func (r *Repository) allColumns() string {
	return strings.Join([]string{
		r.columns.TelegramID,
		r.columns.Username,
		r.columns.FirstName,
		r.columns.Locale,
		r.columns.IsSeller,
		r.columns.SellerName,
		r.columns.SellerBio,
		r.columns.Email,
		r.columns.SolanaAddress,
		r.columns.PasswordHash,
		r.columns.Status,
		r.columns.TotalSales,
		r.columns.TotalRevenue,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
	}, ", ")
}

// Create создаёт нового пользователя
func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.Locale,
		user.IsSeller,
		user.SellerName,
		user.SellerBio,
		user.Email,
		user.SolanaAddress,
		user.PasswordHash,
		user.Status,
		user.TotalSales,
		user.TotalRevenue,
		user.CreatedAt,
		user.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to create user",
			"error", err,
			"telegram_id", user.TelegramID)
		return pg.MapError("failed to create user", err)
	}
	r.Log.Debug("user created successfully", "telegram_id", user.TelegramID)
	return nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.TelegramID)
	err := r.db.Get(ctx, &user, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("user not found", "telegram_id", telegramID)
			return nil, fmt.Errorf("user %d: %w", telegramID, domain.ErrNotFound)
		}
		r.Log.Error("failed to get user by telegram id",
			"error", err,
			"telegram_id", telegramID)
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	return &user, nil
}

// GetByEmail ищет пользователя по email без учёта регистра
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1) LIMIT 1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Email)
	err := r.db.Get(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("user not found by email")
			return nil, fmt.Errorf("user by email: %w", domain.ErrNotFound)
		}
		r.Log.Error("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// UpdateProfile обновляет данные из Telegram (username, имя)
func (r *Repository) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Username,
		r.columns.FirstName,
		r.columns.UpdatedAt,
		r.columns.TelegramID)
	return r.execOne(ctx, "update profile", user.TelegramID, query, user.TelegramID, user.Username, user.FirstName)
}

func (r *Repository) UpdateLocale(ctx context.Context, telegramID int64, locale string) error {
	return r.setColumn(ctx, r.columns.Locale, telegramID, locale)
}

// BecomeSeller включает профиль продавца
func (r *Repository) BecomeSeller(ctx context.Context, telegramID int64, sellerName, email, solanaAddress string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = $2, %s = $3, %s = $4, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.IsSeller,
		r.columns.SellerName,
		r.columns.Email,
		r.columns.SolanaAddress,
		r.columns.UpdatedAt,
		r.columns.TelegramID)
	return r.execOne(ctx, "become seller", telegramID, query, telegramID, sellerName, email, solanaAddress)
}

func (r *Repository) UpdateSellerBio(ctx context.Context, telegramID int64, bio string) error {
	return r.setColumn(ctx, r.columns.SellerBio, telegramID, bio)
}

func (r *Repository) UpdateSolanaAddress(ctx context.Context, telegramID int64, address string) error {
	return r.setColumn(ctx, r.columns.SolanaAddress, telegramID, address)
}

func (r *Repository) SetPasswordHash(ctx context.Context, telegramID int64, hash string) error {
	return r.setColumn(ctx, r.columns.PasswordHash, telegramID, hash)
}

// SetStatus блокировка/разблокировка пользователя
func (r *Repository) SetStatus(ctx context.Context, telegramID int64, status domain.UserStatus) error {
	return r.setColumn(ctx, r.columns.Status, telegramID, status)
}

// TransferSeller переносит профиль продавца и его товары на новый telegram аккаунт.
// Старый аккаунт остаётся покупателем, поля продавца обнуляются.
func (r *Repository) TransferSeller(ctx context.Context, fromID, toID int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		// email уникален, поэтому сначала запоминаем его и обнуляем у старого аккаунта
		var email *string
		emailQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			r.columns.Email,
			r.columns.TableName,
			r.columns.TelegramID)
		if err := tx.Get(ctx, &email, emailQuery, fromID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("load seller profile: %w", domain.ErrNotFound)
			}
			return fmt.Errorf("load seller profile: %w", err)
		}

		copyQuery := fmt.Sprintf(`UPDATE %[1]s AS dst SET
			%[2]s = TRUE, %[3]s = src.%[3]s, %[4]s = src.%[4]s, %[5]s = src.%[5]s,
			%[6]s = src.%[6]s, %[7]s = src.%[7]s, %[8]s = src.%[8]s, %[11]s = CASE WHEN src.%[11]s = 'suspended' THEN src.%[11]s ELSE dst.%[11]s END, %[9]s = NOW()
			FROM %[1]s AS src
			WHERE src.%[10]s = $1 AND dst.%[10]s = $2`,
			r.columns.TableName,
			r.columns.IsSeller,
			r.columns.SellerName,
			r.columns.SellerBio,
			r.columns.SolanaAddress,
			r.columns.PasswordHash,
			r.columns.TotalSales,
			r.columns.TotalRevenue,
			r.columns.UpdatedAt,
			r.columns.TelegramID,
			r.columns.Status)
		rows, err := tx.ExecWithResult(ctx, copyQuery, fromID, toID)
		if err != nil {
			return fmt.Errorf("copy seller profile: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("copy seller profile: %w", domain.ErrNotFound)
		}

		clearQuery := fmt.Sprintf(`UPDATE %s SET %s = FALSE, %s = NULL, %s = NULL, %s = NULL, %s = NULL, %s = NULL, %s = NOW() WHERE %s = $1`,
			r.columns.TableName,
			r.columns.IsSeller,
			r.columns.SellerName,
			r.columns.SellerBio,
			r.columns.SolanaAddress,
			r.columns.PasswordHash,
			r.columns.Email,
			r.columns.UpdatedAt,
			r.columns.TelegramID)
		if err := tx.Exec(ctx, clearQuery, fromID); err != nil {
			return fmt.Errorf("clear old seller profile: %w", err)
		}

		setEmailQuery := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
			r.columns.TableName,
			r.columns.Email,
			r.columns.TelegramID)
		if err := tx.Exec(ctx, setEmailQuery, toID, email); err != nil {
			return fmt.Errorf("move seller email: %w", err)
		}

		if err := tx.Exec(ctx, `UPDATE products SET seller_id = $2, updated_at = NOW() WHERE seller_id = $1`, fromID, toID); err != nil {
			return fmt.Errorf("move products: %w", err)
		}
		if err := tx.Exec(ctx, `UPDATE seller_payouts SET seller_id = $2 WHERE seller_id = $1 AND status <> 'completed'`, fromID, toID); err != nil {
			return fmt.Errorf("move payouts: %w", err)
		}
		r.Log.Info("seller profile transferred", "from", fromID, "to", toID)
		return nil
	})
}

// List пользователи для админки, новые первыми
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	var users []*domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC LIMIT $1 OFFSET $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &users, query, limit, offset); err != nil {
		r.Log.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Count общее количество пользователей и продавцов
func (r *Repository) Count(ctx context.Context) (int64, int64, error) {
	var row struct {
		Total   int64 `db:"total"`
		Sellers int64 `db:"sellers"`
	}
	query := fmt.Sprintf(`SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE %s) AS sellers FROM %s`,
		r.columns.IsSeller,
		r.columns.TableName)
	if err := r.db.Get(ctx, &row, query); err != nil {
		r.Log.Error("failed to count users", "error", err)
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return row.Total, row.Sellers, nil
}

// WithTransaction выполняет функцию в транзакции с автоматическим commit/rollback
func (r *Repository) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return r.db.WithTransaction(ctx, fn)
}

// AddSaleTx увеличивает счётчики продаж продавца в транзакции
func (r *Repository) AddSaleTx(ctx context.Context, tx persistence.Transaction, sellerID int64, revenue decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = %s + $2, %s = $3 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.TotalSales, r.columns.TotalSales,
		r.columns.TotalRevenue, r.columns.TotalRevenue,
		r.columns.UpdatedAt,
		r.columns.TelegramID)
	rows, err := tx.ExecWithResult(ctx, query, sellerID, revenue, time.Now())
	if err != nil {
		r.Log.Error("failed to add sale in transaction",
			"error", err,
			"seller_id", sellerID)
		return fmt.Errorf("failed to add sale: %w", err)
	}
	if rows == 0 {
		r.Log.Warn("seller not found for sale", "seller_id", sellerID)
		return fmt.Errorf("seller %d: %w", sellerID, domain.ErrNotFound)
	}
	r.Log.Debug("seller sale recorded", "seller_id", sellerID, "revenue", revenue.String())
	return nil
}

func (r *Repository) setColumn(ctx context.Context, column string, telegramID int64, value interface{}) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		column,
		r.columns.UpdatedAt,
		r.columns.TelegramID)
	return r.execOne(ctx, "update "+column, telegramID, query, telegramID, value)
}

func (r *Repository) execOne(ctx context.Context, op string, telegramID int64, query string, args ...interface{}) error {
	rows, err := r.db.ExecWithResult(ctx, query, args...)
	if err != nil {
		r.Log.Error("failed to "+op,
			"error", err,
			"telegram_id", telegramID)
		return pg.MapError("failed to "+op, err)
	}
	if rows == 0 {
		r.Log.Warn("user not found for "+op, "telegram_id", telegramID)
		return fmt.Errorf("user %d: %w", telegramID, domain.ErrNotFound)
	}
	r.Log.Debug(op+" successfully", "telegram_id", telegramID)
	return nil
}
