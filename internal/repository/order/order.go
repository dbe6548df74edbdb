package orderRepo

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

type orderColumns struct {
	TableName          string
	OrderID            string
	BuyerID            string
	ProductID          string
	SellerID           string
	ProductTitle       string
	ProductPriceUSD    string
	PlatformCommission string
	SellerRevenue      string
	BuyerTotal         string
	PaymentCurrency    string
	CryptoAmount       string
	PaymentAddress     string
	NowPaymentsID      string
	PaymentStatus      string
	FileDelivered      string
	DownloadCount      string
	CreatedAt          string
	CompletedAt        string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns orderColumns
}

// New создаёт новый репозиторий для работы с заказами
func New(db persistence.Persistence, log *slog.Logger) ports.IOrderRepo {
	cols := orderColumns{
		TableName:          "orders",
		OrderID:            "order_id",
		BuyerID:            "buyer_id",
		ProductID:          "product_id",
		SellerID:           "seller_id",
		ProductTitle:       "product_title",
		ProductPriceUSD:    "product_price_usd",
		PlatformCommission: "platform_commission",
		SellerRevenue:      "seller_revenue",
		BuyerTotal:         "buyer_total",
		PaymentCurrency:    "payment_currency",
		CryptoAmount:       "crypto_amount",
		PaymentAddress:     "payment_address",
		NowPaymentsID:      "nowpayments_id",
		PaymentStatus:      "payment_status",
		FileDelivered:      "file_delivered",
		DownloadCount:      "download_count",
		CreatedAt:          "created_at",
		CompletedAt:        "completed_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (18 полей)
func (r *Repository) allColumns() string {
	return strings.Join([]string{
		r.columns.OrderID,
		r.columns.BuyerID,
		r.columns.ProductID,
		r.columns.SellerID,
		r.columns.ProductTitle,
		r.columns.ProductPriceUSD,
		r.columns.PlatformCommission,
		r.columns.SellerRevenue,
		r.columns.BuyerTotal,
		r.columns.PaymentCurrency,
		r.columns.CryptoAmount,
		r.columns.PaymentAddress,
		r.columns.NowPaymentsID,
		r.columns.PaymentStatus,
		r.columns.FileDelivered,
		r.columns.DownloadCount,
		r.columns.CreatedAt,
		r.columns.CompletedAt,
	}, ", ")
}

// Create создаёт новый заказ
func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		order.OrderID,
		order.BuyerID,
		order.ProductID,
		order.SellerID,
		order.ProductTitle,
		order.ProductPriceUSD,
		order.PlatformCommission,
		order.SellerRevenue,
		order.BuyerTotal,
		order.PaymentCurrency,
		order.CryptoAmount,
		order.PaymentAddress,
		order.NowPaymentsID,
		order.PaymentStatus,
		order.FileDelivered,
		order.DownloadCount,
		order.CreatedAt,
		order.CompletedAt)
	if err != nil {
		r.Log.Error("failed to create order",
			"error", err,
			"order_id", order.OrderID,
			"buyer_id", order.BuyerID)
		return pg.MapError("failed to create order", err)
	}
	r.Log.Debug("order created successfully",
		"order_id", order.OrderID,
		"product_id", order.ProductID,
		"status", order.PaymentStatus)
	return nil
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.getOne(ctx, r.columns.OrderID, orderID)
}

// GetByGatewayID получает заказ по ID платежа в NOWPayments
func (r *Repository) GetByGatewayID(ctx context.Context, paymentID string) (*domain.Order, error) {
	return r.getOne(ctx, r.columns.NowPaymentsID, paymentID)
}

func (r *Repository) getOne(ctx context.Context, column string, value string) (*domain.Order, error) {
	var order domain.Order
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		column)
	err := r.db.Get(ctx, &order, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("order not found", column, value)
			return nil, fmt.Errorf("order %s: %w", value, domain.ErrNotFound)
		}
		r.Log.Error("failed to get order",
			"error", err,
			column, value)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// FindOpen ищет незавершённый заказ покупателя на товар, созданный после since
func (r *Repository) FindOpen(ctx context.Context, buyerID int64, productID string, since time.Time) (*domain.Order, error) {
	var order domain.Order
	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IN ($3, $4) AND %s IS NOT NULL AND %s >= $5
		ORDER BY %s DESC LIMIT 1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.BuyerID,
		r.columns.ProductID,
		r.columns.PaymentStatus,
		r.columns.NowPaymentsID,
		r.columns.CreatedAt,
		r.columns.CreatedAt)
	err := r.db.Get(ctx, &order, query, buyerID, productID,
		domain.PaymentStatusWaiting, domain.PaymentStatusConfirming, since)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("open order: %w", domain.ErrNotFound)
		}
		r.Log.Error("failed to find open order",
			"error", err,
			"buyer_id", buyerID,
			"product_id", productID)
		return nil, fmt.Errorf("failed to find open order: %w", err)
	}
	return &order, nil
}

// HasCompleted покупал ли пользователь товар
func (r *Repository) HasCompleted(ctx context.Context, buyerID int64, productID string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3)`,
		r.columns.TableName,
		r.columns.BuyerID,
		r.columns.ProductID,
		r.columns.PaymentStatus)
	if err := r.db.Get(ctx, &exists, query, buyerID, productID, domain.PaymentStatusCompleted); err != nil {
		r.Log.Error("failed to check completed order",
			"error", err,
			"buyer_id", buyerID,
			"product_id", productID)
		return false, fmt.Errorf("failed to check completed order: %w", err)
	}
	return exists, nil
}

// ListCompletedByBuyer библиотека покупателя
func (r *Repository) ListCompletedByBuyer(ctx context.Context, buyerID int64) ([]*domain.Order, error) {
	var orders []*domain.Order
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.BuyerID,
		r.columns.PaymentStatus,
		r.columns.CompletedAt)
	if err := r.db.Select(ctx, &orders, query, buyerID, domain.PaymentStatusCompleted); err != nil {
		r.Log.Error("failed to list buyer orders", "error", err, "buyer_id", buyerID)
		return nil, fmt.Errorf("failed to list buyer orders: %w", err)
	}
	return orders, nil
}

// ListCompletedBySeller последние продажи продавца
func (r *Repository) ListCompletedBySeller(ctx context.Context, sellerID int64, limit int) ([]*domain.Order, error) {
	var orders []*domain.Order
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC LIMIT $3`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.SellerID,
		r.columns.PaymentStatus,
		r.columns.CompletedAt)
	if err := r.db.Select(ctx, &orders, query, sellerID, domain.PaymentStatusCompleted, limit); err != nil {
		r.Log.Error("failed to list seller orders", "error", err, "seller_id", sellerID)
		return nil, fmt.Errorf("failed to list seller orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus меняет статус заказа, если текущий статус входит в from.
// Возвращает false, если заказ уже в другом состоянии.
func (r *Repository) UpdateStatus(ctx context.Context, orderID string, to domain.PaymentStatus, from ...domain.PaymentStatus) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("update order status: empty source statuses")
	}
	args := []interface{}{orderID, to}
	placeholders := make([]string, 0, len(from))
	for i, s := range from {
		args = append(args, s)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IN (%s)`,
		r.columns.TableName,
		r.columns.PaymentStatus,
		r.columns.OrderID,
		r.columns.PaymentStatus,
		strings.Join(placeholders, ", "))
	rows, err := r.db.ExecWithResult(ctx, query, args...)
	if err != nil {
		r.Log.Error("failed to update order status",
			"error", err,
			"order_id", orderID,
			"to", to)
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	r.Log.Debug("order status update", "order_id", orderID, "to", to, "applied", rows > 0)
	return rows > 0, nil
}

// ExpireStale переводит в expired заказы, не оплаченные до before
func (r *Repository) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s IN ($2, $3) AND %s < $4`,
		r.columns.TableName,
		r.columns.PaymentStatus,
		r.columns.PaymentStatus,
		r.columns.CreatedAt)
	rows, err := r.db.ExecWithResult(ctx, query,
		domain.PaymentStatusExpired,
		domain.PaymentStatusPending,
		domain.PaymentStatusWaiting,
		before)
	if err != nil {
		r.Log.Error("failed to expire stale orders", "error", err)
		return 0, fmt.Errorf("failed to expire stale orders: %w", err)
	}
	return rows, nil
}

// ClaimDelivery атомарно помечает файл доставленным.
// Только один вызов для заказа получает true.
func (r *Repository) ClaimDelivery(ctx context.Context, orderID string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = FALSE AND %s = $2`,
		r.columns.TableName,
		r.columns.FileDelivered,
		r.columns.OrderID,
		r.columns.FileDelivered,
		r.columns.PaymentStatus)
	rows, err := r.db.ExecWithResult(ctx, query, orderID, domain.PaymentStatusCompleted)
	if err != nil {
		r.Log.Error("failed to claim delivery", "error", err, "order_id", orderID)
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}
	return rows == 1, nil
}

// ReleaseDelivery снимает отметку о доставке после неудачной отправки
func (r *Repository) ReleaseDelivery(ctx context.Context, orderID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1`,
		r.columns.TableName,
		r.columns.FileDelivered,
		r.columns.OrderID)
	if err := r.db.Exec(ctx, query, orderID); err != nil {
		r.Log.Error("failed to release delivery", "error", err, "order_id", orderID)
		return fmt.Errorf("failed to release delivery: %w", err)
	}
	return nil
}

func (r *Repository) IncrementDownloads(ctx context.Context, orderID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.DownloadCount,
		r.columns.DownloadCount,
		r.columns.OrderID)
	if err := r.db.Exec(ctx, query, orderID); err != nil {
		r.Log.Error("failed to increment downloads", "error", err, "order_id", orderID)
		return fmt.Errorf("failed to increment downloads: %w", err)
	}
	return nil
}

// Stats количество завершённых заказов и оборот в USD
func (r *Repository) Stats(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Completed int64           `db:"completed"`
		Volume    decimal.Decimal `db:"volume"`
	}
	query := fmt.Sprintf(`SELECT COUNT(*) AS completed, COALESCE(SUM(%s), 0) AS volume FROM %s WHERE %s = $1`,
		r.columns.ProductPriceUSD,
		r.columns.TableName,
		r.columns.PaymentStatus)
	if err := r.db.Get(ctx, &row, query, domain.PaymentStatusCompleted); err != nil {
		r.Log.Error("failed to get order stats", "error", err)
		return 0, decimal.Zero, fmt.Errorf("failed to get order stats: %w", err)
	}
	return row.Completed, row.Volume, nil
}

// WithTransaction выполняет функцию в транзакции с автоматическим commit/rollback
func (r *Repository) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return r.db.WithTransaction(ctx, fn)
}

// MarkCompletedTx переводит заказ в completed в транзакции.
// false означает, что заказ уже был завершён другим вызовом.
func (r *Repository) MarkCompletedTx(ctx context.Context, tx persistence.Transaction, orderID string, at time.Time) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s <> $2`,
		r.columns.TableName,
		r.columns.PaymentStatus,
		r.columns.CompletedAt,
		r.columns.OrderID,
		r.columns.PaymentStatus)
	rows, err := tx.ExecWithResult(ctx, query, orderID, domain.PaymentStatusCompleted, at)
	if err != nil {
		r.Log.Error("failed to mark order completed",
			"error", err,
			"order_id", orderID)
		return false, fmt.Errorf("failed to mark order completed: %w", err)
	}
	r.Log.Debug("order completion", "order_id", orderID, "applied", rows > 0)
	return rows > 0, nil
}
