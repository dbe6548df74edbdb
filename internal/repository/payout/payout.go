package payoutRepo

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
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type payoutColumns struct {
	TableName      string
	ID             string
	SellerID       string
	OrderIDs       string
	TotalAmountUSD string
	WalletAddress  string
	Currency       string
	Status         string
	ReleaseAfter   string
	CreatedAt      string
	CompletedAt    string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns payoutColumns
}

// New создаёт новый репозиторий выплат продавцам
func New(db persistence.Persistence, log *slog.Logger) ports.IPayoutRepo {
	cols := payoutColumns{
		TableName:      "seller_payouts",
		ID:             "id",
		SellerID:       "seller_id",
		OrderIDs:       "order_ids",
		TotalAmountUSD: "total_amount_usd",
		WalletAddress:  "wallet_address",
		Currency:       "currency",
		Status:         "status",
		ReleaseAfter:   "release_after",
		CreatedAt:      "created_at",
		CompletedAt:    "completed_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return strings.Join([]string{
		r.columns.ID,
		r.columns.SellerID,
		r.columns.OrderIDs,
		r.columns.TotalAmountUSD,
		r.columns.WalletAddress,
		r.columns.Currency,
		r.columns.Status,
		r.columns.ReleaseAfter,
		r.columns.CreatedAt,
		r.columns.CompletedAt,
	}, ", ")
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payout, error) {
	var payout domain.Payout
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &payout, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("payout not found", "payout_id", id)
			return nil, fmt.Errorf("payout %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get payout", "error", err, "payout_id", id)
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return &payout, nil
}

func (r *Repository) ListBySeller(ctx context.Context, sellerID int64, limit int) ([]*domain.Payout, error) {
	var payouts []*domain.Payout
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.SellerID,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &payouts, query, sellerID, limit); err != nil {
		r.Log.Error("failed to list seller payouts", "error", err, "seller_id", sellerID)
		return nil, fmt.Errorf("failed to list seller payouts: %w", err)
	}
	return payouts, nil
}

// ListByStatus выплаты в указанных статусах, старые первыми
func (r *Repository) ListByStatus(ctx context.Context, statuses []domain.PayoutStatus, limit int) ([]*domain.Payout, error) {
	values := make(pq.StringArray, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	var payouts []*domain.Payout
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC LIMIT $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Status,
		r.columns.ReleaseAfter)
	if err := r.db.Select(ctx, &payouts, query, values, limit); err != nil {
		r.Log.Error("failed to list payouts by status", "error", err)
		return nil, fmt.Errorf("failed to list payouts by status: %w", err)
	}
	return payouts, nil
}

// MarkReady переводит pending выплаты с истёкшим эскроу в ready и возвращает их
func (r *Repository) MarkReady(ctx context.Context, now time.Time) ([]*domain.Payout, error) {
	var payouts []*domain.Payout
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s <= $3 RETURNING %s`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.Status,
		r.columns.ReleaseAfter,
		r.allColumns())
	if err := r.db.Select(ctx, &payouts, query, domain.PayoutStatusReady, domain.PayoutStatusPending, now); err != nil {
		r.Log.Error("failed to mark payouts ready", "error", err)
		return nil, fmt.Errorf("failed to mark payouts ready: %w", err)
	}
	if len(payouts) > 0 {
		r.Log.Info("payouts released from escrow", "count", len(payouts))
	}
	return payouts, nil
}

// MarkCompleted отмечает выплату переведённой, false если уже была завершена
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s <> $2`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.CompletedAt,
		r.columns.ID,
		r.columns.Status)
	rows, err := r.db.ExecWithResult(ctx, query, id, domain.PayoutStatusCompleted, at)
	if err != nil {
		r.Log.Error("failed to complete payout", "error", err, "payout_id", id)
		return false, fmt.Errorf("failed to complete payout: %w", err)
	}
	return rows > 0, nil
}

// UpdateOpenWallet меняет адрес у pending и ready выплат продавца
func (r *Repository) UpdateOpenWallet(ctx context.Context, sellerID int64, wallet string) (int64, error) {
	open := pq.StringArray{string(domain.PayoutStatusPending), string(domain.PayoutStatusReady)}
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s = ANY($3)`,
		r.columns.TableName,
		r.columns.WalletAddress,
		r.columns.SellerID,
		r.columns.Status)
	rows, err := r.db.ExecWithResult(ctx, query, sellerID, wallet, open)
	if err != nil {
		r.Log.Error("failed to update payout wallet", "error", err, "seller_id", sellerID)
		return 0, fmt.Errorf("failed to update payout wallet: %w", err)
	}
	return rows, nil
}

// CreateTx создаёт выплату в транзакции завершения заказа
func (r *Repository) CreateTx(ctx context.Context, tx persistence.Transaction, payout *domain.Payout) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.columns.TableName,
		r.allColumns())
	err := tx.Exec(ctx, query,
		payout.ID,
		payout.SellerID,
		payout.OrderIDs,
		payout.TotalAmountUSD,
		payout.WalletAddress,
		payout.Currency,
		payout.Status,
		payout.ReleaseAfter,
		payout.CreatedAt,
		payout.CompletedAt)
	if err != nil {
		r.Log.Error("failed to create payout in transaction",
			"error", err,
			"seller_id", payout.SellerID,
			"orders", []string(payout.OrderIDs))
		return pg.MapError("failed to create payout", err)
	}
	r.Log.Debug("payout created in transaction",
		"payout_id", payout.ID,
		"seller_id", payout.SellerID,
		"amount", payout.TotalAmountUSD.String())
	return nil
}

// ExistsForOrderTx есть ли уже выплата, включающая заказ
func (r *Repository) ExistsForOrderTx(ctx context.Context, tx persistence.Transaction, orderID string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE $1 = ANY(%s))`,
		r.columns.TableName,
		r.columns.OrderIDs)
	if err := tx.Get(ctx, &exists, query, orderID); err != nil {
		r.Log.Error("failed to check payout for order", "error", err, "order_id", orderID)
		return false, fmt.Errorf("failed to check payout for order: %w", err)
	}
	return exists, nil
}
