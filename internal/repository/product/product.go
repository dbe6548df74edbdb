package productRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	ports "github.com/admin/tg-bots/market-bot/internal/ports/repository"

	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

type productColumns struct {
	TableName       string
	ProductID       string
	SellerID        string
	Title           string
	Description     string
	Category        string
	PriceUSD        string
	PriceEUR        string
	MainFileURL     string
	FileName        string
	FileSizeMB      string
	CoverImageURL   string
	Status          string
	AdminLocked     string
	SellerSuspended string
	ViewsCount      string
	SalesCount      string
	Rating          string
	ReviewsCount    string
	CreatedAt       string
	UpdatedAt       string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns productColumns
}

// New создаёт новый репозиторий для работы с товарами
func New(db persistence.Persistence, log *slog.Logger) ports.IProductRepo {
	cols := productColumns{
		TableName:       "products",
		ProductID:       "product_id",
		SellerID:        "seller_id",
		Title:           "title",
		Description:     "description",
		Category:        "category",
		PriceUSD:        "price_usd",
		PriceEUR:        "price_eur",
		MainFileURL:     "main_file_url",
		FileName:        "file_name",
		FileSizeMB:      "file_size_mb",
		CoverImageURL:   "cover_image_url",
		Status:          "status",
		AdminLocked:     "admin_locked",
		SellerSuspended: "seller_suspended",
		ViewsCount:      "views_count",
		SalesCount:      "sales_count",
		Rating:          "rating",
		ReviewsCount:    "reviews_count",
		CreatedAt:       "created_at",
		UpdatedAt:       "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return strings.Join([]string{
		r.columns.ProductID,
		r.columns.SellerID,
		r.columns.Title,
		r.columns.Description,
		r.columns.Category,
		r.columns.PriceUSD,
		r.columns.PriceEUR,
		r.columns.MainFileURL,
		r.columns.FileName,
		r.columns.FileSizeMB,
		r.columns.CoverImageURL,
		r.columns.Status,
		r.columns.AdminLocked,
		r.columns.SellerSuspended,
		r.columns.ViewsCount,
		r.columns.SalesCount,
		r.columns.Rating,
		r.columns.ReviewsCount,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
	}, ", ")
}

// Create создаёт товар
func (r *Repository) Create(ctx context.Context, product *domain.Product) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		product.ProductID,
		product.SellerID,
		product.Title,
		product.Description,
		product.Category,
		product.PriceUSD,
		product.PriceEUR,
		product.MainFileURL,
		product.FileName,
		product.FileSizeMB,
		product.CoverImageURL,
		product.Status,
		product.AdminLocked,
		product.SellerSuspended,
		product.ViewsCount,
		product.SalesCount,
		product.Rating,
		product.ReviewsCount,
		product.CreatedAt,
		product.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to create product",
			"error", err,
			"product_id", product.ProductID,
			"seller_id", product.SellerID)
		return pg.MapError("failed to create product", err)
	}
	r.Log.Debug("product created successfully",
		"product_id", product.ProductID,
		"seller_id", product.SellerID)
	return nil
}

// GetByID получает товар по ID
func (r *Repository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ProductID)
	err := r.db.Get(ctx, &product, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("product not found", "product_id", productID)
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		r.Log.Error("failed to get product", "error", err, "product_id", productID)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ListByCategory активные товары категории, популярные первыми
func (r *Repository) ListByCategory(ctx context.Context, category string, limit, offset int) ([]*domain.Product, error) {
	var products []*domain.Product
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC, %s DESC LIMIT $3 OFFSET $4`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Category,
		r.columns.Status,
		r.columns.SalesCount,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &products, query, category, domain.ProductStatusActive, limit, offset); err != nil {
		r.Log.Error("failed to list products by category", "error", err, "category", category)
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}

func (r *Repository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = $2`,
		r.columns.TableName,
		r.columns.Category,
		r.columns.Status)
	if err := r.db.Get(ctx, &count, query, category, domain.ProductStatusActive); err != nil {
		r.Log.Error("failed to count products by category", "error", err, "category", category)
		return 0, fmt.Errorf("failed to count products by category: %w", err)
	}
	return count, nil
}

// ListBySeller все товары продавца, включая неактивные
func (r *Repository) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Product, error) {
	var products []*domain.Product
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.SellerID,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &products, query, sellerID); err != nil {
		r.Log.Error("failed to list seller products", "error", err, "seller_id", sellerID)
		return nil, fmt.Errorf("failed to list seller products: %w", err)
	}
	return products, nil
}

// Search поиск по точному ID или по подстроке в названии
func (r *Repository) Search(ctx context.Context, text string, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE %s = $1 AND (UPPER(%s) = UPPER($2) OR %s ILIKE '%%' || $3 || '%%')
		ORDER BY %s DESC LIMIT $4`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Status,
		r.columns.ProductID,
		r.columns.Title,
		r.columns.SalesCount)
	if err := r.db.Select(ctx, &products, query, domain.ProductStatusActive, text, escapeLike(text), limit); err != nil {
		r.Log.Error("failed to search products", "error", err)
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// ListRecent все товары для админки
func (r *Repository) ListRecent(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	var products []*domain.Product
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC LIMIT $1 OFFSET $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &products, query, limit, offset); err != nil {
		r.Log.Error("failed to list recent products", "error", err)
		return nil, fmt.Errorf("failed to list recent products: %w", err)
	}
	return products, nil
}

// UpdateField меняет одно редактируемое поле товара
func (r *Repository) UpdateField(ctx context.Context, productID string, field domain.ProductField, value interface{}) error {
	column := field.Column()
	if column == "" {
		return domain.NewValidationError("field", "not editable")
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		column,
		r.columns.UpdatedAt,
		r.columns.ProductID)
	return r.execOne(ctx, "update product "+column, productID, query, productID, value)
}

func (r *Repository) UpdatePrice(ctx context.Context, productID string, priceUSD, priceEUR decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.PriceUSD,
		r.columns.PriceEUR,
		r.columns.UpdatedAt,
		r.columns.ProductID)
	return r.execOne(ctx, "update product price", productID, query, productID, priceUSD, priceEUR)
}

// SetStatus меняет статус товара и флаг блокировки админом.
// Ручная смена статуса снимает пометку seller_suspended.
func (r *Repository) SetStatus(ctx context.Context, productID string, status domain.ProductStatus, adminLocked bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = FALSE, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.AdminLocked,
		r.columns.SellerSuspended,
		r.columns.UpdatedAt,
		r.columns.ProductID)
	return r.execOne(ctx, "set product status", productID, query, productID, status, adminLocked)
}

// SuspendBySeller снимает активные товары продавца. Неактивные и уже
// заблокированные товары остаются как есть.
func (r *Repository) SuspendBySeller(ctx context.Context, sellerID int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = $2, %[3]s = TRUE, %[4]s = TRUE, %[5]s = NOW()
		WHERE %[6]s = $1 AND %[2]s = $3 AND NOT %[3]s`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.AdminLocked,
		r.columns.SellerSuspended,
		r.columns.UpdatedAt,
		r.columns.SellerID)
	return r.execBySeller(ctx, "suspend", sellerID, query, sellerID, domain.ProductStatusSuspended, domain.ProductStatusActive)
}

// RestoreBySeller возвращает в продажу товары с пометкой seller_suspended
func (r *Repository) RestoreBySeller(ctx context.Context, sellerID int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = $2, %[3]s = FALSE, %[4]s = FALSE, %[5]s = NOW()
		WHERE %[6]s = $1 AND %[4]s`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.AdminLocked,
		r.columns.SellerSuspended,
		r.columns.UpdatedAt,
		r.columns.SellerID)
	return r.execBySeller(ctx, "restore", sellerID, query, sellerID, domain.ProductStatusActive)
}

func (r *Repository) execBySeller(ctx context.Context, op string, sellerID int64, query string, args ...interface{}) (int64, error) {
	rows, err := r.db.ExecWithResult(ctx, query, args...)
	if err != nil {
		r.Log.Error("failed to "+op+" seller products", "error", err, "seller_id", sellerID)
		return 0, fmt.Errorf("failed to %s seller products: %w", op, err)
	}
	r.Log.Info("seller products "+op+"d", "seller_id", sellerID, "count", rows)
	return rows, nil
}

func (r *Repository) IncrementViews(ctx context.Context, productID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.ViewsCount,
		r.columns.ViewsCount,
		r.columns.ProductID)
	if err := r.db.Exec(ctx, query, productID); err != nil {
		r.Log.Warn("failed to increment views", "error", err, "product_id", productID)
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// UpdateRating пересчитывает рейтинг по отзывам
func (r *Repository) UpdateRating(ctx context.Context, productID string) error {
	query := fmt.Sprintf(`UPDATE %s SET
		%s = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE product_id = $1), 0),
		%s = (SELECT COUNT(*) FROM reviews WHERE product_id = $1)
		WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Rating,
		r.columns.ReviewsCount,
		r.columns.ProductID)
	if err := r.db.Exec(ctx, query, productID); err != nil {
		r.Log.Error("failed to update rating", "error", err, "product_id", productID)
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

// Delete удаляет товар владельца
func (r *Repository) Delete(ctx context.Context, productID string, sellerID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		r.columns.TableName,
		r.columns.ProductID,
		r.columns.SellerID)
	return r.execOne(ctx, "delete product", productID, query, productID, sellerID)
}

// Count всего товаров и активных
func (r *Repository) Count(ctx context.Context) (int64, int64, error) {
	var row struct {
		Total  int64 `db:"total"`
		Active int64 `db:"active"`
	}
	query := fmt.Sprintf(`SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE %s = $1) AS active FROM %s`,
		r.columns.Status,
		r.columns.TableName)
	if err := r.db.Get(ctx, &row, query, domain.ProductStatusActive); err != nil {
		r.Log.Error("failed to count products", "error", err)
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return row.Total, row.Active, nil
}

// IncrementSalesTx увеличивает счётчик продаж товара в транзакции
func (r *Repository) IncrementSalesTx(ctx context.Context, tx persistence.Transaction, productID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.SalesCount,
		r.columns.SalesCount,
		r.columns.UpdatedAt,
		r.columns.ProductID)
	rows, err := tx.ExecWithResult(ctx, query, productID)
	if err != nil {
		r.Log.Error("failed to increment sales in transaction", "error", err, "product_id", productID)
		return fmt.Errorf("failed to increment sales: %w", err)
	}
	if rows == 0 {
		// товар мог быть удалён продавцом после покупки
		r.Log.Warn("product not found for sales increment", "product_id", productID)
	}
	return nil
}

func (r *Repository) execOne(ctx context.Context, op string, productID string, query string, args ...interface{}) error {
	rows, err := r.db.ExecWithResult(ctx, query, args...)
	if err != nil {
		r.Log.Error("failed to "+op, "error", err, "product_id", productID)
		return pg.MapError("failed to "+op, err)
	}
	if rows == 0 {
		r.Log.Warn("product not found for "+op, "product_id", productID)
		return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	r.Log.Debug(op+" successfully", "product_id", productID)
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
