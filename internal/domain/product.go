package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive    ProductStatus = "active"
	ProductStatusInactive  ProductStatus = "inactive"
	ProductStatusSuspended ProductStatus = "suspended"
	ProductStatusBanned    ProductStatus = "banned"
)

const (
	ProductTitleMinLen       = 5
	ProductTitleMaxLen       = 100
	ProductDescriptionMaxLen = 1000
)

type Product struct {
	ProductID     string          `json:"product_id" db:"product_id"`
	SellerID      int64           `json:"seller_id" db:"seller_id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	Category      string          `json:"category" db:"category"`
	PriceUSD      decimal.Decimal `json:"price_usd" db:"price_usd"`
	PriceEUR      decimal.Decimal `json:"price_eur" db:"price_eur"`
	MainFileURL   string          `json:"main_file_url" db:"main_file_url"`
	FileName      string          `json:"file_name" db:"file_name"`
	FileSizeMB    float64         `json:"file_size_mb" db:"file_size_mb"`
	CoverImageURL *string         `json:"cover_image_url,omitempty" db:"cover_image_url"`
	Status        ProductStatus   `json:"status" db:"status"`
	AdminLocked   bool            `json:"admin_locked" db:"admin_locked"`
	// SellerSuspended товар снят вместе с блокировкой продавца и вернётся при разблокировке
	SellerSuspended bool      `json:"seller_suspended" db:"seller_suspended"`
	ViewsCount      int64     `json:"views_count" db:"views_count"`
	SalesCount      int64     `json:"sales_count" db:"sales_count"`
	Rating          float64   `json:"rating" db:"rating"`
	ReviewsCount    int64     `json:"reviews_count" db:"reviews_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Product) IsPurchasable() bool {
	return p.Status == ProductStatusActive
}

// CanSellerToggle продавец может включать/выключать товар, пока его не заблокировал админ
func (p *Product) CanSellerToggle() bool {
	if p.AdminLocked {
		return false
	}
	return p.Status == ProductStatusActive || p.Status == ProductStatusInactive
}

// ProductDraft накопитель мастера создания товара (хранится в состоянии диалога)
type ProductDraft struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	PriceUSD      string `json:"price_usd,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
}

// ProductField поле товара, которое продавец может редактировать
type ProductField string

const (
	ProductFieldTitle       ProductField = "title"
	ProductFieldDescription ProductField = "description"
	ProductFieldPrice       ProductField = "price"
	ProductFieldCategory    ProductField = "category"
)

// Column колонка в таблице products, "" для неизвестного поля
func (f ProductField) Column() string {
	switch f {
	case ProductFieldTitle:
		return "title"
	case ProductFieldDescription:
		return "description"
	case ProductFieldPrice:
		return "price_usd"
	case ProductFieldCategory:
		return "category"
	default:
		return ""
	}
}
