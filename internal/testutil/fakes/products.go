package fakes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

// ProductRepo repository.IProductRepo поверх DB
type ProductRepo struct {
	*DB
}

func (r ProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ProductID]; ok {
		return domain.ErrAlreadyExists
	}
	p := *product
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt
	r.products[p.ProductID] = p
	return nil
}

func (r ProductRepo) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// sorted новые первыми, как ORDER BY created_at DESC
func (r ProductRepo) sorted(keep func(p domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ProductID > out[j].ProductID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r ProductRepo) ListByCategory(_ context.Context, category string, limit, offset int) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(p domain.Product) bool {
		return p.Category == category && p.Status == domain.ProductStatusActive
	})
	return page(all, limit, offset), nil
}

func (r ProductRepo) CountByCategory(_ context.Context, category string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.products {
		if p.Category == category && p.Status == domain.ProductStatusActive {
			n++
		}
	}
	return n, nil
}

func (r ProductRepo) ListBySeller(_ context.Context, sellerID int64) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.sorted(func(p domain.Product) bool { return p.SellerID == sellerID }), 0, 0), nil
}

func (r ProductRepo) Search(_ context.Context, query string, limit int) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lower := strings.ToLower(query)
	all := r.sorted(func(p domain.Product) bool {
		if p.Status != domain.ProductStatusActive {
			return false
		}
		return strings.EqualFold(p.ProductID, query) || strings.Contains(strings.ToLower(p.Title), lower)
	})
	return page(all, limit, 0), nil
}

func (r ProductRepo) ListRecent(_ context.Context, limit, offset int) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(p domain.Product) bool { return p.Status == domain.ProductStatusActive })
	return page(all, limit, offset), nil
}

func (r ProductRepo) update(productID string, fn func(p *domain.Product) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := fn(&p); err != nil {
		return err
	}
	p.UpdatedAt = r.Now()
	r.products[productID] = p
	return nil
}

func (r ProductRepo) UpdateField(_ context.Context, productID string, field domain.ProductField, value interface{}) error {
	return r.update(productID, func(p *domain.Product) error {
		switch field {
		case domain.ProductFieldTitle:
			p.Title = fmt.Sprint(value)
		case domain.ProductFieldDescription:
			p.Description = fmt.Sprint(value)
		case domain.ProductFieldCategory:
			p.Category = fmt.Sprint(value)
		case domain.ProductFieldPrice:
			d, ok := value.(decimal.Decimal)
			if !ok {
				return fmt.Errorf("price must be decimal, got %T", value)
			}
			p.PriceUSD = d
		default:
			return domain.NewValidationError("field", "unknown field")
		}
		return nil
	})
}

func (r ProductRepo) UpdatePrice(_ context.Context, productID string, priceUSD, priceEUR decimal.Decimal) error {
	return r.update(productID, func(p *domain.Product) error {
		p.PriceUSD = priceUSD
		p.PriceEUR = priceEUR
		return nil
	})
}

func (r ProductRepo) SetStatus(_ context.Context, productID string, status domain.ProductStatus, adminLocked bool) error {
	return r.update(productID, func(p *domain.Product) error {
		p.Status = status
		p.AdminLocked = adminLocked
		p.SellerSuspended = false
		return nil
	})
}

func (r ProductRepo) SuspendBySeller(_ context.Context, sellerID int64) (int64, error) {
	return r.bySeller(sellerID, func(p *domain.Product) bool {
		if p.Status != domain.ProductStatusActive || p.AdminLocked {
			return false
		}
		p.Status = domain.ProductStatusSuspended
		p.AdminLocked = true
		p.SellerSuspended = true
		return true
	})
}

func (r ProductRepo) RestoreBySeller(_ context.Context, sellerID int64) (int64, error) {
	return r.bySeller(sellerID, func(p *domain.Product) bool {
		if !p.SellerSuspended {
			return false
		}
		p.Status = domain.ProductStatusActive
		p.AdminLocked = false
		p.SellerSuspended = false
		return true
	})
}

func (r ProductRepo) bySeller(sellerID int64, fn func(p *domain.Product) bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.products {
		if p.SellerID != sellerID || !fn(&p) {
			continue
		}
		r.products[id] = p
		n++
	}
	return n, nil
}

func (r ProductRepo) IncrementViews(_ context.Context, productID string) error {
	return r.update(productID, func(p *domain.Product) error {
		p.ViewsCount++
		return nil
	})
}

func (r ProductRepo) UpdateRating(_ context.Context, productID string) error {
	r.mu.Lock()
	var sum, n int
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			n++
		}
	}
	r.mu.Unlock()
	return r.update(productID, func(p *domain.Product) error {
		p.ReviewsCount = int64(n)
		if n > 0 {
			p.Rating = float64(sum) / float64(n)
		}
		return nil
	})
}

func (r ProductRepo) Delete(_ context.Context, productID string, sellerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok || p.SellerID != sellerID {
		return domain.ErrNotFound
	}
	delete(r.products, productID)
	return nil
}

func (r ProductRepo) Count(_ context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active int64
	for _, p := range r.products {
		if p.Status == domain.ProductStatusActive {
			active++
		}
	}
	return int64(len(r.products)), active, nil
}

func (r ProductRepo) IncrementSalesTx(_ context.Context, _ persistence.Transaction, productID string) error {
	return r.update(productID, func(p *domain.Product) error {
		p.SalesCount++
		return nil
	})
}
