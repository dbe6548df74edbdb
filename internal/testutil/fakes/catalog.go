package fakes

import (
	"context"
	"sort"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/google/uuid"
)

// ReviewRepo repository.IReviewRepo поверх DB
type ReviewRepo struct {
	*DB
}

func (r ReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.ProductID == review.ProductID && rv.BuyerID == review.BuyerID {
			return domain.ErrAlreadyExists
		}
	}
	rv := *review
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	rv.CreatedAt = r.Now()
	r.reviews = append(r.reviews, rv)
	return nil
}

func (r ReviewRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Review, 0)
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ProductID == productID {
			out = append(out, r.reviews[i])
		}
	}
	return page(out, limit, 0), nil
}

// CategoryRepo repository.ICategoryRepo поверх DB
type CategoryRepo struct {
	*DB
}

func (r CategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cats := make([]domain.Category, len(r.categories))
	for i, c := range r.categories {
		c.ProductsCount = r.activeIn(c.Key)
		cats[i] = c
	}
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].SortOrder == cats[j].SortOrder {
			return cats[i].Key < cats[j].Key
		}
		return cats[i].SortOrder < cats[j].SortOrder
	})
	return page(cats, 0, 0), nil
}

func (r CategoryRepo) GetByKey(_ context.Context, key string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Key == key {
			c.ProductsCount = r.activeIn(key)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r CategoryRepo) activeIn(key string) int64 {
	var n int64
	for _, p := range r.products {
		if p.Category == key && p.Status == domain.ProductStatusActive {
			n++
		}
	}
	return n
}

// Counters repository.ICounterRepo поверх DB
type Counters struct {
	*DB
}

func (c Counters) Next(_ context.Context, counter domain.CounterType) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[counter]++
	return c.counters[counter], nil
}
