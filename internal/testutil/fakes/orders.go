package fakes

import (
	"context"
	"sort"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

// OrderRepo repository.IOrderRepo поверх DB
type OrderRepo struct {
	*DB
}

func (r OrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.OrderID]; ok {
		return domain.ErrAlreadyExists
	}
	o := *order
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.Now()
	}
	r.orders[o.OrderID] = o
	order.CreatedAt = o.CreatedAt
	return nil
}

func (r OrderRepo) GetByID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r OrderRepo) GetByGatewayID(_ context.Context, paymentID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.GatewayPaymentID() == paymentID {
			found := o
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r OrderRepo) newestFirst(keep func(o domain.Order) bool) []domain.Order {
	out := make([]domain.Order, 0)
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r OrderRepo) FindOpen(_ context.Context, buyerID int64, productID string, since time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	open := r.newestFirst(func(o domain.Order) bool {
		return o.BuyerID == buyerID && o.ProductID == productID &&
			(o.PaymentStatus == domain.PaymentStatusWaiting || o.PaymentStatus == domain.PaymentStatusConfirming) &&
			o.NowPaymentsID != nil && !o.CreatedAt.Before(since)
	})
	if len(open) == 0 {
		return nil, domain.ErrNotFound
	}
	return &open[0], nil
}

func (r OrderRepo) HasCompleted(_ context.Context, buyerID int64, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.BuyerID == buyerID && o.ProductID == productID && o.PaymentStatus == domain.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r OrderRepo) ListCompletedByBuyer(_ context.Context, buyerID int64) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.newestFirst(func(o domain.Order) bool {
		return o.BuyerID == buyerID && o.PaymentStatus == domain.PaymentStatusCompleted
	}), 0, 0), nil
}

func (r OrderRepo) ListCompletedBySeller(_ context.Context, sellerID int64, limit int) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.newestFirst(func(o domain.Order) bool {
		return o.SellerID == sellerID && o.PaymentStatus == domain.PaymentStatusCompleted
	}), limit, 0), nil
}

func (r OrderRepo) UpdateStatus(_ context.Context, orderID string, to domain.PaymentStatus, from ...domain.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if o.PaymentStatus == f {
			o.PaymentStatus = to
			r.orders[orderID] = o
			return true, nil
		}
	}
	return false, nil
}

func (r OrderRepo) ExpireStale(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, o := range r.orders {
		if (o.PaymentStatus == domain.PaymentStatusPending || o.PaymentStatus == domain.PaymentStatusWaiting) && o.CreatedAt.Before(before) {
			o.PaymentStatus = domain.PaymentStatusExpired
			r.orders[id] = o
			n++
		}
	}
	return n, nil
}

func (r OrderRepo) ClaimDelivery(_ context.Context, orderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.FileDelivered || o.PaymentStatus != domain.PaymentStatusCompleted {
		return false, nil
	}
	o.FileDelivered = true
	r.orders[orderID] = o
	return true, nil
}

func (r OrderRepo) ReleaseDelivery(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[orderID]; ok {
		o.FileDelivered = false
		r.orders[orderID] = o
	}
	return nil
}

func (r OrderRepo) IncrementDownloads(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.DownloadCount++
	r.orders[orderID] = o
	return nil
}

func (r OrderRepo) Stats(_ context.Context) (int64, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var completed int64
	volume := decimal.Zero
	for _, o := range r.orders {
		if o.PaymentStatus == domain.PaymentStatusCompleted {
			completed++
			volume = volume.Add(o.ProductPriceUSD)
		}
	}
	return completed, volume, nil
}

func (r OrderRepo) MarkCompletedTx(_ context.Context, _ persistence.Transaction, orderID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.PaymentStatus == domain.PaymentStatusCompleted {
		return false, nil
	}
	o.PaymentStatus = domain.PaymentStatusCompleted
	o.CompletedAt = &at
	r.orders[orderID] = o
	return true, nil
}
