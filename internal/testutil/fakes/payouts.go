package fakes

import (
	"context"
	"sort"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/google/uuid"
)

// PayoutRepo repository.IPayoutRepo поверх DB
type PayoutRepo struct {
	*DB
}

func (r PayoutRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payouts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r PayoutRepo) filter(keep func(p domain.Payout) bool, newestFirst bool) []domain.Payout {
	out := make([]domain.Payout, 0)
	for _, p := range r.payouts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r PayoutRepo) ListBySeller(_ context.Context, sellerID int64, limit int) ([]*domain.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.filter(func(p domain.Payout) bool { return p.SellerID == sellerID }, true), limit, 0), nil
}

func (r PayoutRepo) ListByStatus(_ context.Context, statuses []domain.PayoutStatus, limit int) ([]*domain.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.filter(func(p domain.Payout) bool {
		for _, s := range statuses {
			if p.Status == s {
				return true
			}
		}
		return false
	}, false), limit, 0), nil
}

func (r PayoutRepo) MarkReady(_ context.Context, now time.Time) ([]*domain.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	due := r.filter(func(p domain.Payout) bool {
		return p.Status == domain.PayoutStatusPending && !p.ReleaseAfter.After(now)
	}, false)
	for i := range due {
		due[i].Status = domain.PayoutStatusReady
		r.payouts[due[i].ID] = due[i]
	}
	return page(due, 0, 0), nil
}

func (r PayoutRepo) MarkCompleted(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payouts[id]
	if !ok || p.Status == domain.PayoutStatusCompleted {
		return false, nil
	}
	p.Status = domain.PayoutStatusCompleted
	p.CompletedAt = &at
	r.payouts[id] = p
	return true, nil
}

func (r PayoutRepo) UpdateOpenWallet(_ context.Context, sellerID int64, wallet string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.payouts {
		if p.SellerID != sellerID || !p.IsOpen() {
			continue
		}
		p.WalletAddress = wallet
		r.payouts[id] = p
		n++
	}
	return n, nil
}

func (r PayoutRepo) CreateTx(_ context.Context, _ persistence.Transaction, payout *domain.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = r.Now()
	}
	r.payouts[payout.ID] = *payout
	return nil
}

func (r PayoutRepo) ExistsForOrderTx(_ context.Context, _ persistence.Transaction, orderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payouts {
		for _, id := range p.OrderIDs {
			if id == orderID {
				return true, nil
			}
		}
	}
	return false, nil
}
