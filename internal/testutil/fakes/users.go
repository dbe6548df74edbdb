package fakes

import (
	"context"
	"sort"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/shopspring/decimal"
)

// UserRepo repository.IUserRepo поверх DB
type UserRepo struct {
	*DB
}

func (r UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.TelegramID]; ok {
		return domain.ErrAlreadyExists
	}
	u := *user
	if u.Status == "" {
		u.Status = domain.UserStatusActive
	}
	u.CreatedAt = r.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.TelegramID] = u
	return nil
}

func (r UserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r UserRepo) update(telegramID int64, fn func(u *domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[telegramID]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = r.Now()
	r.users[telegramID] = u
	return nil
}

func (r UserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	return r.update(user.TelegramID, func(u *domain.User) {
		u.Username = user.Username
		u.FirstName = user.FirstName
	})
}

func (r UserRepo) UpdateLocale(_ context.Context, telegramID int64, locale string) error {
	return r.update(telegramID, func(u *domain.User) { u.Locale = locale })
}

func (r UserRepo) BecomeSeller(_ context.Context, telegramID int64, sellerName, email, solanaAddress string) error {
	return r.update(telegramID, func(u *domain.User) {
		u.IsSeller = true
		u.SellerName = ptr(sellerName)
		u.Email = ptr(email)
		u.SolanaAddress = ptr(solanaAddress)
	})
}

func (r UserRepo) UpdateSellerBio(_ context.Context, telegramID int64, bio string) error {
	return r.update(telegramID, func(u *domain.User) { u.SellerBio = ptr(bio) })
}

func (r UserRepo) UpdateSolanaAddress(_ context.Context, telegramID int64, address string) error {
	return r.update(telegramID, func(u *domain.User) { u.SolanaAddress = ptr(address) })
}

func (r UserRepo) SetPasswordHash(_ context.Context, telegramID int64, hash string) error {
	return r.update(telegramID, func(u *domain.User) { u.PasswordHash = ptr(hash) })
}

func (r UserRepo) SetStatus(_ context.Context, telegramID int64, status domain.UserStatus) error {
	return r.update(telegramID, func(u *domain.User) { u.Status = status })
}

func (r UserRepo) TransferSeller(_ context.Context, fromID, toID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.users[fromID]
	if !ok {
		return domain.ErrNotFound
	}
	dst, ok := r.users[toID]
	if !ok {
		return domain.ErrNotFound
	}
	dst.IsSeller = true
	dst.SellerName = src.SellerName
	dst.SellerBio = src.SellerBio
	dst.Email = src.Email
	dst.SolanaAddress = src.SolanaAddress
	dst.PasswordHash = src.PasswordHash
	dst.TotalSales = src.TotalSales
	dst.TotalRevenue = src.TotalRevenue
	if src.Status == domain.UserStatusSuspended {
		dst.Status = src.Status
	}
	r.users[toID] = dst

	src.IsSeller = false
	src.SellerName, src.SellerBio, src.Email, src.SolanaAddress, src.PasswordHash = nil, nil, nil, nil, nil
	src.TotalSales = 0
	src.TotalRevenue = decimal.Zero
	r.users[fromID] = src

	for id, p := range r.products {
		if p.SellerID == fromID {
			p.SellerID = toID
			r.products[id] = p
		}
	}
	return nil
}

func (r UserRepo) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TelegramID < all[j].TelegramID })
	return page(all, limit, offset), nil
}

func (r UserRepo) Count(_ context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sellers int64
	for _, u := range r.users {
		if u.IsSeller {
			sellers++
		}
	}
	return int64(len(r.users)), sellers, nil
}

func (r UserRepo) AddSaleTx(_ context.Context, _ persistence.Transaction, sellerID int64, revenue decimal.Decimal) error {
	return r.update(sellerID, func(u *domain.User) {
		u.TotalSales++
		u.TotalRevenue = u.TotalRevenue.Add(revenue)
	})
}

func page[T any](all []T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]*T, len(all))
	for i := range all {
		v := all[i]
		out[i] = &v
	}
	return out
}
