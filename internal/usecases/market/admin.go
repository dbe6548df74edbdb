package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	adminListLimit = 20
	statsScanLimit = 1000
)

func (s *Service) handleAdminCallback(ctx context.Context, user *domain.User, v view, cb Callback) error {
	if !s.isAdmin(user) {
		s.Log.Warn("non-admin tried admin action", "user_id", user.TelegramID, "action", cb.Action)
		return s.show(ctx, v, s.t(user, texts.AccessDenied), backKeyboard(s, user))
	}

	switch cb.Action {
	case ActionAdminMenu:
		return s.showAdminMenu(ctx, user, v)
	case ActionAdminStats:
		return s.showAdminStats(ctx, user, v)
	case ActionAdminUsers:
		return s.showAdminUsers(ctx, user, v, cb.Page)
	case ActionAdminUser:
		return s.withUserID(ctx, user, v, cb.ID, s.showAdminUser)
	case ActionAdminSuspendUser:
		return s.withUserID(ctx, user, v, cb.ID, s.suspendUser)
	case ActionAdminRestoreUser:
		return s.withUserID(ctx, user, v, cb.ID, s.restoreUser)
	case ActionAdminProducts:
		return s.showAdminProducts(ctx, user, v)
	case ActionAdminSuspendProduct:
		return s.setProductModeration(ctx, user, v, cb.ID, true)
	case ActionAdminRestoreProduct:
		return s.setProductModeration(ctx, user, v, cb.ID, false)
	case ActionAdminPayouts:
		return s.showAdminPayouts(ctx, user, v)
	case ActionAdminPayoutDone:
		return s.completePayout(ctx, user, v, cb.ID, false)
	case ActionAdminPayoutForce:
		return s.completePayout(ctx, user, v, cb.ID, true)
	case ActionAdminTickets:
		return s.showAdminTickets(ctx, user, v)
	}
	return nil
}

func (s *Service) showAdminMenu(ctx context.Context, user *domain.User, v view) error {
	if !s.isAdmin(user) {
		return s.show(ctx, v, s.t(user, texts.AccessDenied), backKeyboard(s, user))
	}
	kb := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnAdminStats, "admin_stats")),
		domain.Row(button(s, user, texts.BtnAdminUsers, "admin_users"), button(s, user, texts.BtnAdminProducts, "admin_products")),
		domain.Row(button(s, user, texts.BtnAdminPayouts, "admin_payouts"), button(s, user, texts.BtnAdminTickets, "admin_tickets")),
	}
	kb = append(kb, backKeyboard(s, user)...)
	return s.show(ctx, v, s.t(user, texts.AdminMenu), kb)
}

func (s *Service) showAdminStats(ctx context.Context, user *domain.User, v view) error {
	users, sellers, err := s.UserRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	products, active, err := s.ProductRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	sales, volume, err := s.OrderRepo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get order stats: %w", err)
	}
	pending, err := s.Payouts.ListPending(ctx, statsScanLimit)
	if err != nil {
		return err
	}
	owed := decimal.Zero
	for _, p := range pending {
		owed = owed.Add(p.TotalAmountUSD)
	}
	tickets, err := s.SupportRepo.ListOpen(ctx, statsScanLimit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list open tickets: %w", err)
	}

	text := s.t(user, texts.AdminStats,
		users, sellers,
		products, active,
		sales, volume.StringFixed(2),
		s.Pricing().Commission(volume).StringFixed(2),
		len(pending), owed.StringFixed(2),
		len(tickets),
	)
	return s.show(ctx, v, text, backTo(s, user, "admin_menu"))
}

func (s *Service) showAdminUsers(ctx context.Context, user *domain.User, v view, page int) error {
	users, err := s.UserRepo.List(ctx, pageSize+1, page*pageSize)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list users: %w", err)
	}
	hasNext := len(users) > pageSize
	if hasNext {
		users = users[:pageSize]
	}
	var kb domain.Keyboard
	for _, u := range users {
		icon := "👤"
		switch {
		case u.IsSuspended():
			icon = "⛔"
		case u.IsSeller:
			icon = "🏪"
		}
		kb = append(kb, domain.Row(domain.CallbackButton(fmt.Sprintf("%s %s · %d", icon, truncate(u.DisplayName(), 24), u.TelegramID), cbAdminUser(u.TelegramID))))
	}
	if row := pager(page, hasNext, cbAdminUsers); len(row) > 0 {
		kb = append(kb, row)
	}
	kb = append(kb, backTo(s, user, "admin_menu")...)
	return s.show(ctx, v, s.t(user, texts.AdminUsers, page+1), kb)
}

func (s *Service) withUserID(ctx context.Context, user *domain.User, v view, raw string, fn func(context.Context, *domain.User, view, *domain.User) error) error {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return s.show(ctx, v, s.t(user, texts.UnknownAction), backTo(s, user, "admin_users"))
	}
	target, err := s.UserRepo.GetByTelegramID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return s.show(ctx, v, s.t(user, texts.UserNotFound), backTo(s, user, "admin_users"))
	}
	if err != nil {
		return fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return fn(ctx, user, v, target)
}

func (s *Service) showAdminUser(ctx context.Context, user *domain.User, v view, target *domain.User) error {
	username := "—"
	if target.Username != nil {
		username = "@" + *target.Username
	}
	var b strings.Builder
	b.WriteString(s.t(user, texts.AdminUserCard,
		escape(target.DisplayName()),
		target.TelegramID,
		escape(username),
		s.t(user, texts.StatusKey(string(target.Status))),
		target.IsSeller,
		target.TotalSales,
		target.TotalRevenue.StringFixed(2),
	))

	var kb domain.Keyboard
	if target.IsSeller {
		products, err := s.ProductRepo.ListBySeller(ctx, target.TelegramID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to list seller products: %w", err)
		}
		for _, p := range products {
			fmt.Fprintf(&b, "\n%s %s · %s", productStatusIcon(p), escape(truncate(p.Title, 40)), p.ProductID)
			if p.Status == domain.ProductStatusSuspended {
				kb = append(kb, domain.Row(domain.CallbackButton("♻️ "+truncate(p.Title, 30), cbAdminRestoreProduct(p.ProductID))))
			} else {
				kb = append(kb, domain.Row(domain.CallbackButton("🚫 "+truncate(p.Title, 30), cbAdminSuspendProduct(p.ProductID))))
			}
		}
	}
	if target.TelegramID != s.Config.AdminID {
		if target.IsSuspended() {
			kb = append(kb, domain.Row(button(s, user, texts.BtnRestoreUser, cbAdminRestoreUser(target.TelegramID))))
		} else {
			kb = append(kb, domain.Row(button(s, user, texts.BtnSuspendUser, cbAdminSuspendUser(target.TelegramID))))
		}
	}
	kb = append(kb, backTo(s, user, "admin_users")...)
	return s.show(ctx, v, b.String(), kb)
}

// suspendUser блокирует пользователя и снимает его активные товары
func (s *Service) suspendUser(ctx context.Context, user *domain.User, v view, target *domain.User) error {
	if target.TelegramID == s.Config.AdminID {
		return s.show(ctx, v, s.t(user, texts.AccessDenied), backTo(s, user, "admin_users"))
	}
	if err := s.UserRepo.SetStatus(ctx, target.TelegramID, domain.UserStatusSuspended); err != nil {
		return fmt.Errorf("failed to suspend user %d: %w", target.TelegramID, err)
	}
	count, err := s.ProductRepo.SuspendBySeller(ctx, target.TelegramID)
	if err != nil {
		return fmt.Errorf("failed to suspend products of %d: %w", target.TelegramID, err)
	}
	target.Status = domain.UserStatusSuspended
	s.Log.Info("user suspended", "user_id", target.TelegramID, "admin_id", user.TelegramID, "products", count)

	if err := s.Telegram.SendMessage(ctx, target.TelegramID, s.t(target, texts.YouWereSuspended)); err != nil {
		s.Log.Warn("failed to notify suspended user", "error", err, "user_id", target.TelegramID)
	}
	return s.showAdminUser(ctx, user, v, target)
}

func (s *Service) restoreUser(ctx context.Context, user *domain.User, v view, target *domain.User) error {
	if err := s.UserRepo.SetStatus(ctx, target.TelegramID, domain.UserStatusActive); err != nil {
		return fmt.Errorf("failed to restore user %d: %w", target.TelegramID, err)
	}
	count, err := s.ProductRepo.RestoreBySeller(ctx, target.TelegramID)
	if err != nil {
		return fmt.Errorf("failed to restore products of %d: %w", target.TelegramID, err)
	}
	target.Status = domain.UserStatusActive
	s.Log.Info("user restored", "user_id", target.TelegramID, "admin_id", user.TelegramID, "products", count)

	if err := s.Telegram.SendMessage(ctx, target.TelegramID, s.t(target, texts.YouWereRestored)); err != nil {
		s.Log.Warn("failed to notify restored user", "error", err, "user_id", target.TelegramID)
	}
	return s.showAdminUser(ctx, user, v, target)
}

func (s *Service) showAdminProducts(ctx context.Context, user *domain.User, v view) error {
	products, err := s.ProductRepo.ListRecent(ctx, adminListLimit, 0)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list products: %w", err)
	}
	var kb domain.Keyboard
	for _, p := range products {
		kb = append(kb, domain.Row(
			domain.CallbackButton(truncate(p.Title, 30), cbProduct(p.ProductID)),
			domain.CallbackButton("🚫", cbAdminSuspendProduct(p.ProductID)),
		))
	}
	kb = append(kb, backTo(s, user, "admin_menu")...)
	return s.show(ctx, v, s.t(user, texts.AdminProducts, len(products)), kb)
}

// setProductModeration блокировка товара админом, продавец не может включить его обратно
func (s *Service) setProductModeration(ctx context.Context, user *domain.User, v view, productID string, suspend bool) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	status, locked := domain.ProductStatusActive, false
	if suspend {
		status, locked = domain.ProductStatusSuspended, true
	}
	if err := s.ProductRepo.SetStatus(ctx, productID, status, locked); err != nil {
		return fmt.Errorf("failed to moderate product %s: %w", productID, err)
	}
	s.Log.Info("product moderated", "product_id", productID, "status", status, "admin_id", user.TelegramID)

	if seller, err := s.UserRepo.GetByTelegramID(ctx, product.SellerID); err == nil {
		key := texts.ProductRestoredByAdmin
		if suspend {
			key = texts.ProductSuspendedByAdmin
		}
		if err := s.Telegram.SendMessage(ctx, seller.TelegramID, s.t(seller, key, escape(product.Title))); err != nil {
			s.Log.Warn("failed to notify seller about moderation", "error", err, "seller_id", seller.TelegramID)
		}
	}
	return s.show(ctx, v, s.t(user, texts.ProductModerated, escape(product.Title), s.t(user, texts.StatusKey(string(status)))), domain.Keyboard{
		domain.Row(button(s, user, texts.BtnBack, cbAdminUser(product.SellerID))),
		domain.Row(button(s, user, texts.BtnAdminMenu, "admin_menu")),
	})
}

func (s *Service) showAdminPayouts(ctx context.Context, user *domain.User, v view) error {
	payouts, err := s.Payouts.ListPending(ctx, adminListLimit)
	if err != nil {
		return err
	}
	now := s.Now().UTC()
	var b strings.Builder
	b.WriteString(s.t(user, texts.AdminPayouts, len(payouts)))
	var kb domain.Keyboard
	for _, p := range payouts {
		short := p.ID.String()[:8]
		wallet := p.WalletAddress
		if wallet == "" {
			wallet = s.t(user, texts.NotSet)
		}
		fmt.Fprintf(&b, "\n\n<b>%s</b> · seller %d\n$%s %s → <code>%s</code>\n%s",
			short, p.SellerID, p.TotalAmountUSD.StringFixed(2), p.Currency, escape(wallet),
			p.ReleaseAfter.UTC().Format("02.01 15:04 UTC"))
		if p.IsReleasable(now) {
			kb = append(kb, domain.Row(domain.CallbackButton("✅ "+short, cbAdminPayoutDone(p.ID.String()))))
		} else {
			kb = append(kb, domain.Row(domain.CallbackButton("⚡ "+short, cbAdminPayoutForce(p.ID.String()))))
		}
	}
	kb = append(kb, backTo(s, user, "admin_menu")...)
	return s.show(ctx, v, b.String(), kb)
}

func (s *Service) completePayout(ctx context.Context, user *domain.User, v view, rawID string, force bool) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return s.show(ctx, v, s.t(user, texts.UnknownAction), backTo(s, user, "admin_payouts"))
	}
	payout, err := s.Payouts.MarkCompleted(ctx, user.TelegramID, id, force)
	switch {
	case errors.Is(err, domain.ErrEscrowNotElapsed):
		return s.show(ctx, v, s.t(user, texts.PayoutInEscrow, payout.ReleaseAfter.UTC().Format("02.01 15:04 UTC")), domain.Keyboard{
			domain.Row(domain.CallbackButton("⚡ force", cbAdminPayoutForce(rawID))),
			domain.Row(button(s, user, texts.BtnBack, "admin_payouts")),
		})
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return s.show(ctx, v, s.t(user, texts.PayoutAlreadyDone), backTo(s, user, "admin_payouts"))
	case errors.Is(err, domain.ErrNotFound):
		return s.show(ctx, v, s.t(user, texts.UnknownAction), backTo(s, user, "admin_payouts"))
	case err != nil:
		return err
	}

	if seller, err := s.UserRepo.GetByTelegramID(ctx, payout.SellerID); err == nil {
		msg := s.t(seller, texts.PayoutSent, payout.TotalAmountUSD.StringFixed(2), payout.Currency)
		if err := s.Telegram.SendMessage(ctx, seller.TelegramID, msg); err != nil {
			s.Log.Warn("failed to notify seller about payout", "error", err, "payout_id", payout.ID)
		}
	}
	return s.show(ctx, v, s.t(user, texts.PayoutMarkedDone, payout.ID.String()[:8], payout.TotalAmountUSD.StringFixed(2)), backTo(s, user, "admin_payouts"))
}

func (s *Service) showAdminTickets(ctx context.Context, user *domain.User, v view) error {
	tickets, err := s.SupportRepo.ListOpen(ctx, adminListLimit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list open tickets: %w", err)
	}
	var kb domain.Keyboard
	for _, t := range tickets {
		kb = append(kb, domain.Row(domain.CallbackButton(ticketLabel(t), cbViewTicket(t.TicketID))))
	}
	kb = append(kb, backTo(s, user, "admin_menu")...)
	return s.show(ctx, v, s.t(user, texts.AdminTickets, len(tickets)), kb)
}

func ticketLabel(t *domain.SupportTicket) string {
	icon := "📨"
	switch t.Status {
	case domain.TicketStatusEscalated:
		icon = "🚨"
	case domain.TicketStatusClosed:
		icon = "✅"
	case domain.TicketStatusPendingUser:
		icon = "⏳"
	}
	return fmt.Sprintf("%s %s · %s", icon, t.TicketID, truncate(t.Subject, 24))
}
