package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/admin/tg-bots/market-bot/internal/ports/repository"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
	"github.com/google/uuid"
)

const payoutCurrency = "SOL"

// Notifier уведомление продавца об освобождённой выплате
type Notifier interface {
	PayoutReleased(ctx context.Context, seller *domain.User, payout *domain.Payout)
}

// Service выплаты продавцам с эскроу
type Service struct {
	PayoutRepo     repository.IPayoutRepo
	UserRepo       repository.IUserRepo
	AlerterService service.IAlerterService
	Notifier       Notifier
	Escrow         time.Duration
	Now            func() time.Time
	Log            *slog.Logger
}

func New(
	payoutRepo repository.IPayoutRepo,
	userRepo repository.IUserRepo,
	alerterService service.IAlerterService,
	notifier Notifier,
	escrow time.Duration,
	log *slog.Logger,
) *Service {
	if escrow <= 0 {
		escrow = domain.DefaultEscrowWindow
	}
	return &Service{
		PayoutRepo:     payoutRepo,
		UserRepo:       userRepo,
		AlerterService: alerterService,
		Notifier:       notifier,
		Escrow:         escrow,
		Now:            time.Now,
		Log:            log,
	}
}

// SetNotifier уведомления продавцу отправляет слой бота
func (s *Service) SetNotifier(notifier Notifier) {
	s.Notifier = notifier
}

// CreateForOrder выплата по одному завершённому заказу внутри транзакции завершения.
// Повторный вызов для того же заказа ничего не создаёт.
func (s *Service) CreateForOrder(ctx context.Context, tx persistence.Transaction, order *domain.Order, seller *domain.User) (*domain.Payout, error) {
	exists, err := s.PayoutRepo.ExistsForOrderTx(ctx, tx, order.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payout for order %s: %w", order.OrderID, err)
	}
	if exists {
		s.Log.Warn("payout already exists for order", "order_id", order.OrderID)
		return nil, nil
	}

	completedAt := s.Now().UTC()
	if order.CompletedAt != nil {
		completedAt = *order.CompletedAt
	}

	wallet := ""
	if seller != nil && seller.HasWallet() {
		wallet = *seller.SolanaAddress
	}

	payout := &domain.Payout{
		ID:             uuid.New(),
		SellerID:       order.SellerID,
		OrderIDs:       []string{order.OrderID},
		TotalAmountUSD: order.SellerRevenue,
		WalletAddress:  wallet,
		Currency:       payoutCurrency,
		Status:         domain.PayoutStatusPending,
		ReleaseAfter:   completedAt.Add(s.Escrow),
		CreatedAt:      s.Now().UTC(),
	}
	if err := s.PayoutRepo.CreateTx(ctx, tx, payout); err != nil {
		return nil, fmt.Errorf("failed to create payout for order %s: %w", order.OrderID, err)
	}

	if wallet == "" {
		s.Log.Warn("payout created without wallet address",
			"payout_id", payout.ID,
			"seller_id", order.SellerID,
		)
	}

	s.Log.Info("payout created",
		"payout_id", payout.ID,
		"order_id", order.OrderID,
		"seller_id", order.SellerID,
		"amount_usd", payout.TotalAmountUSD.StringFixed(2),
		"release_after", payout.ReleaseAfter,
	)
	return payout, nil
}

// ReleaseDue переводит выплаты с истёкшим эскроу в ready и сообщает админу
func (s *Service) ReleaseDue(ctx context.Context, now time.Time) (int, error) {
	released, err := s.PayoutRepo.MarkReady(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to release payouts: %w", err)
	}
	if len(released) == 0 {
		return 0, nil
	}

	var lines []string
	for _, p := range released {
		lines = append(lines, fmt.Sprintf("• %s seller %d: $%s → %s",
			p.ID.String()[:8], p.SellerID, p.TotalAmountUSD.StringFixed(2), walletOrMissing(p.WalletAddress)))

		if s.Notifier == nil {
			continue
		}
		seller, err := s.UserRepo.GetByTelegramID(ctx, p.SellerID)
		if err != nil {
			s.Log.Warn("failed to load seller for payout notification", "payout_id", p.ID, "error", err)
			continue
		}
		s.Notifier.PayoutReleased(ctx, seller, p)
	}

	if s.AlerterService != nil {
		msg := fmt.Sprintf("💸 %d payout(s) left escrow and are ready to send:\n%s", len(released), strings.Join(lines, "\n"))
		if err := s.AlerterService.SendAlert(ctx, msg); err != nil {
			s.Log.Warn("failed to alert about released payouts", "error", err)
		}
	}
	return len(released), nil
}

// MarkCompleted ручное подтверждение перевода админом. Внутри эскроу только с force.
func (s *Service) MarkCompleted(ctx context.Context, adminID int64, payoutID uuid.UUID, force bool) (*domain.Payout, error) {
	payout, err := s.PayoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout %s: %w", payoutID, err)
	}
	if payout.Status == domain.PayoutStatusCompleted {
		return payout, domain.ErrAlreadyProcessed
	}
	now := s.Now().UTC()
	inEscrow := !payout.IsReleasable(now)
	if inEscrow && !force {
		return payout, domain.ErrEscrowNotElapsed
	}

	ok, err := s.PayoutRepo.MarkCompleted(ctx, payoutID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete payout %s: %w", payoutID, err)
	}
	if !ok {
		return payout, domain.ErrAlreadyProcessed
	}
	payout.Status = domain.PayoutStatusCompleted
	payout.CompletedAt = &now

	s.Log.Info("payout marked completed",
		"payout_id", payoutID,
		"admin_id", adminID,
		"forced", inEscrow,
	)
	return payout, nil
}

// UpdateWallet новый адрес продавца применяется к выплатам, которые ещё не переведены
func (s *Service) UpdateWallet(ctx context.Context, sellerID int64, wallet string) error {
	count, err := s.PayoutRepo.UpdateOpenWallet(ctx, sellerID, wallet)
	if err != nil {
		return fmt.Errorf("failed to update payout wallet for seller %d: %w", sellerID, err)
	}
	if count > 0 {
		s.Log.Info("open payouts moved to new wallet", "seller_id", sellerID, "count", count)
	}
	return nil
}

func (s *Service) ListForSeller(ctx context.Context, sellerID int64, limit int) ([]*domain.Payout, error) {
	payouts, err := s.PayoutRepo.ListBySeller(ctx, sellerID, limit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to list payouts for seller %d: %w", sellerID, err)
	}
	return payouts, nil
}

// ListPending выплаты, ожидающие перевода (в эскроу и готовые)
func (s *Service) ListPending(ctx context.Context, limit int) ([]*domain.Payout, error) {
	payouts, err := s.PayoutRepo.ListByStatus(ctx, []domain.PayoutStatus{domain.PayoutStatusReady, domain.PayoutStatusPending}, limit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to list pending payouts: %w", err)
	}
	return payouts, nil
}

func walletOrMissing(w string) string {
	if w == "" {
		return "NO WALLET"
	}
	return w
}
