package payment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/cache"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/admin/tg-bots/market-bot/internal/ports/repository"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
)

const (
	DefaultPaymentWindow = time.Hour
	completionLockTTL    = 2 * time.Minute
	qrSize               = 320
)

// PayoutCreator создание выплаты внутри транзакции завершения заказа
type PayoutCreator interface {
	CreateForOrder(ctx context.Context, tx persistence.Transaction, order *domain.Order, seller *domain.User) (*domain.Payout, error)
}

// Deliverer отправка файла товара покупателю
type Deliverer interface {
	DeliverFile(ctx context.Context, order *domain.Order, product *domain.Product) error
}

// CompletionNotifier уведомления покупателя и продавца о завершённом заказе
type CompletionNotifier interface {
	OrderCompleted(ctx context.Context, result *domain.CompletionResult, product *domain.Product, seller *domain.User)
}

// Service заказы и оплата через крипто-шлюз
type Service struct {
	OrderRepo      repository.IOrderRepo
	ProductRepo    repository.IProductRepo
	UserRepo       repository.IUserRepo
	Counters       repository.ICounterRepo
	Gateway        paymentPort.IPaymentProvider
	QR             paymentPort.IQRGenerator
	Locker         cache.Locker
	Payouts        PayoutCreator
	Deliverer      Deliverer
	Notifier       CompletionNotifier
	AlerterService service.IAlerterService
	Pricing        domain.Pricing
	PaymentWindow  time.Duration
	Currencies     []string
	Now            func() time.Time
	Log            *slog.Logger
}

func New(
	orderRepo repository.IOrderRepo,
	productRepo repository.IProductRepo,
	userRepo repository.IUserRepo,
	counters repository.ICounterRepo,
	gateway paymentPort.IPaymentProvider,
	qr paymentPort.IQRGenerator,
	locker cache.Locker,
	payouts PayoutCreator,
	alerterService service.IAlerterService,
	pricing domain.Pricing,
	paymentWindow time.Duration,
	currencies []string,
	log *slog.Logger,
) *Service {
	if paymentWindow <= 0 {
		paymentWindow = DefaultPaymentWindow
	}
	normalized := make([]string, 0, len(currencies))
	for _, c := range currencies {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			normalized = append(normalized, c)
		}
	}
	return &Service{
		OrderRepo:      orderRepo,
		ProductRepo:    productRepo,
		UserRepo:       userRepo,
		Counters:       counters,
		Gateway:        gateway,
		QR:             qr,
		Locker:         locker,
		Payouts:        payouts,
		AlerterService: alerterService,
		Pricing:        pricing,
		PaymentWindow:  paymentWindow,
		Currencies:     normalized,
		Now:            time.Now,
		Log:            log,
	}
}

// SetDelivery доставка и уведомления живут в слое бота, который сам зависит от оплаты
func (s *Service) SetDelivery(deliverer Deliverer, notifier CompletionNotifier) {
	s.Deliverer = deliverer
	s.Notifier = notifier
}

// SupportsCurrency валюта из списка разрешённых
func (s *Service) SupportsCurrency(currency string) bool {
	currency = strings.ToLower(currency)
	for _, c := range s.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

func (s *Service) alert(ctx context.Context, msg string) {
	if s.AlerterService == nil {
		return
	}
	if err := s.AlerterService.SendAlert(ctx, msg); err != nil {
		s.Log.Warn("failed to send alert", "error", err)
	}
}
