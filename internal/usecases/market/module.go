package market

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/pkg/validation"
	"github.com/admin/tg-bots/market-bot/internal/ports/cache"
	"github.com/admin/tg-bots/market-bot/internal/ports/repository"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
	"github.com/admin/tg-bots/market-bot/internal/services/files"
	"github.com/admin/tg-bots/market-bot/internal/services/state"
	"github.com/admin/tg-bots/market-bot/internal/usecases/payment"
	"github.com/admin/tg-bots/market-bot/internal/usecases/payout"
)

const (
	pageSize         = 5
	recoveryCodeTTL  = 15 * time.Minute
	recoveryAttempts = 5
)

// Mailer письма пользователям
type Mailer interface {
	SellerWelcome(ctx context.Context, seller *domain.User) error
	Sale(ctx context.Context, seller *domain.User, order *domain.Order) error
	PayoutReleased(ctx context.Context, seller *domain.User, payout *domain.Payout) error
	RecoveryCode(ctx context.Context, to, locale, code string, ttl time.Duration) error
	TicketReply(ctx context.Context, recipient *domain.User, ticket *domain.SupportTicket, body string) error
}

// Config параметры маркетплейса
type Config struct {
	AdminID          int64
	MaxFileSizeMB    int
	AllowedFileTypes []string
	SupportEmail     string
	DefaultLocale    string
}

func (c Config) allowsExtension(name string) bool {
	if len(c.AllowedFileTypes) == 0 {
		return true
	}
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return false
	}
	ext := strings.ToLower(name[dot+1:])
	for _, t := range c.AllowedFileTypes {
		if strings.TrimPrefix(strings.ToLower(strings.TrimSpace(t)), ".") == ext {
			return true
		}
	}
	return false
}

// Service обработчики бота маркетплейса: покупка, продажа, поддержка, администрирование
type Service struct {
	UserRepo     repository.IUserRepo
	ProductRepo  repository.IProductRepo
	OrderRepo    repository.IOrderRepo
	CategoryRepo repository.ICategoryRepo
	ReviewRepo   repository.IReviewRepo
	SupportRepo  repository.ISupportRepo
	Counters     repository.ICounterRepo

	Telegram  service.ITelegramService
	State     *state.Manager
	Files     *files.Store
	Payments  *payment.Service
	Payouts   *payout.Service
	Mailer    Mailer
	Codes     cache.Cache
	Validator *validation.Validator
	Alerter   service.IAlerterService

	Config Config
	Now    func() time.Time
	Log    *slog.Logger
}

func New(
	userRepo repository.IUserRepo,
	productRepo repository.IProductRepo,
	orderRepo repository.IOrderRepo,
	categoryRepo repository.ICategoryRepo,
	reviewRepo repository.IReviewRepo,
	supportRepo repository.ISupportRepo,
	counters repository.ICounterRepo,
	telegram service.ITelegramService,
	stateManager *state.Manager,
	fileStore *files.Store,
	payments *payment.Service,
	payouts *payout.Service,
	mailer Mailer,
	codes cache.Cache,
	alerter service.IAlerterService,
	cfg Config,
	log *slog.Logger,
) *Service {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "fr"
	}
	if cfg.MaxFileSizeMB <= 0 {
		cfg.MaxFileSizeMB = 50
	}
	return &Service{
		UserRepo:     userRepo,
		ProductRepo:  productRepo,
		OrderRepo:    orderRepo,
		CategoryRepo: categoryRepo,
		ReviewRepo:   reviewRepo,
		SupportRepo:  supportRepo,
		Counters:     counters,
		Telegram:     telegram,
		State:        stateManager,
		Files:        fileStore,
		Payments:     payments,
		Payouts:      payouts,
		Mailer:       mailer,
		Codes:        codes,
		Validator:    validation.New(),
		Alerter:      alerter,
		Config:       cfg,
		Now:          time.Now,
		Log:          log,
	}
}

func (s *Service) isAdmin(user *domain.User) bool {
	return s.Config.AdminID != 0 && user.TelegramID == s.Config.AdminID
}
