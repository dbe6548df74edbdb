package app

import (
	"fmt"
	"time"

	server "github.com/admin/tg-bots/market-bot/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/alerter"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/email"
	kafkaAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/kafka"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/payment/nowpayments"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/redis"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/s3"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Postgres    *pg.Config             `envconfig:"POSTGRES"`
	Log         *logger.Config         `envconfig:"LOG"`
	Server      *server.Config         `envconfig:"APISERVER"`
	Telegram    *telegram.Config       `envconfig:"TELEGRAM"`
	Redis       *redisAdapter.Config   `envconfig:"REDIS"`
	S3          *s3.Config             `envconfig:"S3"`
	NOWPayments *nowpayments.Config    `envconfig:"NOWPAYMENTS"`
	Email       *email.Config          `envconfig:"EMAIL"`
	Kafka       *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter     *alerterAdapter.Config `envconfig:"ALERTER"`
	Market      MarketConfig           `envconfig:"MARKET"`
}

// MarketConfig бизнес-параметры маркетплейса
type MarketConfig struct {
	AdminID           int64         `envconfig:"ADMIN_ID" required:"true"`
	CommissionRate    string        `envconfig:"COMMISSION_RATE" default:"0.05"`
	EscrowHours       int           `envconfig:"ESCROW_HOURS" default:"24"`
	PaymentWindow     time.Duration `envconfig:"PAYMENT_WINDOW" default:"1h"`
	MaxFileSizeMB     int           `envconfig:"MAX_FILE_SIZE_MB" default:"50"`
	AllowedFileTypes  []string      `envconfig:"ALLOWED_FILE_TYPES" default:"zip,rar,7z,pdf,mp4,mov,epub"`
	SupportEmail      string        `envconfig:"SUPPORT_EMAIL"`
	DefaultLocale     string        `envconfig:"DEFAULT_LOCALE" default:"fr"`
	ProcessingFeeRate string        `envconfig:"PROCESSING_FEE_RATE" default:"0.0278"`
	EURRate           string        `envconfig:"EUR_RATE" default:"0.92"`
}

// Pricing ставки комиссий из строк конфигурации
func (c MarketConfig) Pricing() (domain.Pricing, error) {
	commission, err := decimal.NewFromString(c.CommissionRate)
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("invalid commission rate %q: %w", c.CommissionRate, err)
	}
	pricing := domain.NewPricing(commission)
	if c.ProcessingFeeRate != "" {
		fee, err := decimal.NewFromString(c.ProcessingFeeRate)
		if err != nil {
			return domain.Pricing{}, fmt.Errorf("invalid processing fee rate %q: %w", c.ProcessingFeeRate, err)
		}
		if fee.IsPositive() {
			pricing.ProcessingFeeRate = fee
		}
	}
	if c.EURRate != "" {
		rate, err := decimal.NewFromString(c.EURRate)
		if err != nil {
			return domain.Pricing{}, fmt.Errorf("invalid eur rate %q: %w", c.EURRate, err)
		}
		if !rate.IsPositive() {
			return domain.Pricing{}, fmt.Errorf("eur rate must be positive, got %s", c.EURRate)
		}
		pricing.EURRate = rate
	}
	return pricing, nil
}

func (c MarketConfig) Escrow() time.Duration {
	if c.EscrowHours <= 0 {
		return domain.DefaultEscrowWindow
	}
	return time.Duration(c.EscrowHours) * time.Hour
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if _, err := cfg.Market.Pricing(); err != nil {
		return nil, fmt.Errorf("failed to load market config: %w", err)
	}

	return cfg, nil
}
