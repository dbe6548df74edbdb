package app

import (
	"testing"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvConfig(t *testing.T) {
	t.Setenv("MARKET_BOT_TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("MARKET_BOT_MARKET_ADMIN_ID", "42")
	t.Setenv("MARKET_BOT_MARKET_COMMISSION_RATE", "0.1")
	t.Setenv("MARKET_BOT_MARKET_ALLOWED_FILE_TYPES", "zip,pdf")
	t.Setenv("MARKET_BOT_NOWPAYMENTS_CURRENCIES", "sol,usdttrc20")
	t.Setenv("MARKET_BOT_MARKET_EUR_RATE", "0.9")

	cfg, err := NewEnvConfig("market_bot")
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Market.AdminID)
	assert.Equal(t, []string{"zip", "pdf"}, cfg.Market.AllowedFileTypes)
	assert.Equal(t, time.Hour, cfg.Market.PaymentWindow)
	assert.Equal(t, 24*time.Hour, cfg.Market.Escrow())
	assert.Equal(t, []string{"sol", "usdttrc20"}, cfg.NOWPayments.Currencies)
	assert.Equal(t, "/ipn/nowpayments", cfg.Server.IPNPath)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled)

	pricing, err := cfg.Market.Pricing()
	require.NoError(t, err)
	assert.True(t, pricing.CommissionRate.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, pricing.ProcessingFeeRate.Equal(domain.ProcessingFeeRate))
	assert.Equal(t, "45", pricing.EUR(decimal.NewFromInt(50)).String())
}

func TestNewEnvConfig_AdminRequired(t *testing.T) {
	t.Setenv("MARKET_BOT_TELEGRAM_BOT_TOKEN", "123:abc")

	_, err := NewEnvConfig("market_bot")
	require.Error(t, err)
}

func TestMarketConfig_Pricing(t *testing.T) {
	_, err := MarketConfig{CommissionRate: "five percent"}.Pricing()
	require.Error(t, err)

	pricing, err := MarketConfig{CommissionRate: "0"}.Pricing()
	require.NoError(t, err)
	assert.True(t, pricing.CommissionRate.Equal(domain.DefaultCommissionRate))

	assert.True(t, pricing.EURRate.Equal(domain.DefaultEURRate))

	_, err = MarketConfig{CommissionRate: "0.05", EURRate: "euro"}.Pricing()
	require.Error(t, err)
	_, err = MarketConfig{CommissionRate: "0.05", EURRate: "0"}.Pricing()
	require.Error(t, err)

	assert.Equal(t, domain.DefaultEscrowWindow, MarketConfig{}.Escrow())
	assert.Equal(t, 48*time.Hour, MarketConfig{EscrowHours: 48}.Escrow())
}
