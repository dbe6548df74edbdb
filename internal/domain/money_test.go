package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPricing_Quote(t *testing.T) {
	p := NewPricing(decimal.RequireFromString("0.05"))

	cases := []struct {
		price, fee, total, commission, revenue string
	}{
		{"50", "1.39", "51.39", "2.5", "47.5"},
		{"49.99", "1.39", "51.38", "2.5", "47.49"},
		{"1", "0.03", "1.03", "0.05", "0.95"},
		{"5000", "139", "5139", "250", "4750"},
	}
	for _, tc := range cases {
		q := p.Quote(decimal.RequireFromString(tc.price))
		assert.True(t, q.ProcessingFee.Equal(decimal.RequireFromString(tc.fee)), "fee for %s: %s", tc.price, q.ProcessingFee)
		assert.True(t, q.BuyerTotal.Equal(decimal.RequireFromString(tc.total)), "total for %s: %s", tc.price, q.BuyerTotal)
		assert.True(t, q.Commission.Equal(decimal.RequireFromString(tc.commission)), "commission for %s: %s", tc.price, q.Commission)
		assert.True(t, q.SellerRevenue.Equal(decimal.RequireFromString(tc.revenue)), "revenue for %s: %s", tc.price, q.SellerRevenue)
	}
}

func TestPricing_BuyerAndSellerFeesAreIndependent(t *testing.T) {
	low := NewPricing(decimal.RequireFromString("0.01"))
	high := NewPricing(decimal.RequireFromString("0.2"))
	price := decimal.RequireFromString("120")

	assert.True(t, low.BuyerTotal(price).Equal(high.BuyerTotal(price)))
	assert.False(t, low.SellerRevenue(price).Equal(high.SellerRevenue(price)))
}

func TestNewPricing_NonPositiveRateFallsBack(t *testing.T) {
	assert.True(t, NewPricing(decimal.Zero).CommissionRate.Equal(DefaultCommissionRate))
	assert.True(t, NewPricing(decimal.NewFromInt(-1)).CommissionRate.Equal(DefaultCommissionRate))
	assert.Equal(t, "5", NewPricing(decimal.Zero).CommissionPercent())
}

func TestPricing_EUR(t *testing.T) {
	p := NewPricing(decimal.Zero)
	assert.Equal(t, "46", p.EUR(decimal.NewFromInt(50)).String())
	assert.Equal(t, "45.99", p.EUR(decimal.RequireFromString("49.99")).String())

	p.EURRate = decimal.RequireFromString("0.5")
	assert.Equal(t, "0.5", p.EUR(decimal.NewFromInt(1)).String())
}
