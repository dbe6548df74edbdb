package domain

import (
	"github.com/shopspring/decimal"
)

var (
	// DefaultCommissionRate комиссия платформы с продавца
	DefaultCommissionRate = decimal.RequireFromString("0.05")
	// ProcessingFeeRate сбор за обработку платежа, платит покупатель
	ProcessingFeeRate = decimal.RequireFromString("0.0278")

	// DefaultEURRate курс USD→EUR для витринной цены в евро
	DefaultEURRate = decimal.RequireFromString("0.92")

	MinProductPrice = decimal.NewFromInt(1)
	MaxProductPrice = decimal.NewFromInt(5000)
)

// Quote разбивка цены заказа
type Quote struct {
	PriceUSD      decimal.Decimal
	ProcessingFee decimal.Decimal
	BuyerTotal    decimal.Decimal
	Commission    decimal.Decimal
	SellerRevenue decimal.Decimal
}

// Pricing считает обе комиссии: сбор с покупателя и комиссию платформы с продавца.
// Это две независимые величины, их нельзя сводить в одну.
type Pricing struct {
	CommissionRate    decimal.Decimal
	ProcessingFeeRate decimal.Decimal
	EURRate           decimal.Decimal
}

func NewPricing(commissionRate decimal.Decimal) Pricing {
	if commissionRate.IsZero() || commissionRate.IsNegative() {
		commissionRate = DefaultCommissionRate
	}
	return Pricing{
		CommissionRate:    commissionRate,
		ProcessingFeeRate: ProcessingFeeRate,
		EURRate:           DefaultEURRate,
	}
}

func (p Pricing) ProcessingFee(price decimal.Decimal) decimal.Decimal {
	return price.Mul(p.ProcessingFeeRate).Round(2)
}

func (p Pricing) BuyerTotal(price decimal.Decimal) decimal.Decimal {
	return price.Add(p.ProcessingFee(price))
}

func (p Pricing) Commission(price decimal.Decimal) decimal.Decimal {
	return price.Mul(p.CommissionRate).Round(2)
}

func (p Pricing) SellerRevenue(price decimal.Decimal) decimal.Decimal {
	return price.Sub(p.Commission(price))
}

func (p Pricing) Quote(price decimal.Decimal) Quote {
	return Quote{
		PriceUSD:      price,
		ProcessingFee: p.ProcessingFee(price),
		BuyerTotal:    p.BuyerTotal(price),
		Commission:    p.Commission(price),
		SellerRevenue: p.SellerRevenue(price),
	}
}

// EUR цена в евро, округлённая до цента
func (p Pricing) EUR(priceUSD decimal.Decimal) decimal.Decimal {
	return priceUSD.Mul(p.EURRate).Round(2)
}

// CommissionPercent ставка в процентах для текстов ("5")
func (p Pricing) CommissionPercent() string {
	return p.CommissionRate.Mul(decimal.NewFromInt(100)).String()
}
