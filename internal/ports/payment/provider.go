package payment

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/shopspring/decimal"
)

// IPaymentProvider интерфейс для крипто-шлюза (NOWPayments)
// Use case зависит только от этого интерфейса, не зная деталей реализации
type IPaymentProvider interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentInfo, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (*PaymentInfo, error)
	EstimateAmount(ctx context.Context, amountUSD decimal.Decimal, currency string) (decimal.Decimal, error)
	// VerifySignature проверяет подпись IPN по сырому телу запроса
	VerifySignature(body []byte, signature string) bool
}

// CreatePaymentRequest запрос на создание платежа
type CreatePaymentRequest struct {
	OrderID          string
	PriceAmount      decimal.Decimal // в USD
	PayCurrency      string          // "sol", "btc", "usdttrc20"...
	OrderDescription string
}

// PaymentInfo платёж на стороне шлюза
type PaymentInfo struct {
	PaymentID     string
	Status        domain.GatewayStatus
	PayAddress    string
	PayAmount     decimal.Decimal
	PayCurrency   string
	ActuallyPaid  decimal.Decimal
	OrderID       string
	PriceAmount   decimal.Decimal
	PriceCurrency string
}

// IPNNotification тело вебхука
type IPNNotification struct {
	PaymentID     string
	Status        domain.GatewayStatus
	OrderID       string
	PayAmount     decimal.Decimal
	ActuallyPaid  decimal.Decimal
	PayCurrency   string
	PriceAmount   decimal.Decimal
	PriceCurrency string
}

// IQRGenerator генерация QR кода адреса оплаты (PNG)
type IQRGenerator interface {
	PNG(content string, size int) ([]byte, error)
}
