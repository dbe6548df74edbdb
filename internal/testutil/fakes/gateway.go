package fakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
	"github.com/shopspring/decimal"
)

// Gateway payment.IPaymentProvider без сети
type Gateway struct {
	mu       sync.Mutex
	seq      int
	payments map[string]paymentPort.PaymentInfo

	// Rate сколько единиц крипты за 1 USD
	Rate decimal.Decimal
	// Err если задана, все вызовы возвращают её
	Err error
	// Signature подпись, которую VerifySignature считает верной
	Signature string

	Created []paymentPort.CreatePaymentRequest
}

func NewGateway() *Gateway {
	return &Gateway{
		payments:  make(map[string]paymentPort.PaymentInfo),
		Rate:      decimal.RequireFromString("0.01"),
		Signature: "valid",
	}
}

func (g *Gateway) CreatePayment(_ context.Context, req paymentPort.CreatePaymentRequest) (*paymentPort.PaymentInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.seq++
	g.Created = append(g.Created, req)
	info := paymentPort.PaymentInfo{
		PaymentID:     fmt.Sprintf("np-%d", g.seq),
		Status:        domain.GatewayWaiting,
		PayAddress:    fmt.Sprintf("addr-%s-%d", req.PayCurrency, g.seq),
		PayAmount:     req.PriceAmount.Mul(g.Rate).Round(8),
		PayCurrency:   req.PayCurrency,
		OrderID:       req.OrderID,
		PriceAmount:   req.PriceAmount,
		PriceCurrency: "usd",
	}
	g.payments[info.PaymentID] = info
	return &info, nil
}

func (g *Gateway) GetPaymentStatus(_ context.Context, paymentID string) (*paymentPort.PaymentInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	info, ok := g.payments[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &info, nil
}

func (g *Gateway) EstimateAmount(_ context.Context, amountUSD decimal.Decimal, _ string) (decimal.Decimal, error) {
	if g.Err != nil {
		return decimal.Zero, g.Err
	}
	return amountUSD.Mul(g.Rate).Round(8), nil
}

func (g *Gateway) VerifySignature(_ []byte, signature string) bool {
	return signature == g.Signature
}

// SetStatus меняет статус платежа, как это сделал бы шлюз
func (g *Gateway) SetStatus(paymentID string, status domain.GatewayStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	info := g.payments[paymentID]
	info.Status = status
	if status.IsPaid() {
		info.ActuallyPaid = info.PayAmount
	}
	g.payments[paymentID] = info
}

// Notification IPN по текущему состоянию платежа
func (g *Gateway) Notification(paymentID string) *paymentPort.IPNNotification {
	g.mu.Lock()
	defer g.mu.Unlock()
	info := g.payments[paymentID]
	return &paymentPort.IPNNotification{
		PaymentID:     info.PaymentID,
		Status:        info.Status,
		OrderID:       info.OrderID,
		PayAmount:     info.PayAmount,
		ActuallyPaid:  info.ActuallyPaid,
		PayCurrency:   info.PayCurrency,
		PriceAmount:   info.PriceAmount,
		PriceCurrency: info.PriceCurrency,
	}
}

// Alerter service.IAlerterService, копящий алерты
type Alerter struct {
	mu     sync.Mutex
	alerts []string
}

func (a *Alerter) SendAlert(_ context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, message)
	return nil
}

func (a *Alerter) Alerts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.alerts...)
}

// QR payment.IQRGenerator с фиксированным PNG
type QR struct{}

func (QR) PNG(content string, _ int) ([]byte, error) {
	return []byte("png:" + content), nil
}
