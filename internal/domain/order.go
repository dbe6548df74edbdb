package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus статус оплаты заказа
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"    // заказ создан, платежа в шлюзе ещё нет
	PaymentStatusWaiting    PaymentStatus = "waiting"    // платёж создан, ждём средства
	PaymentStatusConfirming PaymentStatus = "confirming" // транзакция в сети, ждём подтверждений
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusExpired    PaymentStatus = "expired"
	PaymentStatusFailed     PaymentStatus = "failed"
)

func (s PaymentStatus) IsFinal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusExpired, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) rank() int {
	switch s {
	case PaymentStatusPending:
		return 0
	case PaymentStatusWaiting:
		return 1
	case PaymentStatusConfirming:
		return 2
	default:
		return 3
	}
}

// CanTransitionTo статусы двигаются только вперёд, финальные не меняются.
// Исключение: оплата, пришедшая после истечения окна, всё равно завершает заказ.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return false
	}
	if s == PaymentStatusCompleted {
		return false
	}
	if s.IsFinal() {
		return s == PaymentStatusExpired && next == PaymentStatusCompleted
	}
	return next.rank() > s.rank()
}

// GatewayStatus статус платежа на стороне NOWPayments
type GatewayStatus string

const (
	GatewayWaiting       GatewayStatus = "waiting"
	GatewayConfirming    GatewayStatus = "confirming"
	GatewayConfirmed     GatewayStatus = "confirmed"
	GatewaySending       GatewayStatus = "sending"
	GatewayPartiallyPaid GatewayStatus = "partially_paid"
	GatewayFinished      GatewayStatus = "finished"
	GatewayFailed        GatewayStatus = "failed"
	GatewayRefunded      GatewayStatus = "refunded"
	GatewayExpired       GatewayStatus = "expired"
)

// IsPaid finished/confirmed считаются оплатой
func (g GatewayStatus) IsPaid() bool {
	return g == GatewayFinished || g == GatewayConfirmed
}

// OrderStatus переводит статус шлюза в статус заказа
func (g GatewayStatus) OrderStatus() PaymentStatus {
	switch g {
	case GatewayFinished, GatewayConfirmed:
		return PaymentStatusCompleted
	case GatewayConfirming, GatewaySending, GatewayPartiallyPaid:
		return PaymentStatusConfirming
	case GatewayExpired:
		return PaymentStatusExpired
	case GatewayFailed, GatewayRefunded:
		return PaymentStatusFailed
	default:
		return PaymentStatusWaiting
	}
}

type Order struct {
	OrderID            string          `json:"order_id" db:"order_id"`
	BuyerID            int64           `json:"buyer_id" db:"buyer_id"`
	ProductID          string          `json:"product_id" db:"product_id"`
	SellerID           int64           `json:"seller_id" db:"seller_id"`
	ProductTitle       string          `json:"product_title" db:"product_title"`
	ProductPriceUSD    decimal.Decimal `json:"product_price_usd" db:"product_price_usd"`
	PlatformCommission decimal.Decimal `json:"platform_commission" db:"platform_commission"`
	SellerRevenue      decimal.Decimal `json:"seller_revenue" db:"seller_revenue"`
	BuyerTotal         decimal.Decimal `json:"buyer_total" db:"buyer_total"`
	PaymentCurrency    string          `json:"payment_currency" db:"payment_currency"`
	CryptoAmount       decimal.Decimal `json:"crypto_amount" db:"crypto_amount"`
	PaymentAddress     *string         `json:"payment_address,omitempty" db:"payment_address"`
	NowPaymentsID      *string         `json:"nowpayments_id,omitempty" db:"nowpayments_id"`
	PaymentStatus      PaymentStatus   `json:"payment_status" db:"payment_status"`
	FileDelivered      bool            `json:"file_delivered" db:"file_delivered"`
	DownloadCount      int64           `json:"download_count" db:"download_count"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

func (o *Order) GatewayPaymentID() string {
	if o.NowPaymentsID == nil {
		return ""
	}
	return *o.NowPaymentsID
}

// Quote разбивка цены, зафиксированная в заказе
func (o *Order) Quote() Quote {
	return Quote{
		PriceUSD:      o.ProductPriceUSD,
		ProcessingFee: o.BuyerTotal.Sub(o.ProductPriceUSD),
		BuyerTotal:    o.BuyerTotal,
		Commission:    o.PlatformCommission,
		SellerRevenue: o.SellerRevenue,
	}
}

// IsExpired окно оплаты считается от created_at
func (o *Order) IsExpired(now time.Time, window time.Duration) bool {
	return !o.PaymentStatus.IsFinal() && now.Sub(o.CreatedAt) > window
}

// PaymentDetails данные для экрана оплаты
type PaymentDetails struct {
	Order        *Order
	Quote        Quote
	PayAddress   string
	PayAmount    decimal.Decimal
	PayCurrency  string
	QRCodeBase64 string
	ExpiresAt    time.Time
}

// CompletionResult что произошло при завершении заказа
type CompletionResult struct {
	Order          *Order
	JustCompleted  bool // этот вызов перевёл заказ в completed
	FileDelivered  bool // этот вызов доставил файл
	AlreadyHandled bool
}
