package nowpayments

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// flexID payment_id приходит то числом, то строкой
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("payment_id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

type createPaymentRequest struct {
	PriceAmount      json.Number `json:"price_amount"` // числом, не строкой
	PriceCurrency    string      `json:"price_currency"`
	PayCurrency      string      `json:"pay_currency"`
	OrderID          string      `json:"order_id"`
	OrderDescription string      `json:"order_description,omitempty"`
	IPNCallbackURL   string      `json:"ipn_callback_url,omitempty"`
}

// paymentResponse общий ответ /payment и /payment/{id}, он же тело IPN
type paymentResponse struct {
	PaymentID     flexID          `json:"payment_id"`
	PaymentStatus string          `json:"payment_status"`
	PayAddress    string          `json:"pay_address"`
	PriceAmount   decimal.Decimal `json:"price_amount"`
	PriceCurrency string          `json:"price_currency"`
	PayAmount     decimal.Decimal `json:"pay_amount"`
	ActuallyPaid  decimal.Decimal `json:"actually_paid"`
	PayCurrency   string          `json:"pay_currency"`
	OrderID       string          `json:"order_id"`
}

type estimateResponse struct {
	CurrencyFrom    string          `json:"currency_from"`
	AmountFrom      decimal.Decimal `json:"amount_from"`
	CurrencyTo      string          `json:"currency_to"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}
