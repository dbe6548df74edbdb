package nowpayments

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{
		BaseURL:        srv.URL + "/v1",
		APIKey:         "key-1",
		IPNCallbackURL: "https://bot.example/ipn/nowpayments",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreatePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-api-key"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "usd", req["price_currency"])
		assert.Equal(t, 51.39, req["price_amount"])
		assert.Equal(t, "sol", req["pay_currency"])
		assert.Equal(t, "ORD-1", req["order_id"])
		assert.Equal(t, "https://bot.example/ipn/nowpayments", req["ipn_callback_url"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"payment_id":"4522625843","payment_status":"waiting","pay_address":"So1Address","price_amount":51.39,"price_currency":"usd","pay_amount":0.3512,"pay_currency":"sol","order_id":"ORD-1"}`))
	})

	info, err := client.CreatePayment(context.Background(), paymentPort.CreatePaymentRequest{
		OrderID:     "ORD-1",
		PriceAmount: decimal.RequireFromString("51.39"),
		PayCurrency: "SOL",
	})
	require.NoError(t, err)
	assert.Equal(t, "4522625843", info.PaymentID)
	assert.Equal(t, domain.GatewayWaiting, info.Status)
	assert.Equal(t, "So1Address", info.PayAddress)
	assert.True(t, info.PayAmount.Equal(decimal.RequireFromString("0.3512")))
}

func TestGetPaymentStatus_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment/123", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"statusCode":502,"code":"BAD_GATEWAY","message":"upstream"}`))
	})

	_, err := client.GetPaymentStatus(context.Background(), "123")
	assert.ErrorIs(t, err, domain.ErrPaymentGateway)
}

func TestEstimateAmount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/estimate", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("amount"))
		assert.Equal(t, "btc", r.URL.Query().Get("currency_to"))
		_, _ = w.Write([]byte(`{"currency_from":"usd","amount_from":50,"currency_to":"btc","estimated_amount":"0.00071"}`))
	})

	amount, err := client.EstimateAmount(context.Background(), decimal.NewFromInt(50), "BTC")
	require.NoError(t, err)
	assert.Equal(t, "0.00071", amount.String())
}
