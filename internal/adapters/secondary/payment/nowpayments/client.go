package nowpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
	"github.com/shopspring/decimal"
)

const (
	createPaymentPath = "payment"
	estimatePath      = "estimate"
	priceCurrency     = "usd"
)

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client клиент NOWPayments REST API
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт новый клиент NOWPayments
func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

func (c *Client) buildURL(endpoint string) string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + endpoint
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
}

// CreatePayment создаёт платёж в крипте на сумму в USD
func (c *Client) CreatePayment(ctx context.Context, req paymentPort.CreatePaymentRequest) (*paymentPort.PaymentInfo, error) {
	body := createPaymentRequest{
		PriceAmount:      json.Number(req.PriceAmount.StringFixed(2)),
		PriceCurrency:    priceCurrency,
		PayCurrency:      strings.ToLower(req.PayCurrency),
		OrderID:          req.OrderID,
		OrderDescription: req.OrderDescription,
		IPNCallbackURL:   c.cfg.IPNCallbackURL,
	}
	var resp paymentResponse
	if err := c.doJSON(ctx, http.MethodPost, createPaymentPath, body, &resp); err != nil {
		return nil, err
	}
	if resp.PaymentID == "" {
		return nil, fmt.Errorf("%w: empty payment_id in response", domain.ErrPaymentGateway)
	}
	c.Log.Info("nowpayments payment created",
		"order_id", req.OrderID,
		"payment_id", string(resp.PaymentID),
		"pay_currency", resp.PayCurrency,
		"pay_amount", resp.PayAmount.String())
	return resp.toInfo(), nil
}

// GetPaymentStatus статус платежа по payment_id
func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (*paymentPort.PaymentInfo, error) {
	var resp paymentResponse
	if err := c.doJSON(ctx, http.MethodGet, createPaymentPath+"/"+url.PathEscape(paymentID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.toInfo(), nil
}

// EstimateAmount оценка суммы в крипте для суммы в USD
func (c *Client) EstimateAmount(ctx context.Context, amountUSD decimal.Decimal, currency string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("amount", amountUSD.String())
	q.Set("currency_from", priceCurrency)
	q.Set("currency_to", strings.ToLower(currency))
	var resp estimateResponse
	if err := c.doJSON(ctx, http.MethodGet, estimatePath+"?"+q.Encode(), nil, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.EstimatedAmount, nil
}

// VerifySignature проверяет заголовок x-nowpayments-sig
func (c *Client) VerifySignature(body []byte, signature string) bool {
	return VerifySignature(c.cfg.IPNSecret, body, signature)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in interface{}, out interface{}) error {
	var reader io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		c.Log.Warn("nowpayments request failed", "error", err, "endpoint", endpoint)
		return fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrPaymentGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		c.Log.Warn("nowpayments returned non-2xx status",
			"status_code", resp.StatusCode,
			"endpoint", endpoint,
			"code", apiErr.Code,
			"body_preview", truncateString(string(body), 200),
		)
		return fmt.Errorf("%w: status %d: %s", domain.ErrPaymentGateway, resp.StatusCode, apiErr.Message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.Log.Warn("failed to unmarshal nowpayments response",
			"error", err,
			"body_preview", truncateString(string(body), 200),
		)
		return fmt.Errorf("%w: unmarshal: %v", domain.ErrPaymentGateway, err)
	}
	return nil
}

func (r *paymentResponse) toInfo() *paymentPort.PaymentInfo {
	return &paymentPort.PaymentInfo{
		PaymentID:     string(r.PaymentID),
		Status:        domain.GatewayStatus(r.PaymentStatus),
		PayAddress:    r.PayAddress,
		PayAmount:     r.PayAmount,
		PayCurrency:   r.PayCurrency,
		ActuallyPaid:  r.ActuallyPaid,
		OrderID:       r.OrderID,
		PriceAmount:   r.PriceAmount,
		PriceCurrency: r.PriceCurrency,
	}
}
