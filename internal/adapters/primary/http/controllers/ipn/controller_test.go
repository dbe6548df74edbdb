package ipn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/payment/nowpayments"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "ipn-secret"

type secretVerifier struct{}

func (secretVerifier) VerifySignature(body []byte, sig string) bool {
	return nowpayments.VerifySignature(secret, body, sig)
}

type stubProcessor struct {
	got []*paymentPort.IPNNotification
	err error
}

func (s *stubProcessor) HandleIPN(_ context.Context, n *paymentPort.IPNNotification) error {
	s.got = append(s.got, n)
	return s.err
}

func post(t *testing.T, p *stubProcessor, body, sig string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New("", secretVerifier{}, p, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/ipn/nowpayments", strings.NewReader(body))
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIPN_Finished(t *testing.T) {
	body := `{"payment_id":5077125051,"payment_status":"finished","order_id":"ORD-65f1a2b3-000042","price_amount":51.39}`
	p := &stubProcessor{}

	w := post(t, p, body, nowpayments.Sign(secret, []byte(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	require.Len(t, p.got, 1)
	assert.Equal(t, "5077125051", p.got[0].PaymentID)
	assert.Equal(t, domain.GatewayFinished, p.got[0].Status)
}

func TestIPN_BadSignature(t *testing.T) {
	body := `{"payment_id":1,"payment_status":"finished"}`
	p := &stubProcessor{}

	assert.Equal(t, http.StatusUnauthorized, post(t, p, body, "deadbeef").Code)
	assert.Equal(t, http.StatusUnauthorized, post(t, p, body, "").Code)
	assert.Empty(t, p.got, "no state change on rejected signature")
}

func TestIPN_Malformed(t *testing.T) {
	body := `{"payment_status":"finished"}`
	p := &stubProcessor{}
	assert.Equal(t, http.StatusBadRequest, post(t, p, body, nowpayments.Sign(secret, []byte(body))).Code)
	assert.Empty(t, p.got)
}

func TestIPN_UnknownPaymentAcknowledged(t *testing.T) {
	body := `{"payment_id":9,"payment_status":"finished"}`
	p := &stubProcessor{err: fmt.Errorf("lookup: %w", domain.ErrNotFound)}
	assert.Equal(t, http.StatusOK, post(t, p, body, nowpayments.Sign(secret, []byte(body))).Code)
}

func TestIPN_ProcessingFailureIsRetryable(t *testing.T) {
	body := `{"payment_id":9,"payment_status":"finished"}`
	p := &stubProcessor{err: fmt.Errorf("db down")}
	assert.Equal(t, http.StatusInternalServerError, post(t, p, body, nowpayments.Sign(secret, []byte(body))).Code)
}
