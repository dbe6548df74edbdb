package middlewares

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alertRecorder struct {
	messages []string
}

func (a *alertRecorder) SendAlert(_ context.Context, message string) error {
	a.messages = append(a.messages, message)
	return nil
}

func TestRecovery_AlertsAndReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	alerts := &alertRecorder{}
	router := gin.New()
	router.Use(RequestID(), Recovery(slog.New(slog.NewTextHandler(io.Discard, nil)), alerts))
	router.POST("/ipn/nowpayments", func(*gin.Context) { panic("nil order") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ipn/nowpayments", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Len(t, alerts.messages, 1)
	assert.Contains(t, alerts.messages[0], "POST /ipn/nowpayments")
	assert.Contains(t, alerts.messages[0], "nil order")
}

func TestRequestID_KeepsIncomingAndGeneratesMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-42", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRequestLogger_SkipsProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/webhook/", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhook/", nil))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=401")
}
