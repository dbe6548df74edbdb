package ipn

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/payment/nowpayments"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
	"github.com/gin-gonic/gin"
)

const (
	SignatureHeader = "X-Nowpayments-Sig"
	maxBodyBytes    = 64 << 10
)

// Processor применяет уведомление к заказу
type Processor interface {
	HandleIPN(ctx context.Context, n *paymentPort.IPNNotification) error
}

// Verifier проверка подписи по сырому телу
type Verifier interface {
	VerifySignature(body []byte, signature string) bool
}

type Controller struct {
	Path       string
	Verifier   Verifier
	Processor  Processor
	Middleware []gin.HandlerFunc
	Log        *slog.Logger
}

func New(path string, verifier Verifier, processor Processor, log *slog.Logger, mw ...gin.HandlerFunc) *Controller {
	if path == "" {
		path = "/ipn/nowpayments"
	}
	return &Controller{
		Path:       path,
		Verifier:   verifier,
		Processor:  processor,
		Middleware: mw,
		Log:        log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	handlers := append(append([]gin.HandlerFunc{}, c.Middleware...), c.handle)
	router.POST(c.Path, handlers...)
}

// handle 401 при неверной подписи, 400 при битом теле, 200 {"ok": true} после обработки.
// Неизвестный платёж подтверждается 200, чтобы шлюз не повторял доставку.
func (c *Controller) handle(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxBodyBytes))
	if err != nil {
		c.Log.Warn("failed to read ipn body", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := ctx.GetHeader(SignatureHeader)
	if signature == "" || !c.Verifier.VerifySignature(body, signature) {
		c.Log.Warn("ipn signature rejected", "client_ip", ctx.ClientIP())
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	notification, err := nowpayments.ParseIPN(body)
	if err != nil {
		c.Log.Warn("malformed ipn", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed notification"})
		return
	}

	c.Log.Info("ipn received",
		"payment_id", notification.PaymentID,
		"status", notification.Status,
		"order_id", notification.OrderID,
	)

	if err := c.Processor.HandleIPN(ctx.Request.Context(), notification); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.Log.Warn("ipn for unknown payment", "payment_id", notification.PaymentID)
			ctx.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		c.Log.Error("failed to process ipn",
			"error", err,
			"payment_id", notification.PaymentID,
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
