package middlewares

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/ports/service"
	"github.com/gin-gonic/gin"
)

const panicAlertTimeout = 5 * time.Second

// Recovery паника в обработчике отдаёт 500 и уходит в чат алертов:
// на IPN это означает оплату, которую никто не применил
func Recovery(log *slog.Logger, alerter service.IAlerterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			route := c.Request.Method + " " + c.Request.URL.Path
			log.Error("panic in http handler",
				"panic", r,
				"route", route,
				"request_id", c.GetString(RequestIDKey),
				"client_ip", c.ClientIP(),
				"stack", string(debug.Stack()),
			)
			if alerter != nil {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), panicAlertTimeout)
				defer cancel()
				if err := alerter.SendAlert(ctx, fmt.Sprintf("HTTP panic on %s: %v", route, r)); err != nil {
					log.Warn("failed to send panic alert", "error", err)
				}
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}()
		c.Next()
	}
}
