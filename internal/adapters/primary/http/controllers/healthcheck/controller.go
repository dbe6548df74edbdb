package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger зависимость, которую проверяет /ready (БД, redis)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc адаптер функции к Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthCheckController struct {
	checks map[string]Pinger
	log    *slog.Logger
}

func New(db Pinger, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		checks: map[string]Pinger{"database": db},
		log:    log,
	}
}

// WithCheck добавляет проверку готовности, nil игнорируется
func (c *HealthCheckController) WithCheck(name string, p Pinger) *HealthCheckController {
	if p != nil {
		c.checks[name] = p
	}
	return c
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "market-bot",
	})
}

// ready проверка готовности всех зависимостей
func (c *HealthCheckController) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	for name, p := range c.checks {
		if err := p.PingContext(pingCtx); err != nil {
			c.log.Error("dependency not ready", "dependency", name, "error", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  name + " unavailable",
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
