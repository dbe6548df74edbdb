package middlewares

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
)

// RateLimit ограничение запросов по IP клиента. Без limiter пропускает всё,
// при ошибке redis запрос тоже пропускается
func RateLimit(limiter *redis_rate.Limiter, scope string, limit redis_rate.Limit, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			log.Warn("rate limiter unavailable", "error", err, "scope", scope)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed == 0 {
			log.Warn("rate limit exceeded",
				"scope", scope,
				"client_ip", c.ClientIP(),
				"retry_after", res.RetryAfter,
			)
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
