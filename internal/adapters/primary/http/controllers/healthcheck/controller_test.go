package healthcheckController

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(c *HealthCheckController, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestReady(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	assert.Equal(t, http.StatusOK, serve(New(ok, log), "/ready").Code)

	w := serve(New(ok, log).WithCheck("redis", down), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis unavailable")

	assert.Equal(t, http.StatusOK, serve(New(down, log), "/health").Code)
}
