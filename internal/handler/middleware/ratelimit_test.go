//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyseat/internal/handler/middleware"
	"studyseat/internal/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, cfg config.RateLimitConfig) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := middleware.NewRateLimiter(client, cfg)

	router := gin.New()
	router.POST("/bookings", limiter.Limit(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router, mr
}

func perform(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("requests over the limit get 429", func(t *testing.T) {
		router, _ := newLimitedRouter(t, config.RateLimitConfig{
			Enabled:   true,
			MaxEvents: 3,
			Window:    time.Minute,
		})

		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusCreated, perform(router).Code)
		}
		require.Equal(t, http.StatusTooManyRequests, perform(router).Code)
	})

	t.Run("counter resets after the window", func(t *testing.T) {
		router, mr := newLimitedRouter(t, config.RateLimitConfig{
			Enabled:   true,
			MaxEvents: 1,
			Window:    time.Minute,
		})

		require.Equal(t, http.StatusCreated, perform(router).Code)
		require.Equal(t, http.StatusTooManyRequests, perform(router).Code)

		mr.FastForward(time.Minute + time.Second)

		require.Equal(t, http.StatusCreated, perform(router).Code)
	})

	t.Run("disabled limiter passes everything through", func(t *testing.T) {
		router, _ := newLimitedRouter(t, config.RateLimitConfig{
			Enabled:   false,
			MaxEvents: 1,
			Window:    time.Minute,
		})

		for i := 0; i < 5; i++ {
			require.Equal(t, http.StatusCreated, perform(router).Code)
		}
	})

	t.Run("redis outage does not block requests", func(t *testing.T) {
		router, mr := newLimitedRouter(t, config.RateLimitConfig{
			Enabled:   true,
			MaxEvents: 1,
			Window:    time.Minute,
		})
		mr.Close()

		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusCreated, perform(router).Code)
		}
	})
}
