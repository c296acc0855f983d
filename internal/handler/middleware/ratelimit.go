package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"studyseat/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter caps write-endpoint traffic per caller using a fixed
// window counter in Redis.
type RateLimiter struct {
	redis *redis.Client
	cfg   config.RateLimitConfig
}

func NewRateLimiter(redisClient *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{redis: redisClient, cfg: cfg}
}

func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.cfg.Enabled {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s", r.identify(c))

		count, err := r.redis.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis being down must not take bookings with it.
			slog.Warn("rate limit check failed", "error", err.Error())
			c.Next()
			return
		}
		if count == 1 {
			r.redis.Expire(c.Request.Context(), key, r.cfg.Window)
		}
		if count > r.cfg.MaxEvents {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (r *RateLimiter) identify(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return fmt.Sprintf("user:%s", userID)
	}
	return fmt.Sprintf("ip:%s", c.ClientIP())
}
