package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	"wallet-registry.backend/internal/interfaces/http/response"
	"wallet-registry.backend/pkg/logger"
	"wallet-registry.backend/pkg/redis"
)

var (
	redisIncr   = redis.Incr
	redisExpire = redis.Expire
)

// RateLimitMiddleware applies a fixed-window request limit per principal
// (falling back to client IP for unauthenticated routes). Redis failures
// fail open: rate limiting is protective plumbing, not a correctness
// mechanism.
func RateLimitMiddleware(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			caller = userID.String()
		}

		key := fmt.Sprintf("ratelimit:%s:%s %s", caller, c.Request.Method, c.FullPath())
		ctx := c.Request.Context()

		count, err := redisIncr(ctx, key)
		if err != nil {
			logger.Warn(ctx, "rate-limit counter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			_ = redisExpire(ctx, key, window)
		}

		if count > int64(limit) {
			response.AbortError(c, domainerrors.RateLimited("Too many requests, slow down"))
			return
		}

		c.Next()
	}
}
