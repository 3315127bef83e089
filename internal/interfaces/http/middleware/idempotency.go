package middleware

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	"wallet-registry.backend/internal/interfaces/http/response"
	"wallet-registry.backend/pkg/logger"
	"wallet-registry.backend/pkg/redis"
)

// IdempotencyHeader carries the client-supplied retry key.
const IdempotencyHeader = "Idempotency-Key"

type bodyCapturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCapturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the recorded response for a retried mutation
// carrying the same (principal, operation, key) triple within the retention
// window. The cache is best-effort: on any cache failure the request
// proceeds and the store's uniqueness constraints stay the backstop.
func IdempotencyMiddleware(operation string, store *redis.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if uuid.Validate(key) != nil {
			response.AbortError(c, domainerrors.BadRequest("Idempotency-Key must be a UUID"))
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			response.AbortError(c, domainerrors.Unauthorized("User not authenticated"))
			return
		}
		principal := userID.String()

		ctx := c.Request.Context()
		cached, err := store.Lookup(ctx, principal, operation, key)
		switch {
		case errors.Is(err, redis.ErrIdempotencyInFlight):
			response.AbortError(c, domainerrors.Conflict("Request with this idempotency key is already in progress"))
			return
		case err != nil && !errors.Is(err, goredis.Nil):
			logger.Warn(ctx, "idempotency lookup failed, processing as new", zap.Error(err))
		case cached != nil:
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
			c.Abort()
			return
		}

		if acquired, err := store.Begin(ctx, principal, operation, key); err == nil && !acquired {
			// Lost the race since the lookup above.
			response.AbortError(c, domainerrors.Conflict("Request with this idempotency key is already in progress"))
			return
		}

		w := &bodyCapturingWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			_ = store.Record(ctx, principal, operation, key, &redis.IdempotentResponse{
				Status: status,
				Body:   w.body.Bytes(),
			})
		} else {
			// Failed requests may be retried with the same key.
			_ = store.Release(ctx, principal, operation, key)
		}
	}
}
