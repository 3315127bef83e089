package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	// IdempotencyRetention is how long a recorded response is replayed for a
	// retried mutation. After expiry a resubmitted key is processed as a new
	// request; the store's uniqueness constraints remain the backstop.
	IdempotencyRetention = 60 * time.Second

	// IdempotencyLockDuration bounds how long the in-flight marker may block
	// concurrent retries while the first request is still processing.
	IdempotencyLockDuration = 30 * time.Second

	processingMarker = "processing"
)

// ErrIdempotencyInFlight is returned when the same key is currently being
// processed by another request.
var ErrIdempotencyInFlight = errors.New("request with this idempotency key is in progress")

// IdempotentResponse is the recorded outcome of a completed mutation.
type IdempotentResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyStore caches mutation responses keyed by
// (principal, operation, client-supplied key). It is a best-effort
// optimization: callers must stay correct on a miss.
type IdempotencyStore struct{}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{}
}

func idempotencyKey(principalID, operation, clientKey string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", principalID, operation, clientKey)
}

// Lookup returns the recorded response for the triple, if any.
// ErrIdempotencyInFlight is returned while a first request holds the marker.
func (s *IdempotencyStore) Lookup(ctx context.Context, principalID, operation, clientKey string) (*IdempotentResponse, error) {
	val, err := Get(ctx, idempotencyKey(principalID, operation, clientKey))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	if val == processingMarker {
		return nil, ErrIdempotencyInFlight
	}

	var resp IdempotentResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Begin marks the triple as in flight. It returns false when another request
// already holds the marker or has recorded a response.
func (s *IdempotencyStore) Begin(ctx context.Context, principalID, operation, clientKey string) (bool, error) {
	return SetNX(ctx, idempotencyKey(principalID, operation, clientKey), processingMarker, IdempotencyLockDuration)
}

// Record stores the final response for the retention window, replacing the
// in-flight marker.
func (s *IdempotencyStore) Record(ctx context.Context, principalID, operation, clientKey string, resp *IdempotentResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return Set(ctx, idempotencyKey(principalID, operation, clientKey), string(data), IdempotencyRetention)
}

// Release drops the in-flight marker so a failed request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, principalID, operation, clientKey string) error {
	return Del(ctx, idempotencyKey(principalID, operation, clientKey))
}
