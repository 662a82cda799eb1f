package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 10 * time.Minute
	idempotencyPrefix = "idempotency:shell:"
)

// ReplayStore keeps responses of state-changing shell requests so that a
// retried request carrying the same Idempotency-Key is answered without
// repeating the remote call.
type ReplayStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, error)
	Set(ctx context.Context, key string, resp *CachedResponse) error
}

// CachedResponse stores the response for idempotent requests.
type CachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays stored responses for repeated state-changing requests.
// With a nil store it does nothing.
func Idempotency(store ReplayStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		key = c.Request.Method + " " + c.Request.URL.Path + " " + key

		ctx := c.Request.Context()
		cached, err := store.Get(ctx, key)
		if err != nil {
			// Store unavailable - proceed without replay.
			log.Printf("[IDEMPOTENCY] replay lookup failed: %v", err)
			c.Next()
			return
		}

		if cached != nil {
			c.Header("Idempotent-Replayed", "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// 5xx responses are not stored.
		if status := c.Writer.Status(); status >= 200 && status < 500 {
			resp := &CachedResponse{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			}
			if err := store.Set(context.WithoutCancel(ctx), key, resp); err != nil {
				log.Printf("[IDEMPOTENCY] failed to store response: %v", err)
			}
		}
	}
}

// RedisReplayStore is a ReplayStore backed by Redis.
type RedisReplayStore struct {
	client   *redis.Client
	instance string
}

// NewRedisReplayStore creates a replay store scoped to one shell instance.
func NewRedisReplayStore(client *redis.Client, instance string) *RedisReplayStore {
	return &RedisReplayStore{client: client, instance: instance}
}

func (s *RedisReplayStore) key(k string) string {
	return idempotencyPrefix + s.instance + ":" + k
}

// Get retrieves a cached response. A miss returns nil, nil.
func (s *RedisReplayStore) Get(ctx context.Context, key string) (*CachedResponse, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// Set stores a response.
func (s *RedisReplayStore) Set(ctx context.Context, key string, resp *CachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), data, idempotencyTTL).Err()
}
