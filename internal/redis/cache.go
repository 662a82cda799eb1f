package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// CacheStore keeps client state in Redis so it survives shell restarts and
// can be shared between shells signed in as the same user.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	SessionCacheTTL      = 12 * time.Hour  // Matches a typical remote session lifetime
	NotificationCacheTTL = 5 * time.Minute  // Several poll intervals
)

// Key prefixes
const (
	sessionCachePrefix      = "cache:session:"
	notificationCachePrefix = "cache:notifications:"
)

// GetSession retrieves the session snapshot saved by the shell instance.
// A miss returns nil, nil.
func (s *CacheStore) GetSession(ctx context.Context, instance string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionCachePrefix+instance).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if !sess.Authenticated || sess.Identity == nil {
		return nil, nil
	}
	return &sess, nil
}

// SetSession stores the session snapshot. Signed-out snapshots remove the entry.
func (s *CacheStore) SetSession(ctx context.Context, instance string, sess domain.Session) error {
	if !sess.Authenticated || sess.Identity == nil {
		return s.InvalidateSession(ctx, instance)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionCachePrefix+instance, data, SessionCacheTTL).Err()
}

// InvalidateSession removes the saved session snapshot.
func (s *CacheStore) InvalidateSession(ctx context.Context, instance string) error {
	return s.client.Del(ctx, sessionCachePrefix+instance).Err()
}

// SaveNotifications publishes a user's latest notification snapshot.
func (s *CacheStore) SaveNotifications(ctx context.Context, userID string, snap service.NotificationSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, notificationCachePrefix+userID, data, NotificationCacheTTL).Err()
}

// LoadNotifications retrieves a user's shared notification snapshot.
// A miss returns nil, nil.
func (s *CacheStore) LoadNotifications(ctx context.Context, userID string) (*service.NotificationSnapshot, error) {
	data, err := s.client.Get(ctx, notificationCachePrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var snap service.NotificationSnapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
