package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis. Each store holds its locks
// under its own token, so it can only release locks it took itself.
type LockStore struct {
	client *redis.Client
	token  string
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client, token: uuid.NewString()}
}

func pollLockKey(userID string) string {
	return fmt.Sprintf("lock:poll:%s", userID)
}

// AcquirePollLock attempts to take the notification poll for the given user.
// Returns true if the lock was acquired, false if another shell holds it.
func (s *LockStore) AcquirePollLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, pollLockKey(userID), s.token, ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleasePollLock releases the poll lock for the given user. A lock that has
// expired and been taken by another shell is left alone.
func (s *LockStore) ReleasePollLock(ctx context.Context, userID string) error {
	return releaseScript.Run(ctx, s.client, []string{pollLockKey(userID)}, s.token).Err()
}
