package redis

import (
	"context"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// SessionCache defines the interface for persisting the session snapshot.
type SessionCache interface {
	GetSession(ctx context.Context, instance string) (*domain.Session, error)
	SetSession(ctx context.Context, instance string, sess domain.Session) error
	InvalidateSession(ctx context.Context, instance string) error
}

// Ensure concrete types implement interfaces.
var (
	_ SessionCache          = (*CacheStore)(nil)
	_ service.SnapshotStore = (*CacheStore)(nil)
	_ service.PollLocker    = (*LockStore)(nil)
)
