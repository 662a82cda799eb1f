package app

import (
	"context"
	"log"
	"time"

	"carpool/internal/domain"
	internalRedis "carpool/internal/redis"
	"carpool/internal/session"
)

const sessionCacheTimeout = 2 * time.Second

// BindSessionCache seeds the store from the cached snapshot of this shell
// instance, then keeps the cache in step with every store change. The seeded
// identity is provisional until the remote API confirms it.
func BindSessionCache(ctx context.Context, store *session.Store, cache internalRedis.SessionCache, instance string) {
	cached, err := cache.GetSession(ctx, instance)
	switch {
	case err != nil:
		log.Printf("[SESSION] failed to load cached session: %v", err)
	case cached != nil && cached.Identity != nil:
		store.SetAuthenticated(*cached.Identity)
	}

	store.OnChange(func(s domain.Session) {
		ctx, cancel := context.WithTimeout(context.Background(), sessionCacheTimeout)
		defer cancel()
		if err := cache.SetSession(ctx, instance, s); err != nil {
			log.Printf("[SESSION] failed to cache session: %v", err)
		}
	})
}
