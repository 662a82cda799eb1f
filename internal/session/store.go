// Package session holds the client's single source of truth for who is signed in.
package session

import (
	"log"
	"sync"
	"sync/atomic"

	"carpool/internal/domain"
)

// Store holds the current session snapshot.
//
// Mutation happens only through SetAuthenticated and Clear. Each mutation is a
// single atomic swap of an immutable snapshot, so readers never block and never
// observe a partial state.
type Store struct {
	state atomic.Pointer[domain.Session]

	mu        sync.RWMutex
	observers []func(domain.Session)
}

// NewStore creates a Store in the signed-out state.
func NewStore() *Store {
	s := &Store{}
	anon := domain.AnonymousSession()
	s.state.Store(&anon)
	return s
}

// State returns the current snapshot.
func (s *Store) State() domain.Session {
	cur := *s.state.Load()
	if cur.Identity != nil {
		id := *cur.Identity
		cur.Identity = &id
	}
	return cur
}

// SetAuthenticated replaces the state with a signed-in session for identity.
// The identity is not validated; the login flow supplies a well-formed value.
func (s *Store) SetAuthenticated(identity domain.Identity) {
	next := domain.AuthenticatedSession(identity)
	s.state.Store(&next)
	log.Printf("[SESSION] authenticated user=%s role=%s", identity.ID, identity.Role)
	s.notify(next)
}

// Clear resets the store to the signed-out state. Calling it on an already
// signed-out store changes nothing and notifies no one.
func (s *Store) Clear() {
	anon := domain.AnonymousSession()
	prev := s.state.Swap(&anon)
	if prev == nil || !prev.Authenticated {
		return
	}
	log.Printf("[SESSION] cleared user=%s", prev.Identity.ID)
	s.notify(anon)
}

// OnChange registers fn to be called after every effective state change.
func (s *Store) OnChange(fn func(domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Subscribe makes the store clear itself whenever hub publishes an invalidation.
func (s *Store) Subscribe(hub *Hub) (unsubscribe func()) {
	return hub.Subscribe(func(Invalidation) {
		s.Clear()
	})
}

func (s *Store) notify(state domain.Session) {
	s.mu.RLock()
	observers := make([]func(domain.Session), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}
