package session

import (
	"sync"
	"time"
)

// Invalidation describes a remote signal that the session is no longer valid.
type Invalidation struct {
	Method string
	Path   string
	Status int
	At     time.Time
}

// Publisher is implemented by anything that can announce session invalidation.
type Publisher interface {
	PublishInvalidated(ev Invalidation)
}

// Hub fans invalidation signals out to subscribers in subscription order.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(Invalidation)
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

var _ Publisher = (*Hub)(nil)

// Subscribe registers fn and returns a function that removes it.
func (h *Hub) Subscribe(fn func(Invalidation)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs = append(h.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, sub := range h.subs {
				if sub.id == id {
					h.subs = append(h.subs[:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// PublishInvalidated delivers ev to every current subscriber synchronously.
func (h *Hub) PublishInvalidated(ev Invalidation) {
	h.mu.RLock()
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
