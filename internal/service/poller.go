package service

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/platform/clock"
	"carpool/internal/repository"
)

// DefaultPollInterval is how often notifications are refreshed.
const DefaultPollInterval = 30 * time.Second

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	State() domain.Session
}

// PollLocker coordinates polling across several clients signed in as the
// same user: whoever acquires the lock polls for the current interval. It is
// optional.
type PollLocker interface {
	AcquirePollLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleasePollLock(ctx context.Context, userID string) error
}

// SnapshotStore shares the lock holder's snapshot with clients that skipped
// their poll. It is optional.
type SnapshotStore interface {
	SaveNotifications(ctx context.Context, userID string, snap NotificationSnapshot) error
	LoadNotifications(ctx context.Context, userID string) (*NotificationSnapshot, error)
}

// NotificationSnapshot is the last successful notification fetch.
type NotificationSnapshot struct {
	Items       []domain.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
	FetchedAt   time.Time             `json:"fetched_at"`
}

// NotificationPoller refreshes notifications on a fixed interval.
// At most one fetch is in flight at any time.
type NotificationPoller struct {
	repo     repository.NotificationRepository
	sessions SessionReader
	clk      clock.Clock
	interval time.Duration
	locker   PollLocker
	shared   SnapshotStore

	inFlight atomic.Bool

	mu       sync.RWMutex
	snapshot NotificationSnapshot
	onUpdate func(NotificationSnapshot)
}

// NewNotificationPoller creates a poller. A non-positive interval means
// DefaultPollInterval.
func NewNotificationPoller(
	repo repository.NotificationRepository,
	sessions SessionReader,
	clk clock.Clock,
	interval time.Duration,
) *NotificationPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &NotificationPoller{
		repo:     repo,
		sessions: sessions,
		clk:      clk,
		interval: interval,
	}
}

// SetLocker installs a cross-client poll lock.
func (p *NotificationPoller) SetLocker(l PollLocker) {
	p.locker = l
}

// SetSnapshotStore installs the store used to share snapshots between
// clients coordinated by the poll lock.
func (p *NotificationPoller) SetSnapshotStore(s SnapshotStore) {
	p.shared = s
}

// OnUpdate registers fn to receive every new snapshot.
func (p *NotificationPoller) OnUpdate(fn func(NotificationSnapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = fn
}

// Interval returns the polling interval.
func (p *NotificationPoller) Interval() time.Duration {
	return p.interval
}

// Run polls immediately and then on every tick until ctx is canceled.
func (p *NotificationPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *NotificationPoller) poll(ctx context.Context) {
	if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
		log.Printf("[POLLER] notification refresh failed: %v", err)
	}
}

// Poll performs one fetch. It reports false without fetching when signed
// out, when another fetch is in flight, or when another client holds the
// poll lock.
func (p *NotificationPoller) Poll(ctx context.Context) (bool, error) {
	state := p.sessions.State()
	if !state.Authenticated || state.Identity == nil {
		p.reset()
		return false, nil
	}

	if !p.inFlight.CompareAndSwap(false, true) {
		return false, nil
	}
	defer p.inFlight.Store(false)

	locked := false
	if p.locker != nil {
		ok, err := p.locker.AcquirePollLock(ctx, state.Identity.ID, p.lockTTL())
		switch {
		case err != nil:
			log.Printf("[POLLER] poll lock unavailable, polling anyway: %v", err)
		case !ok:
			p.adoptShared(ctx, state.Identity.ID)
			return false, nil
		default:
			locked = true
		}
	}

	list, err := p.repo.List(ctx)
	if err != nil {
		// Let another client retry within this interval.
		if locked {
			_ = p.locker.ReleasePollLock(context.WithoutCancel(ctx), state.Identity.ID)
		}
		return false, err
	}

	snap := NotificationSnapshot{
		Items:       list.Items,
		UnreadCount: list.UnreadCount,
		FetchedAt:   p.clk.Now(),
	}
	p.publish(snap)

	if locked && p.shared != nil {
		if err := p.shared.SaveNotifications(ctx, state.Identity.ID, snap); err != nil {
			log.Printf("[POLLER] failed to share snapshot: %v", err)
		}
	}
	return true, nil
}

// adoptShared takes over the lock holder's snapshot when it is newer than ours.
func (p *NotificationPoller) adoptShared(ctx context.Context, userID string) {
	if p.shared == nil {
		return
	}
	snap, err := p.shared.LoadNotifications(ctx, userID)
	if err != nil {
		log.Printf("[POLLER] failed to load shared snapshot: %v", err)
		return
	}
	if snap == nil || !snap.FetchedAt.After(p.Snapshot().FetchedAt) {
		return
	}
	p.publish(*snap)
}

func (p *NotificationPoller) publish(snap NotificationSnapshot) {
	p.mu.Lock()
	p.snapshot = snap
	onUpdate := p.onUpdate
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snap)
	}
}

// Snapshot returns the last fetched notifications.
func (p *NotificationPoller) Snapshot() NotificationSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// lockTTL is slightly shorter than the interval so the holder can renew on
// its next tick.
func (p *NotificationPoller) lockTTL() time.Duration {
	return p.interval - p.interval/10
}

func (p *NotificationPoller) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = NotificationSnapshot{}
}
