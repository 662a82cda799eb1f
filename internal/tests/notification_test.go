package tests

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/platform/clock"
	"carpool/internal/service"
	"carpool/internal/session"
)

// ──────────────────────────────────────────────
// 3. NOTIFICATION ROUTING
// ──────────────────────────────────────────────

func TestResolveTarget(t *testing.T) {
	t.Parallel()

	withTrip := map[string]any{"tripId": "42"}

	testCases := []struct {
		name   string
		typ    string
		data   map[string]any
		viewer domain.Role
		want   string
	}{
		{"new booking with trip", domain.NotificationBookingNew, withTrip, domain.RoleDriver, "/driver/trips/42"},
		{"new booking without trip", domain.NotificationBookingNew, nil, domain.RoleDriver, service.BookingRequestsPath},
		{"passenger cancel with trip", domain.NotificationBookingCanceledByPassenger, withTrip, domain.RoleDriver, "/driver/trips/42"},
		{"passenger cancel without trip", domain.NotificationBookingCanceledByPassenger, map[string]any{"tripId": ""}, domain.RoleDriver, service.BookingRequestsPath},
		{"accepted", domain.NotificationBookingAccepted, withTrip, domain.RolePassenger, service.MyTripsPath},
		{"declined", domain.NotificationBookingDeclined, nil, domain.RolePassenger, service.MyTripsPath},
		{"canceled", domain.NotificationBookingCanceled, nil, domain.RolePassenger, service.MyTripsPath},
		{"trip canceled", domain.NotificationTripCanceled, withTrip, domain.RoleDriver, service.MyTripsPath},
		{"reminder for driver with trip", domain.NotificationTripReminder, withTrip, domain.RoleDriver, "/driver/trips/42"},
		{"reminder for driver without trip", domain.NotificationTripReminder, nil, domain.RoleDriver, service.MyTripsPath},
		{"reminder for passenger", domain.NotificationTripReminder, withTrip, domain.RolePassenger, service.MyTripsPath},
		{"unknown type for driver", "promo.summer", nil, domain.RoleDriver, service.DriverTripsPath},
		{"unknown type for passenger", "promo.summer", nil, domain.RolePassenger, service.MyTripsPath},
		{"numeric trip id", domain.NotificationBookingNew, map[string]any{"tripId": float64(7)}, domain.RoleDriver, "/driver/trips/7"},
		{"json number trip id", domain.NotificationBookingNew, map[string]any{"tripId": json.Number("9")}, domain.RoleDriver, "/driver/trips/9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := domain.Notification{ID: "n-1", Type: tc.typ, Data: tc.data}
			if got := service.ResolveTarget(n, tc.viewer); got != tc.want {
				t.Errorf("ResolveTarget() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNotificationService_MarkReadBatches(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(
		domain.Notification{ID: "a"},
		domain.Notification{ID: "b"},
		domain.Notification{ID: "c", IsRead: true},
	)
	svc := service.NewNotificationService(repo)
	ctx := context.Background()

	if err := svc.MarkRead(ctx, "a", " b ", "a", "", "c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := repo.MarkReadCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 batched call, got %d", len(calls))
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(calls[0], want) {
		t.Errorf("expected batch %v, got %v", want, calls[0])
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.UnreadCount != 0 {
		t.Errorf("expected 0 unread, got %d", list.UnreadCount)
	}
}

func TestNotificationService_MarkReadEmptyIsNoop(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository()
	svc := service.NewNotificationService(repo)

	if err := svc.MarkRead(context.Background(), "", "  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(repo.MarkReadCalls()); n != 0 {
		t.Errorf("expected no remote call, got %d", n)
	}
}

// ──────────────────────────────────────────────
// 4. NOTIFICATION POLLING
// ──────────────────────────────────────────────

func newSignedInStore(role domain.Role) *session.Store {
	store := session.NewStore()
	store.SetAuthenticated(domain.Identity{ID: "u-1", Role: role})
	return store
}

func TestPoller_SkipsWhenSignedOut(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(domain.Notification{ID: "a"})
	poller := service.NewNotificationPoller(repo, session.NewStore(), clock.NewManualClock(departure), time.Second)

	polled, err := poller.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if polled {
		t.Error("expected no poll while signed out")
	}
	if repo.ListCallCount != 0 {
		t.Errorf("expected 0 List calls, got %d", repo.ListCallCount)
	}
}

func TestPoller_StoresSnapshot(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(
		domain.Notification{ID: "a"},
		domain.Notification{ID: "b", IsRead: true},
	)
	store := newSignedInStore(domain.RolePassenger)
	clk := clock.NewManualClock(departure)
	poller := service.NewNotificationPoller(repo, store, clk, 0)

	if poller.Interval() != service.DefaultPollInterval {
		t.Errorf("expected default interval, got %v", poller.Interval())
	}

	var updates int
	poller.OnUpdate(func(service.NotificationSnapshot) { updates++ })

	polled, err := poller.Poll(context.Background())
	if err != nil || !polled {
		t.Fatalf("expected poll, got polled=%v err=%v", polled, err)
	}
	snap := poller.Snapshot()
	if len(snap.Items) != 2 || snap.UnreadCount != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if !snap.FetchedAt.Equal(departure) {
		t.Errorf("expected fetched_at %v, got %v", departure, snap.FetchedAt)
	}
	if updates != 1 {
		t.Errorf("expected 1 update, got %d", updates)
	}

	// Signing out drops the stale snapshot.
	store.Clear()
	if _, err := poller.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := poller.Snapshot(); len(got.Items) != 0 {
		t.Errorf("expected empty snapshot after sign-out, got %d items", len(got.Items))
	}
}

func TestPoller_AtMostOneFetchInFlight(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(domain.Notification{ID: "a"})
	repo.Block = make(chan struct{})
	repo.Entered = make(chan struct{}, 1)
	poller := service.NewNotificationPoller(repo, newSignedInStore(domain.RoleDriver), clock.NewManualClock(departure), time.Second)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := poller.Poll(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}()
	<-repo.Entered

	// A tick while the first fetch is outstanding is skipped.
	polled, err := poller.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if polled {
		t.Error("expected overlapping poll to be skipped")
	}

	close(repo.Block)
	wg.Wait()

	if repo.ListCallCount != 1 {
		t.Errorf("expected 1 List call, got %d", repo.ListCallCount)
	}
}

func TestPoller_RespectsLock(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(domain.Notification{ID: "a"})
	store := newSignedInStore(domain.RolePassenger)
	locker := NewMockPollLocker()

	first := service.NewNotificationPoller(repo, store, clock.NewManualClock(departure), 10*time.Second)
	first.SetLocker(locker)
	second := service.NewNotificationPoller(repo, store, clock.NewManualClock(departure), 10*time.Second)
	second.SetLocker(locker)

	if polled, err := first.Poll(context.Background()); err != nil || !polled {
		t.Fatalf("expected first client to poll, got polled=%v err=%v", polled, err)
	}
	if locker.LastTTL != 9*time.Second {
		t.Errorf("expected lock ttl 9s, got %v", locker.LastTTL)
	}
	if polled, err := second.Poll(context.Background()); err != nil || polled {
		t.Fatalf("expected second client to skip, got polled=%v err=%v", polled, err)
	}
	if repo.ListCallCount != 1 {
		t.Errorf("expected 1 List call, got %d", repo.ListCallCount)
	}
}

func TestPoller_ReleasesLockOnFailure(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository()
	repo.ListError = errors.New("boom")
	locker := NewMockPollLocker()

	poller := service.NewNotificationPoller(repo, newSignedInStore(domain.RolePassenger), clock.NewManualClock(departure), time.Second)
	poller.SetLocker(locker)

	if _, err := poller.Poll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if locker.IsLocked("u-1") {
		t.Error("expected lock to be released after a failed fetch")
	}
}

func TestPoller_PollsWhenLockUnavailable(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(domain.Notification{ID: "a"})
	locker := NewMockPollLocker()
	locker.AcquireError = errors.New("redis down")

	poller := service.NewNotificationPoller(repo, newSignedInStore(domain.RolePassenger), clock.NewManualClock(departure), time.Second)
	poller.SetLocker(locker)

	polled, err := poller.Poll(context.Background())
	if err != nil || !polled {
		t.Fatalf("expected poll despite lock error, got polled=%v err=%v", polled, err)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(domain.Notification{ID: "a"})
	repo.Entered = make(chan struct{}, 16)
	poller := service.NewNotificationPoller(repo, newSignedInStore(domain.RolePassenger), clock.NewManualClock(departure), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case <-repo.Entered:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate poll")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPoller_SharesSnapshotWithLockedOutClient(t *testing.T) {
	t.Parallel()

	repo := NewMockNotificationRepository(domain.Notification{ID: "a"}, domain.Notification{ID: "b"})
	store := newSignedInStore(domain.RolePassenger)
	locker := NewMockPollLocker()
	shared := NewMockSnapshotStore()

	holder := service.NewNotificationPoller(repo, store, clock.NewManualClock(departure), 10*time.Second)
	holder.SetLocker(locker)
	holder.SetSnapshotStore(shared)

	follower := service.NewNotificationPoller(repo, store, clock.NewManualClock(departure), 10*time.Second)
	follower.SetLocker(locker)
	follower.SetSnapshotStore(shared)

	if polled, err := holder.Poll(context.Background()); err != nil || !polled {
		t.Fatalf("expected holder to poll, got polled=%v err=%v", polled, err)
	}
	if shared.SaveCallCount != 1 {
		t.Errorf("expected snapshot to be shared once, got %d", shared.SaveCallCount)
	}

	if polled, err := follower.Poll(context.Background()); err != nil || polled {
		t.Fatalf("expected follower to skip, got polled=%v err=%v", polled, err)
	}
	if got := follower.Snapshot(); got.UnreadCount != 2 {
		t.Errorf("expected follower to adopt shared snapshot, got %+v", got)
	}
	if repo.ListCallCount != 1 {
		t.Errorf("expected 1 List call, got %d", repo.ListCallCount)
	}
}
