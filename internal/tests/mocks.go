package tests

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// MOCK AUTH REPOSITORY
// ──────────────────────────────────────────────

// MockAuthRepository is a mock implementation of AuthRepository.
type MockAuthRepository struct {
	mu       sync.Mutex
	identity *domain.Identity

	// Counters for verification
	LoginCallCount  int32
	LogoutCallCount int32
	MeCallCount     int32

	// Error injection
	LoginError  error
	LogoutError error
	MeError     error

	LastCredentials repository.Credentials
}

// NewMockAuthRepository creates a mock that signs everyone in as identity.
func NewMockAuthRepository(identity *domain.Identity) *MockAuthRepository {
	return &MockAuthRepository{identity: identity}
}

func (m *MockAuthRepository) Login(ctx context.Context, creds repository.Credentials) (*domain.Identity, error) {
	atomic.AddInt32(&m.LoginCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastCredentials = creds
	if m.LoginError != nil {
		return nil, m.LoginError
	}
	return m.copyIdentity(), nil
}

func (m *MockAuthRepository) Register(ctx context.Context, reg repository.Registration) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoginError != nil {
		return nil, m.LoginError
	}
	id := m.copyIdentity()
	if id != nil {
		id.Email = reg.Email
		id.DisplayName = reg.DisplayName
	}
	return id, nil
}

func (m *MockAuthRepository) Logout(ctx context.Context) error {
	atomic.AddInt32(&m.LogoutCallCount, 1)
	return m.LogoutError
}

func (m *MockAuthRepository) Me(ctx context.Context) (*domain.Identity, error) {
	atomic.AddInt32(&m.MeCallCount, 1)
	if m.MeError != nil {
		return nil, m.MeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyIdentity(), nil
}

func (m *MockAuthRepository) copyIdentity() *domain.Identity {
	if m.identity == nil {
		return nil
	}
	copy := *m.identity
	return &copy
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.Mutex
	notifications []domain.Notification
	markReadCalls [][]string

	// Counters for verification
	ListCallCount        int32
	MarkAllReadCallCount int32

	// Error injection
	ListError error

	// Block, when set, is waited on inside List.
	Block chan struct{}
	// Entered receives a value each time List starts, when set.
	Entered chan struct{}
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository(items ...domain.Notification) *MockNotificationRepository {
	return &MockNotificationRepository{notifications: items}
}

func (m *MockNotificationRepository) List(ctx context.Context) (*repository.NotificationList, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items := append([]domain.Notification(nil), m.notifications...)
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	return &repository.NotificationList{Items: items, UnreadCount: unread}, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markReadCalls = append(m.markReadCalls, append([]string(nil), ids...))
	for i := range m.notifications {
		for _, id := range ids {
			if m.notifications[i].ID == id {
				m.notifications[i].IsRead = true
			}
		}
	}
	return nil
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context) error {
	atomic.AddInt32(&m.MarkAllReadCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		m.notifications[i].IsRead = true
	}
	return nil
}

// MarkReadCalls returns the id batches passed to MarkRead (for test assertions).
func (m *MockNotificationRepository) MarkReadCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.markReadCalls...)
}

// ──────────────────────────────────────────────
// MOCK REPORT REPOSITORY
// ──────────────────────────────────────────────

// MockReportRepository is a mock implementation of ReportRepository.
// It serves fixed pages regardless of the requested page number.
type MockReportRepository struct {
	Users   domain.Page[domain.UserReport]
	Content domain.Page[domain.ContentReport]

	// Error injection
	UsersError   error
	ContentError error

	mu               sync.Mutex
	userPageSizes    []int
	contentPageSizes []int
}

// NewMockReportRepository creates a new mock report repository.
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{}
}

func (m *MockReportRepository) ListUserReports(ctx context.Context, page, pageSize int) (*domain.Page[domain.UserReport], error) {
	m.mu.Lock()
	m.userPageSizes = append(m.userPageSizes, pageSize)
	m.mu.Unlock()
	if m.UsersError != nil {
		return nil, m.UsersError
	}
	p := m.Users
	return &p, nil
}

func (m *MockReportRepository) ListContentReports(ctx context.Context, page, pageSize int) (*domain.Page[domain.ContentReport], error) {
	m.mu.Lock()
	m.contentPageSizes = append(m.contentPageSizes, pageSize)
	m.mu.Unlock()
	if m.ContentError != nil {
		return nil, m.ContentError
	}
	p := m.Content
	return &p, nil
}

// PageSizes returns the page sizes requested from each source.
func (m *MockReportRepository) PageSizes() (users, content []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.userPageSizes...), append([]int(nil), m.contentPageSizes...)
}

// ──────────────────────────────────────────────
// MOCK AUDIT REPOSITORY
// ──────────────────────────────────────────────

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	Body        []byte
	ContentType string

	// Error injection
	ExportError error
	// ReadError fails the stream after the body has been read.
	ReadError error
}

func (m *MockAuditRepository) Export(ctx context.Context) (io.ReadCloser, string, error) {
	if m.ExportError != nil {
		return nil, "", m.ExportError
	}
	var r io.Reader = bytes.NewReader(m.Body)
	if m.ReadError != nil {
		r = io.MultiReader(r, failingReader{err: m.ReadError})
	}
	return io.NopCloser(r), m.ContentType, nil
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu     sync.RWMutex
	offers map[string]*domain.TripOffer
	order  []string
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{offers: make(map[string]*domain.TripOffer)}
}

// AddOffer adds an offer to the mock repository.
func (m *MockTripRepository) AddOffer(offer *domain.TripOffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offers[offer.ID]; !ok {
		m.order = append(m.order, offer.ID)
	}
	m.offers[offer.ID] = offer
}

func (m *MockTripRepository) GetOffer(ctx context.Context, id string) (*domain.TripOffer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	offer, ok := m.offers[id]
	if !ok {
		return nil, ErrMockNotFound
	}
	copy := *offer
	return &copy, nil
}

func (m *MockTripRepository) ListMyOffers(ctx context.Context) ([]*domain.TripOffer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.TripOffer, 0, len(m.order))
	for _, id := range m.order {
		copy := *m.offers[id]
		out = append(out, &copy)
	}
	return out, nil
}

// ──────────────────────────────────────────────
// MOCK POLL LOCKER
// ──────────────────────────────────────────────

// MockPollLocker is a mock implementation of PollLocker.
type MockPollLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool

	LastTTL time.Duration
}

// NewMockPollLocker creates a new mock poll locker.
func NewMockPollLocker() *MockPollLocker {
	return &MockPollLocker{locks: make(map[string]time.Time)}
}

func (m *MockPollLocker) AcquirePollLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastTTL = ttl

	key := "lock:poll:" + userID
	if expiry, exists := m.locks[key]; exists && time.Now().Before(expiry) {
		return false, nil // Lock still held.
	}
	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockPollLocker) ReleasePollLock(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:poll:"+userID)
	return nil
}

// IsLocked checks if a user's poll lock is held (for test assertions).
func (m *MockPollLocker) IsLocked(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:poll:"+userID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK SNAPSHOT STORE
// ──────────────────────────────────────────────

// MockSnapshotStore is a mock implementation of SnapshotStore.
type MockSnapshotStore struct {
	mu    sync.Mutex
	snaps map[string]service.NotificationSnapshot

	SaveCallCount int32
}

// NewMockSnapshotStore creates a new mock snapshot store.
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{snaps: make(map[string]service.NotificationSnapshot)}
}

func (m *MockSnapshotStore) SaveNotifications(ctx context.Context, userID string, snap service.NotificationSnapshot) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[userID] = snap
	return nil
}

func (m *MockSnapshotStore) LoadNotifications(ctx context.Context, userID string) (*service.NotificationSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[userID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}
