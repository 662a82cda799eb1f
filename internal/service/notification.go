package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// Notification targets.
const (
	MyTripsPath         = "/my-trips"
	DriverTripsPath     = "/driver/trips"
	BookingRequestsPath = "/driver/booking-requests"
)

// ResolveTarget maps a notification to the screen it should open for a
// viewer with the given role. It never marks the notification read.
func ResolveTarget(n domain.Notification, viewer domain.Role) string {
	tripID, hasTrip := tripIDOf(n.Data)

	switch n.Type {
	case domain.NotificationBookingNew, domain.NotificationBookingCanceledByPassenger:
		if hasTrip {
			return driverTripPath(tripID)
		}
		return BookingRequestsPath

	case domain.NotificationBookingAccepted,
		domain.NotificationBookingDeclined,
		domain.NotificationBookingCanceled,
		domain.NotificationTripCanceled:
		return MyTripsPath

	case domain.NotificationTripReminder:
		if viewer == domain.RoleDriver && hasTrip {
			return driverTripPath(tripID)
		}
		return MyTripsPath

	default:
		if viewer == domain.RoleDriver {
			return DriverTripsPath
		}
		return MyTripsPath
	}
}

func driverTripPath(tripID string) string {
	return DriverTripsPath + "/" + tripID
}

// tripIDOf reads data.tripId. Strings count when non-empty; JSON numbers are
// formatted without a fractional part when they have none.
func tripIDOf(data map[string]any) (string, bool) {
	v, ok := data["tripId"]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	default:
		return "", false
	}
	return s, s != ""
}

// NotificationService handles notification reads and read-marking.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List fetches the current notifications.
func (s *NotificationService) List(ctx context.Context) (*repository.NotificationList, error) {
	return s.repo.List(ctx)
}

// MarkRead marks the given notifications read in one batched call. Duplicate
// and empty ids are dropped; with nothing left it does nothing. Marking an
// already-read notification again is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, ids ...string) error {
	seen := make(map[string]struct{}, len(ids))
	batch := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		batch = append(batch, id)
	}
	if len(batch) == 0 {
		return nil
	}
	return s.repo.MarkRead(ctx, batch)
}

// MarkAllRead marks every notification read.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}
