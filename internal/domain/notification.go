package domain

import "time"

// Notification types emitted by the API.
const (
	NotificationBookingNew                 = "booking.new"
	NotificationBookingAccepted            = "booking.accepted"
	NotificationBookingDeclined            = "booking.declined"
	NotificationBookingCanceled            = "booking.canceled"
	NotificationBookingCanceledByPassenger = "booking.canceled_by_passenger"
	NotificationTripCanceled               = "trip.canceled"
	NotificationTripReminder               = "trip.reminder"
)

// Notification is an inbound event for the signed-in user.
type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}
