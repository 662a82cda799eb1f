package domain

import "time"

// OfferStatus represents the persisted status of a trip offer.
type OfferStatus string

const (
	OfferStatusDraft     OfferStatus = "draft"
	OfferStatusPublished OfferStatus = "published"
	OfferStatusCanceled  OfferStatus = "canceled"
	OfferStatusCompleted OfferStatus = "completed"
)

// TripOffer represents a ride offered by a driver.
type TripOffer struct {
	ID             string      `json:"id"`
	DriverID       string      `json:"driver_id"`
	Origin         string      `json:"origin"`
	Destination    string      `json:"destination"`
	DepartureAt    time.Time   `json:"departure_at"`
	SeatsTotal     int         `json:"seats_total"`
	SeatsAvailable int         `json:"seats_available"`
	Status         OfferStatus `json:"status"`
}

// TripOfferView is a trip offer together with its derived status.
// InProgress is computed on read and never stored.
type TripOfferView struct {
	TripOffer
	InProgress bool `json:"in_progress"`
}
