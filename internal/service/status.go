package service

import (
	"time"

	"carpool/internal/domain"
)

// Window around departure during which a published offer counts as in progress.
const (
	InProgressLeadTime  = 30 * time.Minute
	InProgressTrailTime = 2 * time.Hour
)

// IsInProgress reports whether an offer with the given status and departure
// is in progress at now. Only published offers can be in progress; both
// window bounds are inclusive.
func IsInProgress(status domain.OfferStatus, departureAt, now time.Time) bool {
	if status != domain.OfferStatusPublished {
		return false
	}
	start := departureAt.Add(-InProgressLeadTime)
	end := departureAt.Add(InProgressTrailTime)
	return !now.Before(start) && !now.After(end)
}

// DeriveOfferStatus returns the offer together with its derived status at now.
func DeriveOfferStatus(offer domain.TripOffer, now time.Time) domain.TripOfferView {
	return domain.TripOfferView{
		TripOffer:  offer,
		InProgress: IsInProgress(offer.Status, offer.DepartureAt, now),
	}
}

// DeriveOfferViews derives every offer against the same instant.
func DeriveOfferViews(offers []*domain.TripOffer, now time.Time) []domain.TripOfferView {
	views := make([]domain.TripOfferView, 0, len(offers))
	for _, o := range offers {
		if o == nil {
			continue
		}
		views = append(views, DeriveOfferStatus(*o, now))
	}
	return views
}
