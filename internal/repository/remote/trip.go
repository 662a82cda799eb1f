package remote

import (
	"context"
	"net/http"
	"net/url"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/transport"
)

// TripRepository implements repository.TripRepository.
type TripRepository struct {
	api Doer
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(api Doer) *TripRepository {
	return &TripRepository{api: api}
}

var _ repository.TripRepository = (*TripRepository)(nil)

// GetOffer fetches /driver/trips/{id}.
func (r *TripRepository) GetOffer(ctx context.Context, id string) (*domain.TripOffer, error) {
	var offer domain.TripOffer
	req := transport.Request{Method: http.MethodGet, Path: "/driver/trips/" + url.PathEscape(id)}
	if err := r.api.DoJSON(ctx, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListMyOffers fetches /driver/trips.
func (r *TripRepository) ListMyOffers(ctx context.Context) ([]*domain.TripOffer, error) {
	var page domain.Page[*domain.TripOffer]
	req := transport.Request{Method: http.MethodGet, Path: "/driver/trips"}
	if err := r.api.DoJSON(ctx, req, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}
