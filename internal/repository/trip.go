package repository

import (
	"context"

	"carpool/internal/domain"
)

// TripRepository defines the remote trip offer reads.
type TripRepository interface {
	// GetOffer retrieves a trip offer by ID.
	GetOffer(ctx context.Context, id string) (*domain.TripOffer, error)

	// ListMyOffers retrieves the signed-in driver's offers.
	ListMyOffers(ctx context.Context) ([]*domain.TripOffer, error)
}
