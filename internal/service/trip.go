package service

import (
	"context"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/platform/clock"
	"carpool/internal/repository"
)

// TripService reads trip offers and attaches their derived status.
type TripService struct {
	repo repository.TripRepository
	clk  clock.Clock
}

// NewTripService creates a new TripService.
func NewTripService(repo repository.TripRepository, clk clock.Clock) *TripService {
	return &TripService{repo: repo, clk: clk}
}

// Offer fetches one offer and derives its status at the current instant.
func (s *TripService) Offer(ctx context.Context, id string) (*domain.TripOfferView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidTripID
	}
	offer, err := s.repo.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	view := DeriveOfferStatus(*offer, s.clk.Now())
	return &view, nil
}

// MyOffers fetches the driver's offers with derived status, all evaluated
// against the same instant.
func (s *TripService) MyOffers(ctx context.Context) ([]domain.TripOfferView, error) {
	offers, err := s.repo.ListMyOffers(ctx)
	if err != nil {
		return nil, err
	}
	return DeriveOfferViews(offers, s.clk.Now()), nil
}
