package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/service"
)

// TripHandler handles HTTP requests for trip offers.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// GetOffer handles GET /api/driver/trips/:id
func (h *TripHandler) GetOffer(c *gin.Context) {
	view, err := h.tripService.Offer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, view)
}

// GetMyOffers handles GET /api/driver/trips
func (h *TripHandler) GetMyOffers(c *gin.Context) {
	views, err := h.tripService.MyOffers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"results": views})
}
