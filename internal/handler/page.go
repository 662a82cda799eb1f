package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/service"
)

// PageHandler answers page loads that made it past the navigation guard.
// Rendering belongs to the presentational layer; the shell reports which
// screen was reached and for whom.
type PageHandler struct {
	sessions service.SessionReader
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(sessions service.SessionReader) *PageHandler {
	return &PageHandler{sessions: sessions}
}

// Show handles GET on every entry of service.Pages.
func (h *PageHandler) Show(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{
		"page":    c.FullPath(),
		"path":    c.Request.URL.Path,
		"session": h.sessions.State(),
	})
}
