package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	notificationService *service.NotificationService
	poller              *service.NotificationPoller
	sessions            service.SessionReader
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(
	notificationService *service.NotificationService,
	poller *service.NotificationPoller,
	sessions service.SessionReader,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		poller:              poller,
		sessions:            sessions,
	}
}

// MarkReadRequest is the HTTP request body for marking notifications read.
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

// OpenResponse tells the caller where an opened notification leads.
type OpenResponse struct {
	Target string `json:"target"`
}

// GetAll handles GET /api/notifications
// With refresh=true it polls immediately instead of serving the last snapshot.
func (h *NotificationHandler) GetAll(c *gin.Context) {
	if c.Query("refresh") == "true" {
		if _, err := h.poller.Poll(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
	}
	respondJSON(c, http.StatusOK, h.poller.Snapshot())
}

// MarkRead handles POST /api/notifications/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), req.IDs...); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Open handles POST /api/notifications/:id/open
// It marks the notification read and returns the screen it leads to.
func (h *NotificationHandler) Open(c *gin.Context) {
	id := c.Param("id")
	n, ok := h.find(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ErrorBody{Code: "not_found", Message: "notification not found"}})
		return
	}

	if !n.IsRead {
		if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
	}

	target := service.ResolveTarget(n, h.sessions.State().Role())
	respondJSON(c, http.StatusOK, OpenResponse{Target: target})
}

func (h *NotificationHandler) find(id string) (domain.Notification, bool) {
	for _, n := range h.poller.Snapshot().Items {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Notification{}, false
}
