package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carpool/internal/service"
)

// Default page sizes of the moderation feed sources.
const (
	DefaultUserReportPageSize    = 20
	DefaultContentReportPageSize = 20
)

// ReportHandler handles the moderation feed and audit export.
type ReportHandler struct {
	feedService  *service.ReportFeedService
	auditService *service.AuditExportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(feedService *service.ReportFeedService, auditService *service.AuditExportService) *ReportHandler {
	return &ReportHandler{feedService: feedService, auditService: auditService}
}

// GetFeed handles GET /api/admin/reports
func (h *ReportHandler) GetFeed(c *gin.Context) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	userSize, ok := intQuery(c, "user_page_size", DefaultUserReportPageSize)
	if !ok {
		return
	}
	contentSize, ok := intQuery(c, "content_page_size", DefaultContentReportPageSize)
	if !ok {
		return
	}

	feed, err := h.feedService.Page(c.Request.Context(), service.FeedRequest{
		Page:            page,
		UserPageSize:    userSize,
		ContentPageSize: contentSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, feed)
}

// ExportAudit handles POST /api/admin/audit/export
func (h *ReportHandler) ExportAudit(c *gin.Context) {
	res, err := h.auditService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, res)
}

func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}
