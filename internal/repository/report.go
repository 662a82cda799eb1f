package repository

import (
	"context"
	"io"

	"carpool/internal/domain"
)

// ReportRepository defines the two independently paginated moderation sources.
type ReportRepository interface {
	// ListUserReports retrieves one page of reports filed against users.
	ListUserReports(ctx context.Context, page, pageSize int) (*domain.Page[domain.UserReport], error)

	// ListContentReports retrieves one page of reports filed against content.
	ListContentReports(ctx context.Context, page, pageSize int) (*domain.Page[domain.ContentReport], error)
}

// AuditRepository defines the audit log export.
type AuditRepository interface {
	// Export opens the audit log as an opaque byte stream with its content type.
	Export(ctx context.Context) (stream io.ReadCloser, contentType string, err error)
}
