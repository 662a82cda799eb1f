package remote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/transport"
)

// ReportRepository implements repository.ReportRepository and repository.AuditRepository.
type ReportRepository struct {
	api Doer
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(api Doer) *ReportRepository {
	return &ReportRepository{api: api}
}

var (
	_ repository.ReportRepository = (*ReportRepository)(nil)
	_ repository.AuditRepository  = (*ReportRepository)(nil)
)

// ListUserReports fetches /admin/reports/users.
func (r *ReportRepository) ListUserReports(ctx context.Context, page, pageSize int) (*domain.Page[domain.UserReport], error) {
	var out domain.Page[domain.UserReport]
	req := transport.Request{Method: http.MethodGet, Path: "/admin/reports/users", Query: pageQuery(page, pageSize)}
	if err := r.api.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListContentReports fetches /admin/reports/content.
func (r *ReportRepository) ListContentReports(ctx context.Context, page, pageSize int) (*domain.Page[domain.ContentReport], error) {
	var out domain.Page[domain.ContentReport]
	req := transport.Request{Method: http.MethodGet, Path: "/admin/reports/content", Query: pageQuery(page, pageSize)}
	if err := r.api.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export opens /admin/audit/export.
func (r *ReportRepository) Export(ctx context.Context) (io.ReadCloser, string, error) {
	return r.api.Download(ctx, "/admin/audit/export")
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}
