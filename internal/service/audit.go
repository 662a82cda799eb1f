package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"carpool/internal/platform/clock"
	"carpool/internal/repository"
)

// auditExportLayout is an ISO 8601 UTC timestamp with milliseconds.
const auditExportLayout = "2006-01-02T15:04:05.000Z"

// AuditExport describes a finished audit log download.
type AuditExport struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Bytes       int64  `json:"bytes"`
}

// AuditExportService saves the audit log to a local file.
type AuditExportService struct {
	repo repository.AuditRepository
	clk  clock.Clock
	dir  string
}

// NewAuditExportService creates a new AuditExportService writing into dir.
func NewAuditExportService(repo repository.AuditRepository, clk clock.Clock, dir string) *AuditExportService {
	return &AuditExportService{repo: repo, clk: clk, dir: dir}
}

// AuditExportFilename returns the download name for an export started at t.
func AuditExportFilename(t time.Time) string {
	return "audit-export-" + t.UTC().Format(auditExportLayout) + ".ndjson"
}

// Export streams the audit log into audit-export-{timestamp}.ndjson.
// The file only appears once the stream has been fully written.
func (s *AuditExportService) Export(ctx context.Context) (*AuditExport, error) {
	if s.dir == "" {
		return nil, ErrExportDirMissing
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir %s: %w", s.dir, err)
	}

	name := AuditExportFilename(s.clk.Now())
	stream, contentType, err := s.repo.Export(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	tmp, err := os.CreateTemp(s.dir, ".audit-export-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, stream)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("failed to save export: %w", err)
	}

	log.Printf("[EXPORT] audit log saved to %s (%d bytes, %s)", path, n, contentType)
	return &AuditExport{Path: path, ContentType: contentType, Bytes: n}, nil
}
