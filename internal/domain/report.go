package domain

import "time"

// ReportKind tags which moderation source an entry came from.
type ReportKind string

const (
	ReportKindUser    ReportKind = "user"
	ReportKindContent ReportKind = "content"
)

// UserReport is a report filed against another user.
type UserReport struct {
	ID             string    `json:"id"`
	ReporterID     string    `json:"reporter_id"`
	ReportedUserID string    `json:"reported_user_id"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ContentReport is a report filed against a review or trip listing.
type ContentReport struct {
	ID          string    `json:"id"`
	ReporterID  string    `json:"reporter_id"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportEntry is one item of the merged moderation feed.
// Exactly one of User or Content is set, matching Kind.
type ReportEntry struct {
	Kind    ReportKind     `json:"kind"`
	User    *UserReport    `json:"user_report,omitempty"`
	Content *ContentReport `json:"content_report,omitempty"`
}

// CreatedAt returns the creation time of the wrapped report.
func (e ReportEntry) CreatedAt() time.Time {
	switch {
	case e.User != nil:
		return e.User.CreatedAt
	case e.Content != nil:
		return e.Content.CreatedAt
	default:
		return time.Time{}
	}
}

// Page is one page of a paginated API listing.
type Page[T any] struct {
	Items      []T `json:"results"`
	TotalPages int `json:"total_pages"`
}
