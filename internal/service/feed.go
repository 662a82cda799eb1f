package service

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// ReportFeed is one page of the merged moderation feed.
//
// TotalPages is the larger of the two sources' page counts. The sources are
// not paginated jointly, so this can over- or under-report depth.
type ReportFeed struct {
	Entries    []domain.ReportEntry `json:"entries"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

// ReportFeedService merges user reports and content reports into one feed.
type ReportFeedService struct {
	repo repository.ReportRepository
}

// NewReportFeedService creates a new ReportFeedService.
func NewReportFeedService(repo repository.ReportRepository) *ReportFeedService {
	return &ReportFeedService{repo: repo}
}

// FeedRequest contains the parameters for loading one feed page.
type FeedRequest struct {
	Page            int
	UserPageSize    int
	ContentPageSize int
}

// Page fetches the same logical page from both sources and merges them.
// A failure of either source fails the whole page.
func (s *ReportFeedService) Page(ctx context.Context, req FeedRequest) (*ReportFeed, error) {
	if req.Page < 1 {
		return nil, ErrInvalidPage
	}
	if req.UserPageSize < 1 || req.ContentPageSize < 1 {
		return nil, ErrInvalidPageSize
	}

	var (
		users   *domain.Page[domain.UserReport]
		content *domain.Page[domain.ContentReport]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.repo.ListUserReports(gctx, req.Page, req.UserPageSize)
		return err
	})
	g.Go(func() error {
		var err error
		content, err = s.repo.ListContentReports(gctx, req.Page, req.ContentPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReportFeed{
		Entries:    MergeReports(users.Items, content.Items),
		Page:       req.Page,
		TotalPages: max(users.TotalPages, content.TotalPages),
	}, nil
}

// MergeReports tags and merges both report lists, newest first. Entries with
// equal timestamps keep their source order, user reports before content reports.
func MergeReports(users []domain.UserReport, content []domain.ContentReport) []domain.ReportEntry {
	entries := make([]domain.ReportEntry, 0, len(users)+len(content))
	for i := range users {
		u := users[i]
		entries = append(entries, domain.ReportEntry{Kind: domain.ReportKindUser, User: &u})
	}
	for i := range content {
		c := content[i]
		entries = append(entries, domain.ReportEntry{Kind: domain.ReportKindContent, Content: &c})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt().After(entries[j].CreatedAt())
	})
	return entries
}
