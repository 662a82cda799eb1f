package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"carpool/internal/repository"
	"carpool/internal/transport"
)

// NotificationRepository implements repository.NotificationRepository.
type NotificationRepository struct {
	api Doer
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(api Doer) *NotificationRepository {
	return &NotificationRepository{api: api}
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

// List fetches /notifications. Numbers in each notification's data keep
// their exact digits, so large trip ids survive.
func (r *NotificationRepository) List(ctx context.Context) (*repository.NotificationList, error) {
	var raw json.RawMessage
	if err := r.api.DoJSON(ctx, transport.Request{Method: http.MethodGet, Path: "/notifications"}, &raw); err != nil {
		return nil, err
	}

	var list repository.NotificationList
	if len(raw) == 0 {
		return &list, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return &list, nil
}

// MarkRead posts the batch of ids to /notifications/mark-read.
func (r *NotificationRepository) MarkRead(ctx context.Context, ids []string) error {
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	return r.api.DoJSON(ctx, transport.Request{Method: http.MethodPost, Path: "/notifications/mark-read", Body: body}, nil)
}

// MarkAllRead posts to /notifications/mark-all-read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	return r.api.DoJSON(ctx, transport.Request{Method: http.MethodPost, Path: "/notifications/mark-all-read"}, nil)
}
