package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/service"
	"carpool/internal/transport"
)

func newClient(t *testing.T, h http.HandlerFunc) *transport.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := transport.New(transport.Config{BaseURL: srv.URL + "/api"})
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	return c
}

func TestAuthRepository_Login(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var creds repository.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "ana@uni.edu" || creds.Password != "secret" {
			t.Errorf("creds=%+v", creds)
		}
		_, _ = io.WriteString(w, `{"user":{"id":"u-1","role":"driver","display_name":"Ana","email":"ana@uni.edu"}}`)
	})

	id, err := NewAuthRepository(c).Login(context.Background(), repository.Credentials{Email: "ana@uni.edu", Password: "secret"})
	if err != nil {
		t.Fatalf("Login err=%v", err)
	}
	if id.ID != "u-1" || id.Role != domain.RoleDriver || id.DisplayName != "Ana" {
		t.Fatalf("identity=%+v", id)
	}
}

func TestNotificationRepository_ListKeepsLargeTripIDs(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"id":"n-1","type":"booking.new","data":{"tripId":9007199254740993}}],"unread_count":1}`)
	})

	list, err := NewNotificationRepository(c).List(context.Background())
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(list.Items) != 1 || list.UnreadCount != 1 {
		t.Fatalf("list=%+v", list)
	}
	if got := list.Items[0].Data["tripId"]; got != json.Number("9007199254740993") {
		t.Fatalf("tripId=%v (%T)", got, got)
	}
	if got := service.ResolveTarget(list.Items[0], domain.RoleDriver); got != "/driver/trips/9007199254740993" {
		t.Fatalf("target=%s", got)
	}
}

func TestNotificationRepository_MarkReadSendsBatch(t *testing.T) {
	t.Parallel()

	var got []string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notifications/mark-read" {
			t.Errorf("path=%s", r.URL.Path)
		}
		var body struct {
			IDs []string `json:"ids"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		got = body.IDs
		w.WriteHeader(http.StatusNoContent)
	})

	if err := NewNotificationRepository(c).MarkRead(context.Background(), []string{"n-1", "n-2"}); err != nil {
		t.Fatalf("MarkRead err=%v", err)
	}
	if len(got) != 2 || got[0] != "n-1" || got[1] != "n-2" {
		t.Fatalf("ids=%v", got)
	}
}

func TestReportRepository_PagesWithIndependentSizes(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/api/admin/reports/users":
			if q.Get("page") != "3" || q.Get("page_size") != "10" {
				t.Errorf("users query=%s", r.URL.RawQuery)
			}
			_, _ = io.WriteString(w, `{"results":[{"id":"ur-1","created_at":"2025-03-01T10:00:00Z"}],"total_pages":4}`)
		case "/api/admin/reports/content":
			if q.Get("page") != "3" || q.Get("page_size") != "5" {
				t.Errorf("content query=%s", r.URL.RawQuery)
			}
			_, _ = io.WriteString(w, `{"results":[],"total_pages":1}`)
		default:
			http.NotFound(w, r)
		}
	})
	repo := NewReportRepository(c)

	users, err := repo.ListUserReports(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("ListUserReports err=%v", err)
	}
	if len(users.Items) != 1 || users.TotalPages != 4 || !users.Items[0].CreatedAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("users=%+v", users)
	}
	content, err := repo.ListContentReports(context.Background(), 3, 5)
	if err != nil {
		t.Fatalf("ListContentReports err=%v", err)
	}
	if content.TotalPages != 1 || len(content.Items) != 0 {
		t.Fatalf("content=%+v", content)
	}
}

func TestTripRepository_GetOfferEscapesID(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/driver/trips/a%2Fb" {
			t.Errorf("path=%s", r.URL.EscapedPath())
		}
		_, _ = io.WriteString(w, `{"id":"a/b","status":"published","departure_at":"2025-03-01T10:00:00Z"}`)
	})

	offer, err := NewTripRepository(c).GetOffer(context.Background(), "a/b")
	if err != nil {
		t.Fatalf("GetOffer err=%v", err)
	}
	if offer.Status != domain.OfferStatusPublished {
		t.Fatalf("offer=%+v", offer)
	}
}
