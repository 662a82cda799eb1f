package tests

import (
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// 1. ROUTE GUARD
// ──────────────────────────────────────────────

func signedIn(role domain.Role) domain.Session {
	return domain.AuthenticatedSession(domain.Identity{ID: "u-1", Role: role})
}

func TestGuard_Decide(t *testing.T) {
	t.Parallel()

	driverOnly := domain.RoleRef(domain.RoleDriver)
	adminOnly := domain.RoleRef(domain.RoleAdmin)

	testCases := []struct {
		name    string
		session domain.Session
		dest    domain.Destination
		want    service.Decision
	}{
		{
			name:    "signed out is sent to login",
			session: domain.AnonymousSession(),
			dest:    domain.Destination{Path: "/dashboard"},
			want:    service.RedirectTo(service.LoginPath),
		},
		{
			name:    "signed out on role page is sent to login",
			session: domain.AnonymousSession(),
			dest:    domain.Destination{Path: "/admin/reports", RequiredRole: adminOnly},
			want:    service.RedirectTo(service.LoginPath),
		},
		{
			name:    "no required role allows any signed-in user",
			session: signedIn(domain.RolePassenger),
			dest:    domain.Destination{Path: "/dashboard"},
			want:    service.Allow(),
		},
		{
			name:    "matching role allows",
			session: signedIn(domain.RoleDriver),
			dest:    domain.Destination{Path: "/driver/trips", RequiredRole: driverOnly},
			want:    service.Allow(),
		},
		{
			name:    "passenger to driver area goes to dashboard",
			session: signedIn(domain.RolePassenger),
			dest:    domain.Destination{Path: "/driver/trips", RequiredRole: driverOnly},
			want:    service.RedirectTo(service.DashboardPath),
		},
		{
			name:    "passenger to own vehicle page goes to dashboard",
			session: signedIn(domain.RolePassenger),
			dest:    domain.Destination{Path: "/driver/my-vehicle", RequiredRole: driverOnly},
			want:    service.RedirectTo(service.DashboardPath),
		},
		{
			name:    "passenger to vehicle registration goes to onboarding",
			session: signedIn(domain.RolePassenger),
			dest:    domain.Destination{Path: service.RegisterVehiclePath, RequiredRole: driverOnly},
			want:    service.RedirectTo(service.BecomeDriverPath),
		},
		{
			name:    "driver to admin area goes to dashboard",
			session: signedIn(domain.RoleDriver),
			dest:    domain.Destination{Path: "/admin/reports", RequiredRole: adminOnly},
			want:    service.RedirectTo(service.DashboardPath),
		},
		{
			name:    "passenger to admin area goes to dashboard",
			session: signedIn(domain.RolePassenger),
			dest:    domain.Destination{Path: "/admin/audit", RequiredRole: adminOnly},
			want:    service.RedirectTo(service.DashboardPath),
		},
		{
			name:    "admin to driver area goes to landing",
			session: signedIn(domain.RoleAdmin),
			dest:    domain.Destination{Path: "/driver/trips", RequiredRole: driverOnly},
			want:    service.RedirectTo(service.LandingPath),
		},
		{
			name:    "unknown role goes to landing",
			session: signedIn(domain.Role("moderator")),
			dest:    domain.Destination{Path: "/admin/reports", RequiredRole: adminOnly},
			want:    service.RedirectTo(service.LandingPath),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.Decide(tc.session, tc.dest)
			if got != tc.want {
				t.Errorf("Decide() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestGuard_IsDeterministic(t *testing.T) {
	t.Parallel()

	s := signedIn(domain.RolePassenger)
	dest := domain.Destination{Path: service.RegisterVehiclePath, RequiredRole: domain.RoleRef(domain.RoleDriver)}

	first := service.Decide(s, dest)
	for i := 0; i < 10; i++ {
		if got := service.Decide(s, dest); got != first {
			t.Fatalf("decision changed on call %d: %+v vs %+v", i, got, first)
		}
	}
}

func TestPages_Lookup(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path     string
		found    bool
		public   bool
		required domain.Role
	}{
		{"/", true, true, ""},
		{"/login?next=/dashboard", true, true, ""},
		{"/dashboard/", true, false, ""},
		{"/trips/42", true, false, ""},
		{"/driver/trips/42", true, false, domain.RoleDriver},
		{"/driver/register-vehicle", true, false, domain.RoleDriver},
		{"/admin/reports", true, false, domain.RoleAdmin},
		{"/trips/", false, false, ""},
		{"/nowhere", false, false, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			page, ok := service.LookupPage(tc.path)
			if ok != tc.found {
				t.Fatalf("LookupPage(%q) found=%v, want %v", tc.path, ok, tc.found)
			}
			if !ok {
				return
			}
			if page.Public != tc.public {
				t.Errorf("public=%v, want %v", page.Public, tc.public)
			}
			var got domain.Role
			if page.RequiredRole != nil {
				got = *page.RequiredRole
			}
			if got != tc.required {
				t.Errorf("required role=%q, want %q", got, tc.required)
			}
		})
	}
}

func TestPages_DestinationStripsQuery(t *testing.T) {
	t.Parallel()

	page, ok := service.LookupPage("/driver/register-vehicle?step=2")
	if !ok {
		t.Fatal("page not found")
	}
	dest := page.Destination("/driver/register-vehicle?step=2")
	if dest.Path != service.RegisterVehiclePath {
		t.Errorf("expected path %s, got %s", service.RegisterVehiclePath, dest.Path)
	}

	got := service.Decide(signedIn(domain.RolePassenger), dest)
	if got != service.RedirectTo(service.BecomeDriverPath) {
		t.Errorf("expected onboarding redirect, got %+v", got)
	}
}
