package service

import (
	"carpool/internal/domain"
)

// Navigation targets the guard redirects to.
const (
	LandingPath         = "/"
	LoginPath           = "/login"
	DashboardPath       = "/dashboard"
	BecomeDriverPath    = "/become-driver"
	RegisterVehiclePath = "/driver/register-vehicle"
)

// Decision is the outcome of a navigation attempt: either Allow, or a
// redirect to RedirectTo.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Allow lets navigation proceed.
func Allow() Decision {
	return Decision{Allow: true}
}

// RedirectTo sends navigation to path instead.
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Decide gates navigation to dest for the given session snapshot.
// Redirects are normal control flow, not errors.
func Decide(s domain.Session, dest domain.Destination) Decision {
	if !s.Authenticated || s.Identity == nil {
		return RedirectTo(LoginPath)
	}
	if dest.RequiredRole == nil {
		return Allow()
	}

	role := s.Identity.Role
	required := *dest.RequiredRole
	if role == required {
		return Allow()
	}

	// A passenger heading into driver vehicle registration is steered into
	// driver onboarding rather than bounced to the dashboard.
	if required == domain.RoleDriver && role == domain.RolePassenger {
		if dest.Path == RegisterVehiclePath {
			return RedirectTo(BecomeDriverPath)
		}
		return RedirectTo(DashboardPath)
	}

	switch role {
	case domain.RolePassenger, domain.RoleDriver:
		return RedirectTo(DashboardPath)
	default:
		return RedirectTo(LandingPath)
	}
}
