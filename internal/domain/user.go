package domain

// Role represents what a signed-in user may act as.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
	RoleAdmin     Role = "admin"
)

// Identity represents the signed-in user as returned by the API.
type Identity struct {
	ID          string `json:"id"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Session is the client-held record of who is signed in.
// Authenticated is false exactly when Identity is nil.
type Session struct {
	Authenticated bool      `json:"is_authenticated"`
	Identity      *Identity `json:"identity"`
}

// AnonymousSession returns the signed-out session.
func AnonymousSession() Session {
	return Session{}
}

// AuthenticatedSession returns a signed-in session for the given identity.
func AuthenticatedSession(identity Identity) Session {
	return Session{Authenticated: true, Identity: &identity}
}

// Role returns the identity's role, or "" when signed out.
func (s Session) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}
