package domain

// Destination is a navigation target as supplied by the page router.
// RequiredRole is nil when any signed-in user may enter.
type Destination struct {
	Path         string
	RequiredRole *Role
}

// RoleRef returns a pointer to r, for building destinations.
func RoleRef(r Role) *Role {
	return &r
}
