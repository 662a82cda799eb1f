package service

import (
	"strings"

	"carpool/internal/domain"
)

// Page is an entry of the client's screen table.
// Public pages are reachable without signing in and skip the guard.
type Page struct {
	Pattern      string
	RequiredRole *domain.Role
	Public       bool
}

// Pages lists every screen the client serves.
var Pages = []Page{
	{Pattern: "/", Public: true},
	{Pattern: "/login", Public: true},
	{Pattern: "/register", Public: true},

	{Pattern: "/dashboard"},
	{Pattern: "/become-driver"},
	{Pattern: "/my-trips"},
	{Pattern: "/notifications"},
	{Pattern: "/profile"},
	{Pattern: "/trips/:id"},

	{Pattern: "/driver/trips", RequiredRole: domain.RoleRef(domain.RoleDriver)},
	{Pattern: "/driver/trips/:id", RequiredRole: domain.RoleRef(domain.RoleDriver)},
	{Pattern: "/driver/booking-requests", RequiredRole: domain.RoleRef(domain.RoleDriver)},
	{Pattern: "/driver/register-vehicle", RequiredRole: domain.RoleRef(domain.RoleDriver)},
	{Pattern: "/driver/my-vehicle", RequiredRole: domain.RoleRef(domain.RoleDriver)},

	{Pattern: "/admin/reports", RequiredRole: domain.RoleRef(domain.RoleAdmin)},
	{Pattern: "/admin/audit", RequiredRole: domain.RoleRef(domain.RoleAdmin)},
	{Pattern: "/admin/users", RequiredRole: domain.RoleRef(domain.RoleAdmin)},
}

// LookupPage finds the page serving path. ":name" segments match any
// non-empty segment.
func LookupPage(path string) (Page, bool) {
	path = cleanPath(path)
	for _, p := range Pages {
		if matchPattern(p.Pattern, path) {
			return p, true
		}
	}
	return Page{}, false
}

// Destination builds the guard input for a concrete path of this page.
func (p Page) Destination(path string) domain.Destination {
	return domain.Destination{Path: cleanPath(path), RequiredRole: p.RequiredRole}
}

func matchPattern(pattern, path string) bool {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
