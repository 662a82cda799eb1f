package middleware

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"carpool/internal/service"
	"carpool/internal/transport"
)

// Navigator holds a forced full-page redirect until the next page load.
// The transport client calls Redirect when the session expires mid-flight.
type Navigator struct {
	mu      sync.Mutex
	pending string
}

// NewNavigator creates a Navigator with nothing pending.
func NewNavigator() *Navigator {
	return &Navigator{}
}

var _ transport.Redirector = (*Navigator)(nil)

// Redirect schedules a full-page load of path. A later call replaces an
// earlier one that has not been served yet.
func (n *Navigator) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = path
	log.Printf("[NAV] forced redirect to %s scheduled", path)
}

// Pending returns the scheduled redirect, or "" when there is none.
func (n *Navigator) Pending() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}

func (n *Navigator) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.pending
	n.pending = ""
	return p
}

// NavigationGuard gates page loads. A scheduled forced redirect is served
// first; then non-public pages go through the route guard with the current
// session. Requests for anything that is not a page pass through untouched.
func NavigationGuard(nav *Navigator, sessions service.SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		page, ok := service.LookupPage(path)
		if !ok {
			c.Next()
			return
		}

		if target := nav.take(); target != "" && target != path {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		if page.Public {
			c.Next()
			return
		}

		decision := service.Decide(sessions.State(), page.Destination(path))
		if !decision.Allow {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}
