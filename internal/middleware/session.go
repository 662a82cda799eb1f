package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	shellSessionName   = "carpool_shell"
	shellSessionMaxAge = 12 * 60 * 60
	sessionContextKey  = "shellSession"
)

// ShellSessionConfig controls the shell's own cookie.
type ShellSessionConfig struct {
	CookieSecure bool
}

// ShellSession ensures the shell cookie exists and applies consistent options.
// The cookie only carries shell state; who is signed in lives in the session
// store and the remote API's cookies.
func ShellSession(cfg ShellSessionConfig, store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, shellSessionName)
		if err != nil {
			// A cookie signed with an old key is replaced, not fatal.
			sess, _ = store.New(c.Request, shellSessionName)
			if sess == nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "session error")
				c.Abort()
				return
			}
		}

		applySessionOptions(cfg, sess)
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *sessions.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*sessions.Session)
	return sess
}

func applySessionOptions(cfg ShellSessionConfig, sess *sessions.Session) {
	if sess.Options == nil {
		sess.Options = &sessions.Options{}
	}
	sess.Options.Path = "/"
	sess.Options.MaxAge = shellSessionMaxAge
	sess.Options.HttpOnly = true
	sess.Options.Secure = cfg.CookieSecure
	sess.Options.SameSite = http.SameSiteStrictMode
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
