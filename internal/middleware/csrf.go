package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CSRFHeader carries the shell's CSRF token on state-changing shell requests.
const CSRFHeader = "X-CSRF-Token"

const csrfSessionKey = "csrf_token"

// CSRF issues a per-cookie token and validates it on state-changing requests.
// It must run after ShellSession.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess == nil {
			respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "session error")
			c.Abort()
			return
		}

		token, _ := sess.Values[csrfSessionKey].(string)
		if token == "" {
			var err error
			token, err = generateCSRFToken()
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to issue csrf token")
				c.Abort()
				return
			}
			sess.Values[csrfSessionKey] = token
			if err := sess.Save(c.Request, c.Writer); err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to persist session")
				c.Abort()
				return
			}
		}

		if !isSafeMethod(c.Request.Method) {
			if header := c.GetHeader(CSRFHeader); header == "" || header != token {
				respondError(c, http.StatusForbidden, "FORBIDDEN", "invalid csrf token")
				c.Abort()
				return
			}
		}

		c.Writer.Header().Set(CSRFHeader, token)
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
