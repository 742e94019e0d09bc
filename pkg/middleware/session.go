package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SubjectKey is the gin context key holding the session subject, when known.
const SubjectKey = "subject"

// SessionChecker reports whether a storefront session holds an access token.
type SessionChecker interface {
	Authenticated() bool
}

// SubjectSource exposes the user id of the current session ("" when unknown).
type SubjectSource interface {
	Subject() string
}

// RequireSession rejects requests with 401 while no access token is held.
func RequireSession(s SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Next()
	}
}

// SessionSubject stores the session subject in the context so later
// middleware can key on it.
func SessionSubject(src SubjectSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sub := src.Subject(); sub != "" {
			c.Set(SubjectKey, sub)
		}
		c.Next()
	}
}

// limiterKey prefers the session subject and falls back to the client IP.
func limiterKey(c *gin.Context) string {
	if sub := c.GetString(SubjectKey); sub != "" {
		return "sub:" + sub
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
