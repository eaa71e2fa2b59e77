package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/api/http/respond"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
	"github.com/wxllspace/wxllspace-backend/internal/session"
	"github.com/wxllspace/wxllspace-backend/internal/users"
)

const (
	ctxStore   = "session_store"
	ctxToken   = "session_token"
	ctxAuthErr = "session_error"
)

// Authenticate resolves the bearer token, when present, into a session
// store attached to the request. Requests without a usable token continue
// anonymously; use RequireSession to reject them. When the session cannot
// be resolved the request also continues anonymously and the error is kept
// for RequireSession and RequireRole to report.
func Authenticate(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		store := session.NewStore(svc)
		if err := store.Init(c.Request.Context(), token); err != nil {
			logging.NewLogger(c.Request.Context()).LogWarnf("auth.authenticate", "continuing anonymously: %v", err)
			c.Set(ctxAuthErr, err)
		}

		c.Set(ctxStore, store)
		if store.Session() != nil {
			c.Set(ctxToken, token)
		}
		c.Next()
	}
}

// RequireSession rejects requests without an authenticated identity.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			unauthenticated(c)
			return
		}
		c.Next()
	}
}

// RequireRole admits only sessions resolved to one of roles.
func RequireRole(roles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			unauthenticated(c)
			return
		}
		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "not allowed for role " + string(sess.Role)})
	}
}

// unauthenticated reports why a protected route has no session: the
// resolution error when there was one, 401 otherwise.
func unauthenticated(c *gin.Context) {
	if v, ok := c.Get(ctxAuthErr); ok {
		if err, ok := v.(error); ok {
			respond.Error(c, err)
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
}

// Store returns the request's session store, a fresh anonymous one if the
// Authenticate middleware did not run.
func Store(c *gin.Context) *session.Store {
	if v, ok := c.Get(ctxStore); ok {
		if st, ok := v.(*session.Store); ok {
			return st
		}
	}
	return session.NewStore(nil)
}

// CurrentSession returns the authenticated session of the request.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	sess := Store(c).Session()
	return sess, sess != nil
}

// IdentityID is the authenticated identity id, "" when anonymous.
func IdentityID(c *gin.Context) string {
	if sess, ok := CurrentSession(c); ok {
		return sess.Identity.ID
	}
	return ""
}

// BearerToken returns the token that authenticated the request.
func BearerToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
