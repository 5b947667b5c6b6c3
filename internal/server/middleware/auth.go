// file: internal/server/middleware/auth.go
// version: 2.0.0
// guid: 2a3b4c5d-6e7f-8a9b-0c1d-2e3f4a5b6c7d

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
)

const (
	// SessionCookieName is the auth session cookie used by browser clients.
	SessionCookieName = "session_id"
	contextUserKey    = "auth_user"
	contextSessionKey = "auth_session"
)

// SessionTokenFromRequest extracts the session token from Bearer auth or cookie.
func SessionTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		token := strings.TrimSpace(authHeader[len("Bearer "):])
		if token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// CurrentUser fetches the authenticated user from Gin context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c.Get(contextUserKey)
	if !ok || value == nil {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// CurrentSession fetches the authenticated session from Gin context.
func CurrentSession(c *gin.Context) (*database.Session, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c.Get(contextSessionKey)
	if !ok || value == nil {
		return nil, false
	}
	session, ok := value.(*database.Session)
	return session, ok && session != nil
}

func abortUnauthorized(c *gin.Context, reason string) {
	c.JSON(http.StatusUnauthorized, gin.H{"reason": reason})
	c.Abort()
}

// Authenticate resolves the session token to a user when one is present but
// never rejects the request. Public browse endpoints use it so comments can
// carry authorship when the viewer happens to be logged in.
func Authenticate(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionTokenFromRequest(c.Request)
		if token == "" {
			c.Next()
			return
		}
		session, err := store.GetSession(token)
		if err != nil || session == nil || session.Revoked || time.Now().After(session.ExpiresAt) {
			c.Next()
			return
		}
		if user, err := store.GetUserByID(session.UserID); err == nil && user != nil {
			c.Set(contextUserKey, user)
			c.Set(contextSessionKey, session)
		}
		c.Next()
	}
}

// RequireAuth enforces session-based auth.
func RequireAuth(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionTokenFromRequest(c.Request)
		if token == "" {
			abortUnauthorized(c, "authentication required")
			return
		}

		session, err := store.GetSession(token)
		if err != nil || session == nil {
			abortUnauthorized(c, "invalid session")
			return
		}
		if session.Revoked || time.Now().After(session.ExpiresAt) {
			_ = store.RevokeSession(token)
			abortUnauthorized(c, "session expired")
			return
		}

		user, err := store.GetUserByID(session.UserID)
		if err != nil || user == nil {
			abortUnauthorized(c, "invalid session user")
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextSessionKey, session)
		c.Next()
	}
}

// RequireAdmin enforces an authenticated ADMIN user. Must run after
// RequireAuth in the chain.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if user.Type != models.UserAdmin {
			c.JSON(http.StatusForbidden, gin.H{"reason": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
