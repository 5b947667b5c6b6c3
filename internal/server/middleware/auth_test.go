// file: internal/server/middleware/auth_test.go
// version: 2.0.0
// guid: 8c9d0e1f-2a3b-4c5d-6e7f-8a9b0c1d2e30

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSessionTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, SessionTokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", SessionTokenFromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", SessionTokenFromRequest(req))
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	router := gin.New()
	router.Use(RequireAuth(&database.MockStore{}))
	router.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRevokesExpiredSession(t *testing.T) {
	revoked := ""
	store := &database.MockStore{
		GetSessionFunc: func(token string) (*database.Session, error) {
			return &database.Session{Token: token, UserID: 1, ExpiresAt: time.Now().Add(-time.Hour)}, nil
		},
		RevokeSessionFunc: func(token string) error {
			revoked = token
			return nil
		},
	}

	router := gin.New()
	router.Use(RequireAuth(store))
	router.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "stale", revoked)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	store := &database.MockStore{
		GetSessionFunc: func(token string) (*database.Session, error) {
			return &database.Session{Token: token, UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		GetUserByIDFunc: func(id int64) (*models.User, error) {
			return &models.User{ID: id, Name: "root", Type: models.UserAdmin}, nil
		},
	}

	router := gin.New()
	router.Use(RequireAuth(store), RequireAdmin())
	router.GET("/admin", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		assert.True(t, ok)
		assert.Equal(t, "root", user.Name)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
