// file: internal/server/server_test.go
// version: 2.0.0
// guid: 5b6c7d8e-9f0a-1b2c-3d4e-5f6a7b8c9d00

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/obodeflix/obodeflix/internal/config"
	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, store database.Store) *Server {
	t.Helper()
	config.AppConfig = config.Config{
		SessionTTL:          time.Hour,
		SupportedExtensions: []string{".mkv", ".mp4"},
	}
	return NewServer(store)
}

func adminMock() *database.MockStore {
	admin := &models.User{ID: 1, Name: "admin", Type: models.UserAdmin}
	session := &database.Session{
		Token:     "admin-token",
		UserID:    1,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return &database.MockStore{
		GetSessionFunc: func(token string) (*database.Session, error) {
			if token == session.Token {
				return session, nil
			}
			return nil, nil
		},
		GetUserByIDFunc: func(id int64) (*models.User, error) {
			if id == admin.ID {
				return admin, nil
			}
			return nil, nil
		},
	}
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, &database.MockStore{})
	w := doRequest(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListSeriesPublic(t *testing.T) {
	store := &database.MockStore{
		ListSeriesFunc: func(q models.ListQuery) (models.Page[models.Series], error) {
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 10, q.Quantity)
			assert.Equal(t, "mainName", q.OrderColumn)
			assert.Equal(t, models.OrderDesc, q.OrderBy)
			assert.Equal(t, "bebop", q.Search)
			return models.NewPage([]models.Series{{ID: 1, MainName: "Cowboy Bebop"}}, 11, q.Page, q.Quantity), nil
		},
	}
	s := newTestServer(t, store)

	w := doRequest(t, s, http.MethodGet,
		"/series/all?page=2&quantity=10&orderColumn=mainName&orderBy=desc&search=bebop", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.Page[models.Series]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 11, page.TotalQuantity)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Len(t, page.Data, 1)
}

func TestListSeriesCollectsValidationReasons(t *testing.T) {
	s := newTestServer(t, &database.MockStore{})
	w := doRequest(t, s, http.MethodGet, "/series/all?page=0&quantity=7&orderBy=sideways", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Reason []string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Reason, 3)
}

func TestSingleReasonIsAString(t *testing.T) {
	s := newTestServer(t, &database.MockStore{})
	w := doRequest(t, s, http.MethodGet, "/series/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid id", resp.Reason)
}

func TestGetSeriesNotFound(t *testing.T) {
	s := newTestServer(t, &database.MockStore{})
	w := doRequest(t, s, http.MethodGet, "/series/42", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "series not found")
}

func TestCreateSeriesRequiresAdmin(t *testing.T) {
	s := newTestServer(t, &database.MockStore{})
	w := doRequest(t, s, http.MethodPost, "/series/create", "", map[string]string{"mainName": "X"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSeriesRejectsCommonUser(t *testing.T) {
	store := adminMock()
	common := &models.User{ID: 2, Name: "viewer", Type: models.UserCommon}
	session := &database.Session{Token: "viewer-token", UserID: 2, ExpiresAt: time.Now().Add(time.Hour)}
	store.GetSessionFunc = func(token string) (*database.Session, error) {
		if token == session.Token {
			return session, nil
		}
		return nil, nil
	}
	store.GetUserByIDFunc = func(id int64) (*models.User, error) { return common, nil }

	s := newTestServer(t, store)
	w := doRequest(t, s, http.MethodPost, "/series/create", "viewer-token", map[string]string{"mainName": "X"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateSeriesAsAdmin(t *testing.T) {
	store := adminMock()
	store.CreateSeriesFunc = func(series *models.Series) (*models.Series, error) {
		created := *series
		created.ID = 7
		return &created, nil
	}

	s := newTestServer(t, store)
	w := doRequest(t, s, http.MethodPost, "/series/create", "admin-token",
		map[string]any{"mainName": "Cowboy Bebop", "description": "space jazz"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(7), created.ID)
}

func TestCreateSeriesValidation(t *testing.T) {
	s := newTestServer(t, adminMock())
	w := doRequest(t, s, http.MethodPost, "/series/create", "admin-token", map[string]string{"mainName": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mainName is required")
}

func TestInactivateSeries(t *testing.T) {
	inactivated := int64(0)
	store := adminMock()
	store.GetSeriesByIDFunc = func(id int64) (*models.Series, error) {
		return &models.Series{ID: id, MainName: "X"}, nil
	}
	store.InactivateSeriesFunc = func(id int64) error {
		inactivated = id
		return nil
	}

	s := newTestServer(t, store)
	w := doRequest(t, s, http.MethodDelete, "/series/inactivate/9", "admin-token", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(9), inactivated)
}

func TestExpiredSessionRejected(t *testing.T) {
	store := adminMock()
	expired := &database.Session{Token: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}
	store.GetSessionFunc = func(token string) (*database.Session, error) { return expired, nil }

	s := newTestServer(t, store)
	w := doRequest(t, s, http.MethodPost, "/series/create", "old", map[string]string{"mainName": "X"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired")
}

func TestLoginFlow(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 3, Name: "viewer", Email: "v@example.com", PasswordHash: string(hash), Type: models.UserCommon}

	store := &database.MockStore{
		GetUserByEmailFunc: func(email string) (*models.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, nil
		},
	}
	s := newTestServer(t, store)

	w := doRequest(t, s, http.MethodPost, "/user/login", "",
		map[string]string{"email": "v@example.com", "password": "hunter2password"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string             `json:"token"`
		User  models.UserSummary `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "viewer", resp.User.Name)

	// Wrong password gets the same generic answer as unknown email.
	w = doRequest(t, s, http.MethodPost, "/user/login", "",
		map[string]string{"email": "v@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestFirstSignupBecomesAdmin(t *testing.T) {
	var createdType models.UserType
	store := &database.MockStore{
		CountUsersFunc: func() (int, error) { return 0, nil },
		CreateUserFunc: func(name, email, passwordHash string, userType models.UserType) (*models.User, error) {
			createdType = userType
			return &models.User{ID: 1, Name: name, Email: email, Type: userType}, nil
		},
	}
	s := newTestServer(t, store)

	w := doRequest(t, s, http.MethodPost, "/user/create", "",
		map[string]string{"name": "root", "email": "root@example.com", "password": "longenoughpw"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.UserAdmin, createdType)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t, &database.MockStore{})
	w := doRequest(t, s, http.MethodPost, "/user/create", "",
		map[string]string{"name": "", "email": "nope", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Reason []string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Reason, 3)
}
