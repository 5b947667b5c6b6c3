// file: internal/client/client_test.go
// version: 2.0.0
// guid: 2a3b4c5d-6e7f-8a9b-0c1d-2e3f4a5b6c70

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obodeflix/obodeflix/internal/models"
)

func TestListSeriesSendsQueryAndToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/all", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("quantity"))
		assert.Equal(t, "mainName", q.Get("orderColumn"))
		assert.Equal(t, "desc", q.Get("orderBy"))
		assert.Equal(t, "bebop", q.Get("search"))
		json.NewEncoder(w).Encode(models.NewPage([]models.Series{{ID: 1}}, 1, 1, 10))
	}))
	defer server.Close()

	c := New(server.URL, WithToken("tok-1"))
	page, err := c.ListSeries(context.Background(), ListOptions{
		Page: 2, Quantity: 10, OrderColumn: "mainName", OrderBy: models.OrderDesc, Search: "bebop",
	})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

func TestStatusErrorSingleReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"reason": "series not found"})
	}))
	defer server.Close()

	_, err := New(server.URL).GetSeries(context.Background(), 99)
	require.Error(t, err)
	statusErr, ok := err.(*StatusError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, []string{"series not found"}, statusErr.Reasons)
	assert.True(t, IsNotFound(err))
}

func TestStatusErrorReasonList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string][]string{
			"reason": {"page must be a positive integer", "orderBy must be asc or desc"},
		})
	}))
	defer server.Close()

	_, err := New(server.URL).ListSeries(context.Background(), ListOptions{})
	require.Error(t, err)
	statusErr := err.(*StatusError)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Len(t, statusErr.Reasons, 2)
	assert.Contains(t, statusErr.Error(), "orderBy must be asc or desc")
}

func TestTransportErrorHasZeroCode(t *testing.T) {
	c := New("http://127.0.0.1:0")
	_, err := c.ListSeries(context.Background(), ListOptions{})
	require.Error(t, err)
	statusErr, ok := err.(*StatusError)
	require.True(t, ok)
	assert.Equal(t, 0, statusErr.Code)
}

func TestLoginAdoptsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "a@example.com", body["email"])
			json.NewEncoder(w).Encode(Session{Token: "fresh-token", User: models.UserSummary{ID: 1, Name: "a"}})
		case "/user/me":
			assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(models.User{ID: 1, Name: "a"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	session, err := c.Login(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", session.Token)
	assert.Equal(t, "fresh-token", c.Token())

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestReorderSeasonsWirePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/season/reorder", r.URL.Path)
		var body struct {
			SeriesID  int64          `json:"seriesId"`
			Positions map[string]int `json:"positions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(4), body.SeriesID)
		assert.Equal(t, map[string]int{"10": 2, "11": 1}, body.Positions)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := New(server.URL).ReorderSeasons(context.Background(), 4, map[int64]int{10: 2, 11: 1})
	require.NoError(t, err)
}

func TestInactivateSeriesNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/series/inactivate/5", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, New(server.URL).InactivateSeries(context.Background(), 5))
}

func TestListEpisodeFileFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/episode-file/files", r.URL.Path)
		assert.Equal(t, "Show Name", r.URL.Query().Get("folder"))
		json.NewEncoder(w).Encode(map[string][]models.EpisodeFile{
			"files": {{Name: "ep1.mkv", Path: "Show Name/ep1.mkv", Duration: 1420}},
		})
	}))
	defer server.Close()

	files, err := New(server.URL).ListEpisodeFileFiles(context.Background(), "Show Name")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "ep1.mkv", files[0].Name)
}
