// file: internal/database/pebble_store_test.go
// version: 2.0.0
// guid: 4a5b6c7d-8e9f-0a1b-2c3d-4e5f6a7b8c9d

package database

import (
	"testing"
	"time"

	"github.com/obodeflix/obodeflix/internal/models"
)

func newTestStore(t *testing.T) *PebbleStore {
	t.Helper()
	store, err := NewPebbleStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewPebbleStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := RunMigrations(store); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return store
}

func mustCreateSeries(t *testing.T, store Store, mainName string) *models.Series {
	t.Helper()
	created, err := store.CreateSeries(&models.Series{MainName: mainName})
	if err != nil {
		t.Fatalf("CreateSeries(%q): %v", mainName, err)
	}
	return created
}

func mustCreateSeason(t *testing.T, store Store, seriesID int64, name string, position int) *models.Season {
	t.Helper()
	created, err := store.CreateSeason(&models.Season{
		SeriesID: seriesID,
		Name:     name,
		Type:     models.SeasonTV,
		Position: position,
	})
	if err != nil {
		t.Fatalf("CreateSeason(%q): %v", name, err)
	}
	return created
}

func TestSeriesCRUD(t *testing.T) {
	store := newTestStore(t)

	created := mustCreateSeries(t, store, "Cowboy Bebop")
	if created.ID == 0 {
		t.Fatal("expected nonzero id")
	}

	fetched, err := store.GetSeriesByID(created.ID)
	if err != nil {
		t.Fatalf("GetSeriesByID: %v", err)
	}
	if fetched == nil || fetched.MainName != "Cowboy Bebop" {
		t.Fatalf("unexpected series: %+v", fetched)
	}
	if fetched.Seasons == nil || fetched.Tags == nil {
		t.Fatal("expected seasons and tags preloaded as empty slices")
	}

	created.MainName = "Cowboy Bebop (1998)"
	updated, err := store.UpdateSeries(created.ID, created)
	if err != nil {
		t.Fatalf("UpdateSeries: %v", err)
	}
	if updated.MainName != "Cowboy Bebop (1998)" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := store.InactivateSeries(created.ID); err != nil {
		t.Fatalf("InactivateSeries: %v", err)
	}
	gone, err := store.GetSeriesByID(created.ID)
	if err != nil {
		t.Fatalf("GetSeriesByID after inactivate: %v", err)
	}
	if gone != nil {
		t.Fatal("inactivated series should not be returned")
	}
}

func TestUpdateMissingSeriesReturnsNil(t *testing.T) {
	store := newTestStore(t)
	updated, err := store.UpdateSeries(999, &models.Series{MainName: "ghost"})
	if err != nil {
		t.Fatalf("UpdateSeries: %v", err)
	}
	if updated != nil {
		t.Fatal("expected nil result for missing id")
	}
}

func TestListSeriesPaginationAndSearch(t *testing.T) {
	store := newTestStore(t)
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta"}
	for _, name := range names {
		mustCreateSeries(t, store, name)
	}

	page, err := store.ListSeries(models.ListQuery{Page: 2, Quantity: 5, OrderColumn: "id"})
	if err != nil {
		t.Fatalf("ListSeries: %v", err)
	}
	if page.TotalQuantity != 7 || page.LastPage != 2 || page.CurrentPage != 2 {
		t.Fatalf("unexpected page header: %+v", page)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 items on last page, got %d", len(page.Data))
	}

	// Search is accent and case insensitive.
	mustCreateSeries(t, store, "Épisode Spécial")
	found, err := store.ListSeries(models.ListQuery{Search: "episode"})
	if err != nil {
		t.Fatalf("ListSeries search: %v", err)
	}
	if found.TotalQuantity != 1 {
		t.Fatalf("expected 1 match, got %d", found.TotalQuantity)
	}

	// Out-of-range pages echo the requested page with empty data.
	empty, err := store.ListSeries(models.ListQuery{Page: 9, Quantity: 5})
	if err != nil {
		t.Fatalf("ListSeries out of range: %v", err)
	}
	if empty.CurrentPage != 9 || len(empty.Data) != 0 {
		t.Fatalf("expected empty echo page, got %+v", empty)
	}
}

func TestSeriesTags(t *testing.T) {
	store := newTestStore(t)
	series := mustCreateSeries(t, store, "Tagged")

	action, err := store.CreateTag(&models.Tag{Name: "Action"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	drama, err := store.CreateTag(&models.Tag{Name: "Drama"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := store.SetSeriesTags(series.ID, []int64{action.ID, drama.ID}); err != nil {
		t.Fatalf("SetSeriesTags: %v", err)
	}
	tags, err := store.GetSeriesTags(series.ID)
	if err != nil {
		t.Fatalf("GetSeriesTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}

	// Replacement drops the old associations.
	if err := store.SetSeriesTags(series.ID, []int64{drama.ID}); err != nil {
		t.Fatalf("SetSeriesTags replace: %v", err)
	}
	tags, err = store.GetSeriesTags(series.ID)
	if err != nil {
		t.Fatalf("GetSeriesTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "Drama" {
		t.Fatalf("unexpected tags after replace: %+v", tags)
	}
}

func TestDuplicateTagRejected(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.CreateTag(&models.Tag{Name: "Comédia"}); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	// Same name modulo folding counts as a duplicate.
	if _, err := store.CreateTag(&models.Tag{Name: "comedia"}); err == nil {
		t.Fatal("expected duplicate tag error")
	}
}

func TestSeasonsWithTracksAndReorder(t *testing.T) {
	store := newTestStore(t)
	series := mustCreateSeries(t, store, "Show")
	s1 := mustCreateSeason(t, store, series.ID, "Season 1", 1)
	s2 := mustCreateSeason(t, store, series.ID, "Season 2", 2)

	tracks := []models.Track{
		{Title: "Japanese", Type: models.TrackAudio, Index: 1},
		{Title: "English Subs", Type: models.TrackSubtitle, Index: 2},
	}
	saved, err := store.ReplaceSeasonTracks(s1.ID, tracks)
	if err != nil {
		t.Fatalf("ReplaceSeasonTracks: %v", err)
	}
	if len(saved) != 2 || saved[0].Index != 1 || saved[0].SeasonID != s1.ID {
		t.Fatalf("unexpected saved tracks: %+v", saved)
	}

	page, err := store.ListSeasons(models.ListQuery{SeriesID: &series.ID}, true)
	if err != nil {
		t.Fatalf("ListSeasons: %v", err)
	}
	if page.TotalQuantity != 2 {
		t.Fatalf("expected 2 seasons, got %d", page.TotalQuantity)
	}
	for _, season := range page.Data {
		if season.ID == s1.ID && len(season.Tracks) != 2 {
			t.Fatalf("expected tracks attached to season 1, got %+v", season.Tracks)
		}
	}

	// Swap display order.
	if err := store.ReorderSeasons(series.ID, map[int64]int{s1.ID: 2, s2.ID: 1}); err != nil {
		t.Fatalf("ReorderSeasons: %v", err)
	}
	parent, err := store.GetSeriesByID(series.ID)
	if err != nil {
		t.Fatalf("GetSeriesByID: %v", err)
	}
	if len(parent.Seasons) != 2 || parent.Seasons[0].ID != s2.ID {
		t.Fatalf("expected season 2 first after reorder, got %+v", parent.Seasons)
	}
}

func TestReplaceTracksOnUnknownSeasonFails(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.ReplaceSeasonTracks(42, nil); err == nil {
		t.Fatal("expected error for missing season")
	}
}

func TestEpisodeLifecycle(t *testing.T) {
	store := newTestStore(t)
	series := mustCreateSeries(t, store, "Show")
	season := mustCreateSeason(t, store, series.ID, "Season 1", 1)

	episode, err := store.CreateEpisode(&models.Episode{
		SeasonID: season.ID,
		Name:     "Pilot",
		Duration: 1421,
		Path:     "/media/show/s01e01.mkv",
		Position: 1,
	})
	if err != nil {
		t.Fatalf("CreateEpisode: %v", err)
	}

	episode.Name = "Pilot (remastered)"
	if _, err := store.UpdateEpisode(episode.ID, episode); err != nil {
		t.Fatalf("UpdateEpisode: %v", err)
	}

	seasonID := season.ID
	page, err := store.ListEpisodes(models.ListQuery{SeasonID: &seasonID})
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if page.TotalQuantity != 1 || page.Data[0].Name != "Pilot (remastered)" {
		t.Fatalf("unexpected episode list: %+v", page)
	}

	if err := store.InactivateEpisode(episode.ID); err != nil {
		t.Fatalf("InactivateEpisode: %v", err)
	}
	page, err = store.ListEpisodes(models.ListQuery{SeasonID: &seasonID})
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if page.TotalQuantity != 0 {
		t.Fatal("inactivated episode still listed")
	}
}

func TestCreateEpisodeRequiresSeason(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.CreateEpisode(&models.Episode{SeasonID: 7, Name: "orphan"}); err == nil {
		t.Fatal("expected error for missing season")
	}
}

func TestCommentThreads(t *testing.T) {
	store := newTestStore(t)
	series := mustCreateSeries(t, store, "Show")
	user, err := store.CreateUser("viewer", "viewer@example.com", "hash", models.UserCommon)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	parent, err := store.CreateComment(&models.Comment{
		UserID:   user.ID,
		SeriesID: &series.ID,
		Body:     "great show",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if parent.User == nil || parent.User.Name != "viewer" {
		t.Fatalf("expected author summary attached, got %+v", parent.User)
	}

	reply, err := store.CreateComment(&models.Comment{
		UserID:   user.ID,
		ParentID: &parent.ID,
		Body:     "agreed",
	})
	if err != nil {
		t.Fatalf("CreateComment reply: %v", err)
	}

	page, err := store.ListComments(models.ListQuery{SeriesID: &series.ID})
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.TotalQuantity != 1 {
		t.Fatalf("replies must not appear as top level, got total %d", page.TotalQuantity)
	}
	if len(page.Data[0].Children) != 1 || page.Data[0].Children[0].ID != reply.ID {
		t.Fatalf("expected one child reply, got %+v", page.Data[0].Children)
	}

	// A comment may reference exactly one target.
	if _, err := store.CreateComment(&models.Comment{
		UserID:   user.ID,
		ParentID: &parent.ID,
		SeriesID: &series.ID,
		Body:     "bad",
	}); err == nil {
		t.Fatal("expected reference validation error")
	}
	if _, err := store.CreateComment(&models.Comment{UserID: user.ID, Body: "floating"}); err == nil {
		t.Fatal("expected error for comment with no target")
	}
}

func TestUsersAndSessions(t *testing.T) {
	store := newTestStore(t)

	user, err := store.CreateUser("admin", "Admin@Example.com", "hash", models.UserAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := store.CreateUser("other", "admin@example.com", "hash", models.UserCommon); err == nil {
		t.Fatal("expected duplicate email error")
	}

	byEmail, err := store.GetUserByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("email lookup should be case insensitive, got %+v", byEmail)
	}

	session, err := store.CreateSession(user.ID, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected nonempty token")
	}

	fetched, err := store.GetSession(session.Token)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if fetched == nil || fetched.UserID != user.ID {
		t.Fatalf("unexpected session: %+v", fetched)
	}

	if err := store.RevokeSession(session.Token); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	deleted, err := store.DeleteExpiredSessions(time.Now())
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted session, got %d", deleted)
	}
	if revoked, _ := store.GetSession(session.Token); revoked != nil {
		t.Fatal("revoked session should be gone")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetSetting("rawFolder", "/media/raw"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := store.SetSetting("rawFolder", "/media/raw2"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	setting, err := store.GetSetting("rawFolder")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if setting == nil || setting.Value != "/media/raw2" {
		t.Fatalf("unexpected setting: %+v", setting)
	}
	all, err := store.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 setting, got %d", len(all))
	}
}

func TestCountsAndReset(t *testing.T) {
	store := newTestStore(t)
	series := mustCreateSeries(t, store, "Show")
	season := mustCreateSeason(t, store, series.ID, "Season 1", 1)
	if _, err := store.CreateEpisode(&models.Episode{SeasonID: season.ID, Name: "E1", Position: 1}); err != nil {
		t.Fatalf("CreateEpisode: %v", err)
	}

	if n, _ := store.CountSeries(); n != 1 {
		t.Fatalf("CountSeries = %d", n)
	}
	if n, _ := store.CountSeasons(); n != 1 {
		t.Fatalf("CountSeasons = %d", n)
	}
	if n, _ := store.CountEpisodes(); n != 1 {
		t.Fatalf("CountEpisodes = %d", n)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n, _ := store.CountSeries(); n != 0 {
		t.Fatalf("CountSeries after reset = %d", n)
	}
	// Counters restart so ids begin at 1 again.
	fresh := mustCreateSeries(t, store, "Fresh")
	if fresh.ID != 1 {
		t.Fatalf("expected id 1 after reset, got %d", fresh.ID)
	}
}
