// file: internal/forms/forms_test.go
// version: 2.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a10

package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obodeflix/obodeflix/internal/models"
)

func TestSeriesFormValidate(t *testing.T) {
	form := NewSeriesForm()
	assert.Contains(t, form.Validate(), "main name is required")

	form.MainName = "  Cowboy Bebop  "
	assert.Empty(t, form.Validate())
	assert.Equal(t, "Cowboy Bebop", form.Payload().MainName)
}

func TestSeriesFormUntouchedTagsOmitted(t *testing.T) {
	form := NewSeriesForm()
	form.MainName = "X"
	assert.Nil(t, form.Payload().TagIDs)

	form.ToggleTag(3)
	assert.Equal(t, []int64{3}, form.Payload().TagIDs)

	// Removing the last tag still sends an explicit empty list so the
	// server clears the tag set rather than leaving it untouched.
	form.ToggleTag(3)
	payload := form.Payload()
	require.NotNil(t, payload.TagIDs)
	assert.Empty(t, payload.TagIDs)
}

func TestSeriesFormFromPreloadsTags(t *testing.T) {
	form := SeriesFormFrom(&models.Series{
		ID:       7,
		MainName: "Cowboy Bebop",
		Tags:     []models.Tag{{ID: 1}, {ID: 4}},
	})
	assert.Equal(t, []int64{1, 4}, form.TagIDs())

	form.ToggleTag(4)
	assert.Equal(t, []int64{1}, form.Payload().TagIDs)
}

func TestSeasonFormTrackReorderReindexes(t *testing.T) {
	form := NewSeasonForm(1)
	form.Name = "Season 1"
	form.AddTrack("Japanese", models.TrackAudio)
	form.AddTrack("English", models.TrackAudio)
	form.AddTrack("English Subs", models.TrackSubtitle)

	form.MoveTrackUp(2)
	form.MoveTrackDown(0)

	payload := form.Payload()
	require.Len(t, payload.Tracks, 3)
	assert.Equal(t, "English Subs", payload.Tracks[0].Title)
	assert.Equal(t, "Japanese", payload.Tracks[1].Title)
	assert.Equal(t, "English", payload.Tracks[2].Title)
	for i, track := range payload.Tracks {
		assert.Equal(t, i+1, track.Index)
	}
}

func TestSeasonFormRemoveTrackReindexes(t *testing.T) {
	form := NewSeasonForm(1)
	form.Name = "Season 1"
	form.AddTrack("a", models.TrackAudio)
	form.AddTrack("b", models.TrackAudio)
	form.AddTrack("c", models.TrackSubtitle)

	form.RemoveTrack(1)

	payload := form.Payload()
	require.Len(t, payload.Tracks, 2)
	assert.Equal(t, "a", payload.Tracks[0].Title)
	assert.Equal(t, 1, payload.Tracks[0].Index)
	assert.Equal(t, "c", payload.Tracks[1].Title)
	assert.Equal(t, 2, payload.Tracks[1].Index)

	// Out-of-range removals are ignored.
	form.RemoveTrack(9)
	assert.Len(t, form.Tracks(), 2)
}

func TestSeasonFormUntouchedTracksOmittedOnUpdate(t *testing.T) {
	form := SeasonFormFrom(&models.Season{
		ID: 5, SeriesID: 1, Name: "Season 1",
		Tracks: []models.Track{{ID: 9, Title: "Japanese", Type: models.TrackAudio, Index: 1}},
	})
	assert.Nil(t, form.Payload().Tracks)

	form.MoveTrackUp(0) // no-op at the top, list untouched
	assert.Nil(t, form.Payload().Tracks)

	form.AddTrack("English", models.TrackAudio)
	payload := form.Payload()
	require.Len(t, payload.Tracks, 2)
	assert.Equal(t, int64(9), payload.Tracks[0].ID)
	assert.Equal(t, int64(0), payload.Tracks[1].ID)
}

func TestSavedAndDraftTracks(t *testing.T) {
	form := SeasonFormFrom(&models.Season{
		ID: 5, SeriesID: 1, Name: "S",
		Tracks: []models.Track{{ID: 9, Title: "Japanese", Type: models.TrackAudio, Index: 1}},
	})
	form.AddTrack("English", models.TrackAudio)

	rows := form.Tracks()
	require.Len(t, rows, 2)
	assert.False(t, rows[0].IsDraft())
	assert.True(t, rows[1].IsDraft())
}

func TestUseSeriesData(t *testing.T) {
	form := NewSeasonForm(3)
	form.UseSeriesData(&models.Series{
		MainName:     "Cowboy Bebop",
		Description:  "space jazz",
		ImageAddress: "https://img.example/bebop.jpg",
	})
	assert.Equal(t, "Cowboy Bebop", form.Name)
	assert.Equal(t, "space jazz", form.Description)
	assert.Equal(t, "https://img.example/bebop.jpg", form.ImageAddress)
}

func TestSeasonFormValidate(t *testing.T) {
	form := NewSeasonForm(0)
	form.AddTrack("  ", models.TrackAudio)
	problems := form.Validate()
	assert.Contains(t, problems, "name is required")
	assert.Contains(t, problems, "a parent series is required")
	assert.Contains(t, problems, "every track needs a title")
}

func TestEpisodeFormRoundTrip(t *testing.T) {
	form := EpisodeFormFrom(&models.Episode{
		ID: 2, SeasonID: 5, Name: "Asteroid Blues", Duration: 1440, Path: "bebop/ep1.mkv", Position: 1,
	})
	assert.Empty(t, form.Validate())

	payload := form.Payload()
	assert.Equal(t, int64(5), payload.SeasonID)
	assert.Equal(t, "Asteroid Blues", payload.Name)
	assert.Equal(t, 1440, payload.Duration)
}
