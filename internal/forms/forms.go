// file: internal/forms/forms.go
// version: 2.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f00

// Package forms holds the edit state behind the interactive create/update
// flows. A form is loaded from an existing entity (or starts blank),
// mutated field by field, validated, and finally turned into the request
// payload the API client sends.
package forms

import (
	"strings"

	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/models"
)

// SeriesForm is the draft for creating or updating a series.
type SeriesForm struct {
	ID               int64 // 0 while creating
	MainName         string
	AlternativeName  string
	MainNameLanguage string
	Description      string
	ImageAddress     string

	tagIDs     []int64
	tagsLoaded bool
}

// NewSeriesForm starts a blank create draft.
func NewSeriesForm() *SeriesForm {
	return &SeriesForm{}
}

// SeriesFormFrom preloads the draft from an existing series.
func SeriesFormFrom(series *models.Series) *SeriesForm {
	form := &SeriesForm{
		ID:               series.ID,
		MainName:         series.MainName,
		AlternativeName:  series.AlternativeName,
		MainNameLanguage: series.MainNameLanguage,
		Description:      series.Description,
		ImageAddress:     series.ImageAddress,
		tagsLoaded:       true,
	}
	for _, tag := range series.Tags {
		form.tagIDs = append(form.tagIDs, tag.ID)
	}
	return form
}

// TagIDs returns the currently selected tag ids.
func (f *SeriesForm) TagIDs() []int64 {
	return append([]int64(nil), f.tagIDs...)
}

// ToggleTag adds the tag when absent and removes it when present.
func (f *SeriesForm) ToggleTag(id int64) {
	f.tagsLoaded = true
	for i, existing := range f.tagIDs {
		if existing == id {
			f.tagIDs = append(f.tagIDs[:i], f.tagIDs[i+1:]...)
			return
		}
	}
	f.tagIDs = append(f.tagIDs, id)
}

// Validate returns the user-facing problems with the draft.
func (f *SeriesForm) Validate() []string {
	problems := []string{}
	if strings.TrimSpace(f.MainName) == "" {
		problems = append(problems, "main name is required")
	}
	return problems
}

// Payload builds the request body. The tag list is only carried once it
// has been touched or loaded, so an untouched update leaves tags alone.
func (f *SeriesForm) Payload() client.SeriesPayload {
	payload := client.SeriesPayload{
		MainName:         strings.TrimSpace(f.MainName),
		AlternativeName:  strings.TrimSpace(f.AlternativeName),
		MainNameLanguage: strings.TrimSpace(f.MainNameLanguage),
		Description:      strings.TrimSpace(f.Description),
		ImageAddress:     strings.TrimSpace(f.ImageAddress),
	}
	if f.tagsLoaded {
		payload.TagIDs = f.TagIDs()
		if payload.TagIDs == nil {
			payload.TagIDs = []int64{}
		}
	}
	return payload
}

// TrackItem is one row of the season form's track editor. Saved rows came
// from the server and keep their id; draft rows were added in this editing
// session and have none yet.
type TrackItem struct {
	ID    int64 // 0 for drafts
	Title string
	Type  models.TrackType
}

// IsDraft reports whether the row was added in this session.
func (t TrackItem) IsDraft() bool { return t.ID == 0 }

// SeasonForm is the draft for creating or updating a season, including its
// ordered track list.
type SeasonForm struct {
	ID                    int64
	SeriesID              int64
	Name                  string
	Description           string
	Type                  models.SeasonType
	Position              int
	ImageAddress          string
	ExcludeFromMostRecent bool

	tracks        []TrackItem
	tracksChanged bool
}

// NewSeasonForm starts a blank create draft attached to a series.
func NewSeasonForm(seriesID int64) *SeasonForm {
	return &SeasonForm{SeriesID: seriesID, Type: models.SeasonTV, Position: 1}
}

// SeasonFormFrom preloads the draft from an existing season. The track
// rows keep their server ids so the caller can tell saved rows from
// drafts.
func SeasonFormFrom(season *models.Season) *SeasonForm {
	form := &SeasonForm{
		ID:                    season.ID,
		SeriesID:              season.SeriesID,
		Name:                  season.Name,
		Description:           season.Description,
		Type:                  season.Type,
		Position:              season.Position,
		ImageAddress:          season.ImageAddress,
		ExcludeFromMostRecent: season.ExcludeFromMostRecent,
	}
	for _, track := range season.Tracks {
		form.tracks = append(form.tracks, TrackItem{ID: track.ID, Title: track.Title, Type: track.Type})
	}
	return form
}

// UseSeriesData copies the display fields from the parent series into the
// draft, the shortcut for seasons that share the series artwork and
// description.
func (f *SeasonForm) UseSeriesData(series *models.Series) {
	f.Name = series.MainName
	f.Description = series.Description
	f.ImageAddress = series.ImageAddress
}

// Tracks returns the rows in their current order.
func (f *SeasonForm) Tracks() []TrackItem {
	return append([]TrackItem(nil), f.tracks...)
}

// AddTrack appends a draft row.
func (f *SeasonForm) AddTrack(title string, trackType models.TrackType) {
	f.tracks = append(f.tracks, TrackItem{Title: title, Type: trackType})
	f.tracksChanged = true
}

// RemoveTrack deletes the row at position i. Out-of-range is a no-op.
func (f *SeasonForm) RemoveTrack(i int) {
	if i < 0 || i >= len(f.tracks) {
		return
	}
	f.tracks = append(f.tracks[:i], f.tracks[i+1:]...)
	f.tracksChanged = true
}

// MoveTrackUp swaps the row with the one above it.
func (f *SeasonForm) MoveTrackUp(i int) {
	if i < 1 || i >= len(f.tracks) {
		return
	}
	f.tracks[i-1], f.tracks[i] = f.tracks[i], f.tracks[i-1]
	f.tracksChanged = true
}

// MoveTrackDown swaps the row with the one below it.
func (f *SeasonForm) MoveTrackDown(i int) {
	if i < 0 || i >= len(f.tracks)-1 {
		return
	}
	f.tracks[i], f.tracks[i+1] = f.tracks[i+1], f.tracks[i]
	f.tracksChanged = true
}

// Validate returns the user-facing problems with the draft.
func (f *SeasonForm) Validate() []string {
	problems := []string{}
	if strings.TrimSpace(f.Name) == "" {
		problems = append(problems, "name is required")
	}
	if f.SeriesID < 1 {
		problems = append(problems, "a parent series is required")
	}
	if f.Type != "" && !models.ValidSeasonType(f.Type) {
		problems = append(problems, "type must be TV, MOVIE or OTHER")
	}
	for _, track := range f.tracks {
		if strings.TrimSpace(track.Title) == "" {
			problems = append(problems, "every track needs a title")
			break
		}
	}
	return problems
}

// Payload builds the request body. Track indexes are assigned from the
// current row order, 1-based, so reordering in the editor is all a user
// has to do. An untouched track list on an update sends no tracks field
// and leaves the server's list alone.
func (f *SeasonForm) Payload() client.SeasonPayload {
	payload := client.SeasonPayload{
		SeriesID:              f.SeriesID,
		Name:                  strings.TrimSpace(f.Name),
		Description:           strings.TrimSpace(f.Description),
		Type:                  f.Type,
		Position:              f.Position,
		ImageAddress:          strings.TrimSpace(f.ImageAddress),
		ExcludeFromMostRecent: f.ExcludeFromMostRecent,
	}
	if f.tracksChanged || f.ID == 0 {
		payload.Tracks = make([]models.Track, len(f.tracks))
		for i, track := range f.tracks {
			payload.Tracks[i] = models.Track{
				ID:    track.ID,
				Title: strings.TrimSpace(track.Title),
				Type:  track.Type,
				Index: i + 1,
			}
		}
	}
	return payload
}

// EpisodeForm is the draft for creating or updating an episode.
type EpisodeForm struct {
	ID       int64
	SeasonID int64
	Name     string
	Duration int
	Path     string
	Position int
}

// NewEpisodeForm starts a blank create draft attached to a season.
func NewEpisodeForm(seasonID int64) *EpisodeForm {
	return &EpisodeForm{SeasonID: seasonID, Position: 1}
}

// EpisodeFormFrom preloads the draft from an existing episode.
func EpisodeFormFrom(episode *models.Episode) *EpisodeForm {
	return &EpisodeForm{
		ID:       episode.ID,
		SeasonID: episode.SeasonID,
		Name:     episode.Name,
		Duration: episode.Duration,
		Path:     episode.Path,
		Position: episode.Position,
	}
}

// Validate returns the user-facing problems with the draft.
func (f *EpisodeForm) Validate() []string {
	problems := []string{}
	if strings.TrimSpace(f.Name) == "" {
		problems = append(problems, "name is required")
	}
	if f.SeasonID < 1 {
		problems = append(problems, "a parent season is required")
	}
	if f.Duration < 0 {
		problems = append(problems, "duration cannot be negative")
	}
	return problems
}

// Payload builds the request body.
func (f *EpisodeForm) Payload() client.EpisodePayload {
	return client.EpisodePayload{
		SeasonID: f.SeasonID,
		Name:     strings.TrimSpace(f.Name),
		Duration: f.Duration,
		Path:     strings.TrimSpace(f.Path),
		Position: f.Position,
	}
}
