// file: internal/models/entities.go
// version: 1.3.0
// guid: 4b1d9c2e-7f3a-4c8d-9e0f-2a5b6c7d8e9f

package models

import "time"

// SeasonType classifies how a season's episodes were released
type SeasonType string

const (
	SeasonTV    SeasonType = "TV"
	SeasonMovie SeasonType = "MOVIE"
	SeasonOther SeasonType = "OTHER"
)

// ValidSeasonType reports whether t is one of the accepted season types
func ValidSeasonType(t SeasonType) bool {
	return t == SeasonTV || t == SeasonMovie || t == SeasonOther
}

// TrackType classifies a media track attached to a season
type TrackType string

const (
	TrackAudio    TrackType = "AUDIO"
	TrackSubtitle TrackType = "SUBTITLE"
)

// ValidTrackType reports whether t is one of the accepted track types
func ValidTrackType(t TrackType) bool {
	return t == TrackAudio || t == TrackSubtitle
}

// UserType gates access to the admin surface
type UserType string

const (
	UserCommon UserType = "COMMON"
	UserAdmin  UserType = "ADMIN"
)

// Series is the top-level catalog entity
type Series struct {
	ID               int64     `json:"id"`
	MainName         string    `json:"mainName"`
	AlternativeName  string    `json:"alternativeName,omitempty"`
	MainNameLanguage string    `json:"mainNameLanguage,omitempty"`
	Description      string    `json:"description,omitempty"`
	ImageAddress     string    `json:"imageAddress,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Populated on detail fetches, never on list endpoints
	Seasons []Season `json:"seasons,omitempty"`
	Tags    []Tag    `json:"tags,omitempty"`
}

// Season belongs to a Series and carries episodes and tracks
type Season struct {
	ID                    int64      `json:"id"`
	Name                  string     `json:"name"`
	Description           string     `json:"description,omitempty"`
	Type                  SeasonType `json:"type"`
	Position              int        `json:"position"`
	SeriesID              int64      `json:"seriesId"`
	ImageAddress          string     `json:"imageAddress,omitempty"`
	ExcludeFromMostRecent bool       `json:"excludeFromMostRecent"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`

	Episodes []Episode `json:"episodes,omitempty"`
	Tracks   []Track   `json:"tracks,omitempty"`
}

// Episode belongs to a Season; Duration is in seconds, Path points at the
// media file below the raw folder
type Episode struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SeasonID  int64     `json:"seasonId"`
	Duration  int       `json:"duration"`
	Path      string    `json:"path"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag is a free-form label attached to series (many-to-many)
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Track is an audio or subtitle track of a season. Index is the 1-based
// playback index and is always explicit, never inferred from slice order.
type Track struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Type      TrackType `json:"type"`
	Index     int       `json:"index"`
	SeasonID  int64     `json:"seasonId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the embedded author view carried on comments
type UserSummary struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Type UserType `json:"type"`
}

// Comment is attached to exactly one of a parent comment, a series or an
// episode. Child comments reference their parent through ParentID.
type Comment struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	Body      string       `json:"body"`
	ParentID  *int64       `json:"parentId,omitempty"`
	SeriesID  *int64       `json:"seriesId,omitempty"`
	EpisodeID *int64       `json:"episodeId,omitempty"`
	User      *UserSummary `json:"user,omitempty"`
	Children  []Comment    `json:"children,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ReferenceCount returns how many of the three owning references are set.
// A valid comment has exactly one.
func (c *Comment) ReferenceCount() int {
	n := 0
	if c.ParentID != nil {
		n++
	}
	if c.SeriesID != nil {
		n++
	}
	if c.EpisodeID != nil {
		n++
	}
	return n
}

// User is a registered account. PasswordHash never crosses the wire.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Type         UserType  `json:"type"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EpisodeFile is a candidate media file discovered under the raw folder,
// offered to the import wizard. Duration is in seconds.
type EpisodeFile struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Duration int    `json:"duration"`
}
