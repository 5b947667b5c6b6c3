// file: internal/database/store.go
// version: 2.1.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package database

import (
	"fmt"
	"time"

	"github.com/obodeflix/obodeflix/internal/models"
)

// Store defines the interface for catalog persistence.
// This abstraction allows us to support both PebbleDB (default) and SQLite3
// (opt-in). Deletions are always soft: inactivated records stay on disk but
// are excluded from every listing and lookup.
type Store interface {
	// Lifecycle
	Close() error
	Reset() error

	// Series
	ListSeries(q models.ListQuery) (models.Page[models.Series], error)
	GetSeriesByID(id int64) (*models.Series, error)
	CreateSeries(series *models.Series) (*models.Series, error)
	UpdateSeries(id int64, series *models.Series) (*models.Series, error)
	InactivateSeries(id int64) error
	SetSeriesTags(seriesID int64, tagIDs []int64) error
	GetSeriesTags(seriesID int64) ([]models.Tag, error)

	// Seasons. withTracks controls track preloading; the no-tracks variant
	// backs the import wizard's season picker.
	ListSeasons(q models.ListQuery, withTracks bool) (models.Page[models.Season], error)
	GetSeasonByID(id int64) (*models.Season, error)
	CreateSeason(season *models.Season) (*models.Season, error)
	UpdateSeason(id int64, season *models.Season) (*models.Season, error)
	InactivateSeason(id int64) error
	ReorderSeasons(seriesID int64, positions map[int64]int) error

	// Tracks are replaced wholesale per season; Index values are explicit and
	// 1-based, slice order carries no meaning.
	ReplaceSeasonTracks(seasonID int64, tracks []models.Track) ([]models.Track, error)
	GetSeasonTracks(seasonID int64) ([]models.Track, error)

	// Episodes
	ListEpisodes(q models.ListQuery) (models.Page[models.Episode], error)
	GetEpisodeByID(id int64) (*models.Episode, error)
	CreateEpisode(episode *models.Episode) (*models.Episode, error)
	UpdateEpisode(id int64, episode *models.Episode) (*models.Episode, error)
	InactivateEpisode(id int64) error

	// Tags
	ListTags(q models.ListQuery) (models.Page[models.Tag], error)
	GetTagByID(id int64) (*models.Tag, error)
	GetTagByName(name string) (*models.Tag, error)
	CreateTag(tag *models.Tag) (*models.Tag, error)
	UpdateTag(id int64, tag *models.Tag) (*models.Tag, error)
	InactivateTag(id int64) error

	// Comments. Listing returns parent comments with active children
	// preloaded; filters narrow by series, episode or author.
	ListComments(q models.ListQuery) (models.Page[models.Comment], error)
	GetCommentByID(id int64) (*models.Comment, error)
	CreateComment(comment *models.Comment) (*models.Comment, error)
	InactivateComment(id int64) error

	// Users & auth
	CreateUser(name, email, passwordHash string, userType models.UserType) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(q models.ListQuery) (models.Page[models.User], error)
	CountUsers() (int, error)

	// Sessions (bearer tokens, ULID-keyed)
	CreateSession(userID int64, ttl time.Duration) (*Session, error)
	GetSession(token string) (*Session, error)
	RevokeSession(token string) error
	DeleteExpiredSessions(now time.Time) (int, error)

	// Settings (persistent configuration)
	GetSetting(key string) (*Setting, error)
	SetSetting(key, value string) error
	GetAllSettings() ([]Setting, error)

	// Aggregates for health and metrics
	CountSeries() (int, error)
	CountSeasons() (int, error)
	CountEpisodes() (int, error)
}

// Session represents an authenticated bearer session
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
}

// Setting is a persisted configuration entry
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Global store instance
var GlobalStore Store

// InitializeStore initializes the database store based on configuration
func InitializeStore(dbType, path string, enableSQLite bool) error {
	var err error

	switch dbType {
	case "sqlite", "sqlite3":
		if !enableSQLite {
			return fmt.Errorf("SQLite3 is not enabled; set enable_sqlite3: true to opt in (PebbleDB is the default store)")
		}
		GlobalStore, err = NewSQLiteStore(path)
		if err != nil {
			return fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
	case "pebble", "":
		GlobalStore, err = NewPebbleStore(path)
		if err != nil {
			return fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database type: %s (supported: pebble, sqlite)", dbType)
	}

	if err := RunMigrations(GlobalStore); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// CloseStore closes the global store
func CloseStore() error {
	if GlobalStore != nil {
		return GlobalStore.Close()
	}
	return nil
}
