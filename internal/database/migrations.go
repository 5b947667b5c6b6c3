// file: internal/database/migrations.go
// version: 2.0.0
// guid: 2e3f4a5b-6c7d-8e9f-0a1b-2c3d4e5f6a7b

package database

import (
	"fmt"
	"log"
	"strconv"

	"github.com/cockroachdb/pebble/v2"
)

// Migration represents a single schema migration
type Migration struct {
	Version     int
	Description string
	Up          func(s *SQLiteStore) error
}

// migrations is the ordered list of SQLite migrations. Pebble stores its
// values as JSON so it only tracks the version watermark.
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: series, seasons, episodes, tags, tracks",
		Up:          migration001Up,
	},
	{
		Version:     2,
		Description: "Comments, users and sessions",
		Up:          migration002Up,
	},
	{
		Version:     3,
		Description: "Settings table",
		Up:          migration003Up,
	},
}

// SchemaVersion is the version a fully migrated database reports.
const SchemaVersion = 3

// RunMigrations brings the store up to the current schema version
func RunMigrations(store Store) error {
	switch s := store.(type) {
	case *SQLiteStore:
		return runSQLiteMigrations(s)
	case *PebbleStore:
		return runPebbleMigrations(s)
	default:
		// Mock and test stores carry no schema.
		return nil
	}
}

func runSQLiteMigrations(s *SQLiteStore) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}
		log.Printf("[INFO] Applying migration %d: %s", migration.Version, migration.Description)
		if err := migration.Up(s); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			migration.Version, migration.Description); err != nil {
			return err
		}
	}
	return nil
}

func runPebbleMigrations(p *PebbleStore) error {
	key := []byte("schema:version")
	value, closer, err := p.db.Get(key)
	current := 0
	if err == nil {
		current, _ = strconv.Atoi(string(value))
		closer.Close()
	} else if err != pebble.ErrNotFound {
		return err
	}

	if current < SchemaVersion {
		if current > 0 {
			log.Printf("[INFO] Upgrading Pebble schema from version %d to %d", current, SchemaVersion)
		}
		if err := p.db.Set(key, []byte(strconv.Itoa(SchemaVersion)), pebble.Sync); err != nil {
			return err
		}
	}
	return nil
}

func migration001Up(s *SQLiteStore) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS series (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			main_name TEXT NOT NULL,
			alternative_name TEXT NOT NULL DEFAULT '',
			main_name_language TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image_address TEXT NOT NULL DEFAULT '',
			search_text TEXT NOT NULL DEFAULT '',
			inactive INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS seasons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			series_id INTEGER NOT NULL REFERENCES series(id),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'TV',
			position INTEGER NOT NULL DEFAULT 1,
			image_address TEXT NOT NULL DEFAULT '',
			exclude_from_most_recent INTEGER NOT NULL DEFAULT 0,
			search_text TEXT NOT NULL DEFAULT '',
			inactive INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			season_id INTEGER NOT NULL REFERENCES seasons(id),
			name TEXT NOT NULL,
			duration INTEGER NOT NULL DEFAULT 0,
			path TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 1,
			search_text TEXT NOT NULL DEFAULT '',
			inactive INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			search_text TEXT NOT NULL DEFAULT '',
			inactive INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS series_tags (
			series_id INTEGER NOT NULL REFERENCES series(id),
			tag_id INTEGER NOT NULL REFERENCES tags(id),
			PRIMARY KEY (series_id, tag_id)
		);

		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			season_id INTEGER NOT NULL REFERENCES seasons(id),
			title TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'AUDIO',
			idx INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_seasons_series ON seasons(series_id);
		CREATE INDEX IF NOT EXISTS idx_episodes_season ON episodes(season_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_season ON tracks(season_id);
	`)
	return err
}

func migration002Up(s *SQLiteStore) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			email_key TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'COMMON',
			search_text TEXT NOT NULL DEFAULT '',
			inactive INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			parent_id INTEGER REFERENCES comments(id),
			series_id INTEGER REFERENCES series(id),
			episode_id INTEGER REFERENCES episodes(id),
			body TEXT NOT NULL,
			search_text TEXT NOT NULL DEFAULT '',
			inactive INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);
		CREATE INDEX IF NOT EXISTS idx_comments_series ON comments(series_id);
		CREATE INDEX IF NOT EXISTS idx_comments_episode ON comments(episode_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expires_at);
	`)
	return err
}

func migration003Up(s *SQLiteStore) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	return err
}
