// file: internal/database/sqlite_store.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/obodeflix/obodeflix/internal/models"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// sqlColumns maps the camelCase order columns accepted on the wire to
// actual table columns. Anything not in the map falls back to id.
var sqlColumns = map[string]string{
	"id":        "id",
	"mainName":  "main_name",
	"name":      "name",
	"email":     "email",
	"position":  "position",
	"duration":  "duration",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func sqlOrderClause(orderColumn string, orderBy models.OrderBy) string {
	column, ok := sqlColumns[orderColumn]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if orderBy == models.OrderDesc {
		direction = "DESC"
	}
	// Secondary id sort keeps pages stable when the primary key ties.
	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction)
}

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Reset drops every row but keeps the schema
func (s *SQLiteStore) Reset() error {
	tables := []string{
		"series_tags", "tracks", "comments", "episodes", "seasons",
		"series", "tags", "sessions", "users", "settings",
	}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	_, err := s.db.Exec("DELETE FROM sqlite_sequence")
	return err
}

func likePattern(search string) string {
	return "%" + models.FoldSearch(search) + "%"
}

func countRows(row rowScanner) (int, error) {
	var count int
	err := row.Scan(&count)
	return count, err
}

// Series operations

const seriesSelectColumns = `
	id, main_name, alternative_name, main_name_language,
	description, image_address, created_at, updated_at
`

func scanSeries(scanner rowScanner, series *models.Series) error {
	return scanner.Scan(
		&series.ID, &series.MainName, &series.AlternativeName,
		&series.MainNameLanguage, &series.Description, &series.ImageAddress,
		&series.CreatedAt, &series.UpdatedAt,
	)
}

func seriesSearchText(series *models.Series) string {
	return models.FoldSearch(strings.Join([]string{
		series.MainName, series.AlternativeName, series.Description,
	}, " "))
}

func (s *SQLiteStore) ListSeries(q models.ListQuery) (models.Page[models.Series], error) {
	q.Normalize()

	where := "WHERE inactive = 0"
	args := []interface{}{}
	if q.Search != "" {
		where += " AND search_text LIKE ?"
		args = append(args, likePattern(q.Search))
	}

	total, err := countRows(s.db.QueryRow("SELECT COUNT(*) FROM series "+where, args...))
	if err != nil {
		return models.Page[models.Series]{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM series %s %s LIMIT ? OFFSET ?",
		seriesSelectColumns, where, sqlOrderClause(q.OrderColumn, q.OrderBy))
	args = append(args, q.Quantity, (q.Page-1)*q.Quantity)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.Page[models.Series]{}, err
	}
	defer rows.Close()

	data := []models.Series{}
	for rows.Next() {
		var series models.Series
		if err := scanSeries(rows, &series); err != nil {
			return models.Page[models.Series]{}, err
		}
		data = append(data, series)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Series]{}, err
	}
	return models.NewPage(data, total, q.Page, q.Quantity), nil
}

func (s *SQLiteStore) GetSeriesByID(id int64) (*models.Series, error) {
	query := fmt.Sprintf("SELECT %s FROM series WHERE id = ? AND inactive = 0", seriesSelectColumns)
	var series models.Series
	err := scanSeries(s.db.QueryRow(query, id), &series)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tags, err := s.GetSeriesTags(id)
	if err != nil {
		return nil, err
	}
	series.Tags = tags

	seasons, err := s.seasonsForSeries(id)
	if err != nil {
		return nil, err
	}
	series.Seasons = seasons

	return &series, nil
}

func (s *SQLiteStore) CreateSeries(series *models.Series) (*models.Series, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO series (main_name, alternative_name, main_name_language,
			description, image_address, search_text, inactive, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		series.MainName, series.AlternativeName, series.MainNameLanguage,
		series.Description, series.ImageAddress, seriesSearchText(series), now, now)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *series
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Seasons = nil
	created.Tags = nil
	return &created, nil
}

func (s *SQLiteStore) UpdateSeries(id int64, series *models.Series) (*models.Series, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		UPDATE series SET main_name = ?, alternative_name = ?, main_name_language = ?,
			description = ?, image_address = ?, search_text = ?, updated_at = ?
		WHERE id = ? AND inactive = 0`,
		series.MainName, series.AlternativeName, series.MainNameLanguage,
		series.Description, series.ImageAddress, seriesSearchText(series), now, id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetSeriesByID(id)
}

func (s *SQLiteStore) InactivateSeries(id int64) error {
	result, err := s.db.Exec(
		"UPDATE series SET inactive = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("series %d not found", id)
	}
	return nil
}

func (s *SQLiteStore) SetSeriesTags(seriesID int64, tagIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM series_tags WHERE series_id = ?", seriesID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(
			"INSERT INTO series_tags (series_id, tag_id) VALUES (?, ?)",
			seriesID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSeriesTags(seriesID int64) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN series_tags st ON st.tag_id = t.id
		WHERE st.series_id = ? AND t.inactive = 0
		ORDER BY t.name`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Season operations

const seasonSelectColumns = `
	id, series_id, name, description, type, position,
	image_address, exclude_from_most_recent, created_at, updated_at
`

func scanSeason(scanner rowScanner, season *models.Season) error {
	return scanner.Scan(
		&season.ID, &season.SeriesID, &season.Name, &season.Description,
		&season.Type, &season.Position, &season.ImageAddress,
		&season.ExcludeFromMostRecent, &season.CreatedAt, &season.UpdatedAt,
	)
}

func seasonSearchText(season *models.Season) string {
	return models.FoldSearch(season.Name + " " + season.Description)
}

func (s *SQLiteStore) seasonsForSeries(seriesID int64) ([]models.Season, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM seasons WHERE series_id = ? AND inactive = 0 ORDER BY position, id",
		seasonSelectColumns)
	rows, err := s.db.Query(query, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := []models.Season{}
	for rows.Next() {
		var season models.Season
		if err := scanSeason(rows, &season); err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

func (s *SQLiteStore) ListSeasons(q models.ListQuery, withTracks bool) (models.Page[models.Season], error) {
	q.Normalize()

	where := "WHERE inactive = 0"
	args := []interface{}{}
	if q.SeriesID != nil {
		where += " AND series_id = ?"
		args = append(args, *q.SeriesID)
	}
	if q.Search != "" {
		where += " AND search_text LIKE ?"
		args = append(args, likePattern(q.Search))
	}

	total, err := countRows(s.db.QueryRow("SELECT COUNT(*) FROM seasons "+where, args...))
	if err != nil {
		return models.Page[models.Season]{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM seasons %s %s LIMIT ? OFFSET ?",
		seasonSelectColumns, where, sqlOrderClause(q.OrderColumn, q.OrderBy))
	args = append(args, q.Quantity, (q.Page-1)*q.Quantity)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.Page[models.Season]{}, err
	}
	defer rows.Close()

	data := []models.Season{}
	for rows.Next() {
		var season models.Season
		if err := scanSeason(rows, &season); err != nil {
			return models.Page[models.Season]{}, err
		}
		data = append(data, season)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Season]{}, err
	}

	if withTracks {
		for i := range data {
			tracks, err := s.GetSeasonTracks(data[i].ID)
			if err != nil {
				return models.Page[models.Season]{}, err
			}
			data[i].Tracks = tracks
		}
	}

	return models.NewPage(data, total, q.Page, q.Quantity), nil
}

func (s *SQLiteStore) GetSeasonByID(id int64) (*models.Season, error) {
	query := fmt.Sprintf("SELECT %s FROM seasons WHERE id = ? AND inactive = 0", seasonSelectColumns)
	var season models.Season
	err := scanSeason(s.db.QueryRow(query, id), &season)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tracks, err := s.GetSeasonTracks(id)
	if err != nil {
		return nil, err
	}
	season.Tracks = tracks

	episodes, err := s.episodesForSeason(id)
	if err != nil {
		return nil, err
	}
	season.Episodes = episodes

	return &season, nil
}

func (s *SQLiteStore) CreateSeason(season *models.Season) (*models.Season, error) {
	parent, err := s.GetSeriesByID(season.SeriesID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("series %d not found", season.SeriesID)
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO seasons (series_id, name, description, type, position,
			image_address, exclude_from_most_recent, search_text, inactive,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		season.SeriesID, season.Name, season.Description, season.Type,
		season.Position, season.ImageAddress, season.ExcludeFromMostRecent,
		seasonSearchText(season), now, now)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *season
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Episodes = nil
	created.Tracks = nil
	return &created, nil
}

func (s *SQLiteStore) UpdateSeason(id int64, season *models.Season) (*models.Season, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		UPDATE seasons SET name = ?, description = ?, type = ?, position = ?,
			image_address = ?, exclude_from_most_recent = ?, search_text = ?, updated_at = ?
		WHERE id = ? AND inactive = 0`,
		season.Name, season.Description, season.Type, season.Position,
		season.ImageAddress, season.ExcludeFromMostRecent,
		seasonSearchText(season), now, id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetSeasonByID(id)
}

func (s *SQLiteStore) InactivateSeason(id int64) error {
	result, err := s.db.Exec(
		"UPDATE seasons SET inactive = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("season %d not found", id)
	}
	return nil
}

func (s *SQLiteStore) ReorderSeasons(seriesID int64, positions map[int64]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for id, position := range positions {
		if _, err := tx.Exec(
			"UPDATE seasons SET position = ?, updated_at = ? WHERE id = ? AND series_id = ? AND inactive = 0",
			position, now, id, seriesID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Track operations

func (s *SQLiteStore) GetSeasonTracks(seasonID int64) ([]models.Track, error) {
	rows, err := s.db.Query(`
		SELECT id, season_id, title, type, idx, created_at, updated_at
		FROM tracks WHERE season_id = ? ORDER BY idx, id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		var track models.Track
		if err := rows.Scan(&track.ID, &track.SeasonID, &track.Title,
			&track.Type, &track.Index, &track.CreatedAt, &track.UpdatedAt); err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func (s *SQLiteStore) ReplaceSeasonTracks(seasonID int64, tracks []models.Track) ([]models.Track, error) {
	season, err := s.GetSeasonByID(seasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, fmt.Errorf("season %d not found", seasonID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tracks WHERE season_id = ?", seasonID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, track := range tracks {
		if _, err := tx.Exec(`
			INSERT INTO tracks (season_id, title, type, idx, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			seasonID, track.Title, track.Type, track.Index, now, now); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetSeasonTracks(seasonID)
}

// Episode operations

const episodeSelectColumns = `
	id, season_id, name, duration, path, position, created_at, updated_at
`

func scanEpisode(scanner rowScanner, episode *models.Episode) error {
	return scanner.Scan(
		&episode.ID, &episode.SeasonID, &episode.Name, &episode.Duration,
		&episode.Path, &episode.Position, &episode.CreatedAt, &episode.UpdatedAt,
	)
}

func episodeSearchText(episode *models.Episode) string {
	return models.FoldSearch(episode.Name + " " + episode.Path)
}

func (s *SQLiteStore) episodesForSeason(seasonID int64) ([]models.Episode, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM episodes WHERE season_id = ? AND inactive = 0 ORDER BY position, id",
		episodeSelectColumns)
	rows, err := s.db.Query(query, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	episodes := []models.Episode{}
	for rows.Next() {
		var episode models.Episode
		if err := scanEpisode(rows, &episode); err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

func (s *SQLiteStore) ListEpisodes(q models.ListQuery) (models.Page[models.Episode], error) {
	q.Normalize()

	where := "WHERE inactive = 0"
	args := []interface{}{}
	if q.SeasonID != nil {
		where += " AND season_id = ?"
		args = append(args, *q.SeasonID)
	}
	if q.Search != "" {
		where += " AND search_text LIKE ?"
		args = append(args, likePattern(q.Search))
	}

	total, err := countRows(s.db.QueryRow("SELECT COUNT(*) FROM episodes "+where, args...))
	if err != nil {
		return models.Page[models.Episode]{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM episodes %s %s LIMIT ? OFFSET ?",
		episodeSelectColumns, where, sqlOrderClause(q.OrderColumn, q.OrderBy))
	args = append(args, q.Quantity, (q.Page-1)*q.Quantity)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.Page[models.Episode]{}, err
	}
	defer rows.Close()

	data := []models.Episode{}
	for rows.Next() {
		var episode models.Episode
		if err := scanEpisode(rows, &episode); err != nil {
			return models.Page[models.Episode]{}, err
		}
		data = append(data, episode)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Episode]{}, err
	}
	return models.NewPage(data, total, q.Page, q.Quantity), nil
}

func (s *SQLiteStore) GetEpisodeByID(id int64) (*models.Episode, error) {
	query := fmt.Sprintf("SELECT %s FROM episodes WHERE id = ? AND inactive = 0", episodeSelectColumns)
	var episode models.Episode
	err := scanEpisode(s.db.QueryRow(query, id), &episode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func (s *SQLiteStore) CreateEpisode(episode *models.Episode) (*models.Episode, error) {
	parent, err := s.GetSeasonByID(episode.SeasonID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("season %d not found", episode.SeasonID)
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO episodes (season_id, name, duration, path, position,
			search_text, inactive, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		episode.SeasonID, episode.Name, episode.Duration, episode.Path,
		episode.Position, episodeSearchText(episode), now, now)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *episode
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (s *SQLiteStore) UpdateEpisode(id int64, episode *models.Episode) (*models.Episode, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		UPDATE episodes SET name = ?, duration = ?, path = ?, position = ?,
			search_text = ?, updated_at = ?
		WHERE id = ? AND inactive = 0`,
		episode.Name, episode.Duration, episode.Path, episode.Position,
		episodeSearchText(episode), now, id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetEpisodeByID(id)
}

func (s *SQLiteStore) InactivateEpisode(id int64) error {
	result, err := s.db.Exec(
		"UPDATE episodes SET inactive = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("episode %d not found", id)
	}
	return nil
}

// Tag operations

func (s *SQLiteStore) ListTags(q models.ListQuery) (models.Page[models.Tag], error) {
	q.Normalize()

	where := "WHERE inactive = 0"
	args := []interface{}{}
	if q.Search != "" {
		where += " AND search_text LIKE ?"
		args = append(args, likePattern(q.Search))
	}

	total, err := countRows(s.db.QueryRow("SELECT COUNT(*) FROM tags "+where, args...))
	if err != nil {
		return models.Page[models.Tag]{}, err
	}

	query := fmt.Sprintf("SELECT id, name, created_at, updated_at FROM tags %s %s LIMIT ? OFFSET ?",
		where, sqlOrderClause(q.OrderColumn, q.OrderBy))
	args = append(args, q.Quantity, (q.Page-1)*q.Quantity)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.Page[models.Tag]{}, err
	}
	defer rows.Close()

	data := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return models.Page[models.Tag]{}, err
		}
		data = append(data, tag)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Tag]{}, err
	}
	return models.NewPage(data, total, q.Page, q.Quantity), nil
}

func (s *SQLiteStore) GetTagByID(id int64) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.QueryRow(
		"SELECT id, name, created_at, updated_at FROM tags WHERE id = ? AND inactive = 0", id).
		Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *SQLiteStore) GetTagByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.QueryRow(
		"SELECT id, name, created_at, updated_at FROM tags WHERE search_text = ? AND inactive = 0",
		models.FoldSearch(name)).
		Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *SQLiteStore) CreateTag(tag *models.Tag) (*models.Tag, error) {
	existing, err := s.GetTagByName(tag.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("tag %q already exists", tag.Name)
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO tags (name, search_text, inactive, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)`,
		tag.Name, models.FoldSearch(tag.Name), now, now)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	created := *tag
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (s *SQLiteStore) UpdateTag(id int64, tag *models.Tag) (*models.Tag, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		UPDATE tags SET name = ?, search_text = ?, updated_at = ?
		WHERE id = ? AND inactive = 0`,
		tag.Name, models.FoldSearch(tag.Name), now, id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetTagByID(id)
}

func (s *SQLiteStore) InactivateTag(id int64) error {
	result, err := s.db.Exec(
		"UPDATE tags SET inactive = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("tag %d not found", id)
	}
	return nil
}

// Comment operations

const commentSelectColumns = `
	id, user_id, parent_id, series_id, episode_id, body, created_at, updated_at
`

func scanComment(scanner rowScanner, comment *models.Comment) error {
	return scanner.Scan(
		&comment.ID, &comment.UserID, &comment.ParentID, &comment.SeriesID,
		&comment.EpisodeID, &comment.Body, &comment.CreatedAt, &comment.UpdatedAt,
	)
}

func (s *SQLiteStore) attachCommentUser(comment *models.Comment) error {
	user, err := s.GetUserByID(comment.UserID)
	if err != nil {
		return err
	}
	if user != nil {
		comment.User = &models.UserSummary{ID: user.ID, Name: user.Name, Type: user.Type}
	}
	return nil
}

func (s *SQLiteStore) commentChildren(parentID int64) ([]models.Comment, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM comments WHERE parent_id = ? AND inactive = 0 ORDER BY created_at, id",
		commentSelectColumns)
	rows, err := s.db.Query(query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := []models.Comment{}
	for rows.Next() {
		var child models.Comment
		if err := scanComment(rows, &child); err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range children {
		if err := s.attachCommentUser(&children[i]); err != nil {
			return nil, err
		}
	}
	return children, nil
}

func (s *SQLiteStore) ListComments(q models.ListQuery) (models.Page[models.Comment], error) {
	q.Normalize()

	where := "WHERE inactive = 0 AND parent_id IS NULL"
	args := []interface{}{}
	if q.SeriesID != nil {
		where += " AND series_id = ?"
		args = append(args, *q.SeriesID)
	}
	if q.EpisodeID != nil {
		where += " AND episode_id = ?"
		args = append(args, *q.EpisodeID)
	}
	if q.UserID != nil {
		where += " AND user_id = ?"
		args = append(args, *q.UserID)
	}
	if q.Search != "" {
		where += " AND search_text LIKE ?"
		args = append(args, likePattern(q.Search))
	}

	total, err := countRows(s.db.QueryRow("SELECT COUNT(*) FROM comments "+where, args...))
	if err != nil {
		return models.Page[models.Comment]{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM comments %s %s LIMIT ? OFFSET ?",
		commentSelectColumns, where, sqlOrderClause(q.OrderColumn, q.OrderBy))
	args = append(args, q.Quantity, (q.Page-1)*q.Quantity)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.Page[models.Comment]{}, err
	}
	defer rows.Close()

	data := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := scanComment(rows, &comment); err != nil {
			return models.Page[models.Comment]{}, err
		}
		data = append(data, comment)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Comment]{}, err
	}

	for i := range data {
		if err := s.attachCommentUser(&data[i]); err != nil {
			return models.Page[models.Comment]{}, err
		}
		children, err := s.commentChildren(data[i].ID)
		if err != nil {
			return models.Page[models.Comment]{}, err
		}
		data[i].Children = children
	}

	return models.NewPage(data, total, q.Page, q.Quantity), nil
}

func (s *SQLiteStore) GetCommentByID(id int64) (*models.Comment, error) {
	query := fmt.Sprintf("SELECT %s FROM comments WHERE id = ? AND inactive = 0", commentSelectColumns)
	var comment models.Comment
	err := scanComment(s.db.QueryRow(query, id), &comment)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachCommentUser(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *SQLiteStore) CreateComment(comment *models.Comment) (*models.Comment, error) {
	if comment.ReferenceCount() != 1 {
		return nil, fmt.Errorf("comment must reference exactly one of parent, series or episode")
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO comments (user_id, parent_id, series_id, episode_id, body,
			search_text, inactive, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		comment.UserID, comment.ParentID, comment.SeriesID, comment.EpisodeID,
		comment.Body, models.FoldSearch(comment.Body), now, now)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetCommentByID(id)
}

func (s *SQLiteStore) InactivateComment(id int64) error {
	result, err := s.db.Exec(
		"UPDATE comments SET inactive = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("comment %d not found", id)
	}
	return nil
}

// User operations

const userSelectColumns = `
	id, name, email, password_hash, type, created_at, updated_at
`

func scanUser(scanner rowScanner, user *models.User) error {
	return scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Type, &user.CreatedAt, &user.UpdatedAt,
	)
}

func (s *SQLiteStore) CreateUser(name, email, passwordHash string, userType models.UserType) (*models.User, error) {
	existing, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %q already registered", email)
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO users (name, email, email_key, password_hash, type,
			search_text, inactive, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		name, email, models.FoldSearch(email), passwordHash, userType,
		models.FoldSearch(name+" "+email), now, now)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}

func (s *SQLiteStore) GetUserByID(id int64) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ? AND inactive = 0", userSelectColumns)
	var user models.User
	err := scanUser(s.db.QueryRow(query, id), &user)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLiteStore) GetUserByEmail(email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email_key = ? AND inactive = 0", userSelectColumns)
	var user models.User
	err := scanUser(s.db.QueryRow(query, models.FoldSearch(email)), &user)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLiteStore) ListUsers(q models.ListQuery) (models.Page[models.User], error) {
	q.Normalize()

	where := "WHERE inactive = 0"
	args := []interface{}{}
	if q.Search != "" {
		where += " AND search_text LIKE ?"
		args = append(args, likePattern(q.Search))
	}

	total, err := countRows(s.db.QueryRow("SELECT COUNT(*) FROM users "+where, args...))
	if err != nil {
		return models.Page[models.User]{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM users %s %s LIMIT ? OFFSET ?",
		userSelectColumns, where, sqlOrderClause(q.OrderColumn, q.OrderBy))
	args = append(args, q.Quantity, (q.Page-1)*q.Quantity)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.Page[models.User]{}, err
	}
	defer rows.Close()

	data := []models.User{}
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			return models.Page[models.User]{}, err
		}
		data = append(data, user)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.User]{}, err
	}
	return models.NewPage(data, total, q.Page, q.Quantity), nil
}

func (s *SQLiteStore) CountUsers() (int, error) {
	return countRows(s.db.QueryRow("SELECT COUNT(*) FROM users WHERE inactive = 0"))
}

// Session operations

func (s *SQLiteStore) CreateSession(userID int64, ttl time.Duration) (*Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	session := &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	_, err = s.db.Exec(`
		INSERT INTO sessions (token, user_id, created_at, expires_at, revoked)
		VALUES (?, ?, ?, ?, 0)`,
		session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SQLiteStore) GetSession(token string) (*Session, error) {
	var session Session
	err := s.db.QueryRow(
		"SELECT token, user_id, created_at, expires_at, revoked FROM sessions WHERE token = ?",
		token).
		Scan(&session.Token, &session.UserID, &session.CreatedAt,
			&session.ExpiresAt, &session.Revoked)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLiteStore) RevokeSession(token string) error {
	_, err := s.db.Exec("UPDATE sessions SET revoked = 1 WHERE token = ?", token)
	return err
}

func (s *SQLiteStore) DeleteExpiredSessions(now time.Time) (int, error) {
	result, err := s.db.Exec(
		"DELETE FROM sessions WHERE revoked = 1 OR expires_at < ?", now)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// Settings

func (s *SQLiteStore) GetSetting(key string) (*Setting, error) {
	var setting Setting
	err := s.db.QueryRow(
		"SELECT key, value, updated_at FROM settings WHERE key = ?", key).
		Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (s *SQLiteStore) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

func (s *SQLiteStore) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query("SELECT key, value, updated_at FROM settings ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := []Setting{}
	for rows.Next() {
		var setting Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

// Aggregates

func (s *SQLiteStore) CountSeries() (int, error) {
	return countRows(s.db.QueryRow("SELECT COUNT(*) FROM series WHERE inactive = 0"))
}

func (s *SQLiteStore) CountSeasons() (int, error) {
	return countRows(s.db.QueryRow("SELECT COUNT(*) FROM seasons WHERE inactive = 0"))
}

func (s *SQLiteStore) CountEpisodes() (int, error) {
	return countRows(s.db.QueryRow("SELECT COUNT(*) FROM episodes WHERE inactive = 0"))
}
