// file: internal/database/pebble_store.go
// version: 2.0.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

package database

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/pebble/v2"
	ulid "github.com/oklog/ulid/v2"

	"github.com/obodeflix/obodeflix/internal/models"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - series:<id>                 -> seriesRecord JSON
// - season:<id>                 -> seasonRecord JSON
// - episode:<id>                -> episodeRecord JSON
// - tag:<id>                    -> tagRecord JSON
// - tagname:<folded name>       -> tag id (for lookups)
// - track:<id>                  -> trackRecord JSON
// - comment:<id>                -> commentRecord JSON
// - user:<id>                   -> userRecord JSON
// - useremail:<folded email>    -> user id (for lookups)
// - seriestag:<series>:<tag>    -> tag id (join)
// - session:<token>             -> Session JSON
// - setting:<key>               -> Setting JSON
// - counter:<entity>            -> next numeric ID
// - schema:version              -> migration watermark
//
// IDs are zero-padded to 12 digits so key order matches numeric order.

type PebbleStore struct {
	db *pebble.DB
}

type seriesRecord struct {
	models.Series
	Inactive bool `json:"inactive"`
}

type seasonRecord struct {
	models.Season
	Inactive bool `json:"inactive"`
}

type episodeRecord struct {
	models.Episode
	Inactive bool `json:"inactive"`
}

type tagRecord struct {
	models.Tag
	Inactive bool `json:"inactive"`
}

type trackRecord struct {
	models.Track
}

type commentRecord struct {
	models.Comment
	Inactive bool `json:"inactive"`
}

type userRecord struct {
	models.User
	Inactive bool `json:"inactive"`
}

var pebbleCounters = []string{"series", "season", "episode", "tag", "track", "comment", "user"}

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}

	store := &PebbleStore{db: db}
	if err := store.initCounters(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (p *PebbleStore) initCounters() error {
	for _, counter := range pebbleCounters {
		key := []byte("counter:" + counter)
		if _, closer, err := p.db.Get(key); err == pebble.ErrNotFound {
			if err := p.db.Set(key, []byte("1"), pebble.Sync); err != nil {
				return fmt.Errorf("failed to initialize counter %s: %w", counter, err)
			}
		} else if err == nil {
			closer.Close()
		} else {
			return fmt.Errorf("failed to check counter %s: %w", counter, err)
		}
	}
	return nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

// Reset drops every record and reinitializes the counters
func (p *PebbleStore) Reset() error {
	if err := p.db.DeleteRange([]byte{0x00}, []byte{0xFF}, pebble.Sync); err != nil {
		return fmt.Errorf("failed to clear keyspace: %w", err)
	}
	return p.initCounters()
}

// Helper functions

func entityKey(entity string, id int64) []byte {
	return []byte(fmt.Sprintf("%s:%012d", entity, id))
}

func (p *PebbleStore) nextID(counter string) (int64, error) {
	key := []byte("counter:" + counter)

	value, closer, err := p.db.Get(key)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(string(value), 10, 64)
	closer.Close()
	if err != nil {
		return 0, err
	}

	if err := p.db.Set(key, []byte(strconv.FormatInt(id+1, 10)), pebble.Sync); err != nil {
		return 0, err
	}
	return id, nil
}

func newSessionToken() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (p *PebbleStore) getJSON(key []byte, out any) (bool, error) {
	value, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer closer.Close()
	if err := json.Unmarshal(value, out); err != nil {
		return false, err
	}
	return true, nil
}

func (p *PebbleStore) setJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.db.Set(key, data, pebble.Sync)
}

// iteratePrefix walks every key starting with prefix. The callback gets the
// raw value; returning an error aborts the walk.
func (p *PebbleStore) iteratePrefix(prefix string, fn func(key string, value []byte) error) error {
	upper := prefix[:len(prefix)-1] + string(prefix[len(prefix)-1]+1)
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(upper),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(string(iter.Key()), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Series operations

func (p *PebbleStore) allSeries() ([]seriesRecord, error) {
	var records []seriesRecord
	err := p.iteratePrefix("series:", func(_ string, value []byte) error {
		var rec seriesRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

func (p *PebbleStore) ListSeries(q models.ListQuery) (models.Page[models.Series], error) {
	q.Normalize()
	records, err := p.allSeries()
	if err != nil {
		return models.Page[models.Series]{}, err
	}

	matched := []models.Series{}
	for _, rec := range records {
		if rec.Inactive {
			continue
		}
		if q.Search != "" &&
			!models.SearchMatches(rec.MainName, q.Search) &&
			!models.SearchMatches(rec.AlternativeName, q.Search) &&
			!models.SearchMatches(rec.Description, q.Search) {
			continue
		}
		matched = append(matched, rec.Series)
	}

	sortSeries(matched, q.OrderColumn, q.OrderBy)
	pageData := models.Slice(matched, q.Page, q.Quantity)
	return models.NewPage(pageData, len(matched), q.Page, q.Quantity), nil
}

func (p *PebbleStore) getSeriesRecord(id int64) (*seriesRecord, error) {
	var rec seriesRecord
	found, err := p.getJSON(entityKey("series", id), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (p *PebbleStore) GetSeriesByID(id int64) (*models.Series, error) {
	rec, err := p.getSeriesRecord(id)
	if err != nil || rec == nil || rec.Inactive {
		return nil, err
	}
	series := rec.Series

	tags, err := p.GetSeriesTags(id)
	if err != nil {
		return nil, err
	}
	series.Tags = tags

	seasons, err := p.seasonsForSeries(id)
	if err != nil {
		return nil, err
	}
	series.Seasons = seasons

	return &series, nil
}

func (p *PebbleStore) CreateSeries(series *models.Series) (*models.Series, error) {
	id, err := p.nextID("series")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := seriesRecord{Series: *series}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Seasons = nil
	rec.Tags = nil

	if err := p.setJSON(entityKey("series", id), rec); err != nil {
		return nil, err
	}
	created := rec.Series
	return &created, nil
}

func (p *PebbleStore) UpdateSeries(id int64, series *models.Series) (*models.Series, error) {
	rec, err := p.getSeriesRecord(id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Inactive {
		return nil, nil
	}

	rec.MainName = series.MainName
	rec.AlternativeName = series.AlternativeName
	rec.MainNameLanguage = series.MainNameLanguage
	rec.Description = series.Description
	rec.ImageAddress = series.ImageAddress
	rec.UpdatedAt = time.Now().UTC()

	if err := p.setJSON(entityKey("series", id), rec); err != nil {
		return nil, err
	}
	updated := rec.Series
	return &updated, nil
}

func (p *PebbleStore) InactivateSeries(id int64) error {
	rec, err := p.getSeriesRecord(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("series %d not found", id)
	}
	rec.Inactive = true
	rec.UpdatedAt = time.Now().UTC()
	return p.setJSON(entityKey("series", id), rec)
}

func seriesTagKey(seriesID, tagID int64) []byte {
	return []byte(fmt.Sprintf("seriestag:%012d:%012d", seriesID, tagID))
}

func (p *PebbleStore) SetSeriesTags(seriesID int64, tagIDs []int64) error {
	prefix := fmt.Sprintf("seriestag:%012d:", seriesID)
	var stale [][]byte
	err := p.iteratePrefix(prefix, func(key string, _ []byte) error {
		stale = append(stale, []byte(key))
		return nil
	})
	if err != nil {
		return err
	}
	for _, key := range stale {
		if err := p.db.Delete(key, pebble.Sync); err != nil {
			return err
		}
	}
	for _, tagID := range tagIDs {
		if err := p.db.Set(seriesTagKey(seriesID, tagID), []byte(strconv.FormatInt(tagID, 10)), pebble.Sync); err != nil {
			return err
		}
	}
	return nil
}

func (p *PebbleStore) GetSeriesTags(seriesID int64) ([]models.Tag, error) {
	prefix := fmt.Sprintf("seriestag:%012d:", seriesID)
	tags := []models.Tag{}
	err := p.iteratePrefix(prefix, func(_ string, value []byte) error {
		tagID, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return err
		}
		tag, err := p.GetTagByID(tagID)
		if err != nil {
			return err
		}
		if tag != nil {
			tags = append(tags, *tag)
		}
		return nil
	})
	return tags, err
}

// Season operations

func (p *PebbleStore) allSeasons() ([]seasonRecord, error) {
	var records []seasonRecord
	err := p.iteratePrefix("season:", func(_ string, value []byte) error {
		var rec seasonRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

func (p *PebbleStore) seasonsForSeries(seriesID int64) ([]models.Season, error) {
	records, err := p.allSeasons()
	if err != nil {
		return nil, err
	}
	seasons := []models.Season{}
	for _, rec := range records {
		if rec.Inactive || rec.SeriesID != seriesID {
			continue
		}
		seasons = append(seasons, rec.Season)
	}
	sortSeasons(seasons, "position", models.OrderAsc)
	return seasons, nil
}

func (p *PebbleStore) ListSeasons(q models.ListQuery, withTracks bool) (models.Page[models.Season], error) {
	q.Normalize()
	records, err := p.allSeasons()
	if err != nil {
		return models.Page[models.Season]{}, err
	}

	matched := []models.Season{}
	for _, rec := range records {
		if rec.Inactive {
			continue
		}
		if q.SeriesID != nil && rec.SeriesID != *q.SeriesID {
			continue
		}
		if q.Search != "" &&
			!models.SearchMatches(rec.Name, q.Search) &&
			!models.SearchMatches(rec.Description, q.Search) {
			continue
		}
		matched = append(matched, rec.Season)
	}

	sortSeasons(matched, q.OrderColumn, q.OrderBy)
	pageData := models.Slice(matched, q.Page, q.Quantity)

	if withTracks {
		for i := range pageData {
			tracks, err := p.GetSeasonTracks(pageData[i].ID)
			if err != nil {
				return models.Page[models.Season]{}, err
			}
			pageData[i].Tracks = tracks
		}
	}

	return models.NewPage(pageData, len(matched), q.Page, q.Quantity), nil
}

func (p *PebbleStore) getSeasonRecord(id int64) (*seasonRecord, error) {
	var rec seasonRecord
	found, err := p.getJSON(entityKey("season", id), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (p *PebbleStore) GetSeasonByID(id int64) (*models.Season, error) {
	rec, err := p.getSeasonRecord(id)
	if err != nil || rec == nil || rec.Inactive {
		return nil, err
	}
	season := rec.Season

	tracks, err := p.GetSeasonTracks(id)
	if err != nil {
		return nil, err
	}
	season.Tracks = tracks

	episodes, err := p.episodesForSeason(id)
	if err != nil {
		return nil, err
	}
	season.Episodes = episodes

	return &season, nil
}

func (p *PebbleStore) CreateSeason(season *models.Season) (*models.Season, error) {
	parent, err := p.getSeriesRecord(season.SeriesID)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.Inactive {
		return nil, fmt.Errorf("series %d not found", season.SeriesID)
	}

	id, err := p.nextID("season")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := seasonRecord{Season: *season}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Episodes = nil
	rec.Tracks = nil

	if err := p.setJSON(entityKey("season", id), rec); err != nil {
		return nil, err
	}
	created := rec.Season
	return &created, nil
}

func (p *PebbleStore) UpdateSeason(id int64, season *models.Season) (*models.Season, error) {
	rec, err := p.getSeasonRecord(id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Inactive {
		return nil, nil
	}

	rec.Name = season.Name
	rec.Description = season.Description
	rec.Type = season.Type
	rec.Position = season.Position
	rec.ImageAddress = season.ImageAddress
	rec.ExcludeFromMostRecent = season.ExcludeFromMostRecent
	rec.UpdatedAt = time.Now().UTC()

	if err := p.setJSON(entityKey("season", id), rec); err != nil {
		return nil, err
	}
	updated := rec.Season
	return &updated, nil
}

func (p *PebbleStore) InactivateSeason(id int64) error {
	rec, err := p.getSeasonRecord(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("season %d not found", id)
	}
	rec.Inactive = true
	rec.UpdatedAt = time.Now().UTC()
	return p.setJSON(entityKey("season", id), rec)
}

func (p *PebbleStore) ReorderSeasons(seriesID int64, positions map[int64]int) error {
	records, err := p.allSeasons()
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Inactive || rec.SeriesID != seriesID {
			continue
		}
		position, ok := positions[rec.ID]
		if !ok || position == rec.Position {
			continue
		}
		rec.Position = position
		rec.UpdatedAt = time.Now().UTC()
		if err := p.setJSON(entityKey("season", rec.ID), rec); err != nil {
			return err
		}
	}
	return nil
}

// Track operations

func (p *PebbleStore) GetSeasonTracks(seasonID int64) ([]models.Track, error) {
	tracks := []models.Track{}
	err := p.iteratePrefix("track:", func(_ string, value []byte) error {
		var rec trackRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		if rec.SeasonID == seasonID {
			tracks = append(tracks, rec.Track)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	stableSort(tracks, false, func(a, b models.Track) bool { return a.Index < b.Index })
	return tracks, nil
}

func (p *PebbleStore) ReplaceSeasonTracks(seasonID int64, tracks []models.Track) ([]models.Track, error) {
	season, err := p.getSeasonRecord(seasonID)
	if err != nil {
		return nil, err
	}
	if season == nil || season.Inactive {
		return nil, fmt.Errorf("season %d not found", seasonID)
	}

	// Drop the old rows, then write the replacement set with fresh ids.
	var stale [][]byte
	err = p.iteratePrefix("track:", func(key string, value []byte) error {
		var rec trackRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		if rec.SeasonID == seasonID {
			stale = append(stale, []byte(key))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, key := range stale {
		if err := p.db.Delete(key, pebble.Sync); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	saved := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		id, err := p.nextID("track")
		if err != nil {
			return nil, err
		}
		rec := trackRecord{Track: track}
		rec.ID = id
		rec.SeasonID = seasonID
		rec.CreatedAt = now
		rec.UpdatedAt = now
		if err := p.setJSON(entityKey("track", id), rec); err != nil {
			return nil, err
		}
		saved = append(saved, rec.Track)
	}
	stableSort(saved, false, func(a, b models.Track) bool { return a.Index < b.Index })
	return saved, nil
}

// Episode operations

func (p *PebbleStore) allEpisodes() ([]episodeRecord, error) {
	var records []episodeRecord
	err := p.iteratePrefix("episode:", func(_ string, value []byte) error {
		var rec episodeRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

func (p *PebbleStore) episodesForSeason(seasonID int64) ([]models.Episode, error) {
	records, err := p.allEpisodes()
	if err != nil {
		return nil, err
	}
	episodes := []models.Episode{}
	for _, rec := range records {
		if rec.Inactive || rec.SeasonID != seasonID {
			continue
		}
		episodes = append(episodes, rec.Episode)
	}
	sortEpisodes(episodes, "position", models.OrderAsc)
	return episodes, nil
}

func (p *PebbleStore) ListEpisodes(q models.ListQuery) (models.Page[models.Episode], error) {
	q.Normalize()
	records, err := p.allEpisodes()
	if err != nil {
		return models.Page[models.Episode]{}, err
	}

	matched := []models.Episode{}
	for _, rec := range records {
		if rec.Inactive {
			continue
		}
		if q.SeasonID != nil && rec.SeasonID != *q.SeasonID {
			continue
		}
		if q.Search != "" &&
			!models.SearchMatches(rec.Name, q.Search) &&
			!models.SearchMatches(rec.Path, q.Search) {
			continue
		}
		matched = append(matched, rec.Episode)
	}

	sortEpisodes(matched, q.OrderColumn, q.OrderBy)
	pageData := models.Slice(matched, q.Page, q.Quantity)
	return models.NewPage(pageData, len(matched), q.Page, q.Quantity), nil
}

func (p *PebbleStore) getEpisodeRecord(id int64) (*episodeRecord, error) {
	var rec episodeRecord
	found, err := p.getJSON(entityKey("episode", id), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (p *PebbleStore) GetEpisodeByID(id int64) (*models.Episode, error) {
	rec, err := p.getEpisodeRecord(id)
	if err != nil || rec == nil || rec.Inactive {
		return nil, err
	}
	episode := rec.Episode
	return &episode, nil
}

func (p *PebbleStore) CreateEpisode(episode *models.Episode) (*models.Episode, error) {
	parent, err := p.getSeasonRecord(episode.SeasonID)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.Inactive {
		return nil, fmt.Errorf("season %d not found", episode.SeasonID)
	}

	id, err := p.nextID("episode")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := episodeRecord{Episode: *episode}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := p.setJSON(entityKey("episode", id), rec); err != nil {
		return nil, err
	}
	created := rec.Episode
	return &created, nil
}

func (p *PebbleStore) UpdateEpisode(id int64, episode *models.Episode) (*models.Episode, error) {
	rec, err := p.getEpisodeRecord(id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Inactive {
		return nil, nil
	}

	rec.Name = episode.Name
	rec.Duration = episode.Duration
	rec.Path = episode.Path
	rec.Position = episode.Position
	rec.UpdatedAt = time.Now().UTC()

	if err := p.setJSON(entityKey("episode", id), rec); err != nil {
		return nil, err
	}
	updated := rec.Episode
	return &updated, nil
}

func (p *PebbleStore) InactivateEpisode(id int64) error {
	rec, err := p.getEpisodeRecord(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("episode %d not found", id)
	}
	rec.Inactive = true
	rec.UpdatedAt = time.Now().UTC()
	return p.setJSON(entityKey("episode", id), rec)
}

// Tag operations

func tagNameKey(name string) []byte {
	return []byte("tagname:" + models.FoldSearch(name))
}

func (p *PebbleStore) ListTags(q models.ListQuery) (models.Page[models.Tag], error) {
	q.Normalize()
	matched := []models.Tag{}
	err := p.iteratePrefix("tag:", func(_ string, value []byte) error {
		var rec tagRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		if rec.Inactive {
			return nil
		}
		if q.Search != "" && !models.SearchMatches(rec.Name, q.Search) {
			return nil
		}
		matched = append(matched, rec.Tag)
		return nil
	})
	if err != nil {
		return models.Page[models.Tag]{}, err
	}

	sortTags(matched, q.OrderColumn, q.OrderBy)
	pageData := models.Slice(matched, q.Page, q.Quantity)
	return models.NewPage(pageData, len(matched), q.Page, q.Quantity), nil
}

func (p *PebbleStore) getTagRecord(id int64) (*tagRecord, error) {
	var rec tagRecord
	found, err := p.getJSON(entityKey("tag", id), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (p *PebbleStore) GetTagByID(id int64) (*models.Tag, error) {
	rec, err := p.getTagRecord(id)
	if err != nil || rec == nil || rec.Inactive {
		return nil, err
	}
	tag := rec.Tag
	return &tag, nil
}

func (p *PebbleStore) GetTagByName(name string) (*models.Tag, error) {
	value, closer, err := p.db.Get(tagNameKey(name))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(string(value), 10, 64)
	closer.Close()
	if err != nil {
		return nil, err
	}
	return p.GetTagByID(id)
}

func (p *PebbleStore) CreateTag(tag *models.Tag) (*models.Tag, error) {
	existing, err := p.GetTagByName(tag.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("tag %q already exists", tag.Name)
	}

	id, err := p.nextID("tag")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := tagRecord{Tag: *tag}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := p.setJSON(entityKey("tag", id), rec); err != nil {
		return nil, err
	}
	if err := p.db.Set(tagNameKey(rec.Name), []byte(strconv.FormatInt(id, 10)), pebble.Sync); err != nil {
		return nil, err
	}
	created := rec.Tag
	return &created, nil
}

func (p *PebbleStore) UpdateTag(id int64, tag *models.Tag) (*models.Tag, error) {
	rec, err := p.getTagRecord(id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Inactive {
		return nil, nil
	}

	if rec.Name != tag.Name {
		if err := p.db.Delete(tagNameKey(rec.Name), pebble.Sync); err != nil {
			return nil, err
		}
		if err := p.db.Set(tagNameKey(tag.Name), []byte(strconv.FormatInt(id, 10)), pebble.Sync); err != nil {
			return nil, err
		}
	}
	rec.Name = tag.Name
	rec.UpdatedAt = time.Now().UTC()

	if err := p.setJSON(entityKey("tag", id), rec); err != nil {
		return nil, err
	}
	updated := rec.Tag
	return &updated, nil
}

func (p *PebbleStore) InactivateTag(id int64) error {
	rec, err := p.getTagRecord(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("tag %d not found", id)
	}
	rec.Inactive = true
	rec.UpdatedAt = time.Now().UTC()
	if err := p.db.Delete(tagNameKey(rec.Name), pebble.Sync); err != nil {
		return err
	}
	return p.setJSON(entityKey("tag", id), rec)
}

// Comment operations

func (p *PebbleStore) allComments() ([]commentRecord, error) {
	var records []commentRecord
	err := p.iteratePrefix("comment:", func(_ string, value []byte) error {
		var rec commentRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

func (p *PebbleStore) attachCommentUser(comment *models.Comment) error {
	user, err := p.GetUserByID(comment.UserID)
	if err != nil {
		return err
	}
	if user != nil {
		comment.User = &models.UserSummary{ID: user.ID, Name: user.Name, Type: user.Type}
	}
	return nil
}

func (p *PebbleStore) ListComments(q models.ListQuery) (models.Page[models.Comment], error) {
	q.Normalize()
	records, err := p.allComments()
	if err != nil {
		return models.Page[models.Comment]{}, err
	}

	// Children grouped up-front so each matched parent gets one pass.
	children := map[int64][]models.Comment{}
	for _, rec := range records {
		if rec.Inactive || rec.ParentID == nil {
			continue
		}
		child := rec.Comment
		if err := p.attachCommentUser(&child); err != nil {
			return models.Page[models.Comment]{}, err
		}
		children[*rec.ParentID] = append(children[*rec.ParentID], child)
	}

	matched := []models.Comment{}
	for _, rec := range records {
		if rec.Inactive || rec.ParentID != nil {
			continue
		}
		if q.SeriesID != nil && (rec.SeriesID == nil || *rec.SeriesID != *q.SeriesID) {
			continue
		}
		if q.EpisodeID != nil && (rec.EpisodeID == nil || *rec.EpisodeID != *q.EpisodeID) {
			continue
		}
		if q.UserID != nil && rec.UserID != *q.UserID {
			continue
		}
		if q.Search != "" && !models.SearchMatches(rec.Body, q.Search) {
			continue
		}
		comment := rec.Comment
		if err := p.attachCommentUser(&comment); err != nil {
			return models.Page[models.Comment]{}, err
		}
		kids := children[comment.ID]
		sortComments(kids, "createdAt", models.OrderAsc)
		comment.Children = kids
		matched = append(matched, comment)
	}

	sortComments(matched, q.OrderColumn, q.OrderBy)
	pageData := models.Slice(matched, q.Page, q.Quantity)
	return models.NewPage(pageData, len(matched), q.Page, q.Quantity), nil
}

func (p *PebbleStore) getCommentRecord(id int64) (*commentRecord, error) {
	var rec commentRecord
	found, err := p.getJSON(entityKey("comment", id), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (p *PebbleStore) GetCommentByID(id int64) (*models.Comment, error) {
	rec, err := p.getCommentRecord(id)
	if err != nil || rec == nil || rec.Inactive {
		return nil, err
	}
	comment := rec.Comment
	if err := p.attachCommentUser(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (p *PebbleStore) CreateComment(comment *models.Comment) (*models.Comment, error) {
	if comment.ReferenceCount() != 1 {
		return nil, fmt.Errorf("comment must reference exactly one of parent, series or episode")
	}

	id, err := p.nextID("comment")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := commentRecord{Comment: *comment}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.User = nil
	rec.Children = nil

	if err := p.setJSON(entityKey("comment", id), rec); err != nil {
		return nil, err
	}
	created := rec.Comment
	if err := p.attachCommentUser(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (p *PebbleStore) InactivateComment(id int64) error {
	rec, err := p.getCommentRecord(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("comment %d not found", id)
	}
	rec.Inactive = true
	rec.UpdatedAt = time.Now().UTC()
	return p.setJSON(entityKey("comment", id), rec)
}

// User operations

func userEmailKey(email string) []byte {
	return []byte("useremail:" + models.FoldSearch(email))
}

func (p *PebbleStore) CreateUser(name, email, passwordHash string, userType models.UserType) (*models.User, error) {
	existing, err := p.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %q already registered", email)
	}

	id, err := p.nextID("user")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := userRecord{User: models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Type:         userType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}

	if err := p.setJSON(entityKey("user", id), rec); err != nil {
		return nil, err
	}
	if err := p.db.Set(userEmailKey(email), []byte(strconv.FormatInt(id, 10)), pebble.Sync); err != nil {
		return nil, err
	}
	created := rec.User
	return &created, nil
}

func (p *PebbleStore) GetUserByID(id int64) (*models.User, error) {
	var rec userRecord
	found, err := p.getJSON(entityKey("user", id), &rec)
	if err != nil || !found || rec.Inactive {
		return nil, err
	}
	user := rec.User
	return &user, nil
}

func (p *PebbleStore) GetUserByEmail(email string) (*models.User, error) {
	value, closer, err := p.db.Get(userEmailKey(email))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(string(value), 10, 64)
	closer.Close()
	if err != nil {
		return nil, err
	}
	return p.GetUserByID(id)
}

func (p *PebbleStore) ListUsers(q models.ListQuery) (models.Page[models.User], error) {
	q.Normalize()
	matched := []models.User{}
	err := p.iteratePrefix("user:", func(_ string, value []byte) error {
		var rec userRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		if rec.Inactive {
			return nil
		}
		if q.Search != "" &&
			!models.SearchMatches(rec.Name, q.Search) &&
			!models.SearchMatches(rec.Email, q.Search) {
			return nil
		}
		matched = append(matched, rec.User)
		return nil
	})
	if err != nil {
		return models.Page[models.User]{}, err
	}

	sortUsers(matched, q.OrderColumn, q.OrderBy)
	pageData := models.Slice(matched, q.Page, q.Quantity)
	return models.NewPage(pageData, len(matched), q.Page, q.Quantity), nil
}

func (p *PebbleStore) CountUsers() (int, error) {
	count := 0
	err := p.iteratePrefix("user:", func(_ string, value []byte) error {
		var rec userRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		if !rec.Inactive {
			count++
		}
		return nil
	})
	return count, err
}

// Session operations

func sessionKey(token string) []byte {
	return []byte("session:" + token)
}

func (p *PebbleStore) CreateSession(userID int64, ttl time.Duration) (*Session, error) {
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
	if err := p.setJSON(sessionKey(token), session); err != nil {
		return nil, err
	}
	return session, nil
}

func (p *PebbleStore) GetSession(token string) (*Session, error) {
	var session Session
	found, err := p.getJSON(sessionKey(token), &session)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

func (p *PebbleStore) RevokeSession(token string) error {
	session, err := p.GetSession(token)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	session.Revoked = true
	return p.setJSON(sessionKey(token), session)
}

func (p *PebbleStore) DeleteExpiredSessions(now time.Time) (int, error) {
	var expired [][]byte
	err := p.iteratePrefix("session:", func(key string, value []byte) error {
		var session Session
		if err := json.Unmarshal(value, &session); err != nil {
			return err
		}
		if session.Revoked || now.After(session.ExpiresAt) {
			expired = append(expired, []byte(key))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, key := range expired {
		if err := p.db.Delete(key, pebble.Sync); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}

// Settings

func settingKey(key string) []byte {
	return []byte("setting:" + key)
}

func (p *PebbleStore) GetSetting(key string) (*Setting, error) {
	var setting Setting
	found, err := p.getJSON(settingKey(key), &setting)
	if err != nil || !found {
		return nil, err
	}
	return &setting, nil
}

func (p *PebbleStore) SetSetting(key, value string) error {
	return p.setJSON(settingKey(key), Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()})
}

func (p *PebbleStore) GetAllSettings() ([]Setting, error) {
	settings := []Setting{}
	err := p.iteratePrefix("setting:", func(_ string, value []byte) error {
		var setting Setting
		if err := json.Unmarshal(value, &setting); err != nil {
			return err
		}
		settings = append(settings, setting)
		return nil
	})
	return settings, err
}

// Aggregates

func (p *PebbleStore) CountSeries() (int, error) {
	records, err := p.allSeries()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, rec := range records {
		if !rec.Inactive {
			count++
		}
	}
	return count, nil
}

func (p *PebbleStore) CountSeasons() (int, error) {
	records, err := p.allSeasons()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, rec := range records {
		if !rec.Inactive {
			count++
		}
	}
	return count, nil
}

func (p *PebbleStore) CountEpisodes() (int, error) {
	records, err := p.allEpisodes()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, rec := range records {
		if !rec.Inactive {
			count++
		}
	}
	return count, nil
}
