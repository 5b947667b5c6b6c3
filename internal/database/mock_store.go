// file: internal/database/mock_store.go
// version: 2.0.0
// guid: 3f4a5b6c-7d8e-9f0a-1b2c-3d4e5f6a7b8c

package database

import (
	"time"

	"github.com/obodeflix/obodeflix/internal/models"
)

// MockStore is a simple mock implementation for testing services
type MockStore struct {
	// Series methods
	ListSeriesFunc       func(q models.ListQuery) (models.Page[models.Series], error)
	GetSeriesByIDFunc    func(id int64) (*models.Series, error)
	CreateSeriesFunc     func(series *models.Series) (*models.Series, error)
	UpdateSeriesFunc     func(id int64, series *models.Series) (*models.Series, error)
	InactivateSeriesFunc func(id int64) error
	SetSeriesTagsFunc    func(seriesID int64, tagIDs []int64) error
	GetSeriesTagsFunc    func(seriesID int64) ([]models.Tag, error)

	// Season methods
	ListSeasonsFunc         func(q models.ListQuery, withTracks bool) (models.Page[models.Season], error)
	GetSeasonByIDFunc       func(id int64) (*models.Season, error)
	CreateSeasonFunc        func(season *models.Season) (*models.Season, error)
	UpdateSeasonFunc        func(id int64, season *models.Season) (*models.Season, error)
	InactivateSeasonFunc    func(id int64) error
	ReorderSeasonsFunc      func(seriesID int64, positions map[int64]int) error
	ReplaceSeasonTracksFunc func(seasonID int64, tracks []models.Track) ([]models.Track, error)
	GetSeasonTracksFunc     func(seasonID int64) ([]models.Track, error)

	// Episode methods
	ListEpisodesFunc      func(q models.ListQuery) (models.Page[models.Episode], error)
	GetEpisodeByIDFunc    func(id int64) (*models.Episode, error)
	CreateEpisodeFunc     func(episode *models.Episode) (*models.Episode, error)
	UpdateEpisodeFunc     func(id int64, episode *models.Episode) (*models.Episode, error)
	InactivateEpisodeFunc func(id int64) error

	// Tag methods
	ListTagsFunc      func(q models.ListQuery) (models.Page[models.Tag], error)
	GetTagByIDFunc    func(id int64) (*models.Tag, error)
	GetTagByNameFunc  func(name string) (*models.Tag, error)
	CreateTagFunc     func(tag *models.Tag) (*models.Tag, error)
	UpdateTagFunc     func(id int64, tag *models.Tag) (*models.Tag, error)
	InactivateTagFunc func(id int64) error

	// Comment methods
	ListCommentsFunc      func(q models.ListQuery) (models.Page[models.Comment], error)
	GetCommentByIDFunc    func(id int64) (*models.Comment, error)
	CreateCommentFunc     func(comment *models.Comment) (*models.Comment, error)
	InactivateCommentFunc func(id int64) error

	// User methods
	CreateUserFunc     func(name, email, passwordHash string, userType models.UserType) (*models.User, error)
	GetUserByIDFunc    func(id int64) (*models.User, error)
	GetUserByEmailFunc func(email string) (*models.User, error)
	ListUsersFunc      func(q models.ListQuery) (models.Page[models.User], error)
	CountUsersFunc     func() (int, error)

	// Session methods
	CreateSessionFunc         func(userID int64, ttl time.Duration) (*Session, error)
	GetSessionFunc            func(token string) (*Session, error)
	RevokeSessionFunc         func(token string) error
	DeleteExpiredSessionsFunc func(now time.Time) (int, error)

	// Settings
	GetSettingFunc     func(key string) (*Setting, error)
	SetSettingFunc     func(key, value string) error
	GetAllSettingsFunc func() ([]Setting, error)

	// Aggregates
	CountSeriesFunc   func() (int, error)
	CountSeasonsFunc  func() (int, error)
	CountEpisodesFunc func() (int, error)

	// Lifecycle
	CloseFunc func() error
	ResetFunc func() error
}

func (m *MockStore) ListSeries(q models.ListQuery) (models.Page[models.Series], error) {
	if m.ListSeriesFunc != nil {
		return m.ListSeriesFunc(q)
	}
	return models.NewPage([]models.Series{}, 0, 1, models.DefaultQuantity), nil
}

func (m *MockStore) GetSeriesByID(id int64) (*models.Series, error) {
	if m.GetSeriesByIDFunc != nil {
		return m.GetSeriesByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) CreateSeries(series *models.Series) (*models.Series, error) {
	if m.CreateSeriesFunc != nil {
		return m.CreateSeriesFunc(series)
	}
	return series, nil
}

func (m *MockStore) UpdateSeries(id int64, series *models.Series) (*models.Series, error) {
	if m.UpdateSeriesFunc != nil {
		return m.UpdateSeriesFunc(id, series)
	}
	return series, nil
}

func (m *MockStore) InactivateSeries(id int64) error {
	if m.InactivateSeriesFunc != nil {
		return m.InactivateSeriesFunc(id)
	}
	return nil
}

func (m *MockStore) SetSeriesTags(seriesID int64, tagIDs []int64) error {
	if m.SetSeriesTagsFunc != nil {
		return m.SetSeriesTagsFunc(seriesID, tagIDs)
	}
	return nil
}

func (m *MockStore) GetSeriesTags(seriesID int64) ([]models.Tag, error) {
	if m.GetSeriesTagsFunc != nil {
		return m.GetSeriesTagsFunc(seriesID)
	}
	return []models.Tag{}, nil
}

func (m *MockStore) ListSeasons(q models.ListQuery, withTracks bool) (models.Page[models.Season], error) {
	if m.ListSeasonsFunc != nil {
		return m.ListSeasonsFunc(q, withTracks)
	}
	return models.NewPage([]models.Season{}, 0, 1, models.DefaultQuantity), nil
}

func (m *MockStore) GetSeasonByID(id int64) (*models.Season, error) {
	if m.GetSeasonByIDFunc != nil {
		return m.GetSeasonByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) CreateSeason(season *models.Season) (*models.Season, error) {
	if m.CreateSeasonFunc != nil {
		return m.CreateSeasonFunc(season)
	}
	return season, nil
}

func (m *MockStore) UpdateSeason(id int64, season *models.Season) (*models.Season, error) {
	if m.UpdateSeasonFunc != nil {
		return m.UpdateSeasonFunc(id, season)
	}
	return season, nil
}

func (m *MockStore) InactivateSeason(id int64) error {
	if m.InactivateSeasonFunc != nil {
		return m.InactivateSeasonFunc(id)
	}
	return nil
}

func (m *MockStore) ReorderSeasons(seriesID int64, positions map[int64]int) error {
	if m.ReorderSeasonsFunc != nil {
		return m.ReorderSeasonsFunc(seriesID, positions)
	}
	return nil
}

func (m *MockStore) ReplaceSeasonTracks(seasonID int64, tracks []models.Track) ([]models.Track, error) {
	if m.ReplaceSeasonTracksFunc != nil {
		return m.ReplaceSeasonTracksFunc(seasonID, tracks)
	}
	return tracks, nil
}

func (m *MockStore) GetSeasonTracks(seasonID int64) ([]models.Track, error) {
	if m.GetSeasonTracksFunc != nil {
		return m.GetSeasonTracksFunc(seasonID)
	}
	return []models.Track{}, nil
}

func (m *MockStore) ListEpisodes(q models.ListQuery) (models.Page[models.Episode], error) {
	if m.ListEpisodesFunc != nil {
		return m.ListEpisodesFunc(q)
	}
	return models.NewPage([]models.Episode{}, 0, 1, models.DefaultQuantity), nil
}

func (m *MockStore) GetEpisodeByID(id int64) (*models.Episode, error) {
	if m.GetEpisodeByIDFunc != nil {
		return m.GetEpisodeByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) CreateEpisode(episode *models.Episode) (*models.Episode, error) {
	if m.CreateEpisodeFunc != nil {
		return m.CreateEpisodeFunc(episode)
	}
	return episode, nil
}

func (m *MockStore) UpdateEpisode(id int64, episode *models.Episode) (*models.Episode, error) {
	if m.UpdateEpisodeFunc != nil {
		return m.UpdateEpisodeFunc(id, episode)
	}
	return episode, nil
}

func (m *MockStore) InactivateEpisode(id int64) error {
	if m.InactivateEpisodeFunc != nil {
		return m.InactivateEpisodeFunc(id)
	}
	return nil
}

func (m *MockStore) ListTags(q models.ListQuery) (models.Page[models.Tag], error) {
	if m.ListTagsFunc != nil {
		return m.ListTagsFunc(q)
	}
	return models.NewPage([]models.Tag{}, 0, 1, models.DefaultQuantity), nil
}

func (m *MockStore) GetTagByID(id int64) (*models.Tag, error) {
	if m.GetTagByIDFunc != nil {
		return m.GetTagByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetTagByName(name string) (*models.Tag, error) {
	if m.GetTagByNameFunc != nil {
		return m.GetTagByNameFunc(name)
	}
	return nil, nil
}

func (m *MockStore) CreateTag(tag *models.Tag) (*models.Tag, error) {
	if m.CreateTagFunc != nil {
		return m.CreateTagFunc(tag)
	}
	return tag, nil
}

func (m *MockStore) UpdateTag(id int64, tag *models.Tag) (*models.Tag, error) {
	if m.UpdateTagFunc != nil {
		return m.UpdateTagFunc(id, tag)
	}
	return tag, nil
}

func (m *MockStore) InactivateTag(id int64) error {
	if m.InactivateTagFunc != nil {
		return m.InactivateTagFunc(id)
	}
	return nil
}

func (m *MockStore) ListComments(q models.ListQuery) (models.Page[models.Comment], error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(q)
	}
	return models.NewPage([]models.Comment{}, 0, 1, models.DefaultQuantity), nil
}

func (m *MockStore) GetCommentByID(id int64) (*models.Comment, error) {
	if m.GetCommentByIDFunc != nil {
		return m.GetCommentByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) CreateComment(comment *models.Comment) (*models.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(comment)
	}
	return comment, nil
}

func (m *MockStore) InactivateComment(id int64) error {
	if m.InactivateCommentFunc != nil {
		return m.InactivateCommentFunc(id)
	}
	return nil
}

func (m *MockStore) CreateUser(name, email, passwordHash string, userType models.UserType) (*models.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(name, email, passwordHash, userType)
	}
	return &models.User{Name: name, Email: email, PasswordHash: passwordHash, Type: userType}, nil
}

func (m *MockStore) GetUserByID(id int64) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetUserByEmail(email string) (*models.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil
}

func (m *MockStore) ListUsers(q models.ListQuery) (models.Page[models.User], error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(q)
	}
	return models.NewPage([]models.User{}, 0, 1, models.DefaultQuantity), nil
}

func (m *MockStore) CountUsers() (int, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc()
	}
	return 0, nil
}

func (m *MockStore) CreateSession(userID int64, ttl time.Duration) (*Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(userID, ttl)
	}
	now := time.Now().UTC()
	return &Session{Token: "mock-token", UserID: userID, CreatedAt: now, ExpiresAt: now.Add(ttl)}, nil
}

func (m *MockStore) GetSession(token string) (*Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(token)
	}
	return nil, nil
}

func (m *MockStore) RevokeSession(token string) error {
	if m.RevokeSessionFunc != nil {
		return m.RevokeSessionFunc(token)
	}
	return nil
}

func (m *MockStore) DeleteExpiredSessions(now time.Time) (int, error) {
	if m.DeleteExpiredSessionsFunc != nil {
		return m.DeleteExpiredSessionsFunc(now)
	}
	return 0, nil
}

func (m *MockStore) GetSetting(key string) (*Setting, error) {
	if m.GetSettingFunc != nil {
		return m.GetSettingFunc(key)
	}
	return nil, nil
}

func (m *MockStore) SetSetting(key, value string) error {
	if m.SetSettingFunc != nil {
		return m.SetSettingFunc(key, value)
	}
	return nil
}

func (m *MockStore) GetAllSettings() ([]Setting, error) {
	if m.GetAllSettingsFunc != nil {
		return m.GetAllSettingsFunc()
	}
	return []Setting{}, nil
}

func (m *MockStore) CountSeries() (int, error) {
	if m.CountSeriesFunc != nil {
		return m.CountSeriesFunc()
	}
	return 0, nil
}

func (m *MockStore) CountSeasons() (int, error) {
	if m.CountSeasonsFunc != nil {
		return m.CountSeasonsFunc()
	}
	return 0, nil
}

func (m *MockStore) CountEpisodes() (int, error) {
	if m.CountEpisodesFunc != nil {
		return m.CountEpisodesFunc()
	}
	return 0, nil
}

func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockStore) Reset() error {
	if m.ResetFunc != nil {
		return m.ResetFunc()
	}
	return nil
}
