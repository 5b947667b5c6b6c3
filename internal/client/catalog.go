// file: internal/client/catalog.go
// version: 2.0.0
// guid: 0e1f2a3b-4c5d-6e7f-8a9b-0c1d2e3f4a50

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/obodeflix/obodeflix/internal/models"
)

// SeriesPayload is the create/update body for a series. TagIDs nil leaves
// the tag set untouched on update, an empty slice clears it.
type SeriesPayload struct {
	MainName         string  `json:"mainName"`
	AlternativeName  string  `json:"alternativeName"`
	MainNameLanguage string  `json:"mainNameLanguage"`
	Description      string  `json:"description"`
	ImageAddress     string  `json:"imageAddress"`
	TagIDs           []int64 `json:"tagIds,omitempty"`
}

// SeasonPayload is the create/update body for a season. Tracks nil leaves
// the track list untouched on update, a non-nil slice replaces it wholesale.
type SeasonPayload struct {
	SeriesID              int64             `json:"seriesId"`
	Name                  string            `json:"name"`
	Description           string            `json:"description"`
	Type                  models.SeasonType `json:"type"`
	Position              int               `json:"position"`
	ImageAddress          string            `json:"imageAddress"`
	ExcludeFromMostRecent bool              `json:"excludeFromMostRecent"`
	Tracks                []models.Track    `json:"tracks,omitempty"`
}

type EpisodePayload struct {
	SeasonID int64  `json:"seasonId"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

type CommentPayload struct {
	ParentID  *int64 `json:"parentId,omitempty"`
	SeriesID  *int64 `json:"seriesId,omitempty"`
	EpisodeID *int64 `json:"episodeId,omitempty"`
	Body      string `json:"body"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	Series     int `json:"series"`
	Seasons    int `json:"seasons"`
	Episodes   int `json:"episodes"`
	Users      int `json:"users"`
	SSEClients int `json:"sseClients"`
}

// Series

func (c *Client) ListSeries(ctx context.Context, opts ListOptions) (models.Page[models.Series], error) {
	var page models.Page[models.Series]
	err := c.do(ctx, http.MethodGet, "/series/all", opts.values(), nil, &page)
	return page, err
}

func (c *Client) GetSeries(ctx context.Context, id int64) (*models.Series, error) {
	var series models.Series
	if err := c.do(ctx, http.MethodGet, idPath("/series/", id), nil, nil, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (c *Client) CreateSeries(ctx context.Context, payload SeriesPayload) (*models.Series, error) {
	var series models.Series
	if err := c.do(ctx, http.MethodPost, "/series/create", nil, payload, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (c *Client) UpdateSeries(ctx context.Context, id int64, payload SeriesPayload) (*models.Series, error) {
	var series models.Series
	if err := c.do(ctx, http.MethodPut, idPath("/series/update/", id), nil, payload, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (c *Client) InactivateSeries(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/series/inactivate/", id), nil, nil, nil)
}

// Seasons

func (c *Client) ListSeasons(ctx context.Context, opts ListOptions) (models.Page[models.Season], error) {
	var page models.Page[models.Season]
	err := c.do(ctx, http.MethodGet, "/season/all", opts.values(), nil, &page)
	return page, err
}

// ListSeasonsNoTracks fetches the lightweight season picker list used by
// the import flow.
func (c *Client) ListSeasonsNoTracks(ctx context.Context) ([]models.Season, error) {
	var seasons []models.Season
	if err := c.do(ctx, http.MethodGet, "/season/no-tracks", nil, nil, &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (c *Client) GetSeason(ctx context.Context, id int64) (*models.Season, error) {
	var season models.Season
	if err := c.do(ctx, http.MethodGet, idPath("/season/", id), nil, nil, &season); err != nil {
		return nil, err
	}
	return &season, nil
}

func (c *Client) CreateSeason(ctx context.Context, payload SeasonPayload) (*models.Season, error) {
	var season models.Season
	if err := c.do(ctx, http.MethodPost, "/season/create", nil, payload, &season); err != nil {
		return nil, err
	}
	return &season, nil
}

func (c *Client) UpdateSeason(ctx context.Context, id int64, payload SeasonPayload) (*models.Season, error) {
	var season models.Season
	if err := c.do(ctx, http.MethodPut, idPath("/season/update/", id), nil, payload, &season); err != nil {
		return nil, err
	}
	return &season, nil
}

func (c *Client) InactivateSeason(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/season/inactivate/", id), nil, nil, nil)
}

// ReorderSeasons assigns explicit 1-based positions to the series' seasons.
func (c *Client) ReorderSeasons(ctx context.Context, seriesID int64, positions map[int64]int) error {
	wire := make(map[string]int, len(positions))
	for id, position := range positions {
		wire[strconv.FormatInt(id, 10)] = position
	}
	body := map[string]any{"seriesId": seriesID, "positions": wire}
	return c.do(ctx, http.MethodPut, "/season/reorder", nil, body, nil)
}

// Episodes

func (c *Client) ListEpisodes(ctx context.Context, opts ListOptions) (models.Page[models.Episode], error) {
	var page models.Page[models.Episode]
	err := c.do(ctx, http.MethodGet, "/episode/all", opts.values(), nil, &page)
	return page, err
}

func (c *Client) GetEpisode(ctx context.Context, id int64) (*models.Episode, error) {
	var episode models.Episode
	if err := c.do(ctx, http.MethodGet, idPath("/episode/", id), nil, nil, &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

func (c *Client) CreateEpisode(ctx context.Context, payload EpisodePayload) (*models.Episode, error) {
	var episode models.Episode
	if err := c.do(ctx, http.MethodPost, "/episode/create", nil, payload, &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

func (c *Client) UpdateEpisode(ctx context.Context, id int64, payload EpisodePayload) (*models.Episode, error) {
	var episode models.Episode
	if err := c.do(ctx, http.MethodPut, idPath("/episode/update/", id), nil, payload, &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

func (c *Client) InactivateEpisode(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/episode/inactivate/", id), nil, nil, nil)
}

// Tags

func (c *Client) ListTags(ctx context.Context, opts ListOptions) (models.Page[models.Tag], error) {
	var page models.Page[models.Tag]
	err := c.do(ctx, http.MethodGet, "/tag/all", opts.values(), nil, &page)
	return page, err
}

func (c *Client) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := c.do(ctx, http.MethodPost, "/tag/create", nil, map[string]string{"name": name}, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) UpdateTag(ctx context.Context, id int64, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := c.do(ctx, http.MethodPut, idPath("/tag/update/", id), nil, map[string]string{"name": name}, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) InactivateTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/tag/inactivate/", id), nil, nil, nil)
}

// Comments

func (c *Client) ListComments(ctx context.Context, opts ListOptions) (models.Page[models.Comment], error) {
	var page models.Page[models.Comment]
	err := c.do(ctx, http.MethodGet, "/comment/all", opts.values(), nil, &page)
	return page, err
}

func (c *Client) CreateComment(ctx context.Context, payload CommentPayload) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, "/comment/create", nil, payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) InactivateComment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/comment/inactivate/", id), nil, nil, nil)
}

// Episode files

// ListEpisodeFileFolders lists importable folders under the server's raw
// media root.
func (c *Client) ListEpisodeFileFolders(ctx context.Context) ([]string, error) {
	var resp struct {
		Folders []string `json:"folders"`
	}
	if err := c.do(ctx, http.MethodGet, "/episode-file/folders", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// ListEpisodeFileFiles lists the media files of one raw folder.
func (c *Client) ListEpisodeFileFiles(ctx context.Context, folder string) ([]models.EpisodeFile, error) {
	query := url.Values{}
	query.Set("folder", folder)
	var resp struct {
		Files []models.EpisodeFile `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, "/episode-file/files", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// AdminStats fetches the dashboard counters.
func (c *Client) AdminStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
