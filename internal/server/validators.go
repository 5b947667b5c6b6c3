// file: internal/server/validators.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
)

// parseID reads the :id path parameter. A response has already been written
// when ok is false.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		RespondWithBadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return nil, strconv.ErrSyntax
	}
	return &value, nil
}

// parseListQuery reads the shared listing parameters: page, quantity,
// orderColumn, orderBy, search plus the entity filters. The orderColumn
// whitelist differs per entity, so callers pass their own.
func parseListQuery(c *gin.Context, orderColumns []string) (models.ListQuery, bool) {
	q := models.ListQuery{
		OrderColumn: strings.TrimSpace(c.Query("orderColumn")),
		Search:      strings.TrimSpace(c.Query("search")),
	}

	reasons := []string{}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			reasons = append(reasons, "page must be a positive integer")
		} else {
			q.Page = page
		}
	}

	if raw := c.Query("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil || !models.ValidQuantity(quantity) {
			reasons = append(reasons, "quantity must be one of 5, 10, 15, 20, 25, 50")
		} else {
			q.Quantity = quantity
		}
	}

	if raw := c.Query("orderBy"); raw != "" {
		orderBy := models.OrderBy(strings.ToLower(raw))
		if !models.ValidOrderBy(orderBy) {
			reasons = append(reasons, "orderBy must be asc or desc")
		} else {
			q.OrderBy = orderBy
		}
	}

	if q.OrderColumn != "" && !database.ValidOrderColumn(orderColumns, q.OrderColumn) {
		reasons = append(reasons, "orderColumn "+q.OrderColumn+" is not sortable")
	}

	for name, target := range map[string]**int64{
		"seriesId":  &q.SeriesID,
		"seasonId":  &q.SeasonID,
		"episodeId": &q.EpisodeID,
		"userId":    &q.UserID,
	} {
		value, err := queryInt64(c, name)
		if err != nil {
			reasons = append(reasons, name+" must be a positive integer")
			continue
		}
		*target = value
	}

	if len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return q, false
	}

	q.Normalize()
	return q, true
}

func validateSeriesPayload(series *models.Series) []string {
	reasons := []string{}
	if strings.TrimSpace(series.MainName) == "" {
		reasons = append(reasons, "mainName is required")
	}
	return reasons
}

func validateSeasonPayload(season *models.Season, requireSeries bool) []string {
	reasons := []string{}
	if strings.TrimSpace(season.Name) == "" {
		reasons = append(reasons, "name is required")
	}
	if requireSeries && season.SeriesID < 1 {
		reasons = append(reasons, "seriesId is required")
	}
	if season.Type != "" && !models.ValidSeasonType(season.Type) {
		reasons = append(reasons, "type must be TV, MOVIE or OTHER")
	}
	if season.Position < 0 {
		reasons = append(reasons, "position cannot be negative")
	}
	return reasons
}

func validateTracks(tracks []models.Track) []string {
	reasons := []string{}
	seen := map[int]bool{}
	for _, track := range tracks {
		if strings.TrimSpace(track.Title) == "" {
			reasons = append(reasons, "track title is required")
		}
		if !models.ValidTrackType(track.Type) {
			reasons = append(reasons, "track type must be AUDIO or SUBTITLE")
		}
		if track.Index < 1 {
			reasons = append(reasons, "track index must start at 1")
		} else if seen[track.Index] {
			reasons = append(reasons, "track indexes must be unique")
		}
		seen[track.Index] = true
	}
	return reasons
}

func validateEpisodePayload(episode *models.Episode, requireSeason bool) []string {
	reasons := []string{}
	if strings.TrimSpace(episode.Name) == "" {
		reasons = append(reasons, "name is required")
	}
	if requireSeason && episode.SeasonID < 1 {
		reasons = append(reasons, "seasonId is required")
	}
	if episode.Duration < 0 {
		reasons = append(reasons, "duration cannot be negative")
	}
	if episode.Position < 0 {
		reasons = append(reasons, "position cannot be negative")
	}
	return reasons
}
