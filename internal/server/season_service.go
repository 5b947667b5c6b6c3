// file: internal/server/season_service.go
// version: 2.0.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d4e

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
	"github.com/obodeflix/obodeflix/internal/realtime"
)

// seasonPayload is the create/update body. Tracks, when present, replaces
// the season's track list wholesale — the admin form always submits the
// full ordered set.
type seasonPayload struct {
	SeriesID              int64              `json:"seriesId"`
	Name                  string             `json:"name"`
	Description           string             `json:"description"`
	Type                  models.SeasonType  `json:"type"`
	Position              int                `json:"position"`
	ImageAddress          string             `json:"imageAddress"`
	ExcludeFromMostRecent bool               `json:"excludeFromMostRecent"`
	Tracks                []models.Track     `json:"tracks"`
}

func (p *seasonPayload) toModel() *models.Season {
	seasonType := p.Type
	if seasonType == "" {
		seasonType = models.SeasonTV
	}
	return &models.Season{
		SeriesID:              p.SeriesID,
		Name:                  p.Name,
		Description:           p.Description,
		Type:                  seasonType,
		Position:              p.Position,
		ImageAddress:          p.ImageAddress,
		ExcludeFromMostRecent: p.ExcludeFromMostRecent,
	}
}

func (s *Server) listSeasons(c *gin.Context) {
	q, ok := parseListQuery(c, database.SeasonOrderColumns)
	if !ok {
		return
	}
	page, err := s.store.ListSeasons(q, true)
	if err != nil {
		RespondWithInternalError(c, "failed to list seasons")
		return
	}
	c.JSON(http.StatusOK, page)
}

// listSeasonsNoTracks serves the import wizard's season picker: every season
// without its track list, cached briefly because the wizard polls it.
func (s *Server) listSeasonsNoTracks(c *gin.Context) {
	seasons, err := s.seasonCache.GetOrFill("no-tracks", func() ([]models.Season, error) {
		page, err := s.store.ListSeasons(models.ListQuery{Page: 1, Quantity: 50, OrderColumn: "name"}, false)
		if err != nil {
			return nil, err
		}
		all := page.Data
		for page.CurrentPage < page.LastPage {
			page, err = s.store.ListSeasons(models.ListQuery{
				Page: page.CurrentPage + 1, Quantity: 50, OrderColumn: "name",
			}, false)
			if err != nil {
				return nil, err
			}
			all = append(all, page.Data...)
		}
		return all, nil
	})
	if err != nil {
		RespondWithInternalError(c, "failed to list seasons")
		return
	}
	c.JSON(http.StatusOK, seasons)
}

func (s *Server) getSeason(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	season, err := s.store.GetSeasonByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load season")
		return
	}
	if season == nil {
		RespondWithNotFound(c, "season")
		return
	}
	c.JSON(http.StatusOK, season)
}

func (s *Server) createSeason(c *gin.Context) {
	var payload seasonPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	season := payload.toModel()
	reasons := validateSeasonPayload(season, true)
	reasons = append(reasons, validateTracks(payload.Tracks)...)
	if len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	parent, err := s.store.GetSeriesByID(season.SeriesID)
	if err != nil {
		RespondWithInternalError(c, "failed to resolve series")
		return
	}
	if parent == nil {
		RespondWithBadRequest(c, "series "+strconv.FormatInt(season.SeriesID, 10)+" not found")
		return
	}

	created, err := s.store.CreateSeason(season)
	if err != nil {
		RespondWithInternalError(c, "failed to create season")
		return
	}
	if len(payload.Tracks) > 0 {
		tracks, err := s.store.ReplaceSeasonTracks(created.ID, payload.Tracks)
		if err != nil {
			RespondWithInternalError(c, "failed to save tracks")
			return
		}
		created.Tracks = tracks
	}

	s.seasonCache.InvalidateAll()
	realtime.GlobalHub.SendCatalogChanged("season", "create", created.ID)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateSeason(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload seasonPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	season := payload.toModel()
	reasons := validateSeasonPayload(season, false)
	reasons = append(reasons, validateTracks(payload.Tracks)...)
	if len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	updated, err := s.store.UpdateSeason(id, season)
	if err != nil {
		RespondWithInternalError(c, "failed to update season")
		return
	}
	if updated == nil {
		RespondWithNotFound(c, "season")
		return
	}
	if payload.Tracks != nil {
		tracks, err := s.store.ReplaceSeasonTracks(id, payload.Tracks)
		if err != nil {
			RespondWithInternalError(c, "failed to save tracks")
			return
		}
		updated.Tracks = tracks
	}

	s.seasonCache.InvalidateAll()
	realtime.GlobalHub.SendCatalogChanged("season", "update", id)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) inactivateSeason(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	season, err := s.store.GetSeasonByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load season")
		return
	}
	if season == nil {
		RespondWithNotFound(c, "season")
		return
	}
	if err := s.store.InactivateSeason(id); err != nil {
		RespondWithInternalError(c, "failed to inactivate season")
		return
	}

	s.seasonCache.InvalidateAll()
	realtime.GlobalHub.SendCatalogChanged("season", "inactivate", id)
	c.Status(http.StatusNoContent)
}

// reorderPayload carries the full new ordering for one series' seasons.
type reorderPayload struct {
	SeriesID  int64           `json:"seriesId"`
	Positions map[string]int  `json:"positions"` // season id -> 1-based position
}

func (s *Server) reorderSeasons(c *gin.Context) {
	var payload reorderPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	if payload.SeriesID < 1 {
		RespondWithBadRequest(c, "seriesId is required")
		return
	}
	if len(payload.Positions) == 0 {
		RespondWithBadRequest(c, "positions is required")
		return
	}

	positions := make(map[int64]int, len(payload.Positions))
	for rawID, position := range payload.Positions {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id < 1 || position < 1 {
			RespondWithBadRequest(c, "positions must map season ids to 1-based positions")
			return
		}
		positions[id] = position
	}

	if err := s.store.ReorderSeasons(payload.SeriesID, positions); err != nil {
		RespondWithInternalError(c, "failed to reorder seasons")
		return
	}

	s.seasonCache.InvalidateAll()
	realtime.GlobalHub.SendCatalogChanged("season", "reorder", payload.SeriesID)
	c.Status(http.StatusNoContent)
}
