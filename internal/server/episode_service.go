// file: internal/server/episode_service.go
// version: 2.0.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e60

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
	"github.com/obodeflix/obodeflix/internal/realtime"
)

type episodePayload struct {
	SeasonID int64  `json:"seasonId"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

func (p *episodePayload) toModel() *models.Episode {
	return &models.Episode{
		SeasonID: p.SeasonID,
		Name:     p.Name,
		Duration: p.Duration,
		Path:     p.Path,
		Position: p.Position,
	}
}

func (s *Server) listEpisodes(c *gin.Context) {
	q, ok := parseListQuery(c, database.EpisodeOrderColumns)
	if !ok {
		return
	}
	page, err := s.store.ListEpisodes(q)
	if err != nil {
		RespondWithInternalError(c, "failed to list episodes")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getEpisode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	episode, err := s.store.GetEpisodeByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load episode")
		return
	}
	if episode == nil {
		RespondWithNotFound(c, "episode")
		return
	}
	c.JSON(http.StatusOK, episode)
}

func (s *Server) createEpisode(c *gin.Context) {
	var payload episodePayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	episode := payload.toModel()
	if reasons := validateEpisodePayload(episode, true); len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	parent, err := s.store.GetSeasonByID(episode.SeasonID)
	if err != nil {
		RespondWithInternalError(c, "failed to resolve season")
		return
	}
	if parent == nil {
		RespondWithBadRequest(c, "season "+strconv.FormatInt(episode.SeasonID, 10)+" not found")
		return
	}

	created, err := s.store.CreateEpisode(episode)
	if err != nil {
		RespondWithInternalError(c, "failed to create episode")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("episode", "create", created.ID)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateEpisode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload episodePayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	episode := payload.toModel()
	if reasons := validateEpisodePayload(episode, false); len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	updated, err := s.store.UpdateEpisode(id, episode)
	if err != nil {
		RespondWithInternalError(c, "failed to update episode")
		return
	}
	if updated == nil {
		RespondWithNotFound(c, "episode")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("episode", "update", id)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) inactivateEpisode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	episode, err := s.store.GetEpisodeByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load episode")
		return
	}
	if episode == nil {
		RespondWithNotFound(c, "episode")
		return
	}
	if err := s.store.InactivateEpisode(id); err != nil {
		RespondWithInternalError(c, "failed to inactivate episode")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("episode", "inactivate", id)
	c.Status(http.StatusNoContent)
}
