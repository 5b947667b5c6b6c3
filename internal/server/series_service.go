// file: internal/server/series_service.go
// version: 2.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
	"github.com/obodeflix/obodeflix/internal/realtime"
)

var errUnknownTag = errors.New("unknown tag id")

// seriesPayload is the create/update body. TagIDs replaces the tag set
// wholesale when present.
type seriesPayload struct {
	MainName         string  `json:"mainName"`
	AlternativeName  string  `json:"alternativeName"`
	MainNameLanguage string  `json:"mainNameLanguage"`
	Description      string  `json:"description"`
	ImageAddress     string  `json:"imageAddress"`
	TagIDs           []int64 `json:"tagIds"`
}

func (p *seriesPayload) toModel() *models.Series {
	return &models.Series{
		MainName:         p.MainName,
		AlternativeName:  p.AlternativeName,
		MainNameLanguage: p.MainNameLanguage,
		Description:      p.Description,
		ImageAddress:     p.ImageAddress,
	}
}

func (s *Server) listSeries(c *gin.Context) {
	q, ok := parseListQuery(c, database.SeriesOrderColumns)
	if !ok {
		return
	}
	page, err := s.store.ListSeries(q)
	if err != nil {
		RespondWithInternalError(c, "failed to list series")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getSeries(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	series, err := s.store.GetSeriesByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load series")
		return
	}
	if series == nil {
		RespondWithNotFound(c, "series")
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) createSeries(c *gin.Context) {
	var payload seriesPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	series := payload.toModel()
	if reasons := validateSeriesPayload(series); len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	created, err := s.store.CreateSeries(series)
	if err != nil {
		RespondWithInternalError(c, "failed to create series")
		return
	}
	if len(payload.TagIDs) > 0 {
		if err := s.setSeriesTagsChecked(c, created.ID, payload.TagIDs); err != nil {
			return
		}
	}

	realtime.GlobalHub.SendCatalogChanged("series", "create", created.ID)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateSeries(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload seriesPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	series := payload.toModel()
	if reasons := validateSeriesPayload(series); len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	updated, err := s.store.UpdateSeries(id, series)
	if err != nil {
		RespondWithInternalError(c, "failed to update series")
		return
	}
	if updated == nil {
		RespondWithNotFound(c, "series")
		return
	}
	if payload.TagIDs != nil {
		if err := s.setSeriesTagsChecked(c, id, payload.TagIDs); err != nil {
			return
		}
	}

	realtime.GlobalHub.SendCatalogChanged("series", "update", id)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) inactivateSeries(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	series, err := s.store.GetSeriesByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load series")
		return
	}
	if series == nil {
		RespondWithNotFound(c, "series")
		return
	}
	if err := s.store.InactivateSeries(id); err != nil {
		RespondWithInternalError(c, "failed to inactivate series")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("series", "inactivate", id)
	c.Status(http.StatusNoContent)
}

// setSeriesTagsChecked validates every tag id before replacing the set. A
// response has been written when it returns an error.
func (s *Server) setSeriesTagsChecked(c *gin.Context, seriesID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		tag, err := s.store.GetTagByID(tagID)
		if err != nil {
			RespondWithInternalError(c, "failed to resolve tags")
			return err
		}
		if tag == nil {
			RespondWithBadRequest(c, "unknown tag id")
			return errUnknownTag
		}
	}
	if err := s.store.SetSeriesTags(seriesID, tagIDs); err != nil {
		RespondWithInternalError(c, "failed to set series tags")
		return err
	}
	return nil
}
