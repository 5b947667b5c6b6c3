// file: internal/server/tag_service.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f60

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
	"github.com/obodeflix/obodeflix/internal/realtime"
)

type tagPayload struct {
	Name string `json:"name"`
}

func (s *Server) listTags(c *gin.Context) {
	q, ok := parseListQuery(c, database.TagOrderColumns)
	if !ok {
		return
	}
	page, err := s.store.ListTags(q)
	if err != nil {
		RespondWithInternalError(c, "failed to list tags")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) createTag(c *gin.Context) {
	var payload tagPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		RespondWithBadRequest(c, "name is required")
		return
	}

	existing, err := s.store.GetTagByName(name)
	if err != nil {
		RespondWithInternalError(c, "failed to check tag name")
		return
	}
	if existing != nil {
		RespondWithConflict(c, "tag already exists")
		return
	}

	created, err := s.store.CreateTag(&models.Tag{Name: name})
	if err != nil {
		RespondWithInternalError(c, "failed to create tag")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("tag", "create", created.ID)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload tagPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		RespondWithBadRequest(c, "name is required")
		return
	}

	// A rename must not collide with another tag.
	existing, err := s.store.GetTagByName(name)
	if err != nil {
		RespondWithInternalError(c, "failed to check tag name")
		return
	}
	if existing != nil && existing.ID != id {
		RespondWithConflict(c, "tag already exists")
		return
	}

	updated, err := s.store.UpdateTag(id, &models.Tag{Name: name})
	if err != nil {
		RespondWithInternalError(c, "failed to update tag")
		return
	}
	if updated == nil {
		RespondWithNotFound(c, "tag")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("tag", "update", id)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) inactivateTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tag, err := s.store.GetTagByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load tag")
		return
	}
	if tag == nil {
		RespondWithNotFound(c, "tag")
		return
	}
	if err := s.store.InactivateTag(id); err != nil {
		RespondWithInternalError(c, "failed to inactivate tag")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("tag", "inactivate", id)
	c.Status(http.StatusNoContent)
}
