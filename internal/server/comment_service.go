// file: internal/server/comment_service.go
// version: 2.0.0
// guid: 2e3f4a5b-6c7d-8e9f-0a1b-2c3d4e5f6a70

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/models"
	"github.com/obodeflix/obodeflix/internal/realtime"
	"github.com/obodeflix/obodeflix/internal/server/middleware"
)

type commentPayload struct {
	ParentID  *int64 `json:"parentId"`
	SeriesID  *int64 `json:"seriesId"`
	EpisodeID *int64 `json:"episodeId"`
	Body      string `json:"body"`
}

func (s *Server) listComments(c *gin.Context) {
	q, ok := parseListQuery(c, database.CommentOrderColumns)
	if !ok {
		return
	}
	page, err := s.store.ListComments(q)
	if err != nil {
		RespondWithInternalError(c, "failed to list comments")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) createComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondWithUnauthorized(c, "authentication required")
		return
	}

	var payload commentPayload
	if HandleBindError(c, c.ShouldBindJSON(&payload)) {
		return
	}

	comment := &models.Comment{
		UserID:    user.ID,
		ParentID:  payload.ParentID,
		SeriesID:  payload.SeriesID,
		EpisodeID: payload.EpisodeID,
		Body:      strings.TrimSpace(payload.Body),
	}

	reasons := []string{}
	if comment.Body == "" {
		reasons = append(reasons, "body is required")
	}
	if comment.ReferenceCount() != 1 {
		reasons = append(reasons, "comment must reference exactly one of parentId, seriesId or episodeId")
	}
	if len(reasons) > 0 {
		RespondWithBadRequest(c, reasons...)
		return
	}

	// The referenced target must exist and be active.
	switch {
	case comment.ParentID != nil:
		parent, err := s.store.GetCommentByID(*comment.ParentID)
		if err != nil {
			RespondWithInternalError(c, "failed to resolve parent comment")
			return
		}
		if parent == nil {
			RespondWithBadRequest(c, "parent comment not found")
			return
		}
		// One level of nesting only: a reply attaches to the thread root.
		if parent.ParentID != nil {
			comment.ParentID = parent.ParentID
		}
	case comment.SeriesID != nil:
		series, err := s.store.GetSeriesByID(*comment.SeriesID)
		if err != nil {
			RespondWithInternalError(c, "failed to resolve series")
			return
		}
		if series == nil {
			RespondWithBadRequest(c, "series not found")
			return
		}
	case comment.EpisodeID != nil:
		episode, err := s.store.GetEpisodeByID(*comment.EpisodeID)
		if err != nil {
			RespondWithInternalError(c, "failed to resolve episode")
			return
		}
		if episode == nil {
			RespondWithBadRequest(c, "episode not found")
			return
		}
	}

	created, err := s.store.CreateComment(comment)
	if err != nil {
		RespondWithInternalError(c, "failed to create comment")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("comment", "create", created.ID)
	c.JSON(http.StatusCreated, created)
}

// inactivateComment lets a user remove their own comment; admins can remove
// anyone's.
func (s *Server) inactivateComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondWithUnauthorized(c, "authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	comment, err := s.store.GetCommentByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load comment")
		return
	}
	if comment == nil {
		RespondWithNotFound(c, "comment")
		return
	}
	if comment.UserID != user.ID && user.Type != models.UserAdmin {
		RespondWithForbidden(c, "cannot remove another user's comment")
		return
	}

	if err := s.store.InactivateComment(id); err != nil {
		RespondWithInternalError(c, "failed to inactivate comment")
		return
	}

	realtime.GlobalHub.SendCatalogChanged("comment", "inactivate", id)
	c.Status(http.StatusNoContent)
}
