// file: internal/server/episode_file_service.go
// version: 2.0.0
// guid: 4a5b6c7d-8e9f-0a1b-2c3d-4e5f6a7b8c90

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obodeflix/obodeflix/internal/config"
	"github.com/obodeflix/obodeflix/internal/models"
)

// listEpisodeFileFolders serves the first page of the import wizard: every
// folder under the raw media root. Listings are cached and invalidated by
// the filesystem watcher.
func (s *Server) listEpisodeFileFolders(c *gin.Context) {
	if config.AppConfig.RawFolder == "" {
		RespondWithBadRequest(c, "raw folder is not configured")
		return
	}

	folders, err := s.folderCache.GetOrFill("folders", s.scanner.Folders)
	if err != nil {
		RespondWithInternalError(c, "failed to list folders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// listEpisodeFileFiles lists importable media inside one folder, each probed
// for duration where the container allows it.
func (s *Server) listEpisodeFileFiles(c *gin.Context) {
	if config.AppConfig.RawFolder == "" {
		RespondWithBadRequest(c, "raw folder is not configured")
		return
	}

	folder := c.Query("folder")
	files, err := s.fileCache.GetOrFill("files:"+folder, func() ([]models.EpisodeFile, error) {
		return s.scanner.Files(folder)
	})
	if err != nil {
		RespondWithBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}
