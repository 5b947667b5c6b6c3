// file: internal/server/server.go
// version: 2.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obodeflix/obodeflix/internal/cache"
	"github.com/obodeflix/obodeflix/internal/config"
	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/metrics"
	"github.com/obodeflix/obodeflix/internal/models"
	"github.com/obodeflix/obodeflix/internal/realtime"
	"github.com/obodeflix/obodeflix/internal/scanner"
	"github.com/obodeflix/obodeflix/internal/server/middleware"
	"github.com/obodeflix/obodeflix/internal/watcher"
)

// Server hosts the catalog REST API
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	store      database.Store
	scanner    *scanner.Scanner
	rawWatcher *watcher.Watcher
	sessionTTL time.Duration

	// listing caches for the import wizard surfaces
	folderCache *cache.Cache[[]string]
	fileCache   *cache.Cache[[]models.EpisodeFile]
	seasonCache *cache.Cache[[]models.Season]
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// GetDefaultServerConfig returns sensible defaults for the HTTP server
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         config.AppConfig.ListenAddr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new server instance backed by the given store
func NewServer(store database.Store) *Server {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.MaxRequestBodySize(1 << 20))

	metrics.Register()
	realtime.InitializeEventHub()

	server := &Server{
		router:      router,
		store:       store,
		sessionTTL:  config.AppConfig.SessionTTL,
		folderCache: cache.New[[]string](30 * time.Second),
		fileCache:   cache.New[[]models.EpisodeFile](30 * time.Second),
		seasonCache: cache.New[[]models.Season](10 * time.Second),
	}
	server.scanner = scanner.New(config.AppConfig.RawFolder, config.AppConfig.SupportedExtensions)

	server.setupRoutes()
	return server
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           cfg.Addr,
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("[INFO] Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	s.startRawFolderWatcher()
	defer s.stopRawFolderWatcher()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Heartbeat: refresh gauges and push system.status to SSE clients.
	// Stops on done rather than quit so the single buffered signal is
	// never consumed away from the main receive below.
	done := make(chan struct{})
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.publishSystemStatus()
			case <-done:
				return
			}
		}
	}()

	<-quit
	close(done)
	log.Println("[INFO] Shutting down server...")

	if realtime.GlobalHub != nil {
		realtime.GlobalHub.Broadcast(&realtime.Event{
			Type:      "system.shutdown",
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"message": "Server is shutting down",
			},
		})
		time.Sleep(500 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("[INFO] Server exited")
	return nil
}

func (s *Server) startRawFolderWatcher() {
	if config.AppConfig.RawFolder == "" {
		return
	}
	s.rawWatcher = watcher.New(config.AppConfig.SupportedExtensions, func(root string) {
		s.folderCache.InvalidateAll()
		s.fileCache.InvalidateAll()
		if realtime.GlobalHub != nil {
			realtime.GlobalHub.SendRawFolderChanged(root)
		}
	}, 0)
	if err := s.rawWatcher.Start(config.AppConfig.RawFolder); err != nil {
		log.Printf("[WARN] Raw folder watcher disabled: %v", err)
		s.rawWatcher = nil
	}
}

func (s *Server) stopRawFolderWatcher() {
	if s.rawWatcher != nil {
		s.rawWatcher.Stop()
	}
}

func (s *Server) publishSystemStatus() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	seriesCount, _ := s.store.CountSeries()
	seasonCount, _ := s.store.CountSeasons()
	episodeCount, _ := s.store.CountEpisodes()

	metrics.SetSeries(seriesCount)
	metrics.SetSeasons(seasonCount)
	metrics.SetEpisodes(episodeCount)
	metrics.SetMemoryAlloc(mem.Alloc)
	metrics.SetGoroutines(runtime.NumGoroutine())

	if realtime.GlobalHub != nil {
		realtime.GlobalHub.SendSystemStatus(map[string]interface{}{
			"series":    seriesCount,
			"seasons":   seasonCount,
			"episodes":  episodeCount,
			"goroutines": runtime.NumGoroutine(),
			"timestamp": time.Now().Unix(),
		})
	}
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/events", s.handleEvents)

	limiter := middleware.NewIPRateLimiter(600, 60)
	s.router.Use(limiter.Middleware())

	// Public browse surface. Authenticate resolves an optional session so
	// comment posting knows its author.
	public := s.router.Group("/")
	public.Use(middleware.Authenticate(s.store))
	{
		public.GET("/series/all", s.listSeries)
		public.GET("/series/:id", s.getSeries)
		public.GET("/season/all", s.listSeasons)
		public.GET("/season/:id", s.getSeason)
		public.GET("/episode/all", s.listEpisodes)
		public.GET("/episode/:id", s.getEpisode)
		public.GET("/tag/all", s.listTags)
		public.GET("/comment/all", s.listComments)

		public.POST("/user/create", s.createUser)
		public.POST("/user/login", s.login)
	}

	// Anything mutating beyond signup requires a session.
	authed := s.router.Group("/")
	authed.Use(middleware.RequireAuth(s.store))
	{
		authed.POST("/user/logout", s.logout)
		authed.GET("/user/me", s.currentUser)
		authed.POST("/comment/create", s.createComment)
		authed.DELETE("/comment/inactivate/:id", s.inactivateComment)
	}

	// Catalog administration.
	admin := s.router.Group("/")
	admin.Use(middleware.RequireAuth(s.store), middleware.RequireAdmin())
	{
		admin.POST("/series/create", s.createSeries)
		admin.PUT("/series/update/:id", s.updateSeries)
		admin.DELETE("/series/inactivate/:id", s.inactivateSeries)

		admin.POST("/season/create", s.createSeason)
		admin.PUT("/season/update/:id", s.updateSeason)
		admin.DELETE("/season/inactivate/:id", s.inactivateSeason)
		admin.PUT("/season/reorder", s.reorderSeasons)
		admin.GET("/season/no-tracks", s.listSeasonsNoTracks)

		admin.POST("/episode/create", s.createEpisode)
		admin.PUT("/episode/update/:id", s.updateEpisode)
		admin.DELETE("/episode/inactivate/:id", s.inactivateEpisode)

		admin.POST("/tag/create", s.createTag)
		admin.PUT("/tag/update/:id", s.updateTag)
		admin.DELETE("/tag/inactivate/:id", s.inactivateTag)

		admin.GET("/episode-file/folders", s.listEpisodeFileFolders)
		admin.GET("/episode-file/files", s.listEpisodeFileFiles)

		admin.GET("/user/all", s.listUsers)
		admin.GET("/admin/stats", s.adminStats)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleEvents(c *gin.Context) {
	if realtime.GlobalHub == nil {
		RespondWithInternalError(c, "event hub not initialized")
		return
	}
	realtime.GlobalHub.HandleSSE(c)
}

func (s *Server) adminStats(c *gin.Context) {
	seriesCount, err := s.store.CountSeries()
	if err != nil {
		RespondWithInternalError(c, "failed to count series")
		return
	}
	seasonCount, _ := s.store.CountSeasons()
	episodeCount, _ := s.store.CountEpisodes()
	userCount, _ := s.store.CountUsers()

	c.JSON(http.StatusOK, gin.H{
		"series":   seriesCount,
		"seasons":  seasonCount,
		"episodes": episodeCount,
		"users":    userCount,
		"sseClients": func() int {
			if realtime.GlobalHub == nil {
				return 0
			}
			return realtime.GlobalHub.GetClientCount()
		}(),
	})
}
