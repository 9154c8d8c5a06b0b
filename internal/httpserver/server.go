// Package httpserver serves the local web UI and its JSON API.
package httpserver

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fgeck/better-restic/internal/config"
	"github.com/fgeck/better-restic/internal/logging"
	"github.com/fgeck/better-restic/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DefaultAddr is the loopback address the UI binds to.
const DefaultAddr = "127.0.0.1:3000"

//go:embed static/index.html
var indexHTML []byte

// BackupTrigger starts background backups without waiting for them.
type BackupTrigger interface {
	Trigger(cfg models.Config, opts models.RunOptions) string
	Active() int64
}

// SnapshotLister lists repository snapshots.
type SnapshotLister interface {
	Snapshots(ctx context.Context, cfg models.ResticConfig) ([]json.RawMessage, error)
}

// Server provides the web UI and HTTP API.
type Server struct {
	addr      string
	store     *config.Store
	trigger   BackupTrigger
	snapshots SnapshotLister
	logDir    string
	logger    zerolog.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP server. logDir is fixed for the server's lifetime.
func NewServer(addr string, store *config.Store, trigger BackupTrigger, snapshots SnapshotLister, logDir string, logger zerolog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		store:     store,
		trigger:   trigger,
		snapshots: snapshots,
		logDir:    logDir,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleIndex)
	r.GET("/api/config", s.handleConfig)
	r.GET("/api/config/yaml", s.handleConfigYAML)
	r.POST("/api/config/yaml", s.handleUpdateConfigYAML)
	r.POST("/api/backup/trigger", s.handleTriggerBackup)
	r.GET("/api/logs", s.handleLogs)
	r.GET("/api/status", s.handleStatus)
	r.GET("/api/snapshots", s.handleSnapshots)

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("http server stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, config.Redact(s.store.Snapshot()))
}

func (s *Server) handleConfigYAML(c *gin.Context) {
	raw, err := s.store.ReadRaw()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read config file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read config file"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(raw))
}

func (s *Server) handleUpdateConfigYAML(c *gin.Context) {
	var req struct {
		YAML string `json:"yaml" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body or missing yaml field"})
		return
	}

	cfg, err := s.store.Update(req.YAML)
	switch {
	case errors.Is(err, config.ErrInvalidConfig):
		s.logger.Warn().Err(err).Msg("rejected configuration update")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("failed to persist configuration")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to write config file"})
		return
	}

	s.logger.Info().
		Str("repository", cfg.Restic.Repository).
		Strs("directories", cfg.Backup.Directories).
		Msg("configuration updated")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration updated successfully",
	})
}

func (s *Server) handleTriggerBackup(c *gin.Context) {
	var req struct {
		DryRun *bool `json:"dry_run"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}
	dryRun := req.DryRun != nil && *req.DryRun

	// Snapshot releases the read lock before the run is spawned.
	cfg := s.store.Snapshot()
	taskID := s.trigger.Trigger(cfg, models.RunOptions{DryRun: dryRun, Verbose: true})

	message := "Backup triggered"
	if dryRun {
		message = "Dry run backup triggered"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"dry_run": dryRun,
		"task_id": taskID,
	})
}

func (s *Server) handleLogs(c *gin.Context) {
	c.JSON(http.StatusOK, logging.List(s.logDir))
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "running",
		"uptime":         time.Since(s.startTime).Round(time.Second).String(),
		"last_backup":    "N/A",
		"active_backups": s.trigger.Active(),
	})
}

func (s *Server) handleSnapshots(c *gin.Context) {
	cfg := s.store.Snapshot()

	snapshots, err := s.snapshots.Snapshots(c.Request.Context(), cfg.Restic)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list snapshots")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}
