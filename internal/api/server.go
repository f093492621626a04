// Package api wires the HTTP surface: echo server, middleware chain and
// route registration for the catalog and spin endpoints.
package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spinwheel/spinwheel/internal/config"
	"github.com/spinwheel/spinwheel/internal/library"
	"github.com/spinwheel/spinwheel/internal/websocket"
	"github.com/spinwheel/spinwheel/internal/wheel"
)

// Server handles HTTP requests for the spinwheel API.
type Server struct {
	echo      *echo.Echo
	db        *sql.DB
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	libraryService *library.Service
}

// NewServer creates a new API server instance.
func NewServer(db *sql.DB, hub *websocket.Hub, cfg *config.Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		db:        db,
		hub:       hub,
		logger:    logger,
		cfg:       cfg,
		startTime: time.Now(),
	}

	picker := wheel.NewPicker(nil)
	s.libraryService = library.NewService(db, hub, picker, logger)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Server.Address())
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// LibraryService returns the library service, shared with background tasks.
func (s *Server) LibraryService() *library.Service {
	return s.libraryService
}

// healthCheck reports service liveness.
// GET /health
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getStatus reports version, uptime and catalog counts.
// GET /api/v1/status
func (s *Server) getStatus(c echo.Context) error {
	stats, err := s.libraryService.Statistics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":   config.Version,
		"startTime": s.startTime.Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).String(),
		"itemCount": stats.Total,
		"wsClients": s.hub.ClientCount(),
	})
}
