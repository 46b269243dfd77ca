package api

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/papercomputeco/nexus/api/mcp"
	"github.com/papercomputeco/nexus/pkg/engine"
	"github.com/papercomputeco/nexus/pkg/navigator"
)

const (
	defaultPageSize        = navigator.DefaultPageSize
	defaultInsightPageSize = 20

	minPruneInterval = time.Second
)

// Server is the API server for querying the knowledge graph
type Server struct {
	config   Config
	engine   *engine.Engine
	sessions *navigator.Registry
	logger   *slog.Logger
	app      *fiber.App

	stop     chan struct{}
	stopOnce sync.Once
}

// NewServer creates a new API server over the engine. The engine is shared
// with the snapshot watcher so reloads become visible to every request.
func NewServer(config Config, eng *engine.Engine, logger *slog.Logger) (*Server, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if config.PageSize <= 0 {
		config.PageSize = defaultPageSize
	}
	if config.InsightPageSize <= 0 {
		config.InsightPageSize = defaultInsightPageSize
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	s := &Server{
		config:   config,
		engine:   eng,
		sessions: navigator.NewRegistry(eng.Navigator()),
		logger:   logger,
		app:      app,
		stop:     make(chan struct{}),
	}

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")
	v1.Get("/stats", s.handleStats)
	v1.Get("/types", s.handleTypes)
	v1.Get("/types/:type/nodes", s.handleListNodes)
	v1.Get("/nodes/:id", s.handleGetNode)
	v1.Get("/trace/:id", s.handleTrace)
	v1.Get("/insights", s.handleListInsights)
	v1.Get("/insights/by-concept", s.handleFindInsights)
	v1.Get("/insights/:id", s.handleGetInsight)
	v1.Get("/graph/view", s.handleView)
	v1.Get("/graph/metadata", s.handleMetadata)
	v1.Get("/snapshot", s.handleSnapshotStatus)
	v1.Post("/snapshot/reload", s.handleReload)
	if config.Events != nil {
		v1.Get("/events", s.handleEvents)
	}

	v1.Post("/sessions", s.handleCreateSession)
	v1.Get("/sessions/:sid", s.handleGetSession)
	v1.Post("/sessions/:sid/get/:id", s.handleSessionGet)
	v1.Post("/sessions/:sid/select/:n", s.handleSessionSelect)
	v1.Post("/sessions/:sid/back", s.handleSessionBack)
	v1.Post("/sessions/:sid/reset", s.handleSessionReset)
	v1.Delete("/sessions/:sid", s.handleDeleteSession)

	if !config.DisableMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Engine:   eng,
			PageSize: config.PageSize,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.starting(s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Serve runs the API server on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.starting(ln.Addr().String())
	return s.app.Listener(ln)
}

func (s *Server) starting(addr string) {
	s.logger.Info("starting API server",
		"listen", addr,
		"mcp", !s.config.DisableMCP,
		"events", s.config.Events != nil,
	)

	if s.config.SessionTTL > 0 {
		go s.pruneSessions()
	}
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.app.Shutdown()
}

// pruneSessions drops idle navigation sessions until the server shuts down.
func (s *Server) pruneSessions() {
	interval := max(s.config.SessionTTL/2, minPruneInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.sessions.Prune(s.config.SessionTTL); n > 0 {
				s.logger.Debug("pruned idle navigation sessions", "count", n)
			}
		}
	}
}
