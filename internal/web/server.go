// Package web serves the snapshot HTTP API: entity listings, rendered
// diagrams behind a cache, a health probe, and mount points for the MCP
// streamable endpoint and the live-update websocket.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/cache"
	"github.com/orglens/orglens/internal/store"
)

// SnapshotSource yields the active org's snapshot store. Serve mode passes
// the MCP session here, so org switches made by a connected client repoint
// the HTTP API as well.
type SnapshotSource interface {
	Current() (alias, dir string)
	Store() *store.Store
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address (e.g. ":7099")
	Address string

	// Snapshots resolves the active snapshot store per request
	Snapshots SnapshotSource

	// Version is reported by the health endpoint
	Version string

	// RenderCache holds rendered diagram output; nil disables caching
	RenderCache cache.Cache

	// MCPHandler is mounted at /mcp when set
	MCPHandler http.Handler

	// WSHandler is mounted at /ws when set
	WSHandler http.Handler

	// Logger defaults to a no-op logger
	Logger *zap.Logger
}

// Server wraps an HTTP server around the snapshot API routes.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
}

// New creates a server with all routes registered.
func New(config Config) (*Server, error) {
	if config.Snapshots == nil {
		return nil, fmt.Errorf("snapshot source cannot be nil")
	}
	if config.Address == "" {
		config.Address = ":7099"
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handlers{
		snapshots: config.Snapshots,
		renders:   config.RenderCache,
		version:   config.Version,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(recoverer(logger))
	r.Use(requestLogger(logger))

	r.Get("/healthz", h.healthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/entities", h.listEntities)
		r.Get("/entities/{name}", h.getEntity)
		r.Get("/diagram", h.renderDiagram)
	})
	if config.MCPHandler != nil {
		r.Handle("/mcp", config.MCPHandler)
	}
	if config.WSHandler != nil {
		r.Handle("/ws", config.WSHandler)
	}

	// Read and write timeouts stay unset so /mcp can hold streaming
	// responses open.
	httpServer := &http.Server{
		Addr:              config.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on l until Shutdown. Like http.Server.Serve it
// always returns a non-nil error; after Shutdown that error is
// http.ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	s.listener = l
	s.logger.Info("serve mode listening", zap.String("addr", l.Addr().String()))
	return s.httpServer.Serve(l)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound network address once the server is started, and
// the configured address before that.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
