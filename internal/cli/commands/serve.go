package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/cache"
	"github.com/orglens/orglens/internal/cli/config"
	"github.com/orglens/orglens/internal/mcp"
	"github.com/orglens/orglens/internal/store"
	"github.com/orglens/orglens/internal/watch"
	"github.com/orglens/orglens/internal/web"
)

var serveAddress string

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the snapshot API, MCP endpoint, and live schema updates",
		Long: `Run the HTTP server: a read-only JSON API over the cached snapshot,
rendered diagrams with caching, the MCP endpoint at /mcp, and a
websocket at /ws that announces snapshot changes as they land on disk.`,
		Example: `  orglens serve
  orglens serve --address 127.0.0.1:8099 --org prod`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddress, "address", "", "listen address (default from config, :7099)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddress != "" {
		cfg.Serve.Address = serveAddress
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry := store.NewRegistry(cfg.CacheDir)
	session := mcp.NewSession(registry)
	if cfg.Org != "" {
		if _, err := session.Switch(cfg.Org); err != nil {
			return err
		}
	}

	renderCache, err := buildRenderCache(cfg)
	if err != nil {
		return err
	}
	defer renderCache.Close()

	hub := watch.NewHub(logger)
	defer hub.Close()

	// Live updates are best effort: a missing snapshot dir just means no
	// change notifications until the first sync.
	_, dir := session.Current()
	if watcher, err := watch.New(dir, hub.NotifySchemaChange, logger); err != nil {
		logger.Warn("file watcher unavailable", zap.Error(err))
	} else if err := watcher.Start(); err != nil {
		logger.Warn("file watcher unavailable", zap.Error(err))
	} else {
		defer watcher.Stop()
	}

	server, err := web.New(web.Config{
		Address:     cfg.Serve.Address,
		Snapshots:   session,
		Version:     Version,
		RenderCache: renderCache,
		MCPHandler:  mcp.HTTPHandler(mcp.NewWithSession(session, Version, logger)),
		WSHandler:   http.HandlerFunc(hub.HandleWebSocket),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "orglens serving on %s\n", cfg.Serve.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildRenderCache picks Redis when configured, falling back to process
// memory.
func buildRenderCache(cfg *config.Config) (cache.Cache, error) {
	cacheCfg := cache.DefaultConfig()
	if cfg.Redis.TTL > 0 {
		cacheCfg.DefaultTTL = cfg.Redis.TTL
	}

	if cfg.Redis.Addr == "" {
		return cache.NewMemory(cacheCfg), nil
	}

	redisCache, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return redisCache, nil
}
