package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/mcp"
	"github.com/orglens/orglens/internal/store"
)

// NewMCPCommand creates the mcp command
func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tool interface over stdio",
		Long: `Run the MCP server on stdin/stdout for agent clients. The schema
tools read the local snapshot cache; logs go to stderr so the protocol
owns stdout.`,
		Example: `  orglens mcp
  orglens mcp --org prod --cache-dir /var/lib/orglens`,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	session := mcp.NewSession(store.NewRegistry(cfg.CacheDir))
	if cfg.Org != "" {
		if _, err := session.Switch(cfg.Org); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcp.RunStdio(ctx, mcp.NewWithSession(session, Version, logger))
}
