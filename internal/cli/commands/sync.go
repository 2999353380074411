package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/sfdc"
	"github.com/orglens/orglens/internal/store"
	"github.com/orglens/orglens/internal/sync"
)

var (
	syncObjects     []string
	syncJWTClientID string
	syncJWTUsername string
	syncJWTLoginURL string
	syncJWTKeyFile  string
)

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull object schemas from a Salesforce org into the local cache",
		Long: `Describe every queryable object in an org (or an explicit list) and
write the normalized schema into the snapshot cache.

Authentication is tried in order: the JWT bearer flow when --jwt-* flags
are given, then the SF_INSTANCE_URL/SF_ACCESS_TOKEN environment
variables, then the sf CLI's stored credentials.`,
		Example: `  # Sync the sf CLI's default org into the cache root
  orglens sync

  # Sync into a registered alias
  orglens sync --org prod

  # Just a few objects
  orglens sync --objects Account,Contact,Invoice__c

  # Headless auth through a connected app
  orglens sync --org ci --jwt-client-id $CLIENT_ID \
    --jwt-username ci@example.com --jwt-key-file server.key`,
		RunE: runSync,
	}

	cmd.Flags().StringSliceVar(&syncObjects, "objects", nil, "comma-separated object names to sync (default: all queryable)")
	cmd.Flags().StringVar(&syncJWTClientID, "jwt-client-id", "", "connected app consumer key for JWT auth")
	cmd.Flags().StringVar(&syncJWTUsername, "jwt-username", "", "org username for JWT auth")
	cmd.Flags().StringVar(&syncJWTLoginURL, "jwt-login-url", "https://login.salesforce.com", "token endpoint host for JWT auth")
	cmd.Flags().StringVar(&syncJWTKeyFile, "jwt-key-file", "", "PEM private key file for JWT auth")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The alias may be brand new here, so no registry lookup or prompt:
	// an unknown alias simply becomes a new directory under the root.
	registry := store.NewRegistry(cfg.CacheDir)
	alias := cfg.Org
	dir := registry.Root()
	if alias != "" {
		dir = registry.Resolve(alias)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	spinner := ui.NewSpinner(out, "Authenticating with the org")
	spinner.Start()

	session, err := resolveSession(ctx, alias)
	if err != nil {
		spinner.Fail("Authentication failed")
		return err
	}
	spinner.UpdateMessage(fmt.Sprintf("Fetching object list from %s", session.InstanceURL))

	engine := sync.NewEngine(sfdc.NewClient(session, cfg.APIVersion), store.New(dir), nil)
	engine.Registry = registry
	if journal, err := store.OpenJournal(cfg.CacheDir); err == nil {
		engine.Journal = journal
		defer journal.Close()
	}

	var bar *ui.ProgressBar
	engine.Progress = func(done, total int, name string, err error) {
		if bar == nil {
			spinner.Stop()
			bar = ui.NewProgressBar(out, total, "Syncing")
		}
		bar.Add(1)
	}

	result, err := engine.Run(ctx, sync.Options{Alias: alias, Objects: syncObjects})
	if err != nil {
		spinner.Fail("Sync failed")
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	color.New(color.FgGreen, color.Bold).Fprintf(out, "✓ Synced %d/%d objects in %s\n",
		result.Synced, result.Total, result.Duration.Round(time.Second))

	if len(result.Failed) > 0 {
		yellow := color.New(color.FgYellow)
		yellow.Fprintf(out, "⚠ %d objects failed to describe:\n", len(result.Failed))
		for i, name := range result.Failed {
			if i == 10 {
				yellow.Fprintf(out, "  ... and %d more\n", len(result.Failed)-i)
				break
			}
			yellow.Fprintf(out, "  %s\n", name)
		}
	}

	return nil
}

// resolveSession picks an auth path: explicit JWT flags, then the
// environment, then the sf CLI.
func resolveSession(ctx context.Context, alias string) (*sfdc.Session, error) {
	if syncJWTClientID != "" || syncJWTKeyFile != "" {
		if syncJWTKeyFile == "" {
			return nil, fmt.Errorf("jwt auth requires --jwt-key-file")
		}
		key, err := os.ReadFile(syncJWTKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read jwt key file: %w", err)
		}
		return sfdc.SessionFromJWT(ctx, sfdc.JWTConfig{
			ClientID:   syncJWTClientID,
			Username:   syncJWTUsername,
			LoginURL:   syncJWTLoginURL,
			PrivateKey: key,
		})
	}

	if session, ok := sfdc.SessionFromEnv(); ok {
		return session, nil
	}

	return sfdc.SessionFromCLI(ctx, alias)
}
