package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/store"
)

var metaJSON bool

// NewMetaCommand creates the meta command
func NewMetaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show when and how the active snapshot was synced",
		Example: `  orglens meta
  orglens meta --org sandbox --json`,
		RunE: runMeta,
	}

	cmd.Flags().BoolVar(&metaJSON, "json", false, "output JSON instead of a key/value block")

	return cmd
}

func runMeta(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	meta, err := ws.Store.LoadMeta()
	if err != nil {
		return fmt.Errorf("no snapshot metadata in %s (run 'orglens sync' first)", ws.Store.Dir())
	}

	return output(cmd, metaJSON, meta, func(w io.Writer) error {
		kv := ui.NewKeyValue(w)
		if ws.Alias != "" {
			kv.Add("Org", ws.Alias)
		}
		if meta.InstanceURL != "" {
			kv.Add("Instance", meta.InstanceURL)
		}
		kv.Add("Synced at", fmt.Sprintf("%s (%s ago)",
			meta.SyncedAt.Local().Format("2006-01-02 15:04:05"),
			time.Since(meta.SyncedAt).Round(time.Minute)))
		kv.Add("API version", meta.APIVersion)
		kv.Add("Objects", fmt.Sprintf("%d synced, %d failed", meta.ObjectsSynced, meta.ObjectsFailed))
		kv.Add("Run ID", meta.RunID)
		kv.Render()

		if ws.Store.IsStale(store.DefaultMaxAge) {
			color.New(color.FgYellow).Fprintf(w, "\nSnapshot is more than 24h old; consider running 'orglens sync'.\n")
		}
		return nil
	})
}
