package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/store"
)

var (
	orgsHistory      bool
	orgsHistoryLimit int
	orgsJSON         bool
)

// NewOrgsCommand creates the orgs command
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "List registered orgs and their sync history",
		Example: `  # Registered orgs
  orglens orgs

  # Recent sync runs across all orgs
  orglens orgs --history

  # History for one org only
  orglens orgs --history --org prod`,
		RunE: runOrgs,
	}

	cmd.Flags().BoolVar(&orgsHistory, "history", false, "show sync run history from the journal")
	cmd.Flags().IntVar(&orgsHistoryLimit, "limit", 20, "how many journal rows to show")
	cmd.Flags().BoolVar(&orgsJSON, "json", false, "output JSON instead of a table")

	return cmd
}

func runOrgs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	registry := store.NewRegistry(cfg.CacheDir)

	if orgsHistory {
		return runOrgsHistory(cmd, registry, cfg.Org)
	}

	orgs, err := registry.List()
	if err != nil {
		return fmt.Errorf("failed to read org registry: %w", err)
	}

	return output(cmd, orgsJSON, orgs, func(w io.Writer) error {
		if len(orgs) == 0 {
			fmt.Fprintln(w, "No orgs registered. Run 'orglens sync --org <alias>' to add one.")
			return nil
		}

		table := ui.NewTable(w, "Alias", "Instance", "Username", "Added")
		for _, org := range orgs {
			table.AddRow(org.Alias, org.InstanceURL, org.Username, org.AddedAt.Local().Format("2006-01-02"))
		}
		table.Render()
		return nil
	})
}

func runOrgsHistory(cmd *cobra.Command, registry *store.Registry, alias string) error {
	if !store.HasJournal(registry.Root()) {
		fmt.Fprintln(cmd.OutOrStdout(), "No sync history yet.")
		return nil
	}

	journal, err := store.OpenJournal(registry.Root())
	if err != nil {
		return fmt.Errorf("failed to open sync journal: %w", err)
	}
	defer journal.Close()

	runs, err := journal.History(alias, orgsHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to read sync history: %w", err)
	}

	return output(cmd, orgsJSON, runs, func(w io.Writer) error {
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sync history yet.")
			return nil
		}

		table := ui.NewTable(w, "Started", "Org", "Synced", "Failed", "Duration", "API")
		for _, run := range runs {
			alias := run.Alias
			if alias == "" {
				alias = "(default)"
			}
			table.AddRow(
				run.StartedAt.Local().Format("2006-01-02 15:04"),
				alias,
				fmt.Sprintf("%d", run.ObjectsSynced),
				fmt.Sprintf("%d", run.ObjectsFailed),
				run.Duration().Round(time.Second).String(),
				run.APIVersion,
			)
		}
		table.Render()
		return nil
	})
}
