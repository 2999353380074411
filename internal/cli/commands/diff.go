package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/diff"
	"github.com/orglens/orglens/internal/store"
)

var (
	diffJSON           bool
	diffFailOnBreaking bool
)

// errBreakingChanges marks a diff that found breaking changes so the
// process can exit with a distinct code.
var errBreakingChanges = errors.New("breaking schema changes detected")

// NewDiffCommand creates the diff command
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two snapshots and classify the changes",
		Long: `Compare two snapshots, where each argument is a registered org alias
or a snapshot directory path. Changes are classified as breaking,
warning, or info; --fail-on-breaking makes breaking changes exit 2.`,
		Args: cobra.ExactArgs(2),
		Example: `  # Registered aliases
  orglens diff prod sandbox

  # Directories work too, handy for snapshots checked into CI
  orglens diff ./snapshots/last-release ~/.orglens/prod --fail-on-breaking`,
		RunE: runDiff,
	}

	cmd.Flags().BoolVar(&diffJSON, "json", false, "output the full diff as JSON")
	cmd.Flags().BoolVar(&diffFailOnBreaking, "fail-on-breaking", false, "exit 2 when breaking changes are found")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	registry := store.NewRegistry(cfg.CacheDir)

	oldSnap, err := requireSnapshot(store.New(resolveSnapshotArg(registry, args[0])))
	if err != nil {
		return err
	}
	newSnap, err := requireSnapshot(store.New(resolveSnapshotArg(registry, args[1])))
	if err != nil {
		return err
	}

	result := diff.Compare(oldSnap, newSnap)

	if diffJSON {
		if err := (JSONFormatter{Value: result}).Format(cmd.OutOrStdout()); err != nil {
			return err
		}
	} else if result.Empty() {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
	} else {
		fmt.Fprint(cmd.OutOrStdout(), result.ColorReport())
	}

	if diffFailOnBreaking && result.HasBreakingChanges() {
		return errBreakingChanges
	}
	return nil
}

// resolveSnapshotArg treats an existing directory as a snapshot path and
// anything else as a registry alias.
func resolveSnapshotArg(registry *store.Registry, arg string) string {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return arg
	}
	return registry.Resolve(arg)
}
