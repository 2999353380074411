package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
)

var listJSON bool

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every object in the cached snapshot",
		Example: `  # All cached objects
  orglens list

  # Machine-readable
  orglens list --json`,
		RunE: runList,
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "output JSON instead of a table")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	entries, err := ws.Store.LoadIndex()
	if err != nil {
		return fmt.Errorf("no snapshot in %s (run 'orglens sync' first)", ws.Store.Dir())
	}

	return output(cmd, listJSON, entries, func(w io.Writer) error {
		table := ui.NewTable(w, "Name", "Label", "Custom", "Fields")
		for _, e := range entries {
			table.AddRow(e.Name, e.Label, yesNo(e.Custom), fmt.Sprintf("%d", e.FieldCount))
		}
		table.Render()
		fmt.Fprintf(w, "\n%d objects\n", len(entries))
		return nil
	})
}
