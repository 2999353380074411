package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/store"
)

var (
	searchCustomOnly bool
	searchJSON       bool
)

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find objects by API name or label",
		Args:  cobra.ExactArgs(1),
		Example: `  # Everything invoice-related
  orglens search invoice

  # Custom objects only
  orglens search care --custom-only`,
		RunE: runSearch,
	}

	cmd.Flags().BoolVar(&searchCustomOnly, "custom-only", false, "only match custom objects")
	cmd.Flags().BoolVar(&searchJSON, "json", false, "output JSON instead of a table")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	entries, err := ws.Store.LoadIndex()
	if err != nil {
		return fmt.Errorf("no snapshot in %s (run 'orglens sync' first)", ws.Store.Dir())
	}

	term := strings.ToLower(args[0])
	matches := make([]store.IndexEntry, 0)
	for _, e := range entries {
		if searchCustomOnly && !e.Custom {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Name), term) &&
			!strings.Contains(strings.ToLower(e.Label), term) {
			continue
		}
		matches = append(matches, e)
	}

	return output(cmd, searchJSON, matches, func(w io.Writer) error {
		if len(matches) == 0 {
			fmt.Fprintf(w, "No objects match %q.\n", args[0])
			return nil
		}

		table := ui.NewTable(w, "Name", "Label", "Custom", "Fields")
		for _, e := range matches {
			table.AddRow(e.Name, e.Label, yesNo(e.Custom), fmt.Sprintf("%d", e.FieldCount))
		}
		table.Render()
		fmt.Fprintf(w, "\n%d of %d objects match\n", len(matches), len(entries))
		return nil
	})
}
