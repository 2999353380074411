package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/diagram"
)

var (
	hierarchyMaxLevels int
	hierarchyFormat    string
	hierarchyOutput    string
)

// NewHierarchyCommand creates the hierarchy command
func NewHierarchyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy <object>",
		Short: "Diagram an object's self-referencing parent/child structure",
		Long: `Render the roll-up structure of an object that references itself,
such as Account.ParentId or a custom object with a Parent__c lookup.
Objects without a self-referencing lookup have no hierarchy; use er
instead.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Account parent chains
  orglens hierarchy Account

  # Deeper tree in PlantUML
  orglens hierarchy CarePlan__c --max-levels 8 --format plantuml`,
		RunE: runHierarchy,
	}

	cmd.Flags().IntVar(&hierarchyMaxLevels, "max-levels", 5, "levels of nesting to illustrate")
	cmd.Flags().StringVar(&hierarchyFormat, "format", "mermaid", "diagram format: mermaid or plantuml")
	cmd.Flags().StringVarP(&hierarchyOutput, "output", "o", "", "write the diagram to a file instead of stdout")

	return cmd
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	format, err := diagram.ParseFormat(hierarchyFormat)
	if err != nil {
		return err
	}
	if hierarchyMaxLevels < 1 {
		return fmt.Errorf("max-levels must be at least 1")
	}

	snap, err := requireSnapshot(ws.Store)
	if err != nil {
		return err
	}

	name, ok := snap.Canonical(args[0])
	if !ok {
		return ui.UnknownObject(args[0], snap.Names())
	}

	text := diagram.Hierarchy(name, snap, hierarchyMaxLevels, format)
	return writeDiagram(cmd, hierarchyOutput, text)
}
