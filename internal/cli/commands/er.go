package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/diagram"
	"github.com/orglens/orglens/internal/graph"
)

var (
	erDepth         int
	erDirection     string
	erFormat        string
	erFieldFilter   string
	erMaxFields     int
	erIncludeFields bool
	erOutput        string
)

// NewERCommand creates the er command
func NewERCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "er <object>...",
		Short: "Generate an ER diagram around one or more objects",
		Args:  cobra.MinimumNArgs(1),
		Example: `  # Account and its direct neighbors
  orglens er Account

  # Two hops out, relationship fields only
  orglens er Account Contact --depth 2

  # Full field lists in PlantUML, written to a file
  orglens er Invoice__c --field-filter all --format plantuml --output invoice.puml`,
		RunE: runER,
	}

	cmd.Flags().IntVar(&erDepth, "depth", 1, "how many relationship hops to include around each root")
	cmd.Flags().StringVar(&erDirection, "direction", "both", "traversal direction: outbound, inbound, or both")
	cmd.Flags().StringVar(&erFormat, "format", "mermaid", "diagram format: mermaid or plantuml")
	cmd.Flags().StringVar(&erFieldFilter, "field-filter", "relationships", "fields to show: all, required, or relationships")
	cmd.Flags().IntVar(&erMaxFields, "max-fields", 20, "field rows per entity before truncation")
	cmd.Flags().BoolVar(&erIncludeFields, "include-fields", true, "render field rows inside each entity")
	cmd.Flags().StringVarP(&erOutput, "output", "o", "", "write the diagram to a file instead of stdout")

	return cmd
}

func runER(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	direction, err := graph.ParseDirection(erDirection)
	if err != nil {
		return err
	}
	format, err := diagram.ParseFormat(erFormat)
	if err != nil {
		return err
	}
	filter, err := diagram.ParseFieldFilter(erFieldFilter)
	if err != nil {
		return err
	}
	if erDepth < 0 {
		return fmt.Errorf("depth cannot be negative")
	}
	if erMaxFields < 1 {
		return fmt.Errorf("max-fields must be at least 1")
	}

	snap, err := requireSnapshot(ws.Store)
	if err != nil {
		return err
	}

	roots := make([]string, len(args))
	for i, arg := range args {
		name, ok := snap.Canonical(arg)
		if !ok {
			return ui.UnknownObject(arg, snap.Names())
		}
		roots[i] = name
	}

	g := graph.Build(snap)
	entities, edges := g.Subgraph(roots, erDepth, direction)
	if len(entities) == 0 {
		return fmt.Errorf("none of the requested objects appear in the relationship graph")
	}

	text := diagram.Generate(entities, edges, diagram.Options{
		IncludeFields: erIncludeFields,
		FieldFilter:   filter,
		MaxFields:     erMaxFields,
		Format:        format,
	})

	return writeDiagram(cmd, erOutput, text)
}
