package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/graph"
)

var (
	relationshipsDirection string
	relationshipsDepth     int
	relationshipsJSON      bool
)

// relationLine is one edge touching the requested object.
type relationLine struct {
	Object        string `json:"object"`
	Field         string `json:"field"`
	Kind          string `json:"kind"`
	SelfReference bool   `json:"self_reference,omitempty"`
}

// relationshipsResult is the full answer for one object.
type relationshipsResult struct {
	Object   string         `json:"object"`
	Outbound []relationLine `json:"outbound"`
	Inbound  []relationLine `json:"inbound"`
	// Related lists every object reachable within the requested depth,
	// when depth is greater than one.
	Related []string `json:"related,omitempty"`
}

// NewRelationshipsCommand creates the relationships command
func NewRelationshipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relationships <object>",
		Short: "Show lookups into and out of an object",
		Args:  cobra.ExactArgs(1),
		Example: `  # Direct lookups both ways
  orglens relationships Account

  # Everything within two hops upstream
  orglens relationships Invoice__c --direction outbound --depth 2`,
		RunE: runRelationships,
	}

	cmd.Flags().StringVar(&relationshipsDirection, "direction", "both", "traversal direction: outbound, inbound, or both")
	cmd.Flags().IntVar(&relationshipsDepth, "depth", 1, "how many relationship hops to include")
	cmd.Flags().BoolVar(&relationshipsJSON, "json", false, "output JSON instead of sections")

	return cmd
}

func runRelationships(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	direction, err := graph.ParseDirection(relationshipsDirection)
	if err != nil {
		return err
	}
	if relationshipsDepth < 1 {
		return fmt.Errorf("depth must be at least 1")
	}

	snap, err := requireSnapshot(ws.Store)
	if err != nil {
		return err
	}

	name, ok := snap.Canonical(args[0])
	if !ok {
		return ui.UnknownObject(args[0], snap.Names())
	}

	g := graph.Build(snap)
	result := relationshipsResult{Object: name, Outbound: []relationLine{}, Inbound: []relationLine{}}
	for _, edge := range g.Edges() {
		switch name {
		case edge.Source:
			result.Outbound = append(result.Outbound, relationLine{
				Object:        edge.Target,
				Field:         edge.Field,
				Kind:          string(edge.Kind),
				SelfReference: edge.SelfRef,
			})
		case edge.Target:
			if edge.SelfRef {
				continue // already listed as outbound
			}
			result.Inbound = append(result.Inbound, relationLine{
				Object: edge.Source,
				Field:  edge.Field,
				Kind:   string(edge.Kind),
			})
		}
	}

	if relationshipsDepth > 1 {
		reached := g.Neighbors(name, direction, relationshipsDepth)
		for related := range reached {
			result.Related = append(result.Related, related)
		}
		sort.Strings(result.Related)
	}

	return output(cmd, relationshipsJSON, result, func(w io.Writer) error {
		outbound := ui.NewSection(w, fmt.Sprintf("Outbound (%d)", len(result.Outbound)))
		for _, line := range result.Outbound {
			text := fmt.Sprintf("%s -> %s (%s)", line.Field, line.Object, line.Kind)
			if line.SelfReference {
				text += " [self]"
			}
			outbound.AddLine(text)
		}
		outbound.Render()

		inbound := ui.NewSection(w, fmt.Sprintf("Inbound (%d)", len(result.Inbound)))
		for _, line := range result.Inbound {
			inbound.AddLine(fmt.Sprintf("%s.%s (%s)", line.Object, line.Field, line.Kind))
		}
		inbound.Render()

		if len(result.Related) > 0 {
			related := ui.NewSection(w, fmt.Sprintf("Within %d hops (%s)", relationshipsDepth, direction))
			related.AddLine(strings.Join(result.Related, ", "))
			related.Render()
		}
		return nil
	})
}
