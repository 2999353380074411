// Package diagram renders deterministic Mermaid and PlantUML diagrams from
// subgraph data. Both grammars share one field-selection policy; rendering
// is a pure function of its inputs.
package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orglens/orglens/internal/graph"
	"github.com/orglens/orglens/internal/schema"
)

// Format selects the output grammar.
type Format string

const (
	FormatMermaid  Format = "mermaid"
	FormatPlantUML Format = "plantuml"
)

// ParseFormat validates a format string from a CLI flag or tool input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMermaid, FormatPlantUML:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid format %q (want mermaid or plantuml)", s)
}

// FieldFilter selects which fields are considered for an entity block.
type FieldFilter string

const (
	FilterAll           FieldFilter = "all"
	FilterRequired      FieldFilter = "required"
	FilterRelationships FieldFilter = "relationships"
)

// ParseFieldFilter validates a field filter string.
func ParseFieldFilter(s string) (FieldFilter, error) {
	switch FieldFilter(s) {
	case FilterAll, FilterRequired, FilterRelationships:
		return FieldFilter(s), nil
	}
	return "", fmt.Errorf("invalid field filter %q (want all, required, or relationships)", s)
}

// Options control one render call.
type Options struct {
	IncludeFields bool
	FieldFilter   FieldFilter
	MaxFields     int
	Format        Format
}

// DefaultOptions returns the standard render settings: relationship fields
// only, capped at twenty per entity, Mermaid output.
func DefaultOptions() Options {
	return Options{
		IncludeFields: true,
		FieldFilter:   FilterRelationships,
		MaxFields:     20,
		Format:        FormatMermaid,
	}
}

// Generate renders an ER diagram from pre-collected subgraph data.
func Generate(entities map[string]*schema.Entity, edges []graph.Edge, opts Options) string {
	if opts.Format == FormatPlantUML {
		return renderPlantUML(entities, edges, opts)
	}
	return renderMermaid(entities, edges, opts)
}

// safeID converts an API name to an identifier both grammars accept. The
// replacements run in sequence, matching left to right.
func safeID(name string) string {
	s := strings.ReplaceAll(name, "__c", "_c")
	s = strings.ReplaceAll(s, "__", "_")
	return strings.ReplaceAll(s, "-", "_")
}

func sortedNames(entities map[string]*schema.Entity) []string {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// labelFor resolves a display label for an edge endpoint that may not be in
// the rendered entity set.
func labelFor(entities map[string]*schema.Entity, name string) string {
	if e, ok := entities[name]; ok && e != nil {
		return e.DisplayLabel()
	}
	return name
}

type edgePairKey struct {
	low, high, field string
}

// pairKey folds an edge to its unordered endpoint pair plus field name, the
// unit of deduplication for relationship lines.
func pairKey(e graph.Edge) edgePairKey {
	if e.Source <= e.Target {
		return edgePairKey{e.Source, e.Target, e.Field}
	}
	return edgePairKey{e.Target, e.Source, e.Field}
}
