package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orglens/orglens/internal/diagram"
	"github.com/orglens/orglens/internal/diff"
	"github.com/orglens/orglens/internal/graph"
	"github.com/orglens/orglens/internal/store"
)

type GenerateERDiagramInput struct {
	RootObjects   []string `json:"root_objects" jsonschema:"Root object API names to diagram, case-insensitive"`
	Depth         int      `json:"depth,omitempty" jsonschema:"Relationship hops to include around each root (default 1)"`
	Direction     string   `json:"direction,omitempty" jsonschema:"Traversal direction: outbound, inbound, or both (default both)"`
	IncludeFields *bool    `json:"include_fields,omitempty" jsonschema:"Render field rows inside entity blocks (default true)"`
	FieldFilter   string   `json:"field_filter,omitempty" jsonschema:"Which fields to render: all, required, or relationships (default relationships)"`
	MaxFields     int      `json:"max_fields,omitempty" jsonschema:"Field rows per entity before truncation (default 20)"`
	Format        string   `json:"format,omitempty" jsonschema:"Output format: mermaid or plantuml (default mermaid)"`
}

func (t *Tools) GenerateERDiagram(_ context.Context, _ *mcp.CallToolRequest, input GenerateERDiagramInput) (*mcp.CallToolResult, any, error) {
	if len(input.RootObjects) == 0 {
		return toolError("At least one root object name is required"), nil, nil
	}

	opts := diagram.DefaultOptions()
	if input.Direction == "" {
		input.Direction = string(graph.DirectionBoth)
	}
	direction, err := graph.ParseDirection(input.Direction)
	if err != nil {
		return toolError("%v", err), nil, nil
	}
	if input.Format != "" {
		if opts.Format, err = diagram.ParseFormat(input.Format); err != nil {
			return toolError("%v", err), nil, nil
		}
	}
	if input.FieldFilter != "" {
		if opts.FieldFilter, err = diagram.ParseFieldFilter(input.FieldFilter); err != nil {
			return toolError("%v", err), nil, nil
		}
	}
	if input.IncludeFields != nil {
		opts.IncludeFields = *input.IncludeFields
	}
	if input.MaxFields > 0 {
		opts.MaxFields = input.MaxFields
	}
	depth := input.Depth
	if depth <= 0 {
		depth = 1
	}

	snap, err := t.snapshot()
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	roots := make([]string, 0, len(input.RootObjects))
	for _, name := range input.RootObjects {
		roots = append(roots, canonicalName(snap, name))
	}

	entities, edges := graph.Build(snap).Subgraph(roots, depth, direction)
	if len(entities) == 0 {
		return toolText("No objects found. Check names with search_objects."), nil, nil
	}

	rendered := diagram.Generate(entities, edges, opts)
	return toolText(fmt.Sprintf("Objects: %d | Edges: %d\n\n```%s\n%s\n```",
		len(entities), len(edges), opts.Format, rendered)), nil, nil
}

type GenerateHierarchyDiagramInput struct {
	ObjectName string `json:"object_name" jsonschema:"API name of the self-referencing object"`
	MaxLevels  int    `json:"max_levels,omitempty" jsonschema:"Hierarchy levels to render (default 3)"`
	Format     string `json:"format,omitempty" jsonschema:"Output format: mermaid or plantuml (default mermaid)"`
}

func (t *Tools) GenerateHierarchyDiagram(_ context.Context, _ *mcp.CallToolRequest, input GenerateHierarchyDiagramInput) (*mcp.CallToolResult, any, error) {
	if input.ObjectName == "" {
		return toolError("Object name is required"), nil, nil
	}

	format := diagram.FormatMermaid
	if input.Format != "" {
		var err error
		if format, err = diagram.ParseFormat(input.Format); err != nil {
			return toolError("%v", err), nil, nil
		}
	}
	maxLevels := input.MaxLevels
	if maxLevels <= 0 {
		maxLevels = 3
	}

	snap, err := t.snapshot()
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	name := canonicalName(snap, input.ObjectName)
	return toolText(diagram.Hierarchy(name, snap, maxLevels, format)), nil, nil
}

type CompareSchemasInput struct {
	CacheDirA string `json:"cache_dir_a" jsonschema:"Baseline org: a registered alias or a snapshot directory path"`
	CacheDirB string `json:"cache_dir_b" jsonschema:"Org to compare against the baseline: alias or directory path"`
}

func (t *Tools) CompareSchemas(_ context.Context, _ *mcp.CallToolRequest, input CompareSchemasInput) (*mcp.CallToolResult, any, error) {
	if input.CacheDirA == "" || input.CacheDirB == "" {
		return toolError("Both cache_dir_a and cache_dir_b are required (alias or snapshot directory)"), nil, nil
	}

	oldSnap, err := store.New(t.snapshotDirFor(input.CacheDirA)).LoadSnapshot()
	if err != nil {
		return toolError("Failed to load snapshot for %q: %v", input.CacheDirA, err), nil, nil
	}
	newSnap, err := store.New(t.snapshotDirFor(input.CacheDirB)).LoadSnapshot()
	if err != nil {
		return toolError("Failed to load snapshot for %q: %v", input.CacheDirB, err), nil, nil
	}

	result := diff.Compare(oldSnap, newSnap)
	return toolText(result.TextReport()), nil, nil
}
