package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/diagram"
	"github.com/orglens/orglens/internal/graph"
	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/sfdc"
	"github.com/orglens/orglens/internal/store"
)

type SearchObjectsInput struct {
	Keyword    string `json:"keyword" jsonschema:"Substring matched against object names and labels, case-insensitive"`
	CustomOnly bool   `json:"custom_only,omitempty" jsonschema:"Limit results to custom objects"`
}

func (t *Tools) SearchObjects(_ context.Context, _ *mcp.CallToolRequest, input SearchObjectsInput) (*mcp.CallToolResult, any, error) {
	if input.Keyword == "" {
		return toolError("Search keyword is required"), nil, nil
	}

	index, err := t.session.Store().LoadIndex()
	if err != nil {
		return toolError("Failed to load the object index: %v", err), nil, nil
	}

	keyword := strings.ToLower(input.Keyword)
	matches := []store.IndexEntry{}
	for _, entry := range index {
		if input.CustomOnly && !entry.Custom {
			continue
		}
		if strings.Contains(strings.ToLower(entry.Name), keyword) ||
			strings.Contains(strings.ToLower(entry.Label), keyword) {
			matches = append(matches, entry)
		}
	}

	if len(matches) == 0 {
		return toolText(fmt.Sprintf("No objects match %q.", input.Keyword)), nil, nil
	}
	return toolJSON(matches)
}

type ListAllObjectsInput struct {
	CustomOnly bool `json:"custom_only,omitempty" jsonschema:"Limit the listing to custom objects"`
}

func (t *Tools) ListAllObjects(_ context.Context, _ *mcp.CallToolRequest, input ListAllObjectsInput) (*mcp.CallToolResult, any, error) {
	index, err := t.session.Store().LoadIndex()
	if err != nil {
		return toolError("Failed to load the object index: %v", err), nil, nil
	}

	entries := index
	if input.CustomOnly {
		entries = []store.IndexEntry{}
		for _, entry := range index {
			if entry.Custom {
				entries = append(entries, entry)
			}
		}
	}

	if len(entries) == 0 {
		return toolText("The active snapshot is empty. Run `orglens sync` first."), nil, nil
	}
	return toolJSON(entries)
}

type GetObjectSchemaInput struct {
	ObjectName    string `json:"object_name" jsonschema:"API name of the object, case-insensitive"`
	KeyFieldsOnly bool   `json:"key_fields_only,omitempty" jsonschema:"Return only identifying, relationship, and required fields"`
}

type schemaView struct {
	Name               string                     `json:"name"`
	Label              string                     `json:"label"`
	Custom             bool                       `json:"custom"`
	Fields             []schema.Field             `json:"fields"`
	TotalFields        int                        `json:"total_fields"`
	ChildRelationships []schema.ChildRelationship `json:"child_relationships,omitempty"`
}

func (t *Tools) GetObjectSchema(_ context.Context, _ *mcp.CallToolRequest, input GetObjectSchemaInput) (*mcp.CallToolResult, any, error) {
	if input.ObjectName == "" {
		return toolError("Object name is required"), nil, nil
	}

	entity, err := t.session.Store().LoadEntity(input.ObjectName)
	if err != nil {
		if store.IsNotFound(err) {
			return toolError("Object %q not found in the active snapshot. Try search_objects to find the right name.", input.ObjectName), nil, nil
		}
		return toolError("Failed to load object: %v", err), nil, nil
	}

	if !input.KeyFieldsOnly {
		return toolJSON(entity)
	}

	selected, _, total := diagram.SelectFields(entity, diagram.FilterRequired, 20)
	fields := make([]schema.Field, len(selected))
	for i, f := range selected {
		fields[i] = *f
	}

	return toolJSON(schemaView{
		Name:               entity.Name,
		Label:              entity.DisplayLabel(),
		Custom:             entity.Custom,
		Fields:             fields,
		TotalFields:        total,
		ChildRelationships: entity.ChildRelationships,
	})
}

type GetObjectRelationshipsInput struct {
	ObjectName string `json:"object_name" jsonschema:"API name of the object, case-insensitive"`
}

type relationView struct {
	Object        string `json:"object"`
	Field         string `json:"field"`
	Kind          string `json:"kind"`
	SelfReference bool   `json:"self_reference,omitempty"`
}

type relationshipsView struct {
	Object   string         `json:"object"`
	Outbound []relationView `json:"outbound"`
	Inbound  []relationView `json:"inbound"`
}

func (t *Tools) GetObjectRelationships(_ context.Context, _ *mcp.CallToolRequest, input GetObjectRelationshipsInput) (*mcp.CallToolResult, any, error) {
	if input.ObjectName == "" {
		return toolError("Object name is required"), nil, nil
	}

	snap, err := t.snapshot()
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	name := canonicalName(snap, input.ObjectName)
	if !snap.Contains(name) {
		return toolError("Object %q not found in the active snapshot. Try search_objects to find the right name.", input.ObjectName), nil, nil
	}

	g := graph.Build(snap)
	view := relationshipsView{Object: name, Outbound: []relationView{}, Inbound: []relationView{}}
	for _, edge := range g.Edges() {
		switch name {
		case edge.Source:
			view.Outbound = append(view.Outbound, relationView{
				Object:        edge.Target,
				Field:         edge.Field,
				Kind:          string(edge.Kind),
				SelfReference: edge.SelfRef,
			})
		case edge.Target:
			if edge.SelfRef {
				continue // already listed as outbound
			}
			view.Inbound = append(view.Inbound, relationView{
				Object: edge.Source,
				Field:  edge.Field,
				Kind:   string(edge.Kind),
			})
		}
	}

	return toolJSON(view)
}

type RefreshObjectInput struct {
	ObjectName string `json:"object_name" jsonschema:"API name of the object to re-describe from the live org"`
}

func (t *Tools) RefreshObject(ctx context.Context, _ *mcp.CallToolRequest, input RefreshObjectInput) (*mcp.CallToolResult, any, error) {
	if input.ObjectName == "" {
		return toolError("Object name is required"), nil, nil
	}

	alias, _ := t.session.Current()
	session, ok := sfdc.SessionFromEnv()
	if !ok {
		var err error
		session, err = sfdc.SessionFromCLI(ctx, alias)
		if err != nil {
			return toolError("Failed to authenticate with the org: %v", err), nil, nil
		}
	}

	st := t.session.Store()
	apiVersion := sfdc.DefaultAPIVersion
	if meta, err := st.LoadMeta(); err == nil && meta.APIVersion != "" {
		apiVersion = meta.APIVersion
	}

	client := sfdc.NewClient(session, apiVersion)
	describe, err := client.DescribeObject(ctx, input.ObjectName)
	if err != nil {
		return toolError("Failed to describe %s: %v", input.ObjectName, err), nil, nil
	}

	entity := sfdc.Normalize(describe)
	if err := st.SaveEntity(entity); err != nil {
		return toolError("Failed to save %s: %v", entity.Name, err), nil, nil
	}

	if snap, err := st.LoadSnapshot(); err == nil {
		if err := st.SaveIndex(store.BuildIndex(snap)); err != nil {
			t.logger.Warn("failed to rebuild index", zap.Error(err))
		}
	}

	t.logger.Info("refreshed object", zap.String("object", entity.Name))
	return toolText(fmt.Sprintf("Refreshed %s from %s: %d fields, %d child relationships.",
		entity.Name, session.InstanceURL, len(entity.Fields), len(entity.ChildRelationships))), nil, nil
}
