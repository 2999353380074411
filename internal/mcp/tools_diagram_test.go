package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/store"
)

func TestGenerateERDiagram(t *testing.T) {
	tools, _ := newTestTools(t)

	res, _, err := tools.GenerateERDiagram(context.Background(), nil, GenerateERDiagramInput{
		RootObjects: []string{"account"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	out := resultText(t, res)
	assert.Contains(t, out, "Objects: 3 | Edges: 3")
	assert.Contains(t, out, "```mermaid\nerDiagram")
	assert.Contains(t, out, "Account {")
	assert.Contains(t, out, "Contact {")
	assert.Contains(t, out, "Invoice_c {")
	assert.Contains(t, out, `Contact ||--o{ Account : "AccountId"`)
	assert.Contains(t, out, `Invoice_c ||--|{ Account : "Account__c"`)
	assert.Contains(t, out, "%% SELF-REF: Account.ParentId -> Account")
}

func TestGenerateERDiagramPlantUML(t *testing.T) {
	tools, _ := newTestTools(t)

	res, _, err := tools.GenerateERDiagram(context.Background(), nil, GenerateERDiagramInput{
		RootObjects: []string{"Contact"},
		Format:      "plantuml",
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "```plantuml\n@startuml")
	assert.Contains(t, out, "@enduml")
}

func TestGenerateERDiagramWithoutFields(t *testing.T) {
	tools, _ := newTestTools(t)

	includeFields := false
	res, _, err := tools.GenerateERDiagram(context.Background(), nil, GenerateERDiagramInput{
		RootObjects:   []string{"Account"},
		IncludeFields: &includeFields,
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "Account { string Id PK }")
	assert.NotContains(t, out, "ParentId")
}

func TestGenerateERDiagramSkipsUnknownRoots(t *testing.T) {
	tools, _ := newTestTools(t)

	res, _, err := tools.GenerateERDiagram(context.Background(), nil, GenerateERDiagramInput{
		RootObjects: []string{"Contact", "Bogus__c"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "Contact {")
	assert.NotContains(t, out, "Bogus")
}

func TestGenerateERDiagramNoMatches(t *testing.T) {
	tools, _ := newTestTools(t)

	res, _, err := tools.GenerateERDiagram(context.Background(), nil, GenerateERDiagramInput{
		RootObjects: []string{"Bogus__c", "Missing__c"},
	})
	require.NoError(t, err)

	// Descriptive result, not a tool error.
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "No objects found. Check names with search_objects.")
}

func TestGenerateERDiagramValidation(t *testing.T) {
	tools, _ := newTestTools(t)

	tests := []struct {
		name    string
		input   GenerateERDiagramInput
		wantMsg string
	}{
		{"no roots", GenerateERDiagramInput{}, "At least one root object"},
		{"bad direction", GenerateERDiagramInput{RootObjects: []string{"Account"}, Direction: "sideways"}, "invalid direction"},
		{"bad format", GenerateERDiagramInput{RootObjects: []string{"Account"}, Format: "ascii"}, "invalid format"},
		{"bad filter", GenerateERDiagramInput{RootObjects: []string{"Account"}, FieldFilter: "some"}, "invalid field filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := tools.GenerateERDiagram(context.Background(), nil, tt.input)
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.wantMsg)
		})
	}
}

func TestGenerateHierarchyDiagram(t *testing.T) {
	tools, _ := newTestTools(t)

	res, _, err := tools.GenerateHierarchyDiagram(context.Background(), nil, GenerateHierarchyDiagramInput{
		ObjectName: "account",
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "flowchart TD")
	assert.Contains(t, out, "ParentId")
}

func TestGenerateHierarchyDiagramNoSelfRef(t *testing.T) {
	tools, _ := newTestTools(t)

	res, _, err := tools.GenerateHierarchyDiagram(context.Background(), nil, GenerateHierarchyDiagramInput{
		ObjectName: "Contact",
	})
	require.NoError(t, err)

	// Descriptive result, not a tool error.
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no self-referencing lookup fields")
}

func TestCompareSchemas(t *testing.T) {
	tools, root := newTestTools(t)

	// Second snapshot: Industry gone from Account, one new object.
	otherDir := t.TempDir()
	other := store.New(otherDir)
	require.NoError(t, other.EnsureDir())
	for _, e := range fixtureEntities() {
		if e.Name == "Account" {
			var fields []schema.Field
			for _, f := range e.Fields {
				if f.Name != "Industry" {
					fields = append(fields, f)
				}
			}
			e.Fields = fields
		}
		require.NoError(t, other.SaveEntity(e))
	}
	require.NoError(t, other.SaveEntity(&schema.Entity{
		Name:  "Shipment__c",
		Label: "Shipment",
		Fields: []schema.Field{
			{Name: "Id", Type: schema.TypeID},
		},
	}))

	res, _, err := tools.CompareSchemas(context.Background(), nil, CompareSchemasInput{
		CacheDirA: root,
		CacheDirB: otherDir,
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "Schema Diff Report")
	assert.Contains(t, out, "+ Shipment__c")
	assert.Contains(t, out, "!! Account.Industry: REMOVED")
	assert.Contains(t, out, "objects_added: 1")
}

func TestCompareSchemasMissingSnapshot(t *testing.T) {
	tools, root := newTestTools(t)

	res, _, err := tools.CompareSchemas(context.Background(), nil, CompareSchemasInput{
		CacheDirA: root,
		CacheDirB: "nonexistent",
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "nonexistent")
}
