package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orglens/orglens/internal/graph"
	"github.com/orglens/orglens/internal/schema"
)

func renderFixture() (map[string]*schema.Entity, []graph.Edge) {
	entities := map[string]*schema.Entity{
		"Account": {
			Name:  "Account",
			Label: "Account",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "Name", Type: schema.TypeString, Required: true},
				{Name: "ParentId", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
			},
		},
		"Contact": {
			Name:  "Contact",
			Label: "Contact",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "AccountId", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
			},
		},
		"HealthCloudGA__CarePlan__c": {
			Name:  "HealthCloudGA__CarePlan__c",
			Label: "Care Plan",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "Account__c", Type: schema.TypeMasterDetail, ReferenceTo: []string{"Account"}},
			},
		},
	}
	edges := []graph.Edge{
		{Source: "Contact", Target: "Account", Kind: schema.TypeReference, Field: "AccountId"},
		{Source: "HealthCloudGA__CarePlan__c", Target: "Account", Kind: schema.TypeMasterDetail, Field: "Account__c"},
		{Source: "Account", Target: "Account", Kind: schema.TypeReference, Field: "ParentId", SelfRef: true},
	}
	return entities, edges
}

func TestMermaidHeader(t *testing.T) {
	entities, edges := renderFixture()
	out := Generate(entities, edges, DefaultOptions())

	assert.True(t, strings.HasPrefix(out, "erDiagram"))
}

func TestMermaidSanitizesIdentifiers(t *testing.T) {
	entities, edges := renderFixture()
	out := Generate(entities, edges, DefaultOptions())

	assert.Contains(t, out, "HealthCloudGA_CarePlan_c")
	assert.NotContains(t, out, "HealthCloudGA__CarePlan__c {")
}

func TestMermaidRelationshipSymbols(t *testing.T) {
	entities, edges := renderFixture()
	out := Generate(entities, edges, DefaultOptions())

	assert.Contains(t, out, `Contact ||--o{ Account : "AccountId"`)
	assert.Contains(t, out, `HealthCloudGA_CarePlan_c ||--|{ Account : "Account__c"`)
}

func TestMermaidUnknownKindFallsBack(t *testing.T) {
	entities, _ := renderFixture()
	edges := []graph.Edge{
		{Source: "Contact", Target: "Account", Kind: schema.FieldType("child"), Field: "X"},
	}
	out := Generate(entities, edges, DefaultOptions())

	assert.Contains(t, out, "}o--o{")
}

func TestMermaidSelfReferenceIsComment(t *testing.T) {
	entities, edges := renderFixture()
	out := Generate(entities, edges, DefaultOptions())

	assert.Contains(t, out, "%% -- Self-Referencing (Hierarchical) Objects --")
	assert.Contains(t, out, "%% SELF-REF: Account.ParentId -> Account (hierarchical lookup)")
	// Never as a connecting line.
	assert.NotContains(t, out, `Account ||--o{ Account : "ParentId"`)
}

func TestMermaidFieldTags(t *testing.T) {
	entities, edges := renderFixture()
	out := Generate(entities, edges, DefaultOptions())

	assert.Contains(t, out, "ID Id PK")
	assert.Contains(t, out, `REFERENCE AccountId FK "FK_Account"`)
	assert.Contains(t, out, `STRING Name "NOT_NULL"`)
}

func TestMermaidNoFieldsMode(t *testing.T) {
	entities, edges := renderFixture()
	opts := DefaultOptions()
	opts.IncludeFields = false
	out := Generate(entities, edges, opts)

	assert.Contains(t, out, "Account { string Id PK }")
	assert.NotContains(t, out, "REFERENCE")
}

func TestMermaidTruncationNote(t *testing.T) {
	entities, edges := renderFixture()
	entities["Account"] = wideEntity()
	out := Generate(entities, edges, DefaultOptions())

	assert.Contains(t, out, "shown,")
	assert.Contains(t, out, "omitted")
	assert.Contains(t, out, "%% -- Field Truncation Summary --")
}

func TestMermaidDeduplicatesReversedEdges(t *testing.T) {
	entities, _ := renderFixture()
	edges := []graph.Edge{
		{Source: "Contact", Target: "Account", Kind: schema.TypeReference, Field: "AccountId"},
		{Source: "Account", Target: "Contact", Kind: schema.TypeReference, Field: "AccountId"},
	}
	out := Generate(entities, edges, DefaultOptions())

	assert.Equal(t, 1, strings.Count(out, `"AccountId"`))
}

func TestMermaidDeterministic(t *testing.T) {
	entities, edges := renderFixture()
	first := Generate(entities, edges, DefaultOptions())
	second := Generate(entities, edges, DefaultOptions())

	assert.Equal(t, first, second)
}

func TestMermaidLongTypeCodeTruncated(t *testing.T) {
	entities := map[string]*schema.Entity{
		"Vault__c": {
			Name: "Vault__c",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "Part__c", Type: schema.TypeMultipicklist, Required: true},
			},
		},
	}
	out := Generate(entities, nil, Options{IncludeFields: true, FieldFilter: FilterAll, MaxFields: 20, Format: FormatMermaid})

	assert.Contains(t, out, "MULTIPICKLIS Part_c")
	assert.NotContains(t, out, "MULTIPICKLIST")
}
