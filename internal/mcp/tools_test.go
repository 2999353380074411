package mcp

import (
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/store"
)

func fixtureEntities() []*schema.Entity {
	return []*schema.Entity{
		{
			Name:        "Account",
			Label:       "Account",
			LabelPlural: "Accounts",
			Fields: []schema.Field{
				{Name: "Id", Label: "Account ID", Type: schema.TypeID},
				{Name: "Name", Label: "Account Name", Type: schema.TypeString, Required: true},
				{Name: "ParentId", Label: "Parent Account", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
				{Name: "Industry", Label: "Industry", Type: schema.TypePicklist, PicklistValues: []string{"Technology", "Retail"}},
			},
			ChildRelationships: []schema.ChildRelationship{
				{ChildSObject: "Contact", Field: "AccountId", RelationshipName: "Contacts"},
				{ChildSObject: "Invoice__c", Field: "Account__c", RelationshipName: "Invoices__r"},
			},
		},
		{
			Name:        "Contact",
			Label:       "Contact",
			LabelPlural: "Contacts",
			Fields: []schema.Field{
				{Name: "Id", Label: "Contact ID", Type: schema.TypeID},
				{Name: "LastName", Label: "Last Name", Type: schema.TypeString, Required: true},
				{Name: "AccountId", Label: "Account", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
			},
		},
		{
			Name:        "Invoice__c",
			Label:       "Customer Invoice",
			LabelPlural: "Customer Invoices",
			Custom:      true,
			Fields: []schema.Field{
				{Name: "Id", Label: "Record ID", Type: schema.TypeID},
				{Name: "Name", Label: "Invoice Number", Type: schema.TypeString, Required: true},
				{Name: "Account__c", Label: "Account", Type: schema.TypeMasterDetail, Required: true, ReferenceTo: []string{"Account"}},
				{Name: "Status__c", Label: "Status", Type: schema.TypePicklist, PicklistValues: []string{"Draft", "Paid"}},
			},
		},
	}
}

// seedSnapshot writes the fixture entities, index, and meta into dir.
func seedSnapshot(t *testing.T, dir string) {
	t.Helper()

	st := store.New(dir)
	require.NoError(t, st.EnsureDir())

	snap := schema.Snapshot{}
	for _, e := range fixtureEntities() {
		require.NoError(t, st.SaveEntity(e))
		snap[e.Name] = e
	}
	require.NoError(t, st.SaveIndex(store.BuildIndex(snap)))
	require.NoError(t, st.SaveMeta(&store.Meta{
		RunID:         "run-fixture",
		SyncedAt:      time.Now().UTC(),
		InstanceURL:   "https://example.my.salesforce.com",
		APIVersion:    "v60.0",
		ObjectsSynced: len(snap),
	}))
}

// newTestTools builds a tool set over a freshly seeded single-org cache.
func newTestTools(t *testing.T) (*Tools, string) {
	t.Helper()
	root := t.TempDir()
	seedSnapshot(t, root)
	return NewTools(NewSession(store.NewRegistry(root)), nil), root
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}
