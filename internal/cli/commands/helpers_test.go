package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/store"
)

// fixtureEntities builds the small org used across command tests:
// Account with a self-lookup, Contact looking up Account, and a custom
// invoice object master-detailed to Account.
func fixtureEntities() []*schema.Entity {
	return []*schema.Entity{
		{
			Name:  "Account",
			Label: "Account",
			Fields: []schema.Field{
				{Name: "Id", Label: "Account ID", Type: schema.TypeID},
				{Name: "Name", Label: "Account Name", Type: schema.TypeString, Required: true},
				{Name: "ParentId", Label: "Parent Account", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
				{Name: "Industry", Label: "Industry", Type: schema.TypePicklist, PicklistValues: []string{"Technology", "Healthcare"}},
			},
			ChildRelationships: []schema.ChildRelationship{
				{ChildSObject: "Contact", Field: "AccountId", RelationshipName: "Contacts"},
				{ChildSObject: "Invoice__c", Field: "Account__c", RelationshipName: "Invoices__r"},
			},
		},
		{
			Name:  "Contact",
			Label: "Contact",
			Fields: []schema.Field{
				{Name: "Id", Label: "Contact ID", Type: schema.TypeID},
				{Name: "LastName", Label: "Last Name", Type: schema.TypeString, Required: true},
				{Name: "AccountId", Label: "Account", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
			},
		},
		{
			Name:   "Invoice__c",
			Label:  "Customer Invoice",
			Custom: true,
			Fields: []schema.Field{
				{Name: "Id", Label: "Record ID", Type: schema.TypeID},
				{Name: "Name", Label: "Invoice Number", Type: schema.TypeString, Required: true},
				{Name: "Account__c", Label: "Account", Type: schema.TypeMasterDetail, Required: true, ReferenceTo: []string{"Account"}},
				{Name: "Status__c", Label: "Status", Type: schema.TypePicklist, PicklistValues: []string{"Draft", "Sent", "Paid"}},
			},
		},
	}
}

// seedSnapshot writes the fixture into dir as a complete snapshot with
// index and metadata.
func seedSnapshot(t *testing.T, dir string) {
	t.Helper()

	st := store.New(dir)
	require.NoError(t, st.EnsureDir())

	snap := schema.Snapshot{}
	for _, entity := range fixtureEntities() {
		require.NoError(t, st.SaveEntity(entity))
		snap[entity.Name] = entity
	}
	require.NoError(t, st.SaveIndex(store.BuildIndex(snap)))
	require.NoError(t, st.SaveMeta(&store.Meta{
		RunID:         "run-fixture",
		SyncedAt:      time.Now().UTC(),
		InstanceURL:   "https://example.my.salesforce.com",
		APIVersion:    "v60.0",
		ObjectsSynced: 3,
	}))
}

// newCacheDir isolates the test from any real config or cache and
// returns a seeded cache root.
func newCacheDir(t *testing.T) string {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	seedSnapshot(t, dir)
	return dir
}

// runCommand executes the CLI against a cache dir and returns combined
// output.
func runCommand(t *testing.T, cacheDir string, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--cache-dir", cacheDir}, args...))

	err := root.Execute()
	return buf.String(), err
}
