package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orglens/orglens/internal/schema"
)

// testSnapshot covers the shapes the builder has to handle: a self-reference
// (Account.ParentId), a reference to a skipped object (Account.OwnerId), a
// master-detail (Order__c.Account__c), parallel edges between one pair
// (Order__c.Account__c and Order__c.Billing__c), and a dangling
// cross-namespace target (HealthCloudGA__CarePlan__c).
func testSnapshot() schema.Snapshot {
	return schema.Snapshot{
		"Account": {
			Name:  "Account",
			Label: "Account",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "Name", Type: schema.TypeString, Required: true},
				{Name: "ParentId", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
				{Name: "OwnerId", Type: schema.TypeReference, ReferenceTo: []string{"User"}},
			},
		},
		"Contact": {
			Name:  "Contact",
			Label: "Contact",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "AccountId", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
				{Name: "ReportsToId", Type: schema.TypeReference, ReferenceTo: []string{"Contact"}},
			},
		},
		"Case": {
			Name:  "Case",
			Label: "Case",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "AccountId", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
				{Name: "ContactId", Type: schema.TypeReference, ReferenceTo: []string{"Contact"}},
			},
		},
		"Order__c": {
			Name:  "Order__c",
			Label: "Order",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
				{Name: "Account__c", Type: schema.TypeMasterDetail, ReferenceTo: []string{"Account"}},
				{Name: "Billing__c", Type: schema.TypeReference, ReferenceTo: []string{"Account"}},
				{Name: "CarePlan__c", Type: schema.TypeReference, ReferenceTo: []string{"HealthCloudGA__CarePlan__c"}},
			},
		},
		"User": {
			Name:  "User",
			Label: "User",
			Fields: []schema.Field{
				{Name: "Id", Type: schema.TypeID},
			},
		},
	}
}

func TestBuildAddsSnapshotEntities(t *testing.T) {
	g := Build(testSnapshot())

	for _, name := range []string{"Account", "Contact", "Case", "Order__c"} {
		assert.True(t, g.HasNode(name), "expected node %s", name)
		assert.NotNil(t, g.Entity(name))
	}
}

func TestBuildExcludesSkippedEntities(t *testing.T) {
	g := Build(testSnapshot())

	// User is both in the snapshot and referenced by Account.OwnerId.
	assert.False(t, g.HasNode("User"))
	for _, e := range g.Edges() {
		assert.NotEqual(t, "User", e.Target)
		assert.NotEqual(t, "User", e.Source)
	}
}

func TestBuildDanglingTargetBecomesNode(t *testing.T) {
	g := Build(testSnapshot())

	require.True(t, g.HasNode("HealthCloudGA__CarePlan__c"))
	assert.Nil(t, g.Entity("HealthCloudGA__CarePlan__c"))
}

func TestBuildEdgeAttributes(t *testing.T) {
	g := Build(testSnapshot())

	edges := g.Edges()
	var masterDetail, selfRef *Edge
	for i := range edges {
		e := &edges[i]
		if e.Source == "Order__c" && e.Field == "Account__c" {
			masterDetail = e
		}
		if e.Source == "Account" && e.Field == "ParentId" {
			selfRef = e
		}
	}

	require.NotNil(t, masterDetail)
	assert.Equal(t, schema.TypeMasterDetail, masterDetail.Kind)
	assert.Equal(t, "Account", masterDetail.Target)
	assert.False(t, masterDetail.SelfRef)

	require.NotNil(t, selfRef)
	assert.Equal(t, "Account", selfRef.Target)
	assert.True(t, selfRef.SelfRef)
}

func TestBuildParallelEdgesKeepDistinctFields(t *testing.T) {
	g := Build(testSnapshot())

	var fields []string
	for _, e := range g.Edges() {
		if e.Source == "Order__c" && e.Target == "Account" {
			fields = append(fields, e.Field)
		}
	}
	assert.ElementsMatch(t, []string{"Account__c", "Billing__c"}, fields)
}

func TestBuildDoesNotMutateSnapshot(t *testing.T) {
	snap := testSnapshot()
	before := len(snap)
	Build(snap)
	assert.Len(t, snap, before)
	assert.Len(t, snap["Account"].Fields, 4)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"outbound", DirectionOutbound, false},
		{"inbound", DirectionInbound, false},
		{"both", DirectionBoth, false},
		{"sideways", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNodesSortedAndCounts(t *testing.T) {
	g := Build(testSnapshot())

	nodes := g.Nodes()
	assert.Equal(t, []string{"Account", "Case", "Contact", "HealthCloudGA__CarePlan__c", "Order__c"}, nodes)
	assert.Equal(t, 5, g.NodeCount())
	// ParentId, Contact.AccountId, ReportsToId, Case.AccountId, ContactId,
	// Account__c, Billing__c, CarePlan__c. OwnerId is dropped with User.
	assert.Equal(t, 8, g.EdgeCount())
}
