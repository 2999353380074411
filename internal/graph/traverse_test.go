package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

func TestNeighborsOutbound(t *testing.T) {
	g := Build(testSnapshot())

	// Account's only outbound targets are itself (discarded) and the
	// skipped User.
	assert.Empty(t, g.Neighbors("Account", DirectionOutbound, 1))

	assert.ElementsMatch(t, []string{"Account"}, names(g.Neighbors("Contact", DirectionOutbound, 1)))
	assert.ElementsMatch(t, []string{"Account", "Contact"}, names(g.Neighbors("Case", DirectionOutbound, 1)))
}

func TestNeighborsInbound(t *testing.T) {
	g := Build(testSnapshot())

	assert.ElementsMatch(t, []string{"Contact", "Case", "Order__c"}, names(g.Neighbors("Account", DirectionInbound, 1)))
	assert.ElementsMatch(t, []string{"Case"}, names(g.Neighbors("Contact", DirectionInbound, 1)))
}

func TestNeighborsBoth(t *testing.T) {
	g := Build(testSnapshot())

	assert.ElementsMatch(t, []string{"Account", "Case"}, names(g.Neighbors("Contact", DirectionBoth, 1)))
}

func TestNeighborsDepthWidensResult(t *testing.T) {
	g := Build(testSnapshot())

	one := g.Neighbors("Case", DirectionBoth, 1)
	two := g.Neighbors("Case", DirectionBoth, 2)
	for name := range one {
		assert.True(t, two[name], "depth 2 should contain %s", name)
	}
	// Order__c is only reachable through Account.
	assert.False(t, one["Order__c"])
	assert.True(t, two["Order__c"])
}

func TestNeighborsDepthZeroIsEmpty(t *testing.T) {
	g := Build(testSnapshot())

	for _, dir := range []Direction{DirectionOutbound, DirectionInbound, DirectionBoth} {
		assert.Empty(t, g.Neighbors("Account", dir, 0))
	}
}

func TestNeighborsUnknownStartIsEmpty(t *testing.T) {
	g := Build(testSnapshot())

	assert.Empty(t, g.Neighbors("Nonexistent", DirectionBoth, 3))
}

func TestNeighborsExcludesStart(t *testing.T) {
	g := Build(testSnapshot())

	// Contact.ReportsToId is a self-loop; traversal must not report the
	// start or spin on the cycle.
	for depth := 1; depth <= 4; depth++ {
		result := g.Neighbors("Contact", DirectionBoth, depth)
		assert.False(t, result["Contact"], "depth %d leaked the start node", depth)
	}
}

func TestSubgraphIncludesRoots(t *testing.T) {
	g := Build(testSnapshot())

	entities, _ := g.Subgraph([]string{"Case"}, 1, DirectionBoth)
	assert.Contains(t, entities, "Case")
	assert.Contains(t, entities, "Account")
	assert.Contains(t, entities, "Contact")
}

func TestSubgraphDepthZeroKeepsSelfLoopsOnly(t *testing.T) {
	g := Build(testSnapshot())

	entities, edges := g.Subgraph([]string{"Account"}, 0, DirectionBoth)
	require.Contains(t, entities, "Account")
	assert.Len(t, entities, 1)
	for _, e := range edges {
		assert.Equal(t, e.Source, e.Target, "only self-loops may remain at depth 0")
	}
}

func TestSubgraphDropsDanglingPayloads(t *testing.T) {
	g := Build(testSnapshot())

	entities, edges := g.Subgraph([]string{"Order__c"}, 1, DirectionOutbound)
	assert.NotContains(t, entities, "HealthCloudGA__CarePlan__c")

	// The dangling node still participates in edges.
	var sawDangling bool
	for _, e := range edges {
		if e.Target == "HealthCloudGA__CarePlan__c" {
			sawDangling = true
		}
	}
	assert.True(t, sawDangling)
}

func TestSubgraphKeepsParallelEdges(t *testing.T) {
	g := Build(testSnapshot())

	_, edges := g.Subgraph([]string{"Order__c"}, 1, DirectionOutbound)
	var toAccount []string
	for _, e := range edges {
		if e.Source == "Order__c" && e.Target == "Account" {
			toAccount = append(toAccount, e.Field)
		}
	}
	assert.ElementsMatch(t, []string{"Account__c", "Billing__c"}, toAccount)
}

func TestSubgraphUnknownRoot(t *testing.T) {
	g := Build(testSnapshot())

	entities, edges := g.Subgraph([]string{"Nonexistent"}, 2, DirectionBoth)
	assert.Empty(t, entities)
	assert.Empty(t, edges)
}

func TestSubgraphEdgeOrientationIsOwnerToTarget(t *testing.T) {
	g := Build(testSnapshot())

	// Discovered inbound, but edges still point child -> parent.
	_, edges := g.Subgraph([]string{"Account"}, 1, DirectionInbound)
	for _, e := range edges {
		if e.Field == "AccountId" {
			assert.Equal(t, "Account", e.Target)
			assert.NotEqual(t, "Account", e.Source)
		}
	}
}
