// Package graph builds a directed relationship graph from a schema snapshot
// and provides bounded traversal and subgraph extraction over it. Nodes are
// entity names carrying the entity as payload; edges are relationship fields
// pointing from the referencing entity to the referenced one.
package graph

import (
	"fmt"
	"sort"

	"github.com/orglens/orglens/internal/schema"
)

// System and utility objects that clutter diagrams without adding domain
// value. They are never added as nodes and never targeted by edges.
var skipEntities = map[string]struct{}{
	"User": {}, "Group": {}, "Profile": {}, "PermissionSet": {}, "RecordType": {},
	"BusinessHours": {}, "Holiday": {}, "NetworkMember": {}, "CollaborationGroup": {},
	"FeedItem": {}, "FeedComment": {}, "ContentDocument": {}, "ContentVersion": {},
	"ContentDocumentLink": {}, "Task": {}, "Event": {}, "Note": {}, "Attachment": {},
	"EntitySubscription": {}, "ProcessInstance": {}, "ProcessInstanceStep": {},
	"TopicAssignment": {}, "Vote": {}, "FlowInterview": {},
}

// Direction selects which edges a traversal follows.
type Direction string

const (
	// DirectionOutbound follows edges away from the node (this entity
	// references a parent).
	DirectionOutbound Direction = "outbound"
	// DirectionInbound follows edges coming in (a child references this
	// entity).
	DirectionInbound Direction = "inbound"
	// DirectionBoth follows edges in either orientation.
	DirectionBoth Direction = "both"
)

// ParseDirection validates a direction string from a CLI flag or tool input.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionOutbound, DirectionInbound, DirectionBoth:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q (want outbound, inbound, or both)", s)
}

// Edge is one relationship edge, oriented owner to target. A field with
// several targets produces one edge per target; two fields between the same
// pair of entities produce two edges.
type Edge struct {
	Source  string
	Target  string
	Kind    schema.FieldType
	Field   string
	SelfRef bool
}

// Graph is an adjacency-list directed multigraph over entity names. Nodes
// referenced by a field but absent from the snapshot carry a nil payload;
// traversal treats them like any other node. Read-only after Build.
type Graph struct {
	nodes map[string]*schema.Entity
	edges []Edge

	// Deduplicated neighbor indexes, built once during construction.
	succ map[string][]string
	pred map[string][]string
}

// Build constructs the relationship graph for a snapshot. Entities on the
// skip list are excluded entirely. Missing edge targets degrade to
// nil-payload nodes rather than errors; the input snapshot is not mutated.
func Build(snap schema.Snapshot) *Graph {
	g := &Graph{
		nodes: make(map[string]*schema.Entity, len(snap)),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
	}

	names := snap.Names()
	for _, name := range names {
		if isSkipped(name) {
			continue
		}
		g.nodes[name] = snap[name]
	}

	for _, name := range names {
		if isSkipped(name) {
			continue
		}
		entity := snap[name]
		for i := range entity.Fields {
			f := &entity.Fields[i]
			if !f.Type.IsRelationship() {
				continue
			}
			for _, target := range f.ReferenceTo {
				if isSkipped(target) {
					continue
				}
				// Targets outside the snapshot still become nodes, e.g.
				// cross-namespace references.
				if _, ok := g.nodes[target]; !ok {
					g.nodes[target] = snap[target]
				}
				g.addEdge(Edge{
					Source:  name,
					Target:  target,
					Kind:    f.Type,
					Field:   f.Name,
					SelfRef: name == target,
				})
			}
		}
	}

	return g
}

func isSkipped(name string) bool {
	_, ok := skipEntities[name]
	return ok
}

func (g *Graph) addEdge(e Edge) {
	g.edges = append(g.edges, e)
	if !contains(g.succ[e.Source], e.Target) {
		g.succ[e.Source] = append(g.succ[e.Source], e.Target)
	}
	if !contains(g.pred[e.Target], e.Source) {
		g.pred[e.Target] = append(g.pred[e.Target], e.Source)
	}
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// HasNode reports whether the graph contains a node for the given name.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Entity returns the payload for a node, or nil for dangling reference
// targets and unknown names.
func (g *Graph) Entity(name string) *schema.Entity {
	return g.nodes[name]
}

// Nodes returns all node names in sorted order.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edges returns the edge list in construction order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Successors returns the distinct targets of outbound edges from name, in
// first-seen order.
func (g *Graph) Successors(name string) []string {
	return g.succ[name]
}

// Predecessors returns the distinct sources of inbound edges into name, in
// first-seen order.
func (g *Graph) Predecessors(name string) []string {
	return g.pred[name]
}
