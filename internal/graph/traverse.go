package graph

import "github.com/orglens/orglens/internal/schema"

// Neighbors returns the entity names reachable from start within depth
// bounded breadth-first hops, excluding start itself. Depth 0 and unknown
// start nodes yield an empty set. Cycles and self-loops terminate because
// each frontier drops already-reached names.
func (g *Graph) Neighbors(start string, direction Direction, depth int) map[string]bool {
	result := make(map[string]bool)
	if !g.HasNode(start) {
		return result
	}

	frontier := map[string]bool{start: true}
	for hop := 0; hop < depth; hop++ {
		next := make(map[string]bool)
		for node := range frontier {
			if direction == DirectionOutbound || direction == DirectionBoth {
				for _, s := range g.succ[node] {
					next[s] = true
				}
			}
			if direction == DirectionInbound || direction == DirectionBoth {
				for _, p := range g.pred[node] {
					next[p] = true
				}
			}
		}
		for name := range next {
			if result[name] || name == start {
				delete(next, name)
			}
		}
		if len(next) == 0 {
			break
		}
		for name := range next {
			result[name] = true
		}
		frontier = next
	}

	return result
}

// Subgraph extracts the induced subgraph around the given roots for diagram
// rendering. The node set is the union of the roots and each root's
// neighbors; the returned entity map keeps only nodes with a payload, while
// edges keep every graph edge whose endpoints both lie in the node set,
// deduplicated by (source, target, field) and oriented owner to target
// regardless of the traversal direction.
func (g *Graph) Subgraph(roots []string, depth int, direction Direction) (map[string]*schema.Entity, []Edge) {
	nodes := make(map[string]bool, len(roots))
	for _, root := range roots {
		nodes[root] = true
		for name := range g.Neighbors(root, direction, depth) {
			nodes[name] = true
		}
	}

	entities := make(map[string]*schema.Entity)
	for name := range nodes {
		if entity := g.nodes[name]; entity != nil {
			entities[name] = entity
		}
	}

	type edgeKey struct {
		source, target, field string
	}
	seen := make(map[edgeKey]bool)
	var edges []Edge
	for _, e := range g.edges {
		if !nodes[e.Source] || !nodes[e.Target] {
			continue
		}
		key := edgeKey{e.Source, e.Target, e.Field}
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, e)
	}

	return entities, edges
}
