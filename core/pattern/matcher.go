// Package pattern implements constrained backtracking subgraph matching
// over the attributed adjacency graph. Feature recognizers declare a
// pattern of attribute-constrained slots plus required relationships and
// receive node assignments satisfying it.
package pattern

import (
	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/model"
)

// Matcher finds assignments of graph nodes to pattern slots. It is a pure
// reader of the graph and safe to use concurrently with other readers.
type Matcher struct {
	graph *graph.Graph
}

// NewMatcher creates a matcher for one graph
func NewMatcher(g *graph.Graph) *Matcher {
	return &Matcher{graph: g}
}

// FindMatches returns at most one completed assignment per slot-0 seed.
// It does not enumerate all completions reachable from a seed; callers
// needing disjoint feature instances iterate external seeds instead.
func (m *Matcher) FindMatches(p *model.Pattern) []*model.Match {
	if p == nil || len(p.Slots) == 0 {
		return nil
	}

	var matches []*model.Match
	for _, seed := range m.allCandidates(p.Slots[0], nil) {
		assignment := map[int]string{0: seed.ID}
		used := map[string]bool{seed.ID: true}

		if m.extend(p, assignment, used) {
			slotNodes := make(map[int]string, len(assignment))
			for slot, id := range assignment {
				slotNodes[slot] = id
			}
			matches = append(matches, &model.Match{
				SlotNodes:  slotNodes,
				Confidence: 1.0,
			})
		}
	}

	return matches
}

// extend tries to assign slots 1..n-1 given the seeded slot 0, using an
// explicit frame stack so failure behavior stays bounded on large graphs.
func (m *Matcher) extend(p *model.Pattern, assignment map[int]string, used map[string]bool) bool {
	if len(p.Slots) == 1 {
		return true
	}

	type frame struct {
		slot       int
		candidates []string
		next       int
	}

	stack := []*frame{{slot: 1, candidates: m.slotCandidates(p, 1, assignment, used)}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		// Undo this frame's previous assignment before trying the next
		// candidate (or backtracking).
		if id, ok := assignment[f.slot]; ok {
			delete(assignment, f.slot)
			delete(used, id)
		}

		if f.next >= len(f.candidates) {
			stack = stack[:len(stack)-1]
			continue
		}

		candidate := f.candidates[f.next]
		f.next++
		assignment[f.slot] = candidate
		used[candidate] = true

		if f.slot == len(p.Slots)-1 {
			return true
		}
		stack = append(stack, &frame{
			slot:       f.slot + 1,
			candidates: m.slotCandidates(p, f.slot+1, assignment, used),
		})
	}

	return false
}

// slotCandidates computes the candidate node ids for a slot: nodes
// reachable via every required relationship from already-assigned slots,
// intersected, restricted to the slot's own constraints and excluding
// nodes already used in this assignment. A slot with no incoming
// requirement draws from all matching graph nodes.
func (m *Matcher) slotCandidates(p *model.Pattern, slot int, assignment map[int]string, used map[string]bool) []string {
	var incoming []model.RelationConstraint
	for _, rc := range p.Relations {
		if rc.TargetSlot == slot {
			if _, ok := assignment[rc.SourceSlot]; ok {
				incoming = append(incoming, rc)
			}
		}
	}

	constraint := p.Slots[slot]

	if len(incoming) == 0 {
		var ids []string
		for _, node := range m.allCandidates(constraint, used) {
			ids = append(ids, node.ID)
		}
		return ids
	}

	var candidates []string
	for i, rc := range incoming {
		relation := rc.Relation
		var reachable []string
		for _, neighbor := range m.graph.Neighbors(assignment[rc.SourceSlot], &relation) {
			if used[neighbor.ID] || !m.nodeMatches(neighbor, constraint) {
				continue
			}
			reachable = append(reachable, neighbor.ID)
		}

		if i == 0 {
			candidates = reachable
			continue
		}

		inThis := make(map[string]bool, len(reachable))
		for _, id := range reachable {
			inThis[id] = true
		}
		var intersected []string
		for _, id := range candidates {
			if inThis[id] {
				intersected = append(intersected, id)
			}
		}
		candidates = intersected
	}

	return candidates
}

func (m *Matcher) allCandidates(constraint model.SlotConstraint, used map[string]bool) []*model.Node {
	var candidates []*model.Node
	for _, node := range m.graph.Nodes() {
		if used != nil && used[node.ID] {
			continue
		}
		if m.nodeMatches(node, constraint) {
			candidates = append(candidates, node)
		}
	}
	return candidates
}

// nodeMatches checks the slot's type and attribute-equality constraints.
// A constrained attribute missing on the node is a non-match.
func (m *Matcher) nodeMatches(node *model.Node, constraint model.SlotConstraint) bool {
	if constraint.Type != "" && node.Type != constraint.Type {
		return false
	}
	for key, want := range constraint.Attributes {
		got, ok := node.Attributes[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares attribute values, normalizing numeric types so a
// constraint written with an int matches a stored float64
func valuesEqual(a, b interface{}) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
