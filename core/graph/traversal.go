package graph

import "github.com/brepflow/aag/model"

// Visitor is called once per visited node. Returning false stops the
// traversal immediately.
type Visitor func(node *model.Node) bool

// TraverseBFS performs breadth-first traversal from a start node. Each call
// uses a fresh visited set; given the graph's deterministic edge ordering
// the visit order is deterministic too.
func (g *Graph) TraverseBFS(startID string, visitor Visitor) {
	if _, ok := g.nodes[startID]; !ok {
		return
	}

	visited := map[string]bool{startID: true}
	queue := []string{startID}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if !visitor(g.nodes[currentID]) {
			return
		}

		for _, neighbor := range g.Neighbors(currentID, nil) {
			if !visited[neighbor.ID] {
				visited[neighbor.ID] = true
				queue = append(queue, neighbor.ID)
			}
		}
	}
}

// TraverseDFS performs depth-first traversal from a start node using an
// explicit stack, so depth is bounded by memory rather than goroutine
// stack size on deep graphs.
func (g *Graph) TraverseDFS(startID string, visitor Visitor) {
	if _, ok := g.nodes[startID]; !ok {
		return
	}

	visited := make(map[string]bool)
	stack := []string{startID}

	for len(stack) > 0 {
		currentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		if !visitor(g.nodes[currentID]) {
			return
		}

		// Push in reverse so the first neighbor is visited first,
		// matching recursive pre-order.
		neighbors := g.Neighbors(currentID, nil)
		for i := len(neighbors) - 1; i >= 0; i-- {
			if !visited[neighbors[i].ID] {
				stack = append(stack, neighbors[i].ID)
			}
		}
	}
}
