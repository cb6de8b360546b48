// Package graph implements the Attributed Adjacency Graph: topological
// entities as nodes, topological and geometric relationships as edges,
// geometric measurements as attributes. Once built, a Graph is immutable
// from the perspective of its readers; matching and querying may run
// concurrently against the same instance without coordination.
package graph

import (
	"fmt"

	"github.com/brepflow/aag/model"
)

// Graph owns all nodes and edges by id and maintains forward and reverse
// adjacency indices, both updated incrementally as edges are added.
// Insertion order is preserved so traversal and export are deterministic.
type Graph struct {
	nodes map[string]*model.Node
	edges map[string]*model.Edge

	nodeOrder []string
	edgeOrder []string

	outgoing map[string][]string // node id -> outgoing edge ids
	incoming map[string][]string // node id -> incoming edge ids
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*model.Node),
		edges:    make(map[string]*model.Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode registers a node. A duplicate id is a builder bug and is rejected.
func (g *Graph) AddNode(node *model.Node) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("node must have an id")
	}
	if _, exists := g.nodes[node.ID]; exists {
		return fmt.Errorf("node %q already exists", node.ID)
	}

	g.nodes[node.ID] = node
	g.nodeOrder = append(g.nodeOrder, node.ID)
	return nil
}

// AddEdge registers a relationship edge. Both endpoints must already exist
// as nodes and the edge id must be unused.
func (g *Graph) AddEdge(edge *model.Edge) error {
	if edge == nil || edge.ID == "" {
		return fmt.Errorf("edge must have an id")
	}
	if _, exists := g.edges[edge.ID]; exists {
		return fmt.Errorf("edge %q already exists", edge.ID)
	}
	if _, ok := g.nodes[edge.Source]; !ok {
		return fmt.Errorf("edge %q references unknown source node %q", edge.ID, edge.Source)
	}
	if _, ok := g.nodes[edge.Target]; !ok {
		return fmt.Errorf("edge %q references unknown target node %q", edge.ID, edge.Target)
	}

	g.edges[edge.ID] = edge
	g.edgeOrder = append(g.edgeOrder, edge.ID)
	g.outgoing[edge.Source] = append(g.outgoing[edge.Source], edge.ID)
	g.incoming[edge.Target] = append(g.incoming[edge.Target], edge.ID)
	return nil
}

// GetNode returns a node by id, or nil if not found
func (g *Graph) GetNode(id string) *model.Node {
	return g.nodes[id]
}

// GetEdge returns an edge by id, or nil if not found
func (g *Graph) GetEdge(id string) *model.Edge {
	return g.edges[id]
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of relationship edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Neighbors returns the nodes reachable via outgoing edges, optionally
// filtered by relationship type (nil matches all)
func (g *Graph) Neighbors(nodeID string, relation *model.RelationType) []*model.Node {
	var neighbors []*model.Node
	for _, edgeID := range g.outgoing[nodeID] {
		edge := g.edges[edgeID]
		if relation != nil && edge.Relation != *relation {
			continue
		}
		if target := g.nodes[edge.Target]; target != nil {
			neighbors = append(neighbors, target)
		}
	}
	return neighbors
}

// Predecessors returns the nodes with edges pointing at nodeID, optionally
// filtered by relationship type (nil matches all)
func (g *Graph) Predecessors(nodeID string, relation *model.RelationType) []*model.Node {
	var predecessors []*model.Node
	for _, edgeID := range g.incoming[nodeID] {
		edge := g.edges[edgeID]
		if relation != nil && edge.Relation != *relation {
			continue
		}
		if source := g.nodes[edge.Source]; source != nil {
			predecessors = append(predecessors, source)
		}
	}
	return predecessors
}

// NodesByType returns all nodes of one topology type in insertion order
func (g *Graph) NodesByType(topologyType model.TopologyType) []*model.Node {
	var nodes []*model.Node
	for _, id := range g.nodeOrder {
		if node := g.nodes[id]; node.Type == topologyType {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*model.Node {
	nodes := make([]*model.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// EdgesBoundingFace returns the edge nodes bounding a face
func (g *Graph) EdgesBoundingFace(faceID string) []*model.Node {
	rel := model.RelationBounds
	return g.Predecessors(faceID, &rel)
}

// FacesAdjacentToEdge returns the face nodes a boundary edge bounds
func (g *Graph) FacesAdjacentToEdge(edgeNodeID string) []*model.Node {
	rel := model.RelationBounds
	var faces []*model.Node
	for _, node := range g.Neighbors(edgeNodeID, &rel) {
		if node.Type == model.TopologyFace {
			faces = append(faces, node)
		}
	}
	return faces
}

// AdjacencyEdge returns the adjacency edge between two nodes by its
// derived id, O(1), or nil if the nodes are not adjacent
func (g *Graph) AdjacencyEdge(sourceID, targetID string) *model.Edge {
	return g.edges[model.EdgeID(sourceID, model.RelationAdjacent, targetID)]
}

// CachedDihedralAngle returns the dihedral angle cached on the adjacency
// edge between two faces, trying both directions
func (g *Graph) CachedDihedralAngle(face1ID, face2ID string) (float64, bool) {
	if edge := g.AdjacencyEdge(face1ID, face2ID); edge != nil {
		if angle, ok := edge.Attributes.Float(model.AttrDihedralAngle); ok {
			return angle, true
		}
	}
	if edge := g.AdjacencyEdge(face2ID, face1ID); edge != nil {
		if angle, ok := edge.Attributes.Float(model.AttrDihedralAngle); ok {
			return angle, true
		}
	}
	return 0, false
}

// Statistics returns per-type node counts plus the total edge count
func (g *Graph) Statistics() model.Statistics {
	stats := model.Statistics{TotalEdges: len(g.edges)}
	for _, node := range g.nodes {
		switch node.Type {
		case model.TopologyVertex:
			stats.Vertices++
		case model.TopologyEdge:
			stats.Edges++
		case model.TopologyFace:
			stats.Faces++
		case model.TopologyShell:
			stats.Shells++
		case model.TopologySolid:
			stats.Solids++
		case model.TopologyCompound:
			stats.Compounds++
		}
	}
	return stats
}

// Export projects the graph onto its serializable node/link representation
func (g *Graph) Export() *model.GraphExport {
	export := &model.GraphExport{
		Nodes: make([]model.ExportNode, 0, len(g.nodeOrder)),
		Links: make([]model.ExportLink, 0, len(g.edgeOrder)),
	}
	for _, id := range g.nodeOrder {
		node := g.nodes[id]
		export.Nodes = append(export.Nodes, model.ExportNode{
			ID:         node.ID,
			Group:      string(node.Type),
			Attributes: node.Attributes,
		})
	}
	for _, id := range g.edgeOrder {
		edge := g.edges[id]
		export.Links = append(export.Links, model.ExportLink{
			Source:     edge.Source,
			Target:     edge.Target,
			Relation:   string(edge.Relation),
			Attributes: edge.Attributes,
		})
	}
	return export
}
