package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brepflow/aag/model"
)

func addNode(t *testing.T, g *Graph, id string, topologyType model.TopologyType) {
	t.Helper()
	require.NoError(t, g.AddNode(&model.Node{ID: id, Type: topologyType, Attributes: model.Attributes{}}))
}

// twoFaceGraph builds edge_0 bounding face_0 and face_1, with the faces
// adjacent at a concave right angle.
func twoFaceGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	addNode(t, g, "edge_0", model.TopologyEdge)
	addNode(t, g, "face_0", model.TopologyFace)
	addNode(t, g, "face_1", model.TopologyFace)

	require.NoError(t, g.AddEdge(model.NewEdge("edge_0", model.RelationBounds, "face_0", nil)))
	require.NoError(t, g.AddEdge(model.NewEdge("face_0", model.RelationBoundedBy, "edge_0", nil)))
	require.NoError(t, g.AddEdge(model.NewEdge("edge_0", model.RelationBounds, "face_1", nil)))
	require.NoError(t, g.AddEdge(model.NewEdge("face_1", model.RelationBoundedBy, "edge_0", nil)))

	adjacency := model.Attributes{model.AttrDihedralAngle: 90.0}
	require.NoError(t, g.AddEdge(model.NewEdge("face_0", model.RelationAdjacent, "face_1", adjacency)))
	require.NoError(t, g.AddEdge(model.NewEdge("face_1", model.RelationAdjacent, "face_0", adjacency)))
	return g
}

func TestAddNode(t *testing.T) {
	g := NewGraph()

	t.Run("valid node", func(t *testing.T) {
		require.NoError(t, g.AddNode(&model.Node{ID: "face_0", Type: model.TopologyFace}))
		assert.Equal(t, 1, g.Len())
		assert.NotNil(t, g.GetNode("face_0"))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		assert.Error(t, g.AddNode(&model.Node{ID: "face_0", Type: model.TopologyFace}))
	})

	t.Run("nil node and empty id are rejected", func(t *testing.T) {
		assert.Error(t, g.AddNode(nil))
		assert.Error(t, g.AddNode(&model.Node{}))
	})
}

func TestAddEdge(t *testing.T) {
	g := NewGraph()
	addNode(t, g, "face_0", model.TopologyFace)
	addNode(t, g, "face_1", model.TopologyFace)

	t.Run("valid edge", func(t *testing.T) {
		edge := model.NewEdge("face_0", model.RelationAdjacent, "face_1", nil)
		require.NoError(t, g.AddEdge(edge))
		assert.Equal(t, 1, g.EdgeCount())
		assert.Same(t, edge, g.GetEdge(edge.ID))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		assert.Error(t, g.AddEdge(model.NewEdge("face_0", model.RelationAdjacent, "face_1", nil)))
	})

	t.Run("unknown endpoints are rejected", func(t *testing.T) {
		assert.Error(t, g.AddEdge(model.NewEdge("missing", model.RelationAdjacent, "face_1", nil)))
		assert.Error(t, g.AddEdge(model.NewEdge("face_0", model.RelationAdjacent, "missing", nil)))
	})

	t.Run("nil edge and empty id are rejected", func(t *testing.T) {
		assert.Error(t, g.AddEdge(nil))
		assert.Error(t, g.AddEdge(&model.Edge{Source: "face_0", Target: "face_1"}))
	})
}

func TestNeighborsAndPredecessors(t *testing.T) {
	g := twoFaceGraph(t)

	t.Run("unfiltered neighbors", func(t *testing.T) {
		neighbors := g.Neighbors("face_0", nil)
		require.Len(t, neighbors, 2)
	})

	t.Run("filtered by relation", func(t *testing.T) {
		adjacent := model.RelationAdjacent
		neighbors := g.Neighbors("face_0", &adjacent)
		require.Len(t, neighbors, 1)
		assert.Equal(t, "face_1", neighbors[0].ID)

		bounds := model.RelationBounds
		assert.Empty(t, g.Neighbors("face_0", &bounds))
	})

	t.Run("predecessors", func(t *testing.T) {
		bounds := model.RelationBounds
		predecessors := g.Predecessors("face_0", &bounds)
		require.Len(t, predecessors, 1)
		assert.Equal(t, "edge_0", predecessors[0].ID)
	})

	t.Run("unknown node has no neighbors", func(t *testing.T) {
		assert.Empty(t, g.Neighbors("missing", nil))
		assert.Empty(t, g.Predecessors("missing", nil))
	})
}

func TestTopologyHelpers(t *testing.T) {
	g := twoFaceGraph(t)

	t.Run("nodes by type", func(t *testing.T) {
		faces := g.NodesByType(model.TopologyFace)
		require.Len(t, faces, 2)
		assert.Equal(t, "face_0", faces[0].ID)
		assert.Equal(t, "face_1", faces[1].ID)
		assert.Empty(t, g.NodesByType(model.TopologyShell))
	})

	t.Run("edges bounding a face", func(t *testing.T) {
		bounding := g.EdgesBoundingFace("face_0")
		require.Len(t, bounding, 1)
		assert.Equal(t, "edge_0", bounding[0].ID)
	})

	t.Run("faces adjacent to an edge", func(t *testing.T) {
		faces := g.FacesAdjacentToEdge("edge_0")
		require.Len(t, faces, 2)
	})
}

func TestAdjacencyLookup(t *testing.T) {
	g := twoFaceGraph(t)

	t.Run("adjacency edge by derived id", func(t *testing.T) {
		assert.NotNil(t, g.AdjacencyEdge("face_0", "face_1"))
		assert.NotNil(t, g.AdjacencyEdge("face_1", "face_0"))
		assert.Nil(t, g.AdjacencyEdge("face_0", "edge_0"))
	})

	t.Run("cached dihedral angle works in both directions", func(t *testing.T) {
		angle, ok := g.CachedDihedralAngle("face_0", "face_1")
		require.True(t, ok)
		assert.Equal(t, 90.0, angle)

		angle, ok = g.CachedDihedralAngle("face_1", "face_0")
		require.True(t, ok)
		assert.Equal(t, 90.0, angle)

		_, ok = g.CachedDihedralAngle("face_0", "missing")
		assert.False(t, ok)
	})
}

func TestStatistics(t *testing.T) {
	g := twoFaceGraph(t)
	addNode(t, g, "vertex_0", model.TopologyVertex)
	addNode(t, g, "shell_0", model.TopologyShell)

	stats := g.Statistics()
	assert.Equal(t, 1, stats.Vertices)
	assert.Equal(t, 1, stats.Edges)
	assert.Equal(t, 2, stats.Faces)
	assert.Equal(t, 1, stats.Shells)
	assert.Equal(t, 6, stats.TotalEdges)
}

func TestExport(t *testing.T) {
	g := twoFaceGraph(t)
	export := g.Export()

	require.Len(t, export.Nodes, 3)
	require.Len(t, export.Links, 6)

	t.Run("nodes keep insertion order and carry the group", func(t *testing.T) {
		assert.Equal(t, "edge_0", export.Nodes[0].ID)
		assert.Equal(t, "edge", export.Nodes[0].Group)
		assert.Equal(t, "face_0", export.Nodes[1].ID)
		assert.Equal(t, "face", export.Nodes[1].Group)
	})

	t.Run("links keep insertion order", func(t *testing.T) {
		assert.Equal(t, "edge_0", export.Links[0].Source)
		assert.Equal(t, "face_0", export.Links[0].Target)
		assert.Equal(t, "bounds", export.Links[0].Relation)

		last := export.Links[5]
		assert.Equal(t, "face_1", last.Source)
		assert.Equal(t, "adjacent", last.Relation)
	})

	t.Run("repeated export is identical", func(t *testing.T) {
		assert.Equal(t, export, g.Export())
	})
}
