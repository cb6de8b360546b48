package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeID(t *testing.T) {
	assert.Equal(t, "edge_0_bounds_face_1", EdgeID("edge_0", RelationBounds, "face_1"))
	assert.Equal(t, "face_0_adjacent_face_1", EdgeID("face_0", RelationAdjacent, "face_1"))

	// The id is directional, the reverse edge has its own identity.
	assert.NotEqual(t,
		EdgeID("face_0", RelationAdjacent, "face_1"),
		EdgeID("face_1", RelationAdjacent, "face_0"))
}

func TestNewEdge(t *testing.T) {
	edge := NewEdge("face_0", RelationAdjacent, "face_1", Attributes{AttrDihedralAngle: 90.0})

	assert.Equal(t, "face_0_adjacent_face_1", edge.ID)
	assert.Equal(t, "face_0", edge.Source)
	assert.Equal(t, "face_1", edge.Target)
	assert.Equal(t, RelationAdjacent, edge.Relation)

	t.Run("attribute access", func(t *testing.T) {
		assert.True(t, edge.HasAttribute(AttrDihedralAngle))
		assert.False(t, edge.HasAttribute(AttrIsTangent))
		assert.Equal(t, 90.0, edge.GetAttribute(AttrDihedralAngle, 0.0))
		assert.Equal(t, false, edge.GetAttribute(AttrIsTangent, false))
	})
}
