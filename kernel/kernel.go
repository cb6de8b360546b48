// Package kernel declares the interfaces of the external geometry layer
// the graph builder consumes, plus an in-memory implementation used by
// tests and examples. The builder never computes geometry itself; it only
// attaches values the kernel already computed.
package kernel

import "github.com/brepflow/aag/model"

// BRep is a handle to a boundary representation. Enumeration follows the
// kernel's native order and is stable across calls for one model.
type BRep interface {
	Vertices() []model.TopoEntity
	Edges() []model.TopoEntity
	Faces() []model.TopoEntity
	Shells() []model.TopoEntity

	// BoundingEdges enumerates the edges bounding a face.
	BoundingEdges(face model.TopoEntity) []model.TopoEntity
	// BoundingVertices enumerates the vertices bounding an edge.
	BoundingVertices(edge model.TopoEntity) []model.TopoEntity
}

// AttributeProvider computes geometric attributes for topological entities.
// Per-entity and per-pair failures are expected and non-fatal to a build.
type AttributeProvider interface {
	// EntityAttributes returns the attribute mapping for one entity.
	EntityAttributes(entity model.TopoEntity, topologyType model.TopologyType) (model.Attributes, error)

	// DihedralAngle returns the signed dihedral angle in degrees within
	// [-180, 180] between two adjacent faces at their shared edge.
	// Negative means convex (material addition), positive concave.
	DihedralAngle(face1, face2, sharedEdge model.TopoEntity) (float64, error)

	// Coplanar reports whether two planar faces lie in the same plane.
	Coplanar(face1, face2 model.TopoEntity) (bool, error)
}
