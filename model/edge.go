package model

import "fmt"

// RelationType represents the type of relationship between nodes
type RelationType string

const (
	RelationBounds    RelationType = "bounds"     // edge bounds face, vertex bounds edge
	RelationBoundedBy RelationType = "bounded_by" // inverse of bounds
	RelationAdjacent  RelationType = "adjacent"   // faces share an edge
	RelationCoplanar  RelationType = "coplanar"   // planar faces lie in one plane
	RelationTangent   RelationType = "tangent"    // faces meet smoothly
	RelationParallel  RelationType = "parallel"   // faces/edges are parallel
)

// Edge represents a relationship between two nodes. Adjacency edges carry
// cached dihedral data so recognizers never recompute geometry.
type Edge struct {
	ID         string       `json:"id"`
	Source     string       `json:"source"`
	Target     string       `json:"target"`
	Relation   RelationType `json:"relationship"`
	Attributes Attributes   `json:"attributes,omitempty"`
}

// AngleType classifies the signed dihedral angle at a shared edge
type AngleType string

const (
	AngleConvex  AngleType = "convex"  // angle < 0, material addition (shaft, boss)
	AngleConcave AngleType = "concave" // angle > 0, material removal (hole, pocket)
	AngleTangent AngleType = "tangent" // |angle| near 180, smooth transition
	AngleUnknown AngleType = "unknown" // dihedral computation failed
)

// Attribute keys cached on adjacency edges during construction.
const (
	AttrDihedralAngle = "dihedral_angle"
	AttrAngleType     = "angle_type"
	AttrIsConvex      = "is_convex"
	AttrIsConcave     = "is_concave"
	AttrIsTangent     = "is_tangent"
	AttrSharedEdgeID  = "shared_edge_id"
)

// EdgeID derives the identity of a relationship edge from its endpoints and
// kind. Ids are deterministic so adjacency lookups need no side table.
func EdgeID(source string, relation RelationType, target string) string {
	return fmt.Sprintf("%s_%s_%s", source, relation, target)
}

// NewEdge creates a relationship edge with its derived id
func NewEdge(source string, relation RelationType, target string, attributes Attributes) *Edge {
	return &Edge{
		ID:         EdgeID(source, relation, target),
		Source:     source,
		Target:     target,
		Relation:   relation,
		Attributes: attributes,
	}
}

// GetAttribute returns an attribute value or the given default if missing
func (e *Edge) GetAttribute(key string, def interface{}) interface{} {
	if v, ok := e.Attributes[key]; ok {
		return v
	}
	return def
}

// HasAttribute checks if an attribute exists on the edge
func (e *Edge) HasAttribute(key string) bool {
	_, ok := e.Attributes[key]
	return ok
}
