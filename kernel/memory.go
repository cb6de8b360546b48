package kernel

import (
	"fmt"

	"github.com/brepflow/aag/model"
)

// Entity is an in-memory topological entity with a stable reference
type Entity struct {
	ref   string
	attrs model.Attributes
}

// Ref returns the stable identity of the entity
func (e *Entity) Ref() string { return e.ref }

// Model is an in-memory B-Rep carrying pre-assigned attributes, standing in
// for an external geometry kernel. It implements both BRep and
// AttributeProvider.
type Model struct {
	vertices []*Entity
	edges    []*Entity
	faces    []*Entity
	shells   []*Entity

	faceEdges    map[string][]model.TopoEntity
	edgeVertices map[string][]model.TopoEntity

	dihedrals map[string]float64
	coplanar  map[string]bool

	failAttrs    map[string]bool
	failDihedral map[string]bool
}

// NewModel creates an empty in-memory model
func NewModel() *Model {
	return &Model{
		faceEdges:    make(map[string][]model.TopoEntity),
		edgeVertices: make(map[string][]model.TopoEntity),
		dihedrals:    make(map[string]float64),
		coplanar:     make(map[string]bool),
		failAttrs:    make(map[string]bool),
		failDihedral: make(map[string]bool),
	}
}

// AddVertex registers a vertex entity
func (m *Model) AddVertex(ref string, attrs model.Attributes) *Entity {
	e := &Entity{ref: ref, attrs: attrs}
	m.vertices = append(m.vertices, e)
	return e
}

// AddEdge registers an edge entity with its bounding vertices
func (m *Model) AddEdge(ref string, attrs model.Attributes, bounding ...*Entity) *Entity {
	e := &Entity{ref: ref, attrs: attrs}
	m.edges = append(m.edges, e)
	for _, v := range bounding {
		m.edgeVertices[ref] = append(m.edgeVertices[ref], v)
	}
	return e
}

// AddFace registers a face entity with its bounding edges
func (m *Model) AddFace(ref string, attrs model.Attributes, bounding ...*Entity) *Entity {
	e := &Entity{ref: ref, attrs: attrs}
	m.faces = append(m.faces, e)
	for _, be := range bounding {
		m.faceEdges[ref] = append(m.faceEdges[ref], be)
	}
	return e
}

// AddShell registers a shell entity
func (m *Model) AddShell(ref string, attrs model.Attributes) *Entity {
	e := &Entity{ref: ref, attrs: attrs}
	m.shells = append(m.shells, e)
	return e
}

// SetDihedral records the signed dihedral angle for a face pair, symmetric
func (m *Model) SetDihedral(face1, face2 *Entity, angle float64) {
	m.dihedrals[pairKey(face1.ref, face2.ref)] = angle
	m.dihedrals[pairKey(face2.ref, face1.ref)] = angle
}

// SetCoplanar marks two faces as coplanar, symmetric
func (m *Model) SetCoplanar(face1, face2 *Entity) {
	m.coplanar[pairKey(face1.ref, face2.ref)] = true
	m.coplanar[pairKey(face2.ref, face1.ref)] = true
}

// FailAttributesFor makes attribute computation fail for an entity ref.
// Test hook for the builder's degraded-attribute path.
func (m *Model) FailAttributesFor(ref string) {
	m.failAttrs[ref] = true
}

// FailDihedralFor makes dihedral computation fail for a face ref.
// Test hook for the builder's neutral-fallback path.
func (m *Model) FailDihedralFor(ref string) {
	m.failDihedral[ref] = true
}

// Vertices enumerates all vertex entities in registration order
func (m *Model) Vertices() []model.TopoEntity { return asEntities(m.vertices) }

// Edges enumerates all edge entities in registration order
func (m *Model) Edges() []model.TopoEntity { return asEntities(m.edges) }

// Faces enumerates all face entities in registration order
func (m *Model) Faces() []model.TopoEntity { return asEntities(m.faces) }

// Shells enumerates all shell entities in registration order
func (m *Model) Shells() []model.TopoEntity { return asEntities(m.shells) }

// BoundingEdges enumerates the edges bounding a face
func (m *Model) BoundingEdges(face model.TopoEntity) []model.TopoEntity {
	return m.faceEdges[face.Ref()]
}

// BoundingVertices enumerates the vertices bounding an edge
func (m *Model) BoundingVertices(edge model.TopoEntity) []model.TopoEntity {
	return m.edgeVertices[edge.Ref()]
}

// EntityAttributes returns a copy of the entity's pre-assigned attributes
func (m *Model) EntityAttributes(entity model.TopoEntity, topologyType model.TopologyType) (model.Attributes, error) {
	if m.failAttrs[entity.Ref()] {
		return nil, fmt.Errorf("attribute computation failed for %s %q", topologyType, entity.Ref())
	}

	e, ok := entity.(*Entity)
	if !ok {
		return nil, fmt.Errorf("entity %q does not belong to this model", entity.Ref())
	}

	attrs := make(model.Attributes, len(e.attrs))
	for k, v := range e.attrs {
		attrs[k] = v
	}
	return attrs, nil
}

// DihedralAngle returns the recorded signed angle for a face pair
func (m *Model) DihedralAngle(face1, face2, sharedEdge model.TopoEntity) (float64, error) {
	if m.failDihedral[face1.Ref()] || m.failDihedral[face2.Ref()] {
		return 0, fmt.Errorf("dihedral computation failed for %q-%q", face1.Ref(), face2.Ref())
	}
	angle, ok := m.dihedrals[pairKey(face1.Ref(), face2.Ref())]
	if !ok {
		return 0, fmt.Errorf("no dihedral angle recorded for %q-%q", face1.Ref(), face2.Ref())
	}
	return angle, nil
}

// Coplanar reports whether two faces were marked coplanar
func (m *Model) Coplanar(face1, face2 model.TopoEntity) (bool, error) {
	return m.coplanar[pairKey(face1.Ref(), face2.Ref())], nil
}

func pairKey(a, b string) string {
	return a + "|" + b
}

func asEntities(entities []*Entity) []model.TopoEntity {
	out := make([]model.TopoEntity, len(entities))
	for i, e := range entities {
		out[i] = e
	}
	return out
}
