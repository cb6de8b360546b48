// Package builder constructs an Attributed Adjacency Graph from a boundary
// representation in three strictly ordered phases: topology extraction,
// attribute attachment, relationship synthesis. Attribute failures degrade
// per entity; structural failures abort the build.
package builder

import (
	"fmt"
	"log/slog"

	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/kernel"
	"github.com/brepflow/aag/model"
)

// Builder constructs one graph from one boundary representation.
// A Builder is single-use and single-writer: readers only see the graph
// after Build returns successfully.
type Builder struct {
	brep     kernel.BRep
	provider kernel.AttributeProvider
	graph    *graph.Graph
	log      *slog.Logger

	// Kernel entities are revisited by structural traversal in phase 3,
	// not by id, so extraction records a handle-to-id side table.
	entityToID map[string]string

	smoothTolerance float64
}

// NewBuilder creates a builder for one boundary representation
func NewBuilder(brep kernel.BRep, provider kernel.AttributeProvider, logger *slog.Logger) *Builder {
	return &Builder{
		brep:            brep,
		provider:        provider,
		graph:           graph.NewGraph(),
		log:             logger,
		entityToID:      make(map[string]string),
		smoothTolerance: DefaultSmoothTolerance,
	}
}

// Build runs all three phases and returns the completed graph. On a
// structural error there is no well-defined graph to return and the build
// fails as a whole.
func (b *Builder) Build() (*graph.Graph, error) {
	b.log.Info("Building attributed adjacency graph")

	if err := b.extractTopology(); err != nil {
		return nil, helper.NewError("extract topology", err)
	}

	stats := b.graph.Statistics()
	b.log.Info("Extracted topology",
		slog.Int("vertices", stats.Vertices),
		slog.Int("edges", stats.Edges),
		slog.Int("faces", stats.Faces),
		slog.Int("shells", stats.Shells))

	b.attachAttributes()

	if err := b.synthesizeRelationships(); err != nil {
		return nil, helper.NewError("synthesize relationships", err)
	}

	b.log.Info("Graph built",
		slog.Int("nodes", b.graph.Len()),
		slog.Int("relationship_edges", b.graph.EdgeCount()))

	return b.graph, nil
}

// extractTopology walks the boundary representation once per topology type
// in the kernel's native enumeration order, assigning sequential ids per
// type starting at 0.
func (b *Builder) extractTopology() error {
	categories := []struct {
		topologyType model.TopologyType
		entities     []model.TopoEntity
	}{
		{model.TopologyVertex, b.brep.Vertices()},
		{model.TopologyEdge, b.brep.Edges()},
		{model.TopologyFace, b.brep.Faces()},
		{model.TopologyShell, b.brep.Shells()},
	}

	for _, category := range categories {
		for i, entity := range category.entities {
			nodeID := fmt.Sprintf("%s_%d", category.topologyType, i)
			b.entityToID[entity.Ref()] = nodeID

			err := b.graph.AddNode(&model.Node{
				ID:         nodeID,
				Type:       category.topologyType,
				Entity:     entity,
				Attributes: model.Attributes{},
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// attachAttributes merges externally computed attributes into every node.
// A per-node failure is logged and leaves the node with a degraded
// attribute set instead of aborting the build.
func (b *Builder) attachAttributes() {
	for _, node := range b.graph.Nodes() {
		attrs, err := b.provider.EntityAttributes(node.Entity, node.Type)
		if err != nil {
			b.log.Warn("Failed to compute attributes",
				slog.String("node_id", node.ID),
				slog.String("error", err.Error()))
			switch node.Type {
			case model.TopologyFace:
				node.Attributes["surface_type"] = string(model.SurfaceOther)
			case model.TopologyEdge:
				node.Attributes["curve_type"] = string(model.CurveOther)
			}
			continue
		}
		for k, v := range attrs {
			node.Attributes[k] = v
		}
	}
}

// synthesizeRelationships creates bounding, adjacency and coplanarity
// edges. Bounds/BoundedBy always come as an inverse pair and Adjacent as a
// symmetric pair carrying identical cached dihedral data.
func (b *Builder) synthesizeRelationships() error {
	if err := b.linkBounding(); err != nil {
		return err
	}
	if err := b.linkAdjacency(); err != nil {
		return err
	}
	return b.linkCoplanarity()
}

func (b *Builder) linkBounding() error {
	for _, faceNode := range b.graph.NodesByType(model.TopologyFace) {
		for _, edgeEntity := range b.brep.BoundingEdges(faceNode.Entity) {
			edgeID, ok := b.entityToID[edgeEntity.Ref()]
			if !ok {
				continue
			}
			if err := b.addBoundingPair(edgeID, faceNode.ID); err != nil {
				return err
			}
		}
	}

	for _, edgeNode := range b.graph.NodesByType(model.TopologyEdge) {
		for _, vertexEntity := range b.brep.BoundingVertices(edgeNode.Entity) {
			vertexID, ok := b.entityToID[vertexEntity.Ref()]
			if !ok {
				continue
			}
			if err := b.addBoundingPair(vertexID, edgeNode.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func (b *Builder) addBoundingPair(boundingID, boundedID string) error {
	// Kernels enumerate a seam entity twice on a closed face or edge; keep
	// the first pair.
	if b.graph.GetEdge(model.EdgeID(boundingID, model.RelationBounds, boundedID)) != nil {
		return nil
	}
	if err := b.graph.AddEdge(model.NewEdge(boundingID, model.RelationBounds, boundedID, nil)); err != nil {
		return err
	}
	return b.graph.AddEdge(model.NewEdge(boundedID, model.RelationBoundedBy, boundingID, nil))
}

func (b *Builder) linkAdjacency() error {
	// An edge shared by two or more faces makes those faces adjacent.
	edgeFaces := make(map[string][]*model.Node)
	for _, faceNode := range b.graph.NodesByType(model.TopologyFace) {
		for _, edgeEntity := range b.brep.BoundingEdges(faceNode.Entity) {
			ref := edgeEntity.Ref()
			edgeFaces[ref] = append(edgeFaces[ref], faceNode)
		}
	}

	for _, edgeEntity := range b.brep.Edges() {
		faces := edgeFaces[edgeEntity.Ref()]
		if len(faces) < 2 {
			continue
		}
		sharedEdgeID := b.entityToID[edgeEntity.Ref()]

		for i := 0; i < len(faces); i++ {
			for j := i + 1; j < len(faces); j++ {
				// A seam edge lists its closed face twice; a face is not
				// adjacent to itself.
				if faces[i].ID == faces[j].ID {
					continue
				}
				// Faces can share more than one edge; keep the first pair.
				if b.graph.AdjacencyEdge(faces[i].ID, faces[j].ID) != nil {
					continue
				}
				if err := b.addAdjacencyPair(faces[i], faces[j], edgeEntity, sharedEdgeID); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (b *Builder) addAdjacencyPair(face1, face2 *model.Node, sharedEdge model.TopoEntity, sharedEdgeID string) error {
	angle, err := b.provider.DihedralAngle(face1.Entity, face2.Entity, sharedEdge)
	if err != nil {
		// Neutral fallback: treat the pair as a smooth transition rather
		// than dropping the adjacency.
		b.log.Warn("Failed to compute dihedral angle",
			slog.String("face1", face1.ID),
			slog.String("face2", face2.ID),
			slog.String("error", err.Error()))
		angle = 180.0
	}

	angleType := ClassifyAngle(angle, b.smoothTolerance)

	forward := adjacencyAttributes(angle, angleType, b.smoothTolerance, sharedEdgeID)
	backward := adjacencyAttributes(angle, angleType, b.smoothTolerance, sharedEdgeID)

	if err := b.graph.AddEdge(model.NewEdge(face1.ID, model.RelationAdjacent, face2.ID, forward)); err != nil {
		return err
	}
	return b.graph.AddEdge(model.NewEdge(face2.ID, model.RelationAdjacent, face1.ID, backward))
}

func adjacencyAttributes(angle float64, angleType model.AngleType, smoothTolerance float64, sharedEdgeID string) model.Attributes {
	return model.Attributes{
		model.AttrDihedralAngle: angle,
		model.AttrAngleType:     string(angleType),
		model.AttrIsConvex:      IsConvex(angle, smoothTolerance),
		model.AttrIsConcave:     IsConcave(angle, smoothTolerance),
		model.AttrIsTangent:     IsTangent(angle, DefaultTangentTolerance),
		model.AttrSharedEdgeID:  sharedEdgeID,
	}
}

// linkCoplanarity tests adjacent planar face pairs only, to bound cost.
func (b *Builder) linkCoplanarity() error {
	adjacent := model.RelationAdjacent
	for _, faceNode := range b.graph.NodesByType(model.TopologyFace) {
		if surface, _ := faceNode.Attributes.String("surface_type"); surface != string(model.SurfacePlane) {
			continue
		}

		for _, neighbor := range b.graph.Neighbors(faceNode.ID, &adjacent) {
			if surface, _ := neighbor.Attributes.String("surface_type"); surface != string(model.SurfacePlane) {
				continue
			}

			coplanar, err := b.provider.Coplanar(faceNode.Entity, neighbor.Entity)
			if err != nil {
				b.log.Debug("Failed to check coplanarity",
					slog.String("face1", faceNode.ID),
					slog.String("face2", neighbor.ID),
					slog.String("error", err.Error()))
				continue
			}
			if !coplanar {
				continue
			}

			if err := b.graph.AddEdge(model.NewEdge(faceNode.ID, model.RelationCoplanar, neighbor.ID, nil)); err != nil {
				return err
			}
		}
	}
	return nil
}
