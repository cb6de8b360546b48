// Package recognize contains the feature recognizer framework: a common
// recognizer interface, a registry keyed by name, and the built-in
// recognizers for holes, fillets and bosses.
package recognize

import (
	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/model"
)

// Params carries recognizer-specific tuning values, e.g. min_diameter and
// max_diameter for the hole recognizer. A nil Params means all defaults.
type Params = model.Attributes

// Recognizer analyzes one graph for a family of manufacturing features.
// Recognizers only read the graph, so several may run concurrently against
// the same instance.
type Recognizer interface {
	// Recognize returns all detected features, possibly none
	Recognize(params Params) ([]*model.RecognizedFeature, error)

	// Name returns the unique registration name, e.g. "hole_detector"
	Name() string

	// Description returns a human-readable summary of what is detected
	Description() string

	// FeatureTypes returns the feature types this recognizer can report
	FeatureTypes() []model.FeatureType
}

// cylindricalFaces returns cylinder face nodes within a radius range
func cylindricalFaces(g *graph.Graph, minRadius, maxRadius float64) []*model.Node {
	var faces []*model.Node
	for _, node := range g.NodesByType(model.TopologyFace) {
		if surface, _ := node.Attributes.String("surface_type"); surface != string(model.SurfaceCylinder) {
			continue
		}
		radius, _ := node.Attributes.Float("radius")
		if radius < minRadius || radius > maxRadius {
			continue
		}
		faces = append(faces, node)
	}
	return faces
}

// adjacencyAngleType returns the cached angle classification between two
// faces, or AngleUnknown if they are not adjacent
func adjacencyAngleType(g *graph.Graph, face1ID, face2ID string) model.AngleType {
	edge := g.AdjacencyEdge(face1ID, face2ID)
	if edge == nil {
		edge = g.AdjacencyEdge(face2ID, face1ID)
	}
	if edge == nil {
		return model.AngleUnknown
	}
	if angleType, ok := edge.Attributes.String(model.AttrAngleType); ok {
		return model.AngleType(angleType)
	}
	return model.AngleUnknown
}

// hasCircularBoundingEdge reports whether any edge bounding the face is a
// circle
func hasCircularBoundingEdge(g *graph.Graph, faceID string) bool {
	for _, edgeNode := range g.EdgesBoundingFace(faceID) {
		if curve, _ := edgeNode.Attributes.String("curve_type"); curve == string(model.CurveCircle) {
			return true
		}
	}
	return false
}

// sameAxis compares two cylinder axes up to sign within a small tolerance
func sameAxis(a, b model.Vec3) bool {
	const tolerance = 1e-6
	dot := a.X()*b.X() + a.Y()*b.Y() + a.Z()*b.Z()
	if dot < 0 {
		dot = -dot
	}
	return dot > 1.0-tolerance
}
