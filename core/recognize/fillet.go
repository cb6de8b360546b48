package recognize

import (
	"log/slog"

	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/model"
)

// DefaultMaxFilletRadius bounds the blend radius considered a fillet when
// the caller does not pass max_radius
const DefaultMaxFilletRadius = 10.0

// FilletRecognizer detects blend faces: small-radius cylinder or torus
// faces connecting tangentially to at least two support faces. A concave
// blend reports as a fillet, a convex one as a round.
type FilletRecognizer struct {
	graph *graph.Graph
	log   *slog.Logger
}

// NewFilletRecognizer creates a fillet recognizer for one graph
func NewFilletRecognizer(g *graph.Graph, logger *slog.Logger) *FilletRecognizer {
	return &FilletRecognizer{graph: g, log: logger}
}

func (r *FilletRecognizer) Name() string { return "fillet_detector" }

func (r *FilletRecognizer) Description() string {
	return "Detects fillet and round blend faces by tangent adjacency"
}

func (r *FilletRecognizer) FeatureTypes() []model.FeatureType {
	return []model.FeatureType{model.FeatureFillet, model.FeatureRound}
}

// Recognize accepts a max_radius param in model units
func (r *FilletRecognizer) Recognize(params Params) ([]*model.RecognizedFeature, error) {
	maxRadius := DefaultMaxFilletRadius
	if v, ok := params.Float("max_radius"); ok {
		maxRadius = v
	}

	var fillets []*model.RecognizedFeature
	for _, face := range r.graph.NodesByType(model.TopologyFace) {
		radius, ok := r.blendRadius(face)
		if !ok || radius > maxRadius {
			continue
		}

		tangentCount, concaveCount := r.countSmoothAdjacencies(face)
		// Blends connect tangentially to both support faces.
		if tangentCount < 2 {
			continue
		}

		featureType := model.FeatureRound
		if concaveCount > 0 {
			featureType = model.FeatureFillet
		}

		feature, err := model.NewRecognizedFeature(featureType, 1.0, []string{face.ID}, model.Attributes{
			"radius": radius,
		})
		if err != nil {
			return nil, helper.NewError("building fillet feature", err)
		}
		fillets = append(fillets, feature)
	}

	r.log.Info("Fillet recognition finished", slog.Int("fillets", len(fillets)))
	return fillets, nil
}

// blendRadius returns the blend radius for cylinder faces (radius) and
// torus faces (minor_radius)
func (r *FilletRecognizer) blendRadius(face *model.Node) (float64, bool) {
	surface, _ := face.Attributes.String("surface_type")
	switch model.SurfaceType(surface) {
	case model.SurfaceCylinder:
		return face.Attributes.Float("radius")
	case model.SurfaceTorus:
		return face.Attributes.Float("minor_radius")
	}
	return 0, false
}

func (r *FilletRecognizer) countSmoothAdjacencies(face *model.Node) (tangent, concave int) {
	adjacent := model.RelationAdjacent
	for _, neighbor := range r.graph.Neighbors(face.ID, &adjacent) {
		edge := r.graph.AdjacencyEdge(face.ID, neighbor.ID)
		if edge == nil {
			continue
		}
		if isTangent, _ := edge.Attributes.Bool(model.AttrIsTangent); isTangent {
			tangent++
		}
		if adjacencyAngleType(r.graph, face.ID, neighbor.ID) == model.AngleConcave {
			concave++
		}
	}
	return tangent, concave
}
