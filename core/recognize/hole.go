package recognize

import (
	"log/slog"
	"math"

	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/model"
)

// HoleRecognizer detects cylindrical holes: internal cylinder faces bounded
// by circular edges, meeting their neighbors concave. Coaxial stacked
// cylinders of different radii report as one counterbored hole.
type HoleRecognizer struct {
	graph *graph.Graph
	log   *slog.Logger
}

// NewHoleRecognizer creates a hole recognizer for one graph
func NewHoleRecognizer(g *graph.Graph, logger *slog.Logger) *HoleRecognizer {
	return &HoleRecognizer{graph: g, log: logger}
}

func (r *HoleRecognizer) Name() string { return "hole_detector" }

func (r *HoleRecognizer) Description() string {
	return "Detects cylindrical holes including simple and counterbored variants"
}

func (r *HoleRecognizer) FeatureTypes() []model.FeatureType {
	return []model.FeatureType{model.FeatureHoleSimple, model.FeatureHoleCounterbore}
}

// Recognize accepts min_diameter and max_diameter params in model units
func (r *HoleRecognizer) Recognize(params Params) ([]*model.RecognizedFeature, error) {
	minRadius, maxRadius := 0.0, math.Inf(1)
	if d, ok := params.Float("min_diameter"); ok {
		minRadius = d / 2
	}
	if d, ok := params.Float("max_diameter"); ok {
		maxRadius = d / 2
	}

	candidates := cylindricalFaces(r.graph, minRadius, maxRadius)
	r.log.Debug("Hole recognition started",
		slog.Int("cylindrical_faces", len(candidates)))

	var holes []*model.RecognizedFeature
	traversed := make(map[string]bool)

	for _, face := range candidates {
		if traversed[face.ID] {
			continue
		}
		if !r.isInternal(face) {
			continue
		}
		if !hasCircularBoundingEdge(r.graph, face.ID) {
			continue
		}

		coaxial := r.coaxialGroup(face, minRadius, maxRadius)
		for _, member := range coaxial {
			traversed[member.ID] = true
		}

		feature, err := r.buildHole(coaxial)
		if err != nil {
			return nil, helper.NewError("building hole feature", err)
		}
		holes = append(holes, feature)
	}

	r.log.Info("Hole recognition finished", slog.Int("holes", len(holes)))
	return holes, nil
}

// isInternal distinguishes a bore from a shaft: an internal cylinder meets
// at least one neighbor concave and none convex.
func (r *HoleRecognizer) isInternal(face *model.Node) bool {
	adjacent := model.RelationAdjacent
	concave := false
	for _, neighbor := range r.graph.Neighbors(face.ID, &adjacent) {
		switch adjacencyAngleType(r.graph, face.ID, neighbor.ID) {
		case model.AngleConcave:
			concave = true
		case model.AngleConvex:
			return false
		}
	}
	return concave
}

// coaxialGroup collects the candidate face plus adjacent cylinder faces
// sharing its axis, in adjacency order. A group larger than one is a
// counterbored pattern.
func (r *HoleRecognizer) coaxialGroup(face *model.Node, minRadius, maxRadius float64) []*model.Node {
	axis, hasAxis := face.Attributes.Vec("axis")
	group := []*model.Node{face}
	if !hasAxis {
		return group
	}

	adjacent := model.RelationAdjacent
	inGroup := map[string]bool{face.ID: true}
	queue := []*model.Node{face}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range r.graph.Neighbors(current.ID, &adjacent) {
			if inGroup[neighbor.ID] {
				continue
			}
			if surface, _ := neighbor.Attributes.String("surface_type"); surface != string(model.SurfaceCylinder) {
				continue
			}
			radius, _ := neighbor.Attributes.Float("radius")
			if radius < minRadius || radius > maxRadius {
				continue
			}
			neighborAxis, ok := neighbor.Attributes.Vec("axis")
			if !ok || !sameAxis(axis, neighborAxis) {
				continue
			}
			inGroup[neighbor.ID] = true
			group = append(group, neighbor)
			queue = append(queue, neighbor)
		}
	}
	return group
}

func (r *HoleRecognizer) buildHole(faces []*model.Node) (*model.RecognizedFeature, error) {
	featureType := model.FeatureHoleSimple
	if len(faces) > 1 {
		featureType = model.FeatureHoleCounterbore
	}

	faceIDs := make([]string, len(faces))
	// The bore is the narrowest member of a counterbored stack.
	boreRadius := math.Inf(1)
	totalDepth := 0.0
	for i, face := range faces {
		faceIDs[i] = face.ID
		radius, _ := face.Attributes.Float("radius")
		if radius < boreRadius {
			boreRadius = radius
		}
		if area, ok := face.Attributes.Float("area"); ok && radius > 0 {
			totalDepth += area / (2 * math.Pi * radius)
		}
	}

	properties := model.Attributes{
		"radius":   boreRadius,
		"diameter": boreRadius * 2,
		"depth":    totalDepth,
	}
	if axis, ok := faces[0].Attributes.Vec("axis"); ok {
		properties["axis"] = axis
	}
	if len(faces) > 1 {
		radii := make([]float64, len(faces))
		for i, face := range faces {
			radii[i], _ = face.Attributes.Float("radius")
		}
		properties["bore_radii"] = radii
	}

	return model.NewRecognizedFeature(featureType, 1.0, faceIDs, properties)
}
