package recognize

import (
	"log/slog"
	"math"

	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/model"
)

// BossRecognizer detects cylindrical protrusions: external cylinder faces
// bounded by circular edges, meeting their planar base convex. The mirror
// image of a hole.
type BossRecognizer struct {
	graph *graph.Graph
	log   *slog.Logger
}

// NewBossRecognizer creates a boss recognizer for one graph
func NewBossRecognizer(g *graph.Graph, logger *slog.Logger) *BossRecognizer {
	return &BossRecognizer{graph: g, log: logger}
}

func (r *BossRecognizer) Name() string { return "boss_detector" }

func (r *BossRecognizer) Description() string {
	return "Detects cylindrical bosses and shafts protruding from planar faces"
}

func (r *BossRecognizer) FeatureTypes() []model.FeatureType {
	return []model.FeatureType{model.FeatureBoss, model.FeatureShaft}
}

// Recognize accepts min_diameter and max_diameter params in model units
func (r *BossRecognizer) Recognize(params Params) ([]*model.RecognizedFeature, error) {
	minRadius, maxRadius := 0.0, math.Inf(1)
	if d, ok := params.Float("min_diameter"); ok {
		minRadius = d / 2
	}
	if d, ok := params.Float("max_diameter"); ok {
		maxRadius = d / 2
	}

	var bosses []*model.RecognizedFeature
	for _, face := range cylindricalFaces(r.graph, minRadius, maxRadius) {
		if !r.isExternal(face) {
			continue
		}
		if !hasCircularBoundingEdge(r.graph, face.ID) {
			continue
		}

		radius, _ := face.Attributes.Float("radius")
		properties := model.Attributes{
			"radius":   radius,
			"diameter": radius * 2,
		}
		if area, ok := face.Attributes.Float("area"); ok && radius > 0 {
			properties["height"] = area / (2 * math.Pi * radius)
		}
		if axis, ok := face.Attributes.Vec("axis"); ok {
			properties["axis"] = axis
		}

		feature, err := model.NewRecognizedFeature(model.FeatureBoss, 1.0, []string{face.ID}, properties)
		if err != nil {
			return nil, helper.NewError("building boss feature", err)
		}
		bosses = append(bosses, feature)
	}

	r.log.Info("Boss recognition finished", slog.Int("bosses", len(bosses)))
	return bosses, nil
}

// isExternal is the inverse of the hole test: the cylinder meets at least
// one neighbor convex and none concave.
func (r *BossRecognizer) isExternal(face *model.Node) bool {
	adjacent := model.RelationAdjacent
	convex := false
	for _, neighbor := range r.graph.Neighbors(face.ID, &adjacent) {
		switch adjacencyAngleType(r.graph, face.ID, neighbor.ID) {
		case model.AngleConvex:
			convex = true
		case model.AngleConcave:
			return false
		}
	}
	return convex
}
