package model

import (
	"fmt"

	"github.com/google/uuid"
)

// FeatureType tags the kind of manufacturing feature a recognizer reports
type FeatureType string

const (
	FeatureHoleSimple      FeatureType = "hole_simple"
	FeatureHoleCountersunk FeatureType = "hole_countersunk"
	FeatureHoleCounterbore FeatureType = "hole_counterbored"
	FeatureHoleThreaded    FeatureType = "hole_threaded"
	FeatureShaft           FeatureType = "shaft"
	FeatureBoss            FeatureType = "boss"
	FeaturePocket          FeatureType = "pocket"
	FeatureSlot            FeatureType = "slot"
	FeatureStepThrough     FeatureType = "step_through"
	FeatureStepBlind       FeatureType = "step_blind"
	FeaturePassage         FeatureType = "passage"
	FeatureFillet          FeatureType = "fillet"
	FeatureChamfer         FeatureType = "chamfer"
	FeatureRound           FeatureType = "round"
	FeatureProtrusion      FeatureType = "protrusion"
	FeatureDepression      FeatureType = "depression"
	FeatureOther           FeatureType = "other"
)

// RecognizedFeature is the standard output of a feature recognizer: the set
// of face node ids composing the feature plus typed properties.
type RecognizedFeature struct {
	ID               string      `json:"id"`
	Type             FeatureType `json:"feature_type"`
	Confidence       float64     `json:"confidence"`
	FaceIDs          []string    `json:"face_ids"`
	Properties       Attributes  `json:"properties,omitempty"`
	BoundingGeometry Attributes  `json:"bounding_geometry,omitempty"`
}

// NewRecognizedFeature creates a feature with a generated id. A confidence
// outside [0, 1] is a recognizer bug and is rejected.
func NewRecognizedFeature(featureType FeatureType, confidence float64, faceIDs []string, properties Attributes) (*RecognizedFeature, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return nil, fmt.Errorf("confidence must be between 0 and 1, got %v", confidence)
	}
	return &RecognizedFeature{
		ID:         uuid.New().String(),
		Type:       featureType,
		Confidence: confidence,
		FaceIDs:    faceIDs,
		Properties: properties,
	}, nil
}
