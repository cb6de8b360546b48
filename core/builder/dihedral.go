package builder

import (
	"math"

	"github.com/brepflow/aag/model"
)

const (
	// DefaultSmoothTolerance is the tolerance in degrees around ±180 within
	// which a signed dihedral angle classifies as tangent.
	DefaultSmoothTolerance = 3.0

	// DefaultTangentTolerance is the wider tolerance for the unsigned
	// "is this edge roughly smooth" check exposed to callers that do not
	// need the sign distinction.
	DefaultTangentTolerance = 10.0
)

// ClassifyAngle classifies a signed dihedral angle in degrees [-180, 180].
// Negative angles are convex (material addition, shaft-like), positive
// concave (material removal, hole-like), |angle| near 180 tangent.
// Exactly 0 classifies as concave: the convexity test is strictly
// angle < 0. Downstream recognizers depend on this sign convention.
func ClassifyAngle(angle, smoothTolerance float64) model.AngleType {
	if math.Abs(angle) > 180.0-smoothTolerance {
		return model.AngleTangent
	}
	if angle < 0 {
		return model.AngleConvex
	}
	return model.AngleConcave
}

// IsConvex reports whether the signed angle indicates a convex edge
func IsConvex(angle, smoothTolerance float64) bool {
	return angle < 0 && math.Abs(angle) < 180.0-smoothTolerance
}

// IsConcave reports whether the signed angle indicates a concave edge
func IsConcave(angle, smoothTolerance float64) bool {
	return angle > 0 && math.Abs(angle) < 180.0-smoothTolerance
}

// IsTangent reports whether the angle is roughly 180 degrees
func IsTangent(angle, tolerance float64) bool {
	return math.Abs(angle-180.0) < tolerance
}
