package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/brepflow/aag/helper"
)

// SurfaceType classifies the underlying surface of a face
type SurfaceType string

const (
	SurfacePlane      SurfaceType = "plane"
	SurfaceCylinder   SurfaceType = "cylinder"
	SurfaceCone       SurfaceType = "cone"
	SurfaceSphere     SurfaceType = "sphere"
	SurfaceTorus      SurfaceType = "torus"
	SurfaceBSpline    SurfaceType = "bspline"
	SurfaceBezier     SurfaceType = "bezier"
	SurfaceRevolution SurfaceType = "revolution"
	SurfaceExtrusion  SurfaceType = "extrusion"
	SurfaceOther      SurfaceType = "other"
)

// CurveType classifies the underlying curve of an edge
type CurveType string

const (
	CurveLine      CurveType = "line"
	CurveCircle    CurveType = "circle"
	CurveEllipse   CurveType = "ellipse"
	CurveParabola  CurveType = "parabola"
	CurveHyperbola CurveType = "hyperbola"
	CurveBSpline   CurveType = "bspline"
	CurveBezier    CurveType = "bezier"
	CurveOther     CurveType = "other"
)

// Vec3 is a 3-component vector attribute (normals, axes, points)
type Vec3 [3]float64

// X returns the first component
func (v Vec3) X() float64 { return v[0] }

// Y returns the second component
func (v Vec3) Y() float64 { return v[1] }

// Z returns the third component
func (v Vec3) Z() float64 { return v[2] }

// Attributes represents the attribute mapping of a node or relationship
// edge, stored as JSONB when persisted to PostgreSQL
type Attributes map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (a Attributes) Value() (driver.Value, error) {
	return a.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (a *Attributes) Scan(value interface{}) error {
	return a.Unmarshal(value)
}

// Marshal converts Attributes to JSON bytes
func (a Attributes) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

// Unmarshal converts JSON bytes or Attributes to Attributes
func (a *Attributes) Unmarshal(value interface{}) error {
	if value == nil {
		*a = Attributes{}
		return nil
	}

	if s, ok := value.(Attributes); ok {
		*a = Attributes(s)
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, a)
}

// Float returns a numeric attribute. JSON decoding yields float64, so int
// values only appear for attributes set in code.
func (a Attributes) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// String returns a string attribute, coercing tag types
func (a Attributes) String(key string) (string, bool) {
	switch v := a[key].(type) {
	case string:
		return v, true
	case SurfaceType:
		return string(v), true
	case CurveType:
		return string(v), true
	case AngleType:
		return string(v), true
	}
	return "", false
}

// Bool returns a boolean attribute
func (a Attributes) Bool(key string) (bool, bool) {
	v, ok := a[key].(bool)
	return v, ok
}

// Vec returns a 3-vector attribute. A value that went through a JSON
// round-trip comes back as []interface{} and is converted.
func (a Attributes) Vec(key string) (Vec3, bool) {
	switch v := a[key].(type) {
	case Vec3:
		return v, true
	case []interface{}:
		if len(v) != 3 {
			return Vec3{}, false
		}
		var out Vec3
		for i, c := range v {
			f, ok := c.(float64)
			if !ok {
				return Vec3{}, false
			}
			out[i] = f
		}
		return out, true
	}
	return Vec3{}, false
}
