package kernel

import (
	"fmt"
	"math"

	"github.com/brepflow/aag/model"
)

// BoxModel builds a rectangular box: 8 vertices, 12 straight edges, 6
// planar faces, one shell. All face pairs sharing an edge meet at a signed
// dihedral of -90 degrees (convex).
func BoxModel(dx, dy, dz float64) *Model {
	m := NewModel()
	buildBox(m, dx, dy, dz)
	m.AddShell("box_shell", model.Attributes{})
	return m
}

// PlateWithHoleModel builds a rectangular plate with a cylindrical through
// bore: the box topology plus a cylindrical face bounded by two circular
// edges shared with the top and bottom faces, meeting them at +90 degrees
// (concave).
func PlateWithHoleModel(dx, dy, dz, radius float64) *Model {
	m := NewModel()
	faces := buildBox(m, dx, dy, dz)
	bottom, top := faces[4], faces[5]

	circumference := 2 * math.Pi * radius
	circleBottom := m.AddEdge("bore_e_bottom", model.Attributes{
		"curve_type": string(model.CurveCircle),
		"length":     circumference,
		"radius":     radius,
	})
	circleTop := m.AddEdge("bore_e_top", model.Attributes{
		"curve_type": string(model.CurveCircle),
		"length":     circumference,
		"radius":     radius,
	})

	bore := m.AddFace("bore_f", model.Attributes{
		"surface_type": string(model.SurfaceCylinder),
		"area":         circumference * dz,
		"radius":       radius,
		"axis":         model.Vec3{0, 0, 1},
	}, circleBottom, circleTop)

	// The circles also bound the plate faces they pierce, which makes the
	// bore adjacent to both.
	m.faceEdges[bottom.ref] = append(m.faceEdges[bottom.ref], circleBottom)
	m.faceEdges[top.ref] = append(m.faceEdges[top.ref], circleTop)

	m.SetDihedral(bore, bottom, 90)
	m.SetDihedral(bore, top, 90)

	m.AddShell("plate_shell", model.Attributes{})
	return m
}

// buildBox registers the box topology and returns the six faces in order
// x-min, x-max, y-min, y-max, z-min, z-max.
func buildBox(m *Model, dx, dy, dz float64) [6]*Entity {
	var corners [8]model.Vec3
	var verts [8]*Entity
	for c := 0; c < 8; c++ {
		p := model.Vec3{float64(c&1) * dx, float64(c>>1&1) * dy, float64(c>>2&1) * dz}
		corners[c] = p
		verts[c] = m.AddVertex(fmt.Sprintf("box_v%d", c), model.Attributes{
			"x": p.X(), "y": p.Y(), "z": p.Z(),
			"point": p,
		})
	}

	edgePairs := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along x
		{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along z
	}
	var edges [12]*Entity
	for i, p := range edgePairs {
		edges[i] = m.AddEdge(fmt.Sprintf("box_e%d", i), model.Attributes{
			"curve_type": string(model.CurveLine),
			"length":     distance(corners[p[0]], corners[p[1]]),
		}, verts[p[0]], verts[p[1]])
	}

	faceDefs := []struct {
		name    string
		corners [4]int
		normal  model.Vec3
		area    float64
	}{
		{"box_f_xmin", [4]int{0, 2, 4, 6}, model.Vec3{-1, 0, 0}, dy * dz},
		{"box_f_xmax", [4]int{1, 3, 5, 7}, model.Vec3{1, 0, 0}, dy * dz},
		{"box_f_ymin", [4]int{0, 1, 4, 5}, model.Vec3{0, -1, 0}, dx * dz},
		{"box_f_ymax", [4]int{2, 3, 6, 7}, model.Vec3{0, 1, 0}, dx * dz},
		{"box_f_zmin", [4]int{0, 1, 2, 3}, model.Vec3{0, 0, -1}, dx * dy},
		{"box_f_zmax", [4]int{4, 5, 6, 7}, model.Vec3{0, 0, 1}, dx * dy},
	}

	var faces [6]*Entity
	for i, def := range faceDefs {
		inFace := make(map[int]bool, 4)
		for _, c := range def.corners {
			inFace[c] = true
		}
		var bounding []*Entity
		for j, p := range edgePairs {
			if inFace[p[0]] && inFace[p[1]] {
				bounding = append(bounding, edges[j])
			}
		}
		faces[i] = m.AddFace(def.name, model.Attributes{
			"surface_type": string(model.SurfacePlane),
			"area":         def.area,
			"normal":       def.normal,
		}, bounding...)
	}

	// Every face pair sharing an edge meets convex at -90.
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if sharesEdge(m, faces[i], faces[j]) {
				m.SetDihedral(faces[i], faces[j], -90)
			}
		}
	}

	return faces
}

func sharesEdge(m *Model, f1, f2 *Entity) bool {
	set := make(map[string]bool)
	for _, e := range m.faceEdges[f1.ref] {
		set[e.Ref()] = true
	}
	for _, e := range m.faceEdges[f2.ref] {
		if set[e.Ref()] {
			return true
		}
	}
	return false
}

func distance(a, b model.Vec3) float64 {
	dx, dy, dz := b.X()-a.X(), b.Y()-a.Y(), b.Z()-a.Z()
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
