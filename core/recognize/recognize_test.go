package recognize

import (
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brepflow/aag/core/builder"
	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/kernel"
	"github.com/brepflow/aag/model"
)

func testLogger() *slog.Logger {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelError},
	}
	return slog.New(helper.NewPrettyHandler(os.Stdout, opts))
}

func plateWithHoleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	m := kernel.PlateWithHoleModel(100, 60, 10, 4)
	g, err := builder.NewBuilder(m, m, testLogger()).Build()
	require.NoError(t, err)
	return g
}

func TestHoleRecognizer(t *testing.T) {
	g := plateWithHoleGraph(t)
	recognizer := NewHoleRecognizer(g, testLogger())

	t.Run("metadata", func(t *testing.T) {
		assert.Equal(t, "hole_detector", recognizer.Name())
		assert.Contains(t, recognizer.FeatureTypes(), model.FeatureHoleSimple)
	})

	t.Run("detects the through bore as a simple hole", func(t *testing.T) {
		features, err := recognizer.Recognize(nil)
		require.NoError(t, err)
		require.Len(t, features, 1)

		hole := features[0]
		assert.Equal(t, model.FeatureHoleSimple, hole.Type)
		assert.Equal(t, 1.0, hole.Confidence)
		assert.Len(t, hole.FaceIDs, 1)
		assert.NotEmpty(t, hole.ID)

		radius, ok := hole.Properties.Float("radius")
		require.True(t, ok)
		assert.InDelta(t, 4.0, radius, 1e-9)

		diameter, _ := hole.Properties.Float("diameter")
		assert.InDelta(t, 8.0, diameter, 1e-9)

		// Bore face area is circumference times plate thickness.
		depth, ok := hole.Properties.Float("depth")
		require.True(t, ok)
		assert.InDelta(t, 10.0, depth, 1e-9)
	})

	t.Run("diameter filter excludes the bore", func(t *testing.T) {
		features, err := recognizer.Recognize(Params{"min_diameter": 20.0})
		require.NoError(t, err)
		assert.Empty(t, features)

		features, err = recognizer.Recognize(Params{"max_diameter": 5.0})
		require.NoError(t, err)
		assert.Empty(t, features)
	})

	t.Run("plain box has no holes", func(t *testing.T) {
		m := kernel.BoxModel(10, 10, 10)
		boxGraph, err := builder.NewBuilder(m, m, testLogger()).Build()
		require.NoError(t, err)

		features, err := NewHoleRecognizer(boxGraph, testLogger()).Recognize(nil)
		require.NoError(t, err)
		assert.Empty(t, features)
	})
}

func TestHoleRecognizerCounterbored(t *testing.T) {
	// Two coaxial internal cylinders of different radii stacked on a plate.
	g := graph.NewGraph()
	addNode := func(id string, topologyType model.TopologyType, attrs model.Attributes) {
		require.NoError(t, g.AddNode(&model.Node{ID: id, Type: topologyType, Attributes: attrs}))
	}
	addNode("edge_0", model.TopologyEdge, model.Attributes{"curve_type": "circle", "radius": 3.0})
	addNode("edge_1", model.TopologyEdge, model.Attributes{"curve_type": "circle", "radius": 6.0})
	addNode("face_0", model.TopologyFace, model.Attributes{
		"surface_type": "cylinder", "radius": 3.0, "area": 2 * math.Pi * 3.0 * 8.0,
		"axis": model.Vec3{0, 0, 1},
	})
	addNode("face_1", model.TopologyFace, model.Attributes{
		"surface_type": "cylinder", "radius": 6.0, "area": 2 * math.Pi * 6.0 * 4.0,
		"axis": model.Vec3{0, 0, 1},
	})
	addNode("face_2", model.TopologyFace, model.Attributes{"surface_type": "plane"})

	require.NoError(t, g.AddEdge(model.NewEdge("edge_0", model.RelationBounds, "face_0", nil)))
	require.NoError(t, g.AddEdge(model.NewEdge("edge_1", model.RelationBounds, "face_1", nil)))

	concave := model.Attributes{model.AttrAngleType: string(model.AngleConcave)}
	link := func(a, b string) {
		require.NoError(t, g.AddEdge(model.NewEdge(a, model.RelationAdjacent, b, concave)))
		require.NoError(t, g.AddEdge(model.NewEdge(b, model.RelationAdjacent, a, concave)))
	}
	link("face_0", "face_1")
	link("face_1", "face_2")

	features, err := NewHoleRecognizer(g, testLogger()).Recognize(nil)
	require.NoError(t, err)
	require.Len(t, features, 1)

	hole := features[0]
	assert.Equal(t, model.FeatureHoleCounterbore, hole.Type)
	assert.ElementsMatch(t, []string{"face_0", "face_1"}, hole.FaceIDs)

	radius, _ := hole.Properties.Float("radius")
	assert.InDelta(t, 3.0, radius, 1e-9)
	assert.Contains(t, hole.Properties, "bore_radii")
}

func TestBossRecognizer(t *testing.T) {
	g := graph.NewGraph()
	addNode := func(id string, topologyType model.TopologyType, attrs model.Attributes) {
		require.NoError(t, g.AddNode(&model.Node{ID: id, Type: topologyType, Attributes: attrs}))
	}
	addNode("edge_0", model.TopologyEdge, model.Attributes{"curve_type": "circle", "radius": 5.0})
	addNode("face_0", model.TopologyFace, model.Attributes{
		"surface_type": "cylinder", "radius": 5.0, "area": 2 * math.Pi * 5.0 * 12.0,
		"axis": model.Vec3{0, 0, 1},
	})
	addNode("face_1", model.TopologyFace, model.Attributes{"surface_type": "plane"})

	require.NoError(t, g.AddEdge(model.NewEdge("edge_0", model.RelationBounds, "face_0", nil)))

	convex := model.Attributes{model.AttrAngleType: string(model.AngleConvex)}
	require.NoError(t, g.AddEdge(model.NewEdge("face_0", model.RelationAdjacent, "face_1", convex)))
	require.NoError(t, g.AddEdge(model.NewEdge("face_1", model.RelationAdjacent, "face_0", convex)))

	t.Run("detects the external cylinder", func(t *testing.T) {
		features, err := NewBossRecognizer(g, testLogger()).Recognize(nil)
		require.NoError(t, err)
		require.Len(t, features, 1)

		boss := features[0]
		assert.Equal(t, model.FeatureBoss, boss.Type)
		assert.Equal(t, []string{"face_0"}, boss.FaceIDs)

		height, ok := boss.Properties.Float("height")
		require.True(t, ok)
		assert.InDelta(t, 12.0, height, 1e-6)
	})

	t.Run("internal cylinders are not bosses", func(t *testing.T) {
		features, err := NewBossRecognizer(plateWithHoleGraph(t), testLogger()).Recognize(nil)
		require.NoError(t, err)
		assert.Empty(t, features)
	})
}

func TestFilletRecognizer(t *testing.T) {
	g := graph.NewGraph()
	addFace := func(id string, attrs model.Attributes) {
		require.NoError(t, g.AddNode(&model.Node{ID: id, Type: model.TopologyFace, Attributes: attrs}))
	}
	addFace("face_0", model.Attributes{"surface_type": "cylinder", "radius": 2.0})
	addFace("face_1", model.Attributes{"surface_type": "plane"})
	addFace("face_2", model.Attributes{"surface_type": "plane"})

	smooth := func() model.Attributes {
		return model.Attributes{
			model.AttrAngleType: string(model.AngleConcave),
			model.AttrIsTangent: true,
		}
	}
	link := func(a, b string) {
		require.NoError(t, g.AddEdge(model.NewEdge(a, model.RelationAdjacent, b, smooth())))
		require.NoError(t, g.AddEdge(model.NewEdge(b, model.RelationAdjacent, a, smooth())))
	}
	link("face_0", "face_1")
	link("face_0", "face_2")

	t.Run("detects the tangent blend as a fillet", func(t *testing.T) {
		features, err := NewFilletRecognizer(g, testLogger()).Recognize(nil)
		require.NoError(t, err)
		require.Len(t, features, 1)

		fillet := features[0]
		assert.Equal(t, model.FeatureFillet, fillet.Type)
		assert.Equal(t, []string{"face_0"}, fillet.FaceIDs)

		radius, _ := fillet.Properties.Float("radius")
		assert.InDelta(t, 2.0, radius, 1e-9)
	})

	t.Run("radius filter excludes large blends", func(t *testing.T) {
		features, err := NewFilletRecognizer(g, testLogger()).Recognize(Params{"max_radius": 1.0})
		require.NoError(t, err)
		assert.Empty(t, features)
	})

	t.Run("sharp corners are not blends", func(t *testing.T) {
		m := kernel.BoxModel(10, 10, 10)
		boxGraph, err := builder.NewBuilder(m, m, testLogger()).Build()
		require.NoError(t, err)

		features, err := NewFilletRecognizer(boxGraph, testLogger()).Recognize(nil)
		require.NoError(t, err)
		assert.Empty(t, features)
	})
}

func TestRegistry(t *testing.T) {
	registry := NewDefaultRegistry(testLogger())

	t.Run("lists all built-in recognizers", func(t *testing.T) {
		assert.Equal(t, []string{"boss_detector", "fillet_detector", "hole_detector"}, registry.AllNames())
		assert.Equal(t, 3, registry.Count())
	})

	t.Run("creates a recognizer bound to a graph", func(t *testing.T) {
		recognizer := registry.Create("hole_detector", plateWithHoleGraph(t))
		require.NotNil(t, recognizer)

		features, err := recognizer.Recognize(nil)
		require.NoError(t, err)
		assert.Len(t, features, 1)
	})

	t.Run("unknown name creates nil", func(t *testing.T) {
		assert.Nil(t, registry.Create("unknown", graph.NewGraph()))
		assert.Nil(t, registry.RecognizerInfo("unknown"))
	})

	t.Run("info carries description and feature types", func(t *testing.T) {
		info := registry.RecognizerInfo("hole_detector")
		require.NotNil(t, info)
		assert.Equal(t, "hole_detector", info.Name)
		assert.NotEmpty(t, info.Description)
		assert.Contains(t, info.FeatureTypes, model.FeatureHoleCounterbore)

		assert.Len(t, registry.AllInfo(), 3)
	})

	t.Run("lookup by feature type", func(t *testing.T) {
		assert.Equal(t, []string{"hole_detector"}, registry.ByFeatureType(model.FeatureHoleSimple))
		assert.Equal(t, []string{"fillet_detector"}, registry.ByFeatureType(model.FeatureRound))
		assert.Empty(t, registry.ByFeatureType(model.FeaturePocket))
	})

	t.Run("unregister and clear", func(t *testing.T) {
		registry := NewDefaultRegistry(testLogger())
		assert.True(t, registry.Unregister("boss_detector"))
		assert.False(t, registry.Unregister("boss_detector"))
		assert.False(t, registry.IsRegistered("boss_detector"))

		registry.Clear()
		assert.Zero(t, registry.Count())
	})
}
