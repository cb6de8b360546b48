package main

import (
	"fmt"
	"log"

	"github.com/brepflow/aag"
	"github.com/brepflow/aag/kernel"
	"github.com/brepflow/aag/model"
)

func main() {
	// Create an in-memory engine without persistence
	engine := aag.NewAAG()

	// Build the graph of a 100x60x10 plate with a radius 4 through bore
	part := kernel.PlateWithHoleModel(100, 60, 10, 4)
	modelID, err := engine.BuildGraph(part, part, "plate.step", "step", model.Attributes{
		"units": "mm",
	})
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	fmt.Printf("Built graph for model %s\n", modelID)

	stats, err := engine.Statistics(modelID)
	if err != nil {
		log.Fatalf("Failed to get statistics: %v", err)
	}
	fmt.Printf("Topology: %d vertices, %d edges, %d faces, %d shells\n",
		stats.Vertices, stats.Edges, stats.Faces, stats.Shells)

	// Run every registered recognizer
	results, err := engine.RecognizeAll(modelID, nil)
	if err != nil {
		log.Fatalf("Failed to recognize features: %v", err)
	}
	for name, features := range results {
		fmt.Printf("\n%s found %d feature(s)\n", name, len(features))
		for _, feature := range features {
			fmt.Printf("  %s on faces %v\n", feature.Type, feature.FaceIDs)
			if radius, ok := feature.Properties.Float("radius"); ok {
				fmt.Printf("    radius: %.2f\n", radius)
			}
			if depth, ok := feature.Properties.Float("depth"); ok {
				fmt.Printf("    depth: %.2f\n", depth)
			}
		}
	}

	// Query the largest planar faces
	result, err := engine.Query(modelID, &model.StructuredQuery{
		EntityType: model.TopologyFace,
		Predicates: []model.Predicate{
			{Attribute: "surface_type", Operator: model.OperatorEq, Value: "plane"},
		},
		SortBy: "area",
		Order:  "desc",
		Limit:  3,
	})
	if err != nil {
		log.Fatalf("Failed to query: %v", err)
	}

	fmt.Printf("\nLargest planar faces (%.2fms):\n", result.ExecutionTimeMS)
	for _, face := range result.Entities {
		area, _ := face.Attributes.Float("area")
		fmt.Printf("  %s: area %.1f\n", face.ID, area)
	}

	fmt.Println("\nBasic example completed successfully!")
}
