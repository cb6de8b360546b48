package main

import (
	"context"
	"fmt"
	"log"

	"github.com/brepflow/aag"
	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/kernel"
	"github.com/brepflow/aag/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	engine, err := aag.NewAAGWithDatabase(dbConfig)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	// Build and store two models
	plate := kernel.PlateWithHoleModel(100, 60, 10, 4)
	plateID, err := engine.BuildGraph(plate, plate, "plate.step", "step", model.Attributes{"units": "mm"})
	if err != nil {
		log.Fatalf("Failed to build plate graph: %v", err)
	}

	box := kernel.BoxModel(50, 50, 50)
	boxID, err := engine.BuildGraph(box, box, "box.step", "step", nil)
	if err != nil {
		log.Fatalf("Failed to build box graph: %v", err)
	}

	fmt.Printf("Stored models: %s, %s\n", plateID, boxID)

	// Match a subgraph pattern: a cylindrical face against a planar face
	matches, err := engine.FindPattern(plateID, &model.Pattern{
		Name: "cylinder against plane",
		Slots: []model.SlotConstraint{
			{Type: model.TopologyFace, Attributes: map[string]interface{}{"surface_type": "cylinder"}},
			{Type: model.TopologyFace, Attributes: map[string]interface{}{"surface_type": "plane"}},
		},
		Relations: []model.RelationConstraint{
			{SourceSlot: 0, TargetSlot: 1, Relation: model.RelationAdjacent},
		},
	})
	if err != nil {
		log.Fatalf("Failed to match pattern: %v", err)
	}
	for _, match := range matches {
		fmt.Printf("Pattern match: %v\n", match.SlotNodes)
	}

	// Persist the plate graph to PostgreSQL
	record, err := engine.PersistGraph(plateID)
	if err != nil {
		log.Fatalf("Failed to persist graph: %v", err)
	}
	fmt.Printf("Persisted graph %s with %d nodes and %d links\n",
		record.ID, record.NodeCount, record.LinkCount)

	// Find the faces pointing up via vector similarity on face normals
	faces, err := engine.FindFacesByOrientation(record.ID, model.Vec3{0, 0, 1}, 3, 0.5)
	if err != nil {
		log.Fatalf("Failed to search by orientation: %v", err)
	}
	fmt.Printf("\nFaces oriented towards +Z:\n")
	for _, face := range faces {
		fmt.Printf("  %s: similarity %.4f\n", face.NodeID, face.Similarity)
	}

	// Switch the normal index to IVFFlat and back
	if err := engine.ChangeIndexType(context.Background(), "ivfflat", map[string]interface{}{"lists": 50}); err != nil {
		log.Fatalf("Failed to change index type: %v", err)
	}
	if err := engine.ChangeIndexType(context.Background(), "hnsw", nil); err != nil {
		log.Fatalf("Failed to change index type back: %v", err)
	}
	fmt.Println("\nIndex switched to IVFFlat and back to HNSW")

	fmt.Println("\nAdvanced example completed successfully!")
}
