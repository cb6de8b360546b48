// Package aag builds Attributed Adjacency Graphs from boundary
// representations and runs feature recognition and structured queries
// against them. Graphs live in an in-memory store keyed by model id and
// can optionally be persisted to PostgreSQL.
package aag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/brepflow/aag/core/builder"
	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/core/pattern"
	"github.com/brepflow/aag/core/query"
	"github.com/brepflow/aag/core/recognize"
	"github.com/brepflow/aag/database"
	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/kernel"
	"github.com/brepflow/aag/model"
	"github.com/brepflow/aag/sql"
	"github.com/brepflow/aag/store"
)

// AAG provides a unified interface to graph building, storage, feature
// recognition, pattern matching and querying
type AAG struct {
	DB       *helper.Database
	Graphs   *database.GraphsDBHandler
	Store    *store.Store
	Registry *recognize.Registry
	// Logging
	log *slog.Logger
}

// NewAAG creates an in-memory engine without persistence
func NewAAG() *AAG {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return &AAG{
		Store:    store.NewStore(logger),
		Registry: recognize.NewDefaultRegistry(logger),
		log:      logger,
	}
}

// NewAAGWithDatabase creates an engine with PostgreSQL persistence for
// exported graphs
func NewAAGWithDatabase(config *helper.DatabaseConfiguration) (*AAG, error) {
	engine := NewAAG()

	db := helper.NewDatabase("aag", config, engine.log)
	err := sql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	graphs, err := database.NewGraphsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create graphs handler", err)
	}

	engine.DB = db
	engine.Graphs = graphs
	return engine, nil
}

// Close closes the database connection
func (a *AAG) Close() error {
	if a.DB != nil && a.DB.Instance != nil {
		return a.DB.Instance.Close()
	}
	return nil
}

// BuildGraph builds a graph from a boundary representation and stores it,
// returning the generated model id
func (a *AAG) BuildGraph(brep kernel.BRep, provider kernel.AttributeProvider, filename, fileFormat string, metadata model.Attributes) (string, error) {
	g, err := builder.NewBuilder(brep, provider, a.log).Build()
	if err != nil {
		return "", helper.NewError("build graph", err)
	}

	modelID := a.Store.Put(g, filename, fileFormat, metadata)
	return modelID, nil
}

// Graph returns the stored graph for a model id, or an error if unknown
func (a *AAG) Graph(modelID string) (*graph.Graph, error) {
	g := a.Store.GetGraph(modelID)
	if g == nil {
		return nil, helper.NewError("get graph", fmt.Errorf("model %s not found", modelID))
	}
	return g, nil
}

// DeleteModel removes a stored model, reporting whether it existed
func (a *AAG) DeleteModel(modelID string) bool {
	return a.Store.Delete(modelID)
}

// ListModels lists all stored models, most recently uploaded first
func (a *AAG) ListModels() []*store.ModelInfo {
	return a.Store.List()
}

// Statistics returns the per-type node counts of a stored graph
func (a *AAG) Statistics(modelID string) (model.Statistics, error) {
	g, err := a.Graph(modelID)
	if err != nil {
		return model.Statistics{}, err
	}
	return g.Statistics(), nil
}

// Recognize runs one registered recognizer against a stored graph
func (a *AAG) Recognize(modelID, recognizerName string, params recognize.Params) ([]*model.RecognizedFeature, error) {
	g, err := a.Graph(modelID)
	if err != nil {
		return nil, err
	}

	recognizer := a.Registry.Create(recognizerName, g)
	if recognizer == nil {
		return nil, helper.NewError("create recognizer", fmt.Errorf("recognizer %s not registered", recognizerName))
	}

	return recognizer.Recognize(params)
}

// RecognizeAll runs every registered recognizer against a stored graph,
// keyed by recognizer name
func (a *AAG) RecognizeAll(modelID string, params recognize.Params) (map[string][]*model.RecognizedFeature, error) {
	g, err := a.Graph(modelID)
	if err != nil {
		return nil, err
	}

	results := make(map[string][]*model.RecognizedFeature)
	for _, name := range a.Registry.AllNames() {
		features, err := a.Registry.Create(name, g).Recognize(params)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("run recognizer %s", name), err)
		}
		results[name] = features
	}
	return results, nil
}

// Query executes a structured query against a stored graph
func (a *AAG) Query(modelID string, q *model.StructuredQuery) (*model.QueryResult, error) {
	g, err := a.Graph(modelID)
	if err != nil {
		return nil, err
	}
	return query.NewEngine(g, a.log).Execute(q)
}

// FindPattern matches a subgraph pattern against a stored graph
func (a *AAG) FindPattern(modelID string, p *model.Pattern) ([]*model.Match, error) {
	g, err := a.Graph(modelID)
	if err != nil {
		return nil, err
	}
	return pattern.NewMatcher(g).FindMatches(p), nil
}

// Export returns the serializable node/link representation of a stored
// graph
func (a *AAG) Export(modelID string) (*model.GraphExport, error) {
	g, err := a.Graph(modelID)
	if err != nil {
		return nil, err
	}
	return g.Export(), nil
}

// PersistGraph writes the export of a stored model to PostgreSQL
func (a *AAG) PersistGraph(modelID string) (*model.GraphRecord, error) {
	if a.Graphs == nil {
		return nil, helper.NewError("persist graph", fmt.Errorf("database not configured, use NewAAGWithDatabase"))
	}

	stored := a.Store.Get(modelID)
	if stored == nil {
		return nil, helper.NewError("persist graph", fmt.Errorf("model %s not found", modelID))
	}

	return a.Graphs.InsertGraph(stored.Filename, stored.FileFormat, stored.Graph.Export(), stored.Metadata)
}

// FindFacesByOrientation searches a persisted graph for faces whose
// normal is most similar to the given direction
func (a *AAG) FindFacesByOrientation(graphID uuid.UUID, normal model.Vec3, limit int, threshold float64) ([]*model.FaceMatch, error) {
	if a.Graphs == nil {
		return nil, helper.NewError("faces by orientation", fmt.Errorf("database not configured, use NewAAGWithDatabase"))
	}
	return a.Graphs.SelectFacesByNormal(graphID, normal, limit, threshold)
}

// ChangeIndexType changes the face normal index type between HNSW and IVFFlat
func (a *AAG) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	if a.Graphs == nil {
		return helper.NewError("change index type", fmt.Errorf("database not configured, use NewAAGWithDatabase"))
	}
	return a.Graphs.ChangeIndexType(ctx, indexType, params)
}
