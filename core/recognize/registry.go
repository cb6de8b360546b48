package recognize

import (
	"log/slog"
	"sort"

	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/model"
)

// Factory creates a recognizer bound to one graph
type Factory func(g *graph.Graph, logger *slog.Logger) Recognizer

// Info describes a registered recognizer for discovery
type Info struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	FeatureTypes []model.FeatureType `json:"feature_types"`
}

// Registry maps recognizer names to factories. Registering under an
// existing name overwrites with a warning. A Registry is not safe for
// concurrent registration; register everything up front.
type Registry struct {
	factories map[string]Factory
	log       *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		log:       logger,
	}
}

// NewDefaultRegistry creates a registry with all built-in recognizers
func NewDefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(func(g *graph.Graph, l *slog.Logger) Recognizer { return NewHoleRecognizer(g, l) })
	r.Register(func(g *graph.Graph, l *slog.Logger) Recognizer { return NewFilletRecognizer(g, l) })
	r.Register(func(g *graph.Graph, l *slog.Logger) Recognizer { return NewBossRecognizer(g, l) })
	return r
}

// Register adds a factory under the name its recognizer reports
func (r *Registry) Register(factory Factory) {
	probe := factory(graph.NewGraph(), r.log)
	name := probe.Name()

	if _, exists := r.factories[name]; exists {
		r.log.Warn("Recognizer already registered, overwriting", slog.String("name", name))
	}
	r.factories[name] = factory
	r.log.Info("Registered recognizer", slog.String("name", name))
}

// Unregister removes a recognizer by name, reporting whether it existed
func (r *Registry) Unregister(name string) bool {
	if _, exists := r.factories[name]; !exists {
		return false
	}
	delete(r.factories, name)
	return true
}

// Create instantiates the named recognizer against a graph, or nil if the
// name is unknown
func (r *Registry) Create(name string, g *graph.Graph) Recognizer {
	factory, ok := r.factories[name]
	if !ok {
		return nil
	}
	return factory(g, r.log)
}

// IsRegistered reports whether a name is registered
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Count returns the number of registered recognizers
func (r *Registry) Count() int {
	return len(r.factories)
}

// AllNames returns all registered names, sorted
func (r *Registry) AllNames() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecognizerInfo returns discovery metadata for one recognizer, or nil if
// the name is unknown
func (r *Registry) RecognizerInfo(name string) *Info {
	factory, ok := r.factories[name]
	if !ok {
		return nil
	}
	probe := factory(graph.NewGraph(), r.log)
	return &Info{
		Name:         probe.Name(),
		Description:  probe.Description(),
		FeatureTypes: probe.FeatureTypes(),
	}
}

// AllInfo returns discovery metadata for every recognizer, sorted by name
func (r *Registry) AllInfo() []*Info {
	infos := make([]*Info, 0, len(r.factories))
	for _, name := range r.AllNames() {
		infos = append(infos, r.RecognizerInfo(name))
	}
	return infos
}

// ByFeatureType returns the names of recognizers able to detect a feature
// type, sorted
func (r *Registry) ByFeatureType(featureType model.FeatureType) []string {
	var names []string
	for _, name := range r.AllNames() {
		probe := r.factories[name](graph.NewGraph(), r.log)
		for _, ft := range probe.FeatureTypes() {
			if ft == featureType {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// Clear removes all registered recognizers
func (r *Registry) Clear() {
	r.factories = make(map[string]Factory)
}
