// Package store keeps built graphs in memory keyed by generated model id,
// with age- and idle-based expiry plus a least-recently-used cap.
package store

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/model"
)

const (
	// DefaultMaxAge expires models an hour after storing
	DefaultMaxAge = time.Hour

	// DefaultMaxIdle expires models half an hour after last access
	DefaultMaxIdle = 30 * time.Minute

	// DefaultMaxModels caps the store before least-recently-used eviction
	DefaultMaxModels = 50
)

// StoredModel is one cached model: the built graph plus upload bookkeeping
type StoredModel struct {
	ModelID      string
	Filename     string
	FileFormat   string
	Graph        *graph.Graph
	UploadedAt   time.Time
	LastAccessed time.Time
	Metadata     model.Attributes
}

// Age returns the time since the model was stored
func (m *StoredModel) Age(now time.Time) time.Duration {
	return now.Sub(m.UploadedAt)
}

// Idle returns the time since the model was last accessed
func (m *StoredModel) Idle(now time.Time) time.Duration {
	return now.Sub(m.LastAccessed)
}

// ModelInfo is the listing projection of a stored model
type ModelInfo struct {
	ModelID       string           `json:"model_id"`
	Filename      string           `json:"filename"`
	FileFormat    string           `json:"file_format"`
	UploadedAt    time.Time        `json:"uploaded_at"`
	LastAccessed  time.Time        `json:"last_accessed"`
	AgeSeconds    float64          `json:"age_seconds"`
	IdleSeconds   float64          `json:"idle_seconds"`
	TopologyStats model.Statistics `json:"topology_stats"`
	Metadata      model.Attributes `json:"metadata,omitempty"`
}

// Store is a mutex-guarded in-memory model cache. Exceeding the model cap
// on Put evicts the least recently accessed entries.
type Store struct {
	mu        sync.Mutex
	models    map[string]*StoredModel
	maxModels int
	log       *slog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewStore creates a store with the default model cap
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		models:    make(map[string]*StoredModel),
		maxModels: DefaultMaxModels,
		log:       logger,
		now:       time.Now,
	}
}

// Put stores a built graph and returns the generated model id
func (s *Store) Put(g *graph.Graph, filename, fileFormat string, metadata model.Attributes) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	modelID := uuid.New().String()
	now := s.now()
	s.models[modelID] = &StoredModel{
		ModelID:      modelID,
		Filename:     filename,
		FileFormat:   fileFormat,
		Graph:        g,
		UploadedAt:   now,
		LastAccessed: now,
		Metadata:     metadata,
	}

	s.log.Info("Stored model",
		slog.String("model_id", modelID),
		slog.String("filename", filename),
		slog.String("file_format", fileFormat))

	s.evictOverCap()
	return modelID
}

// Get returns a stored model and refreshes its access time, or nil
func (s *Store) Get(modelID string) *StoredModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.models[modelID]
	if !ok {
		return nil
	}
	stored.LastAccessed = s.now()
	return stored
}

// GetGraph returns the graph of a stored model, or nil
func (s *Store) GetGraph(modelID string) *graph.Graph {
	if stored := s.Get(modelID); stored != nil {
		return stored.Graph
	}
	return nil
}

// Delete removes a model, reporting whether it existed
func (s *Store) Delete(modelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delete(modelID)
}

func (s *Store) delete(modelID string) bool {
	stored, ok := s.models[modelID]
	if !ok {
		return false
	}
	delete(s.models, modelID)
	s.log.Info("Deleted model",
		slog.String("model_id", modelID),
		slog.String("filename", stored.Filename))
	return true
}

// Exists reports whether a model id is stored, without touching it
func (s *Store) Exists(modelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.models[modelID]
	return ok
}

// Count returns the number of stored models
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.models)
}

// List returns info for all stored models, most recently uploaded first
func (s *Store) List() []*ModelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	infos := make([]*ModelInfo, 0, len(s.models))
	for _, stored := range s.models {
		infos = append(infos, &ModelInfo{
			ModelID:       stored.ModelID,
			Filename:      stored.Filename,
			FileFormat:    stored.FileFormat,
			UploadedAt:    stored.UploadedAt,
			LastAccessed:  stored.LastAccessed,
			AgeSeconds:    stored.Age(now).Seconds(),
			IdleSeconds:   stored.Idle(now).Seconds(),
			TopologyStats: stored.Graph.Statistics(),
			Metadata:      stored.Metadata,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UploadedAt.After(infos[j].UploadedAt)
	})
	return infos
}

// Clear removes all stored models
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.models)
	s.models = make(map[string]*StoredModel)
	s.log.Info("Cleared all stored models", slog.Int("count", count))
}

// CleanupExpired removes models older than maxAge and returns the count
func (s *Store) CleanupExpired(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for modelID, stored := range s.models {
		if stored.Age(now) > maxAge {
			s.delete(modelID)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("Cleaned up expired models", slog.Int("count", removed))
	}
	return removed
}

// CleanupIdle removes models unaccessed for longer than maxIdle and
// returns the count
func (s *Store) CleanupIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for modelID, stored := range s.models {
		if stored.Idle(now) > maxIdle {
			s.delete(modelID)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("Cleaned up idle models", slog.Int("count", removed))
	}
	return removed
}

// evictOverCap drops the least recently accessed models beyond the cap.
// Caller holds the lock.
func (s *Store) evictOverCap() {
	if len(s.models) <= s.maxModels {
		return
	}

	type entry struct {
		modelID      string
		lastAccessed time.Time
	}
	entries := make([]entry, 0, len(s.models))
	for modelID, stored := range s.models {
		entries = append(entries, entry{modelID, stored.LastAccessed})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].lastAccessed.Before(entries[j].lastAccessed)
	})

	toRemove := len(s.models) - s.maxModels
	for _, e := range entries[:toRemove] {
		s.delete(e.modelID)
	}
	s.log.Info("Evicted least recently used models", slog.Int("count", toRemove))
}

// Statistics summarizes the store's contents
type Statistics struct {
	TotalModels       int     `json:"total_models"`
	OldestAgeSeconds  float64 `json:"oldest_model_age_seconds"`
	NewestAgeSeconds  float64 `json:"newest_model_age_seconds"`
	AverageAgeSeconds float64 `json:"average_age_seconds"`
}

// Statistics returns aggregate age statistics over all stored models
func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{TotalModels: len(s.models)}
	if len(s.models) == 0 {
		return stats
	}

	now := s.now()
	first := true
	total := 0.0
	for _, stored := range s.models {
		age := stored.Age(now).Seconds()
		total += age
		if first || age > stats.OldestAgeSeconds {
			stats.OldestAgeSeconds = age
		}
		if first || age < stats.NewestAgeSeconds {
			stats.NewestAgeSeconds = age
		}
		first = false
	}
	stats.AverageAgeSeconds = total / float64(stats.TotalModels)
	return stats
}
