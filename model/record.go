package model

import (
	"time"

	"github.com/google/uuid"
)

// GraphRecord is the persisted header row of an exported graph
type GraphRecord struct {
	ID         uuid.UUID  `json:"id"`
	Filename   string     `json:"filename"`
	FileFormat string     `json:"file_format"`
	NodeCount  int        `json:"node_count"`
	LinkCount  int        `json:"link_count"`
	Metadata   Attributes `json:"metadata,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// FaceMatch is one result of a face normal similarity search
type FaceMatch struct {
	GraphID    uuid.UUID  `json:"graph_id"`
	NodeID     string     `json:"node_id"`
	Attributes Attributes `json:"attributes"`
	Similarity float64    `json:"similarity"`
}
