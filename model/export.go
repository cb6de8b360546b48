package model

// ExportNode is the serialized projection of a graph node. Group carries
// the topology type under the name the visualization layer expects.
type ExportNode struct {
	ID         string     `json:"id"`
	Group      string     `json:"group"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// ExportLink is the serialized projection of a relationship edge
type ExportLink struct {
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Relation   string     `json:"relationship"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// GraphExport is the serializable node/link projection of a graph,
// consumed by visualization, bulk-query endpoints and persistence.
// Numeric and string attributes round-trip losslessly.
type GraphExport struct {
	Nodes []ExportNode `json:"nodes"`
	Links []ExportLink `json:"links"`
}

// Statistics holds per-type node counts plus the total edge count
type Statistics struct {
	Vertices   int `json:"vertex"`
	Edges      int `json:"edge"`
	Faces      int `json:"face"`
	Shells     int `json:"shell"`
	Solids     int `json:"solid"`
	Compounds  int `json:"compound"`
	TotalEdges int `json:"total_edges"`
}
