package model

// TopologyType represents the kind of topological entity behind a node
type TopologyType string

const (
	TopologyVertex   TopologyType = "vertex"
	TopologyEdge     TopologyType = "edge"
	TopologyFace     TopologyType = "face"
	TopologyShell    TopologyType = "shell"
	TopologySolid    TopologyType = "solid"
	TopologyCompound TopologyType = "compound"
)

// TopoEntity is an opaque handle to a kernel-owned topological entity.
// The kernel guarantees Ref is stable for the lifetime of the owning model,
// so it can be used as a map key across builder phases.
type TopoEntity interface {
	Ref() string
}

// Node represents a topological entity with geometric attributes.
// Attributes are written only during graph construction; afterwards the
// node is read-only for all consumers.
type Node struct {
	ID         string       `json:"id"`
	Type       TopologyType `json:"type"`
	Entity     TopoEntity   `json:"-"`
	Attributes Attributes   `json:"attributes,omitempty"`
}

// GetAttribute returns an attribute value or the given default if missing
func (n *Node) GetAttribute(key string, def interface{}) interface{} {
	if v, ok := n.Attributes[key]; ok {
		return v
	}
	return def
}

// HasAttribute checks if an attribute exists on the node
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.Attributes[key]
	return ok
}
