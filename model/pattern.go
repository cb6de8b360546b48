package model

// SlotConstraint restricts the nodes that may fill one pattern slot.
// Attribute values are compared for equality against the node's attributes.
type SlotConstraint struct {
	Type       TopologyType           `json:"type,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// RelationConstraint requires a directed relationship edge between the
// nodes assigned to two slot indices
type RelationConstraint struct {
	SourceSlot int          `json:"source_slot"`
	TargetSlot int          `json:"target_slot"`
	Relation   RelationType `json:"relation"`
}

// Pattern is a subgraph template: an ordered list of attribute-constrained
// slots plus required relationships between them
type Pattern struct {
	Name      string               `json:"name,omitempty"`
	Slots     []SlotConstraint     `json:"slots"`
	Relations []RelationConstraint `json:"relations,omitempty"`
}

// Match maps pattern slot indices to graph node ids
type Match struct {
	SlotNodes  map[int]string `json:"slot_nodes"`
	Confidence float64        `json:"confidence"`
}
