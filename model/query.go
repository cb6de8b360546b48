package model

// Operator is a predicate operator of the structured query language
type Operator string

const (
	OperatorEq       Operator = "eq"
	OperatorNe       Operator = "ne"
	OperatorGt       Operator = "gt"
	OperatorLt       Operator = "lt"
	OperatorGte      Operator = "gte"
	OperatorLte      Operator = "lte"
	OperatorInRange  Operator = "in_range" // |value - target| <= tolerance
	OperatorContains Operator = "contains" // case-insensitive substring
	OperatorIn       Operator = "in"       // membership in a list
)

// DefaultRangeTolerance is used by in_range when the predicate carries none
const DefaultRangeTolerance = 0.5

// Predicate is a single filter condition of a structured query
type Predicate struct {
	Attribute string      `json:"attribute"`
	Operator  Operator    `json:"operator"`
	Value     interface{} `json:"value"`
	Tolerance *float64    `json:"tolerance,omitempty"`
}

// StructuredQuery filters entities of one topology type by an ordered list
// of predicates, with optional sorting and a result limit. It is produced
// by an external translation layer; the executor only consumes it.
type StructuredQuery struct {
	EntityType TopologyType `json:"entity_type"`
	Predicates []Predicate  `json:"predicates,omitempty"`
	SortBy     string       `json:"sort_by,omitempty"`
	Order      string       `json:"order,omitempty"` // "asc" (default) or "desc"
	Limit      int          `json:"limit,omitempty"`
}

// QueryResult is the outcome of executing a structured query
type QueryResult struct {
	MatchingIDs     []string     `json:"matching_ids"`
	TotalMatches    int          `json:"total_matches"`
	EntityType      TopologyType `json:"entity_type"`
	ExecutionTimeMS float64      `json:"execution_time_ms"`
	Entities        []*Node      `json:"entities,omitempty"`
}
