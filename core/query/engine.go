// Package query executes structured queries against a built graph:
// filtering one topology type by attribute predicates, sorting and
// limiting. Query construction (parsing, NL translation) happens outside
// this package.
package query

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brepflow/aag/core/graph"
	"github.com/brepflow/aag/model"
)

// Engine executes structured queries against one graph. Nodes are indexed
// by topology type at construction, so the engine must be rebuilt when the
// graph changes.
type Engine struct {
	nodesByType map[model.TopologyType][]*model.Node
	log         *slog.Logger
}

// NewEngine creates a query engine over a built graph
func NewEngine(g *graph.Graph, logger *slog.Logger) *Engine {
	index := make(map[model.TopologyType][]*model.Node)
	for _, node := range g.Nodes() {
		index[node.Type] = append(index[node.Type], node)
	}
	return &Engine{nodesByType: index, log: logger}
}

// Execute filters, sorts and limits entities per the query. Predicates are
// combined with AND. An unknown operator fails the whole query.
func (e *Engine) Execute(q *model.StructuredQuery) (*model.QueryResult, error) {
	start := time.Now()

	filtered := e.nodesByType[q.EntityType]
	for _, predicate := range q.Predicates {
		var kept []*model.Node
		for _, node := range filtered {
			matches, err := evaluate(node, predicate)
			if err != nil {
				return nil, err
			}
			if matches {
				kept = append(kept, node)
			}
		}
		filtered = kept
	}

	if q.SortBy != "" {
		sortNodes(filtered, q.SortBy, q.Order)
	}

	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}

	matchingIDs := make([]string, len(filtered))
	for i, node := range filtered {
		matchingIDs[i] = node.ID
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	e.log.Debug("Executed query",
		slog.String("entity_type", string(q.EntityType)),
		slog.Int("matches", len(matchingIDs)),
		slog.Float64("execution_time_ms", elapsed))

	return &model.QueryResult{
		MatchingIDs:     matchingIDs,
		TotalMatches:    len(matchingIDs),
		EntityType:      q.EntityType,
		ExecutionTimeMS: elapsed,
		Entities:        filtered,
	}, nil
}

// evaluate applies one predicate to one node. A missing attribute is a
// non-match, never an error; an unknown operator is always an error.
func evaluate(node *model.Node, predicate model.Predicate) (bool, error) {
	value, ok := attributeValue(node, predicate.Attribute)
	if !ok {
		return false, nil
	}

	switch predicate.Operator {
	case model.OperatorEq:
		return valuesEqual(value, predicate.Value), nil
	case model.OperatorNe:
		return !valuesEqual(value, predicate.Value), nil
	case model.OperatorGt, model.OperatorLt, model.OperatorGte, model.OperatorLte:
		have, haveOK := toFloat(value)
		want, wantOK := toFloat(predicate.Value)
		if !haveOK || !wantOK {
			return false, nil
		}
		switch predicate.Operator {
		case model.OperatorGt:
			return have > want, nil
		case model.OperatorLt:
			return have < want, nil
		case model.OperatorGte:
			return have >= want, nil
		default:
			return have <= want, nil
		}
	case model.OperatorInRange:
		have, haveOK := toFloat(value)
		want, wantOK := toFloat(predicate.Value)
		if !haveOK || !wantOK {
			return false, nil
		}
		tolerance := model.DefaultRangeTolerance
		if predicate.Tolerance != nil {
			tolerance = *predicate.Tolerance
		}
		diff := have - want
		if diff < 0 {
			diff = -diff
		}
		return diff <= tolerance, nil
	case model.OperatorContains:
		return strings.Contains(
			strings.ToLower(fmt.Sprint(value)),
			strings.ToLower(fmt.Sprint(predicate.Value)),
		), nil
	case model.OperatorIn:
		return containsValue(predicate.Value, value), nil
	default:
		return false, fmt.Errorf("unknown query operator %q", predicate.Operator)
	}
}

// attributeValue resolves an attribute path against a node: the id and
// type fields directly, then the attribute map, then a dotted path with an
// optional "attributes." prefix.
func attributeValue(node *model.Node, path string) (interface{}, bool) {
	switch path {
	case "id":
		return node.ID, true
	case "type", "group":
		return string(node.Type), true
	}

	if value, ok := node.Attributes[path]; ok {
		return value, true
	}

	parts := strings.Split(path, ".")
	if parts[0] == "attributes" {
		parts = parts[1:]
	}
	var value interface{} = map[string]interface{}(node.Attributes)
	for _, part := range parts {
		m, ok := value.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if value, ok = m[part]; !ok {
			return nil, false
		}
	}
	return value, true
}

// sortNodes orders nodes by an attribute in place, stable. Numeric values
// (including numeric strings) sort numerically, everything else
// lexically; nodes missing the attribute sort as zero.
func sortNodes(nodes []*model.Node, sortBy, order string) {
	descending := order == "desc"
	sort.SliceStable(nodes, func(i, j int) bool {
		a := sortKey(nodes[i], sortBy)
		b := sortKey(nodes[j], sortBy)
		if descending {
			a, b = b, a
		}
		return keyLess(a, b)
	})
}

func sortKey(node *model.Node, sortBy string) interface{} {
	value, ok := attributeValue(node, sortBy)
	if !ok {
		return 0.0
	}
	if f, isNumeric := toFloat(value); isNumeric {
		return f
	}
	return value
}

func keyLess(a, b interface{}) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	if aok != bok {
		// Numbers sort before everything else.
		return aok
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func containsValue(list, value interface{}) bool {
	switch items := list.(type) {
	case []interface{}:
		for _, item := range items {
			if valuesEqual(item, value) {
				return true
			}
		}
	case []string:
		for _, item := range items {
			if valuesEqual(item, value) {
				return true
			}
		}
	case []float64:
		for _, item := range items {
			if valuesEqual(item, value) {
				return true
			}
		}
	}
	return false
}

func valuesEqual(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// toFloat coerces numeric attribute values, including numeric strings,
// which appear after JSON round trips
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
