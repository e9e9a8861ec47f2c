package qdrant

import (
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/securephotos/internal/domain/search/filter"
)

// BuildFilter converts a conjunctive expression into a Qdrant must-filter.
// Returns nil for an empty expression.
func BuildFilter(expr filter.Expression) (*qdrant.Filter, error) {
	if expr.IsEmpty() {
		return nil, nil
	}

	must := make([]*qdrant.Condition, 0, len(expr.Must()))
	for i, c := range expr.Must() {
		qc, err := toCondition(c)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		must = append(must, qc)
	}
	return &qdrant.Filter{Must: must}, nil
}

func toCondition(c filter.Condition) (*qdrant.Condition, error) {
	switch c.Kind() {
	case filter.KindKeyword:
		return qdrant.NewMatch(c.Key(), c.Match()), nil
	case filter.KindInteger:
		return qdrant.NewMatchInt(c.Key(), c.Int()), nil
	case filter.KindInterval:
		// Qdrant has no float equality; exact floats arrive here as [v, v].
		iv := c.Interval()
		return qdrant.NewRange(c.Key(), &qdrant.Range{Gte: iv.Min, Lte: iv.Max}), nil
	default:
		return nil, fmt.Errorf("unsupported condition kind %s on %q", c.Kind(), c.Key())
	}
}
