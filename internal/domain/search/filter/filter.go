// Package filter models the payload predicates sent to the vector store.
package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxConditions caps the size of one Expression.
const MaxConditions = 32

var errKeyRequired = errors.New("filter key is required")

// Expression is a conjunction: a point matches when every condition holds.
// The zero value is the empty expression.
type Expression struct {
	conds []Condition
}

// All joins conds into an Expression, preserving their order.
func All(conds ...Condition) (Expression, error) {
	if len(conds) > MaxConditions {
		return Expression{}, fmt.Errorf("too many conditions: %d (max %d)", len(conds), MaxConditions)
	}
	for i, c := range conds {
		if c.kind == 0 {
			return Expression{}, fmt.Errorf("condition %d is uninitialized", i)
		}
	}
	return Expression{conds: conds}, nil
}

// Must returns the conditions in order.
func (e Expression) Must() []Condition { return e.conds }

// IsEmpty reports whether the expression has no conditions. An expression whose
// conditions can never hold is not empty.
func (e Expression) IsEmpty() bool { return len(e.conds) == 0 }

// String renders the expression for logs, e.g. `deviceType = "IPHONE" AND timestamp in [10, +inf]`.
func (e Expression) String() string {
	parts := make([]string, len(e.conds))
	for i, c := range e.conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Kind identifies the shape of a Condition.
type Kind int

// Condition kinds.
const (
	KindKeyword Kind = iota + 1
	KindInteger
	KindInterval
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindInteger:
		return "integer"
	case KindInterval:
		return "interval"
	default:
		return "unknown"
	}
}

// Interval is a closed numeric interval. A nil bound is unbounded on that side.
// Min greater than Max is allowed and matches nothing.
type Interval struct {
	Min *float64
	Max *float64
}

func (iv Interval) validate() error {
	if iv.Min == nil && iv.Max == nil {
		return errors.New("interval needs at least one bound")
	}
	for _, b := range []*float64{iv.Min, iv.Max} {
		if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
			return fmt.Errorf("interval bound %v is not finite", *b)
		}
	}
	return nil
}

// Condition is one predicate on a payload key.
type Condition struct {
	kind     Kind
	key      string
	text     string
	integer  int64
	interval Interval
}

// NewMatch matches key exactly against a keyword value.
func NewMatch(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, errKeyRequired
	}
	if value == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{kind: KindKeyword, key: key, text: value}, nil
}

// NewIntMatch matches key exactly against an integer.
func NewIntMatch(key string, v int64) (Condition, error) {
	if key == "" {
		return Condition{}, errKeyRequired
	}
	return Condition{kind: KindInteger, key: key, integer: v}, nil
}

// NewInterval matches key against a closed interval.
func NewInterval(key string, iv Interval) (Condition, error) {
	if key == "" {
		return Condition{}, errKeyRequired
	}
	if err := iv.validate(); err != nil {
		return Condition{}, fmt.Errorf("%s: %w", key, err)
	}
	return Condition{kind: KindInterval, key: key, interval: iv}, nil
}

// NewPoint matches a float key exactly, as the degenerate interval [v, v].
func NewPoint(key string, v float64) (Condition, error) {
	return NewInterval(key, Interval{Min: &v, Max: &v})
}

// Kind returns the condition shape.
func (c Condition) Kind() Kind { return c.kind }

// Key returns the payload key.
func (c Condition) Key() string { return c.key }

// Match returns the keyword value of a KindKeyword condition.
func (c Condition) Match() string { return c.text }

// Int returns the value of a KindInteger condition.
func (c Condition) Int() int64 { return c.integer }

// Interval returns the bounds of a KindInterval condition.
func (c Condition) Interval() Interval { return c.interval }

func (c Condition) String() string {
	switch c.kind {
	case KindKeyword:
		return c.key + " = " + strconv.Quote(c.text)
	case KindInteger:
		return c.key + " = " + strconv.FormatInt(c.integer, 10)
	case KindInterval:
		return fmt.Sprintf("%s in [%s, %s]", c.key, bound(c.interval.Min, "-inf"), bound(c.interval.Max, "+inf"))
	default:
		return c.key + " ?"
	}
}

func bound(v *float64, open string) string {
	if v == nil {
		return open
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
