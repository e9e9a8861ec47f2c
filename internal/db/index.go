package db

import (
	"errors"
	"strconv"
)

// DistanceMetric used by vector similarity search.
type DistanceMetric string

const (
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "Cosine"
	// DistanceDot is dot product distance.
	DistanceDot DistanceMetric = "Dot"
	// DistanceEuclid is Euclidean distance.
	DistanceEuclid DistanceMetric = "Euclid"
)

// IndexFieldType enumerates supported payload index types.
type IndexFieldType int

const (
	// IndexFieldKeyword is an exact-match string index.
	IndexFieldKeyword IndexFieldType = iota
	// IndexFieldInteger is an integer index.
	IndexFieldInteger
	// IndexFieldFloat is a float index.
	IndexFieldFloat
	// IndexFieldText is a full-text index.
	IndexFieldText
)

func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldKeyword:
		return "keyword"
	case IndexFieldInteger:
		return "integer"
	case IndexFieldFloat:
		return "float"
	case IndexFieldText:
		return "text"
	default:
		return "unknown"
	}
}

// TextOptions tunes a full-text payload index. Zero value means backend defaults.
type TextOptions struct {
	WordTokenizer bool
	MinTokenLen   uint64
	Lowercase     bool
}

// IndexField describes a single payload index.
type IndexField struct {
	Name string
	Type IndexFieldType
	Text *TextOptions // text indexes only
}

// VectorField describes a named vector of a collection.
type VectorField struct {
	Name     string
	Dim      uint64
	Distance DistanceMetric
}

// CollectionDefinition is a complete collection schema: named vectors plus payload indexes.
type CollectionDefinition struct {
	Name    string
	Vectors []VectorField
	Fields  []IndexField
}

// Validate checks that the collection definition is well-formed.
func (c *CollectionDefinition) Validate() error {
	if c.Name == "" {
		return errors.New("collection name is required")
	}
	if !IsValidIdentifier(c.Name) {
		return errors.New("collection name contains invalid characters")
	}
	if len(c.Vectors) == 0 {
		return errors.New("at least one vector is required")
	}

	seenVec := make(map[string]bool)
	for i := range c.Vectors {
		v := &c.Vectors[i]
		if v.Name == "" {
			return errors.New("vector name is required at index " + strconv.Itoa(i))
		}
		if seenVec[v.Name] {
			return errors.New("duplicate vector name: " + v.Name)
		}
		seenVec[v.Name] = true
		if v.Dim == 0 {
			return errors.New("vector " + v.Name + " requires positive size")
		}
	}

	seen := make(map[string]bool)
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true
		if f.Text != nil && f.Type != IndexFieldText {
			return errors.New("text options on non-text field: " + f.Name)
		}
	}

	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
