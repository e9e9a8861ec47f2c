package db

import (
	"strconv"
	"strings"
)

// CollectionBuilder is a fluent builder for collection definitions.
type CollectionBuilder struct {
	def CollectionDefinition
}

// NewCollection starts building a collection definition.
func NewCollection(name string) *CollectionBuilder {
	return &CollectionBuilder{def: CollectionDefinition{Name: name}}
}

// Vector adds a named vector.
func (b *CollectionBuilder) Vector(name string, dim uint64, distance DistanceMetric) *CollectionBuilder {
	b.def.Vectors = append(b.def.Vectors, VectorField{Name: name, Dim: dim, Distance: distance})
	return b
}

// Keyword adds exact-match string indexes.
func (b *CollectionBuilder) Keyword(names ...string) *CollectionBuilder {
	return b.add(IndexFieldKeyword, names)
}

// Integer adds integer indexes.
func (b *CollectionBuilder) Integer(names ...string) *CollectionBuilder {
	return b.add(IndexFieldInteger, names)
}

// Float adds float indexes.
func (b *CollectionBuilder) Float(names ...string) *CollectionBuilder {
	return b.add(IndexFieldFloat, names)
}

// Text adds full-text indexes with backend defaults.
func (b *CollectionBuilder) Text(names ...string) *CollectionBuilder {
	return b.add(IndexFieldText, names)
}

// TextWithOpts adds a full-text index with custom tokenization.
func (b *CollectionBuilder) TextWithOpts(name string, opts TextOptions) *CollectionBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldText, Text: &opts})
	return b
}

func (b *CollectionBuilder) add(t IndexFieldType, names []string) *CollectionBuilder {
	for _, n := range names {
		b.def.Fields = append(b.def.Fields, IndexField{Name: n, Type: t})
	}
	return b
}

// Build validates and returns the collection definition.
func (b *CollectionBuilder) Build() (*CollectionDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *CollectionBuilder) MustBuild() *CollectionDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a compact debug representation of the schema.
func (c *CollectionDefinition) String() string {
	parts := []string{"COLLECTION", c.Name}
	for _, v := range c.Vectors {
		parts = append(parts, "VECTOR", v.Name, strconv.FormatUint(v.Dim, 10), string(v.Distance))
	}
	if len(c.Fields) > 0 {
		parts = append(parts, "PAYLOAD")
	}
	for _, f := range c.Fields {
		parts = append(parts, f.Name, strings.ToUpper(f.Type.String()))
	}
	return strings.Join(parts, " ")
}
