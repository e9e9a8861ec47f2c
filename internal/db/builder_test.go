package db

import (
	"strings"
	"testing"
)

func TestCollectionBuilder_Simple(t *testing.T) {
	c := NewCollection("secure_photos").
		Vector("summary_embedding", 1536, DistanceCosine).
		Keyword("title", "url").
		Integer("timestamp").
		MustBuild()

	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "secure_photos" {
		t.Errorf("name = %q, want secure_photos", c.Name)
	}
	if len(c.Vectors) != 1 || c.Vectors[0].Dim != 1536 || c.Vectors[0].Distance != DistanceCosine {
		t.Errorf("vectors = %+v", c.Vectors)
	}
	if len(c.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(c.Fields))
	}
	if c.Fields[0].Name != "title" || c.Fields[0].Type != IndexFieldKeyword {
		t.Errorf("field[0] = %+v, want title keyword", c.Fields[0])
	}
	if c.Fields[2].Name != "timestamp" || c.Fields[2].Type != IndexFieldInteger {
		t.Errorf("field[2] = %+v, want timestamp integer", c.Fields[2])
	}
}

func TestCollectionBuilder_TextOptions(t *testing.T) {
	c := NewCollection("photos").
		Vector("v", 4, DistanceDot).
		TextWithOpts("title", TextOptions{WordTokenizer: true, MinTokenLen: 2, Lowercase: true}).
		Text("summary").
		MustBuild()

	f := c.Fields[0]
	if f.Type != IndexFieldText || f.Text == nil {
		t.Fatalf("field[0] = %+v, want text with options", f)
	}
	if !f.Text.WordTokenizer || f.Text.MinTokenLen != 2 || !f.Text.Lowercase {
		t.Errorf("text options = %+v", *f.Text)
	}
	if c.Fields[1].Text != nil {
		t.Error("plain text index must not carry options")
	}
}

func TestCollectionBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*CollectionDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*CollectionDefinition, error) {
				return NewCollection("").Vector("v", 4, DistanceCosine).Build()
			},
			wantErr: "collection name is required",
		},
		{
			name: "no vectors",
			builder: func() (*CollectionDefinition, error) {
				return NewCollection("c").Keyword("x").Build()
			},
			wantErr: "at least one vector",
		},
		{
			name: "vector without size",
			builder: func() (*CollectionDefinition, error) {
				return NewCollection("c").Vector("v", 0, DistanceCosine).Build()
			},
			wantErr: "positive size",
		},
		{
			name: "invalid characters",
			builder: func() (*CollectionDefinition, error) {
				return NewCollection("photos with spaces").Vector("v", 4, DistanceCosine).Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate field",
			builder: func() (*CollectionDefinition, error) {
				return NewCollection("c").Vector("v", 4, DistanceCosine).Keyword("a").Float("a").Build()
			},
			wantErr: "duplicate field",
		},
		{
			name: "duplicate vector",
			builder: func() (*CollectionDefinition, error) {
				return NewCollection("c").Vector("v", 4, DistanceCosine).Vector("v", 8, DistanceCosine).Build()
			},
			wantErr: "duplicate vector",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCollectionDefinition_TextOptionsOnKeyword(t *testing.T) {
	c := &CollectionDefinition{
		Name:    "c",
		Vectors: []VectorField{{Name: "v", Dim: 4, Distance: DistanceCosine}},
		Fields:  []IndexField{{Name: "title", Type: IndexFieldKeyword, Text: &TextOptions{}}},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for text options on keyword field")
	}
}

func TestCollectionDefinition_String(t *testing.T) {
	c := NewCollection("secure_photos").
		Vector("summary_embedding", 1536, DistanceCosine).
		Keyword("url").
		MustBuild()

	s := c.String()
	if !strings.HasPrefix(s, "COLLECTION secure_photos") {
		t.Errorf("unexpected prefix: %q", s)
	}
	if !strings.Contains(s, "url KEYWORD") {
		t.Errorf("missing payload field in %q", s)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for s, want := range map[string]bool{
		"secure_photos": true,
		"SecurePhotos":  true,
		"a-b:c":         true,
		"":              false,
		"has space":     false,
		"semi;colon":    false,
	} {
		if got := IsValidIdentifier(s); got != want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	err := &Error{Op: OpScroll, Err: ErrCollectionNotFound}
	if err.Error() != "qdrant.Scroll: db: collection not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != ErrCollectionNotFound {
		t.Error("Unwrap must return the wrapped error")
	}
}
