package qdrant

// NewStoreForTest creates a Store over a fake client (test-only).
func NewStoreForTest(a api) *Store {
	return &Store{api: a}
}
