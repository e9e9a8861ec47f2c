package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound        = errors.New("db: key not found")
	ErrCollectionNotFound = errors.New("db: collection not found")
)

// Op constants name the backend call for error context.
const (
	// Redis / Valkey commands.
	OpPing = "PING"
	OpGet  = "GET"
	OpSet  = "SET"

	// Qdrant RPCs.
	OpScroll           = "qdrant.Scroll"
	OpQuery            = "qdrant.Query"
	OpHealthCheck      = "qdrant.HealthCheck"
	OpCollectionExists = "qdrant.CollectionExists"
	OpCreateCollection = "qdrant.CreateCollection"
	OpDeleteCollection = "qdrant.DeleteCollection"
	OpCreateFieldIndex = "qdrant.CreateFieldIndex"
	OpDeleteFieldIndex = "qdrant.DeleteFieldIndex"

	// Weaviate calls.
	OpNearVector = "weaviate.GraphQL.Get"
	OpLive       = "weaviate.Live"

	// SQL statements.
	OpUpsert  = "sql.Upsert"
	OpSQLPing = "sql.Ping"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
