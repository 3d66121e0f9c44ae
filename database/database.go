package database

import (
	"context"

	"github.com/blockvoltcr7/vector-store-be/types"
)

// VectorRecord is one stored segment: its embedding, original text and
// metadata, keyed by a caller-supplied identifier.
type VectorRecord struct {
	ID       string
	Values   []float32
	Content  string
	Metadata types.Metadata
}

// SearchMatch pairs a fetched record with its similarity score.
type SearchMatch struct {
	Record VectorRecord
	Score  float32
}

type NamespaceStats struct {
	VectorCount uint32
}

type IndexStats struct {
	Dimension        uint32
	IndexFullness    float32
	TotalVectorCount uint32
	Namespaces       map[string]NamespaceStats
}

type IndexInfo struct {
	Name      string
	Dimension int32
	Metric    string
	Host      string
}

// VectorDatabase defines the remote vector-store operations the application
// composes. All durable state lives behind this interface; the application
// keeps no local copy of it.
type VectorDatabase interface {
	// Record operations, scoped to a namespace. Namespaces are created
	// implicitly on first upsert.
	UpsertRecords(ctx context.Context, namespace string, records []VectorRecord) error
	FetchRecords(ctx context.Context, namespace string, ids []string) ([]VectorRecord, error)
	Query(ctx context.Context, namespace string, vector []float32, topK int, filter *types.MetadataFilter) ([]SearchMatch, error)
	DeleteNamespace(ctx context.Context, namespace string) error

	// Index administration.
	Stats(ctx context.Context) (*IndexStats, error)
	ListIndexes(ctx context.Context) ([]IndexInfo, error)
	CreateIndex(ctx context.Context, name string, dimension int32) error
	DeleteIndex(ctx context.Context, name string) error
}
