package database

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pinecone-io/go-pinecone/v2/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/blockvoltcr7/vector-store-be/config"
	"github.com/blockvoltcr7/vector-store-be/types"
)

// Pinecone rejects overly large upsert payloads, keep batches small.
const BATCH_SIZE = 100

// Segment text travels inside the record metadata under this key, so that
// search results can return the original text without a second lookup.
const contentKey = "text"

// PineconeStore talks to one Pinecone index. Namespaces within the index are
// selected per call; the store caches nothing about their membership.
type PineconeStore struct {
	client    *pinecone.Client
	indexName string
	host      string
}

func NewPineconeStore(cfg config.PineconeConfig) (*PineconeStore, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("PINECONE_API_KEY not set")
	}
	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}

	idx, err := client.DescribeIndex(context.Background(), cfg.IndexName)
	if err != nil {
		return nil, fmt.Errorf("index %q does not exist: %w", cfg.IndexName, err)
	}

	return &PineconeStore{
		client:    client,
		indexName: cfg.IndexName,
		host:      idx.Host,
	}, nil
}

// NewPineconeAdmin builds a store for control-plane calls only (ListIndexes,
// CreateIndex, DeleteIndex). It does not resolve an index host, so record
// operations and Stats are unavailable on it.
func NewPineconeAdmin(apiKey string) (*PineconeStore, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("PINECONE_API_KEY not set")
	}
	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}
	return &PineconeStore{client: client}, nil
}

// VectorID derives a stable identifier for a segment from its source and
// ordinal. Re-submitting the same document overwrites the same records
// instead of duplicating them, which makes failed batch uploads safe to
// retry from the top.
func VectorID(source string, chunk int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", source, chunk))).String()
}

func (s *PineconeStore) connect(namespace string) (*pinecone.IndexConnection, error) {
	conn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      s.host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to index %q: %w", s.indexName, err)
	}
	return conn, nil
}

func (s *PineconeStore) UpsertRecords(ctx context.Context, namespace string, records []VectorRecord) error {
	conn, err := s.connect(namespace)
	if err != nil {
		return err
	}
	defer conn.Close()

	total := len(records)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		vectors := make([]*pinecone.Vector, 0, end-i)
		for j := i; j < end; j++ {
			metadata, err := recordMetadata(records[j])
			if err != nil {
				return fmt.Errorf("failed to encode metadata for record %s: %w", records[j].ID, err)
			}
			vectors = append(vectors, &pinecone.Vector{
				Id:       records[j].ID,
				Values:   records[j].Values,
				Metadata: metadata,
			})
		}

		if _, err := conn.UpsertVectors(ctx, vectors); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
		log.Printf("Upserted batch %d-%d of %d records into namespace %q", i, end, total, namespace)
	}

	return nil
}

func (s *PineconeStore) FetchRecords(ctx context.Context, namespace string, ids []string) ([]VectorRecord, error) {
	conn, err := s.connect(namespace)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	res, err := conn.FetchVectors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vectors: %w", err)
	}

	records := make([]VectorRecord, 0, len(res.Vectors))
	for _, id := range ids {
		vec, ok := res.Vectors[id]
		if !ok || vec == nil {
			continue
		}
		records = append(records, vectorToRecord(vec))
	}
	return records, nil
}

func (s *PineconeStore) Query(ctx context.Context, namespace string, vector []float32, topK int, filter *types.MetadataFilter) ([]SearchMatch, error) {
	conn, err := s.connect(namespace)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if topK <= 0 {
		topK = 5
	}
	metadataFilter, err := buildMetadataFilter(filter)
	if err != nil {
		return nil, err
	}

	res, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		MetadataFilter:  metadataFilter,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	matches := make([]SearchMatch, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		matches = append(matches, SearchMatch{
			Record: vectorToRecord(m.Vector),
			Score:  m.Score,
		})
	}
	return matches, nil
}

func (s *PineconeStore) DeleteNamespace(ctx context.Context, namespace string) error {
	conn, err := s.connect(namespace)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.DeleteAllVectorsInNamespace(ctx); err != nil {
		return fmt.Errorf("failed to delete namespace %q: %w", namespace, err)
	}
	return nil
}

func (s *PineconeStore) Stats(ctx context.Context) (*IndexStats, error) {
	conn, err := s.connect("")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	res, err := conn.DescribeIndexStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index stats: %w", err)
	}

	stats := &IndexStats{
		Dimension:        res.Dimension,
		IndexFullness:    res.IndexFullness,
		TotalVectorCount: res.TotalVectorCount,
		Namespaces:       make(map[string]NamespaceStats, len(res.Namespaces)),
	}
	for name, ns := range res.Namespaces {
		if ns == nil {
			continue
		}
		stats.Namespaces[name] = NamespaceStats{VectorCount: ns.VectorCount}
	}
	return stats, nil
}

func (s *PineconeStore) ListIndexes(ctx context.Context) ([]IndexInfo, error) {
	idxs, err := s.client.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	infos := make([]IndexInfo, 0, len(idxs))
	for _, idx := range idxs {
		if idx == nil {
			continue
		}
		infos = append(infos, IndexInfo{
			Name:      idx.Name,
			Dimension: idx.Dimension,
			Metric:    string(idx.Metric),
			Host:      idx.Host,
		})
	}
	return infos, nil
}

// CreateIndex creates a serverless index with cosine similarity, matching
// the embedding model's vector space.
func (s *PineconeStore) CreateIndex(ctx context.Context, name string, dimension int32) error {
	_, err := s.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      name,
		Dimension: dimension,
		Metric:    pinecone.Cosine,
		Cloud:     pinecone.Aws,
		Region:    "us-west-2",
	})
	if err != nil {
		return fmt.Errorf("failed to create index %q: %w", name, err)
	}
	return nil
}

func (s *PineconeStore) DeleteIndex(ctx context.Context, name string) error {
	if err := s.client.DeleteIndex(ctx, name); err != nil {
		return fmt.Errorf("failed to delete index %q: %w", name, err)
	}
	return nil
}

// recordMetadata flattens a record into the flat key space Pinecone accepts:
// strings, numbers and lists of strings. Custom fields merge in at the top
// level so they stay filterable.
func recordMetadata(record VectorRecord) (*pinecone.Metadata, error) {
	fields := map[string]interface{}{
		contentKey: record.Content,
		"chunk_id": record.Metadata.ChunkID,
	}
	setIfNotEmpty := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	setIfNotEmpty("title", record.Metadata.Title)
	setIfNotEmpty("category", record.Metadata.Category)
	setIfNotEmpty("description", record.Metadata.Description)
	setIfNotEmpty("author", record.Metadata.Author)
	setIfNotEmpty("source", record.Metadata.Source)
	setIfNotEmpty("file_type", record.Metadata.FileType)
	setIfNotEmpty("date_created", record.Metadata.DateCreated)
	setIfNotEmpty("timestamp", record.Metadata.Timestamp)
	if record.Metadata.TotalChunks > 0 {
		fields["total_chunks"] = record.Metadata.TotalChunks
	}
	if len(record.Metadata.Tags) > 0 {
		fields["tags"] = toAnySlice(record.Metadata.Tags)
	}
	if len(record.Metadata.Keywords) > 0 {
		fields["keywords"] = toAnySlice(record.Metadata.Keywords)
	}
	// Custom keys never shadow the reserved fields above.
	for k, v := range record.Metadata.Custom {
		if reservedMetadataKeys[k] {
			continue
		}
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

var reservedMetadataKeys = map[string]bool{
	contentKey: true, "title": true, "category": true, "description": true,
	"author": true, "source": true, "file_type": true, "date_created": true,
	"timestamp": true, "chunk_id": true, "total_chunks": true,
	"tags": true, "keywords": true,
}

func vectorToRecord(vec *pinecone.Vector) VectorRecord {
	record := VectorRecord{
		ID:     vec.Id,
		Values: vec.Values,
	}
	if vec.Metadata == nil {
		return record
	}
	fields := vec.Metadata.AsMap()

	record.Content = asString(fields[contentKey])
	record.Metadata = types.Metadata{
		Title:       asString(fields["title"]),
		Category:    asString(fields["category"]),
		Description: asString(fields["description"]),
		Author:      asString(fields["author"]),
		Source:      asString(fields["source"]),
		FileType:    asString(fields["file_type"]),
		DateCreated: asString(fields["date_created"]),
		Timestamp:   asString(fields["timestamp"]),
		ChunkID:     asInt(fields["chunk_id"]),
		TotalChunks: asInt(fields["total_chunks"]),
		Tags:        asStringSlice(fields["tags"]),
		Keywords:    asStringSlice(fields["keywords"]),
	}
	for k, v := range fields {
		if reservedMetadataKeys[k] {
			continue
		}
		if record.Metadata.Custom == nil {
			record.Metadata.Custom = make(map[string]string)
		}
		record.Metadata.Custom[k] = asString(v)
	}
	return record
}

// buildMetadataFilter translates a filter into a Pinecone filter expression:
// $eq for scalar fields, $in for tags, $and when several are set.
func buildMetadataFilter(filter *types.MetadataFilter) (*pinecone.MetadataFilter, error) {
	if filter == nil || filter.IsZero() {
		return nil, nil
	}

	var clauses []interface{}
	eq := func(field, value string) {
		if value != "" {
			clauses = append(clauses, map[string]interface{}{
				field: map[string]interface{}{"$eq": value},
			})
		}
	}
	eq("category", filter.Category)
	eq("author", filter.Author)
	eq("source", filter.Source)
	eq("file_type", filter.FileType)
	if len(filter.Tags) > 0 {
		clauses = append(clauses, map[string]interface{}{
			"tags": map[string]interface{}{"$in": toAnySlice(filter.Tags)},
		})
	}
	for k, v := range filter.Custom {
		eq(k, v)
	}

	var expr map[string]interface{}
	if len(clauses) == 1 {
		expr = clauses[0].(map[string]interface{})
	} else {
		expr = map[string]interface{}{"$and": clauses}
	}
	metadataFilter, err := structpb.NewStruct(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata filter: %w", err)
	}
	return metadataFilter, nil
}

func toAnySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}

func asStringSlice(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
