package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"sync"

	"github.com/blockvoltcr7/vector-store-be/database"
	"github.com/blockvoltcr7/vector-store-be/types"
)

// fakeEmbedder produces a deterministic unit vector per text, so identical
// texts embed identically and cosine similarity behaves like the real thing.
type fakeEmbedder struct {
	batchSizes []int
	failAfter  int // fail on the Nth EmbedTexts call, 0 disables
	calls      int
}

func embedText(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, 8)
	var norm float64
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed%2000)-1000) / 1000
		norm += float64(vec[i]) * float64(vec[i])
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func (e *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.failAfter > 0 && e.calls >= e.failAfter {
		return nil, fmt.Errorf("embedding backend unavailable")
	}
	e.batchSizes = append(e.batchSizes, len(texts))

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = embedText(text)
	}
	return vectors, nil
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return embedText(text), nil
}

// fakeVectorDB is an in-memory stand-in for the Pinecone index: records keyed
// by id within namespaces, cosine-scored queries, metadata filters.
type fakeVectorDB struct {
	namespaces    map[string]map[string]database.VectorRecord
	upsertBatches []int
	lastQueriedNS string
	failUpsert    bool
}

func newFakeVectorDB() *fakeVectorDB {
	return &fakeVectorDB{namespaces: make(map[string]map[string]database.VectorRecord)}
}

func (db *fakeVectorDB) UpsertRecords(ctx context.Context, namespace string, records []database.VectorRecord) error {
	if db.failUpsert {
		return fmt.Errorf("upsert rejected")
	}
	db.upsertBatches = append(db.upsertBatches, len(records))
	ns, ok := db.namespaces[namespace]
	if !ok {
		ns = make(map[string]database.VectorRecord)
		db.namespaces[namespace] = ns
	}
	for _, record := range records {
		ns[record.ID] = record
	}
	return nil
}

func (db *fakeVectorDB) FetchRecords(ctx context.Context, namespace string, ids []string) ([]database.VectorRecord, error) {
	ns := db.namespaces[namespace]
	var records []database.VectorRecord
	for _, id := range ids {
		if record, ok := ns[id]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func (db *fakeVectorDB) Query(ctx context.Context, namespace string, vector []float32, topK int, filter *types.MetadataFilter) ([]database.SearchMatch, error) {
	db.lastQueriedNS = namespace

	var matches []database.SearchMatch
	for _, record := range db.namespaces[namespace] {
		if !matchesFilter(record.Metadata, filter) {
			continue
		}
		matches = append(matches, database.SearchMatch{
			Record: record,
			Score:  cosine(vector, record.Values),
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (db *fakeVectorDB) DeleteNamespace(ctx context.Context, namespace string) error {
	delete(db.namespaces, namespace)
	return nil
}

func (db *fakeVectorDB) Stats(ctx context.Context) (*database.IndexStats, error) {
	stats := &database.IndexStats{
		Dimension:  8,
		Namespaces: make(map[string]database.NamespaceStats),
	}
	for name, ns := range db.namespaces {
		stats.Namespaces[name] = database.NamespaceStats{VectorCount: uint32(len(ns))}
		stats.TotalVectorCount += uint32(len(ns))
	}
	return stats, nil
}

func (db *fakeVectorDB) ListIndexes(ctx context.Context) ([]database.IndexInfo, error) {
	return nil, nil
}

func (db *fakeVectorDB) CreateIndex(ctx context.Context, name string, dimension int32) error {
	return nil
}

func (db *fakeVectorDB) DeleteIndex(ctx context.Context, name string) error {
	return nil
}

func (db *fakeVectorDB) count(namespace string) int {
	return len(db.namespaces[namespace])
}

func matchesFilter(m types.Metadata, filter *types.MetadataFilter) bool {
	if filter == nil || filter.IsZero() {
		return true
	}
	if filter.Category != "" && m.Category != filter.Category {
		return false
	}
	if filter.Author != "" && m.Author != filter.Author {
		return false
	}
	if filter.Source != "" && m.Source != filter.Source {
		return false
	}
	if filter.FileType != "" && m.FileType != filter.FileType {
		return false
	}
	if len(filter.Tags) > 0 {
		found := false
		for _, want := range filter.Tags {
			for _, have := range m.Tags {
				if want == have {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	for k, v := range filter.Custom {
		if m.Custom[k] != v {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// fakeAI records what the query engine hands to the chat model. Guarded by
// a mutex so tests can inspect it from a goroutine other than the one
// serving the request.
type fakeAI struct {
	mu       sync.Mutex
	system   string
	messages []types.Message
	answer   string
	err      error
}

func (ai *fakeAI) Chat(ctx context.Context, system string, messages []types.Message) (string, error) {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	ai.system = system
	ai.messages = messages
	if ai.err != nil {
		return "", ai.err
	}
	return ai.answer, nil
}

func (ai *fakeAI) setAnswer(answer string) {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	ai.answer = answer
}

func (ai *fakeAI) lastMessages() []types.Message {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	return append([]types.Message(nil), ai.messages...)
}
