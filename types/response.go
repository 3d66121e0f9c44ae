package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UploadResponse struct {
	OriginalName string `json:"original_name"`
	Namespace    string `json:"namespace"`
	Chunks       int    `json:"chunks"`
}

// ProcessingDocumentStatus is streamed to the client while a document is
// being chunked, embedded and upserted.
type ProcessingDocumentStatus struct {
	Status         string  `json:"status"`
	Message        string  `json:"message,omitempty"`
	Progress       float64 `json:"progress"`
	TotalChunks    int     `json:"total_chunks"`
	UpsertedChunks int     `json:"upserted_chunks"`
}

// SearchResult is one similarity match, ordered by descending score.
type SearchResult struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Score    float32  `json:"score"`
}

type SearchResponse struct {
	Query        string         `json:"query"`
	Namespace    string         `json:"namespace"`
	TotalResults int            `json:"total_results"`
	Matches      []SearchResult `json:"matches"`
}

// AskResponse is the generated answer plus the matches it was grounded on.
type AskResponse struct {
	Answer  string         `json:"answer"`
	Sources []SearchResult `json:"sources"`
}

type NamespaceStatsResponse struct {
	VectorCount uint32 `json:"vector_count"`
}

type IndexStatsResponse struct {
	Dimension        uint32                            `json:"dimension"`
	IndexFullness    float32                           `json:"index_fullness"`
	TotalVectorCount uint32                            `json:"total_vector_count"`
	Namespaces       map[string]NamespaceStatsResponse `json:"namespaces"`
}

type IndexSummary struct {
	Name      string `json:"name"`
	Dimension int32  `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
}
