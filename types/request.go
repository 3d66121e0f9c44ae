package types

// UploadRequest is the metadata half of a multipart upload. The namespace
// selects the index partition the document is ingested into; an empty value
// falls back to the configured default.
type UploadRequest struct {
	Namespace string   `json:"namespace"`
	Metadata  Metadata `json:"metadata"`
}

// SearchRequest is a similarity search over one namespace.
type SearchRequest struct {
	Query     string          `json:"query"`
	Namespace string          `json:"namespace,omitempty"`
	TopK      int             `json:"top_k,omitempty"`
	Filter    *MetadataFilter `json:"filter,omitempty"`
}

// AskRequest is a similarity search whose matches are forwarded to the chat
// model as context. History carries the caller's conversation so far; the
// server keeps no session state of its own.
type AskRequest struct {
	Question  string          `json:"question"`
	Namespace string          `json:"namespace,omitempty"`
	TopK      int             `json:"top_k,omitempty"`
	Filter    *MetadataFilter `json:"filter,omitempty"`
	History   []Message       `json:"history,omitempty"`
}

type CreateIndexRequest struct {
	Name      string `json:"name"`
	Dimension int32  `json:"dimension,omitempty"`
}
