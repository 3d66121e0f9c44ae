package types

// Document is the raw text of an uploaded file plus its metadata. It is
// immutable once chunked.
type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// DocumentChunk is the unit actually embedded and stored in the vector index.
type DocumentChunk struct {
	Content  string   // The actual text content
	Index    int      // Ordinal position of the chunk within the document
	Metadata Metadata // Metadata inherited from the document
}

// Metadata carries the user-entered fields from the upload form plus the
// fields stamped by the loader and the splitter. Every vector record stored
// remotely holds a superset of the document's metadata.
type Metadata struct {
	Title       string            `json:"title,omitempty"`
	Category    string            `json:"category,omitempty"`
	Description string            `json:"description,omitempty"`
	Author      string            `json:"author,omitempty"`
	Source      string            `json:"source,omitempty"`
	FileType    string            `json:"file_type,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	DateCreated string            `json:"date_created,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
	ChunkID     int               `json:"chunk_id"`
	TotalChunks int               `json:"total_chunks,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// MetadataFilter narrows a similarity search to records whose metadata
// matches: equality on the scalar fields, containment on tags.
type MetadataFilter struct {
	Category string            `json:"category,omitempty"`
	Author   string            `json:"author,omitempty"`
	Source   string            `json:"source,omitempty"`
	FileType string            `json:"file_type,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Custom   map[string]string `json:"custom,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f MetadataFilter) IsZero() bool {
	return f.Category == "" && f.Author == "" && f.Source == "" &&
		f.FileType == "" && len(f.Tags) == 0 && len(f.Custom) == 0
}

// DocumentServiceConfig contains configuration options for document chunking.
type DocumentServiceConfig struct {
	ChunkSize int // Maximum size for text chunks, in runes
	Overlap   int // Number of runes shared by consecutive chunks
}
