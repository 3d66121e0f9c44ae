package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockvoltcr7/vector-store-be/database"
	"github.com/blockvoltcr7/vector-store-be/types"
	"github.com/blockvoltcr7/vector-store-be/utils"
)

// FileService owns the ingestion pipeline: save the upload, load and chunk
// it, embed the chunks in batches and upsert them into a namespace. Each
// batch either fully succeeds or its failure propagates to the caller;
// record identifiers are deterministic, so rerunning a failed ingestion
// overwrites instead of duplicating.
type FileService struct {
	uploadDir      string
	vectorDB       database.VectorDatabase
	documents      *DocumentService
	embedder       Embedder
	embedBatchSize int
}

func NewFileService(
	uploadDir string,
	vectorDB database.VectorDatabase,
	documents *DocumentService,
	embedder Embedder,
	embedBatchSize int,
) *FileService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic(err)
	}
	if embedBatchSize <= 0 {
		embedBatchSize = 64
	}
	return &FileService{
		uploadDir:      uploadDir,
		vectorDB:       vectorDB,
		documents:      documents,
		embedder:       embedder,
		embedBatchSize: embedBatchSize,
	}
}

// UploadFile persists a multipart upload under the upload directory and
// ingests it. Status updates stream to c while batches complete; c may be
// nil when the caller does not care.
func (s *FileService) UploadFile(ctx context.Context, req types.UploadRequest, file *multipart.FileHeader, c chan<- types.ProcessingDocumentStatus) (*types.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" && ext != ".md" && ext != ".txt" {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFileType, ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// originalname_timestamp.extension, with unsafe characters replaced
	originalName := strings.TrimSuffix(file.Filename, ext)
	filename := utils.TimestampedName(sanitizeFileName(originalName) + ext)
	destPath := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return nil, err
	}

	chunks, err := s.IngestFile(ctx, destPath, req.Namespace, req.Metadata, c)
	if err != nil {
		return nil, err
	}

	return &types.UploadResponse{
		OriginalName: file.Filename,
		Namespace:    req.Namespace,
		Chunks:       chunks,
	}, nil
}

// IngestFile runs the pipeline on a file already on disk and returns the
// number of chunks upserted.
func (s *FileService) IngestFile(ctx context.Context, path, namespace string, metadata types.Metadata, c chan<- types.ProcessingDocumentStatus) (int, error) {
	if err := types.ValidateMetadata(metadata); err != nil {
		return 0, err
	}

	doc, err := s.documents.LoadFile(path, metadata)
	if err != nil {
		return 0, err
	}
	chunks := s.documents.Chunk(doc)

	total := len(chunks)
	for start := 0; start < total; start += s.embedBatchSize {
		end := start + s.embedBatchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}
		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return start, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
		}

		records := make([]database.VectorRecord, len(batch))
		for i, chunk := range batch {
			records[i] = database.VectorRecord{
				ID:       database.VectorID(chunk.Metadata.Source, chunk.Index),
				Values:   vectors[i],
				Content:  chunk.Content,
				Metadata: chunk.Metadata,
			}
		}
		if err := s.vectorDB.UpsertRecords(ctx, namespace, records); err != nil {
			return start, fmt.Errorf("failed to upsert chunks %d-%d: %w", start, end, err)
		}

		if c != nil {
			c <- types.ProcessingDocumentStatus{
				Status:         "processing",
				Message:        fmt.Sprintf("Upserted chunks %d-%d", start, end),
				Progress:       float64(end) / float64(total),
				TotalChunks:    total,
				UpsertedChunks: end,
			}
		}
	}

	if c != nil {
		c <- types.ProcessingDocumentStatus{
			Status:         "completed",
			Message:        "Done processing document",
			Progress:       1,
			TotalChunks:    total,
			UpsertedChunks: total,
		}
	}
	return total, nil
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
