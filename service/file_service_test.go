package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockvoltcr7/vector-store-be/database"
	"github.com/blockvoltcr7/vector-store-be/types"
)

func newTestFileService(t *testing.T, db database.VectorDatabase, embedder Embedder, batchSize int) *FileService {
	t.Helper()
	documents := NewDocumentService(types.DocumentServiceConfig{ChunkSize: 50, Overlap: 10})
	return NewFileService(t.TempDir(), db, documents, embedder, batchSize)
}

func TestIngestFileStoresEveryChunk(t *testing.T) {
	db := newFakeVectorDB()
	embedder := &fakeEmbedder{}
	svc := newTestFileService(t, db, embedder, 4)

	path := writeTempFile(t, "handbook.txt", strings.Repeat("all work and no play makes jack a dull boy. ", 20))

	count, err := svc.IngestFile(context.Background(), path, "docs", validMetadata(), nil)
	require.NoError(t, err)
	assert.Greater(t, count, 1)
	assert.Equal(t, count, db.count("docs"))
}

func TestIngestFileDeterministicIDs(t *testing.T) {
	db := newFakeVectorDB()
	svc := newTestFileService(t, db, &fakeEmbedder{}, 4)

	path := writeTempFile(t, "handbook.txt", strings.Repeat("all work and no play makes jack a dull boy. ", 20))

	count, err := svc.IngestFile(context.Background(), path, "docs", validMetadata(), nil)
	require.NoError(t, err)

	// Record ids derive from the source name and ordinal.
	source := filepath.Base(path)
	for i := 0; i < count; i++ {
		_, ok := db.namespaces["docs"][database.VectorID(source, i)]
		assert.True(t, ok, "missing record for chunk %d", i)
	}

	// Re-ingesting the same file overwrites instead of duplicating.
	again, err := svc.IngestFile(context.Background(), path, "docs", validMetadata(), nil)
	require.NoError(t, err)
	assert.Equal(t, count, again)
	assert.Equal(t, count, db.count("docs"))
}

func TestIngestFileRecordMetadataSuperset(t *testing.T) {
	db := newFakeVectorDB()
	svc := newTestFileService(t, db, &fakeEmbedder{}, 4)

	path := writeTempFile(t, "handbook.txt", strings.Repeat("all work and no play. ", 20))

	count, err := svc.IngestFile(context.Background(), path, "docs", validMetadata(), nil)
	require.NoError(t, err)

	for _, record := range db.namespaces["docs"] {
		assert.Equal(t, "Quarterly Report", record.Metadata.Title)
		assert.Equal(t, "finance", record.Metadata.Category)
		assert.Equal(t, filepath.Base(path), record.Metadata.Source)
		assert.Equal(t, "txt", record.Metadata.FileType)
		assert.Equal(t, count, record.Metadata.TotalChunks)
		assert.NotEmpty(t, record.Content)
		assert.NotEmpty(t, record.Values)
	}
}

func TestIngestFileBatchesEmbeddings(t *testing.T) {
	db := newFakeVectorDB()
	embedder := &fakeEmbedder{}
	svc := newTestFileService(t, db, embedder, 2)

	path := writeTempFile(t, "handbook.txt", strings.Repeat("all work and no play makes jack a dull boy. ", 20))

	count, err := svc.IngestFile(context.Background(), path, "docs", validMetadata(), nil)
	require.NoError(t, err)
	require.Greater(t, count, 2)

	sum := 0
	for _, size := range embedder.batchSizes {
		assert.LessOrEqual(t, size, 2)
		sum += size
	}
	assert.Equal(t, count, sum)
	assert.Equal(t, embedder.batchSizes, db.upsertBatches)
}

func TestIngestFileStatusUpdates(t *testing.T) {
	db := newFakeVectorDB()
	svc := newTestFileService(t, db, &fakeEmbedder{}, 2)

	path := writeTempFile(t, "handbook.txt", strings.Repeat("all work and no play makes jack a dull boy. ", 20))

	statusChan := make(chan types.ProcessingDocumentStatus, 64)
	count, err := svc.IngestFile(context.Background(), path, "docs", validMetadata(), statusChan)
	close(statusChan)
	require.NoError(t, err)

	var statuses []types.ProcessingDocumentStatus
	for status := range statusChan {
		statuses = append(statuses, status)
	}
	require.NotEmpty(t, statuses)

	last := statuses[len(statuses)-1]
	assert.Equal(t, "completed", last.Status)
	assert.Equal(t, float64(1), last.Progress)
	assert.Equal(t, count, last.TotalChunks)
	assert.Equal(t, count, last.UpsertedChunks)

	for i := 1; i < len(statuses); i++ {
		assert.GreaterOrEqual(t, statuses[i].UpsertedChunks, statuses[i-1].UpsertedChunks)
	}
}

func TestIngestFileRejectsInvalidMetadata(t *testing.T) {
	db := newFakeVectorDB()
	svc := newTestFileService(t, db, &fakeEmbedder{}, 4)

	path := writeTempFile(t, "handbook.txt", "some content")

	metadata := validMetadata()
	metadata.Title = ""
	_, err := svc.IngestFile(context.Background(), path, "docs", metadata, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Equal(t, 0, db.count("docs"))
}

func TestIngestFileRejectsBadDate(t *testing.T) {
	db := newFakeVectorDB()
	svc := newTestFileService(t, db, &fakeEmbedder{}, 4)

	path := writeTempFile(t, "handbook.txt", "some content")

	metadata := validMetadata()
	metadata.DateCreated = "12/01/2024"
	_, err := svc.IngestFile(context.Background(), path, "docs", metadata, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date_created")
}

func TestIngestFilePropagatesEmbedFailure(t *testing.T) {
	db := newFakeVectorDB()
	embedder := &fakeEmbedder{failAfter: 2}
	svc := newTestFileService(t, db, embedder, 2)

	path := writeTempFile(t, "handbook.txt", strings.Repeat("all work and no play makes jack a dull boy. ", 20))

	_, err := svc.IngestFile(context.Background(), path, "docs", validMetadata(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed")
	// The first batch went through before the failure.
	assert.Equal(t, 2, db.count("docs"))
}

func multipartHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestUploadFile(t *testing.T) {
	db := newFakeVectorDB()
	svc := newTestFileService(t, db, &fakeEmbedder{}, 4)

	header := multipartHeader(t, "team notes.txt", strings.Repeat("meeting minutes go here. ", 20))
	res, err := svc.UploadFile(context.Background(), types.UploadRequest{
		Namespace: "docs",
		Metadata:  validMetadata(),
	}, header, nil)
	require.NoError(t, err)

	assert.Equal(t, "team notes.txt", res.OriginalName)
	assert.Equal(t, "docs", res.Namespace)
	assert.Greater(t, res.Chunks, 0)
	assert.Equal(t, res.Chunks, db.count("docs"))
}

func TestUploadFileRejectsUnsupportedType(t *testing.T) {
	db := newFakeVectorDB()
	svc := newTestFileService(t, db, &fakeEmbedder{}, 4)

	header := multipartHeader(t, "payload.exe", "binary")
	_, err := svc.UploadFile(context.Background(), types.UploadRequest{
		Namespace: "docs",
		Metadata:  validMetadata(),
	}, header, nil)
	assert.True(t, errors.Is(err, types.ErrUnsupportedFileType))
	assert.Equal(t, 0, db.count("docs"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "team_notes", sanitizeFileName("team notes"))
	assert.Equal(t, "report-v2.final", sanitizeFileName("report-v2.final"))
	assert.Equal(t, "a_b_c", sanitizeFileName("a/b\\c"))
}
