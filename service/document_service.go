package service

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/blockvoltcr7/vector-store-be/types"
)

var (
	markdownHeaderRe = regexp.MustCompile(`(?m)^#+\s+`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
	pdfPagesRe       = regexp.MustCompile(`Pages:\s+(\d+)`)
)

// DocumentService loads uploaded files into raw text and splits the text
// into bounded, overlapping chunks.
type DocumentService struct {
	chunkSize int // Maximum size of each text chunk, in runes
	overlap   int // Number of runes shared by consecutive chunks
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	ChunkSize: 1000,
	Overlap:   200,
}

func NewDocumentService(config types.DocumentServiceConfig) *DocumentService {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultDocumentServiceConfig.ChunkSize
	}
	if config.Overlap < 0 || config.Overlap >= config.ChunkSize {
		config.Overlap = DefaultDocumentServiceConfig.Overlap
		if config.Overlap >= config.ChunkSize {
			config.Overlap = config.ChunkSize / 5
		}
	}
	return &DocumentService{
		chunkSize: config.ChunkSize,
		overlap:   config.Overlap,
	}
}

// LoadFile reads a PDF, Markdown or plain-text file into a Document. The
// supplied metadata passes through untouched; the loader stamps source,
// file_type and timestamp on top of it.
func (s *DocumentService) LoadFile(path string, metadata types.Metadata) (*types.Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	var content string
	var err error
	switch ext {
	case "pdf":
		content, err = s.loadPDF(path, &metadata)
	case "md", "markdown":
		content, err = s.loadMarkdown(path)
	case "txt":
		content, err = s.loadText(path)
	default:
		return nil, fmt.Errorf("%w: .%s", types.ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return nil, err
	}

	content = s.cleanText(content)
	if content == "" {
		return nil, types.ErrEmptyDocument
	}

	metadata.Source = filepath.Base(path)
	metadata.FileType = ext
	metadata.Timestamp = time.Now().Format(time.RFC3339)

	return &types.Document{
		Content:  content,
		Metadata: metadata,
	}, nil
}

// Chunk splits a document into its ordered sequence of chunks, each carrying
// the document metadata plus its ordinal.
func (s *DocumentService) Chunk(doc *types.Document) []types.DocumentChunk {
	segments := s.SplitText(doc.Content)
	chunks := make([]types.DocumentChunk, len(segments))
	for i, segment := range segments {
		metadata := doc.Metadata
		metadata.ChunkID = i
		metadata.TotalChunks = len(segments)
		chunks[i] = types.DocumentChunk{
			Content:  segment,
			Index:    i,
			Metadata: metadata,
		}
	}
	return chunks
}

// ProcessFile loads a file and streams its chunks to c, closing the channel
// when the document is exhausted. Restart by calling it again.
func (s *DocumentService) ProcessFile(path string, metadata types.Metadata, c chan<- types.DocumentChunk) error {
	defer close(c)

	doc, err := s.LoadFile(path, metadata)
	if err != nil {
		return err
	}
	for _, chunk := range s.Chunk(doc) {
		c <- chunk
	}
	return nil
}

// SplitText divides text into chunks of at most chunkSize runes where
// consecutive chunks share exactly overlap runes. Text that fits in one
// chunk comes back as a single segment equal to the input. Splitting is
// positional only, with no sentence or paragraph awareness.
func (s *DocumentService) SplitText(text string) []string {
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.overlap
	var segments []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end >= len(runes) {
			segments = append(segments, string(runes[start:]))
			break
		}
		segments = append(segments, string(runes[start:end]))
	}
	return segments
}

func (s *DocumentService) loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// loadMarkdown strips ATX headers and collapses whitespace so that heading
// markers do not pollute the embeddings.
func (s *DocumentService) loadMarkdown(path string) (string, error) {
	content, err := s.loadText(path)
	if err != nil {
		return "", err
	}
	content = markdownHeaderRe.ReplaceAllString(content, "")
	content = whitespaceRe.ReplaceAllString(content, " ")
	return strings.TrimSpace(content), nil
}

// loadPDF extracts text with the pdftotext utility and records the page
// count in the document metadata.
func (s *DocumentService) loadPDF(path string, metadata *types.Metadata) (string, error) {
	cmd := exec.Command("pdftotext", "-enc", "UTF-8", "-nopgbrk", path, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run pdftotext: %w", err)
	}

	if pages, err := getNumPages(path); err == nil {
		if metadata.Custom == nil {
			metadata.Custom = make(map[string]string)
		}
		metadata.Custom["pages"] = strconv.Itoa(pages)
	}

	return out.String(), nil
}

// getNumPages uses pdfinfo to read the total page count of a PDF file.
func getNumPages(pdfPath string) (int, error) {
	cmd := exec.Command("pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %v", err)
	}

	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		if matches := pdfPagesRe.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}
	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

func (s *DocumentService) cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\u001b": "",   // Escape character
		"\u00a0": " ",  // Non-breaking space
		"\u200b": "",   // Zero-width space
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}

// GetFileNameWithoutExt extracts the base filename without its extension.
func GetFileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return base
}
