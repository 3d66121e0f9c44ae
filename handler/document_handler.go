package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blockvoltcr7/vector-store-be/types"
)

var servableExtensions = map[string]string{
	".pdf": "application/pdf",
	".md":  "text/markdown; charset=utf-8",
	".txt": "text/plain; charset=utf-8",
}

// DocumentHandler serves back the original files kept in the upload
// directory, resolving the timestamp suffix added at upload time.
type DocumentHandler struct {
	uploadDir string
}

func NewDocumentHandler(uploadDir string) *DocumentHandler {
	return &DocumentHandler{
		uploadDir: uploadDir,
	}
}

func (h *DocumentHandler) ServeDocument(c *gin.Context) {
	requestedName := c.Query("file")
	if requestedName == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File parameter is required",
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(requestedName))
	contentType, ok := servableExtensions[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Unsupported file type",
		})
		return
	}

	actualFile, err := h.findFileWithTimestamp(requestedName, ext)
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: "File not found",
		})
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", filepath.Base(requestedName)))
	c.File(filepath.Join(h.uploadDir, actualFile))
}

// findFileWithTimestamp matches "name.ext" against stored "name_<unix>.ext"
// files.
func (h *DocumentHandler) findFileWithTimestamp(requestedName, ext string) (string, error) {
	files, err := os.ReadDir(h.uploadDir)
	if err != nil {
		return "", err
	}

	baseName := strings.TrimSuffix(filepath.Base(requestedName), ext)
	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}

		nameWithoutExt := strings.TrimSuffix(name, ext)
		if nameWithoutExt == baseName {
			return name, nil
		}

		lastUnderscoreIdx := strings.LastIndex(nameWithoutExt, "_")
		if lastUnderscoreIdx == -1 {
			continue
		}
		timestampPart := nameWithoutExt[lastUnderscoreIdx+1:]
		fileBaseName := nameWithoutExt[:lastUnderscoreIdx]

		if len(timestampPart) == 10 || len(timestampPart) == 13 {
			if _, err := strconv.ParseInt(timestampPart, 10, 64); err == nil && fileBaseName == baseName {
				return name, nil
			}
		}
	}

	return "", fmt.Errorf("file not found: %s", requestedName)
}
