package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blockvoltcr7/vector-store-be/service"
	"github.com/blockvoltcr7/vector-store-be/types"
)

const maxUploadSize = 10 << 20

type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

// HandleUpload accepts a multipart form with the document under "file" and a
// JSON UploadRequest under "metadata", streams progress events while the
// document is chunked, embedded and upserted, then closes with a final JSON
// status.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	var req types.UploadRequest
	if err := json.Unmarshal([]byte(c.Request.FormValue("metadata")), &req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid metadata",
		})
		return
	}

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File too large",
		})
		return
	}

	statusChan := make(chan types.ProcessingDocumentStatus)
	type uploadResult struct {
		res *types.UploadResponse
		err error
	}
	resultChan := make(chan uploadResult, 1)
	go func() {
		defer close(statusChan)
		res, err := h.fileService.UploadFile(c.Request.Context(), req, header, statusChan)
		resultChan <- uploadResult{res: res, err: err}
	}()

	for status := range statusChan {
		jsonStatus, err := json.Marshal(status)
		if err != nil {
			continue
		}
		c.SSEvent("message", string(jsonStatus))
		c.Writer.Flush()
	}

	result := <-resultChan
	if result.err != nil {
		status := http.StatusInternalServerError
		if errors.Is(result.err, types.ErrUnsupportedFileType) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: result.err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   result.res,
	})
}
