package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blockvoltcr7/vector-store-be/database"
	"github.com/blockvoltcr7/vector-store-be/types"
)

// IndexHandler exposes the index and namespace administration surface. Every
// call round-trips to the remote store; nothing is cached locally.
type IndexHandler struct {
	vectorDB database.VectorDatabase
}

func NewIndexHandler(vectorDB database.VectorDatabase) *IndexHandler {
	return &IndexHandler{
		vectorDB: vectorDB,
	}
}

func (h *IndexHandler) HandleListIndexes(c *gin.Context) {
	infos, err := h.vectorDB.ListIndexes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	summaries := make([]types.IndexSummary, 0, len(infos))
	for _, info := range infos {
		summaries = append(summaries, types.IndexSummary{
			Name:      info.Name,
			Dimension: info.Dimension,
			Metric:    info.Metric,
			Host:      info.Host,
		})
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   summaries,
	})
}

func (h *IndexHandler) HandleIndexStats(c *gin.Context) {
	stats, err := h.vectorDB.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	res := types.IndexStatsResponse{
		Dimension:        stats.Dimension,
		IndexFullness:    stats.IndexFullness,
		TotalVectorCount: stats.TotalVectorCount,
		Namespaces:       make(map[string]types.NamespaceStatsResponse, len(stats.Namespaces)),
	}
	for name, ns := range stats.Namespaces {
		res.Namespaces[name] = types.NamespaceStatsResponse{VectorCount: ns.VectorCount}
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   res,
	})
}

func (h *IndexHandler) HandleCreateIndex(c *gin.Context) {
	var req types.CreateIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.Dimension <= 0 {
		req.Dimension = 1536
	}

	if err := h.vectorDB.CreateIndex(c.Request.Context(), req.Name, req.Dimension); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Index created",
	})
}

func (h *IndexHandler) HandleDeleteIndex(c *gin.Context) {
	name := c.Param("name")
	if err := h.vectorDB.DeleteIndex(c.Request.Context(), name); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Index deleted",
	})
}

// HandleFetchVectors returns the stored records for a comma-separated list
// of ids within a namespace. Ids that do not exist are omitted.
func (h *IndexHandler) HandleFetchVectors(c *gin.Context) {
	namespace := c.Param("namespace")
	ids := strings.Split(c.Query("ids"), ",")
	if len(ids) == 1 && ids[0] == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "ids parameter is required",
		})
		return
	}

	records, err := h.vectorDB.FetchRecords(c.Request.Context(), namespace, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	results := make([]types.SearchResult, 0, len(records))
	for _, record := range records {
		results = append(results, types.SearchResult{
			Content:  record.Content,
			Metadata: record.Metadata,
		})
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   results,
	})
}

// HandleDeleteNamespace removes every vector record in the namespace. A
// subsequent search against it returns zero matches.
func (h *IndexHandler) HandleDeleteNamespace(c *gin.Context) {
	namespace := c.Param("namespace")
	if err := h.vectorDB.DeleteNamespace(c.Request.Context(), namespace); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Namespace deleted",
	})
}
