package handler

import (
	"errors"
	"fmt"
	"net/http"

	"insurebot/internal/model"
	"insurebot/internal/service"

	"github.com/gin-gonic/gin"
)

// EmbeddingHandler handles embedding-related HTTP requests
type EmbeddingHandler struct {
	planService *service.PlanService
	dimension   int
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(planService *service.PlanService, dimension int) *EmbeddingHandler {
	return &EmbeddingHandler{
		planService: planService,
		dimension:   dimension,
	}
}

// BatchUpdate handles POST /api/v1/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Embeddings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No embeddings provided"})
		return
	}

	for i, item := range req.Embeddings {
		if len(item.Embedding) != h.dimension {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid embedding dimension at index %d, expected %d", i, h.dimension),
			})
			return
		}
	}

	response, err := h.planService.BatchUpdateEmbeddings(c.Request.Context(), req.Embeddings)
	if err != nil {
		embeddingError(c, err)
		return
	}

	if len(response.Errors) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}

// EmbedCatalog handles POST /api/v1/embeddings/catalog
func (h *EmbeddingHandler) EmbedCatalog(c *gin.Context) {
	response, err := h.planService.EmbedCatalog(c.Request.Context())
	if err != nil {
		embeddingError(c, err)
		return
	}

	if len(response.Errors) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}

func embeddingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVectorSearchUnavailable):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAIDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Embedding update failed: " + err.Error()})
	}
}
