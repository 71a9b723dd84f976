package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"insurebot/internal/model"
	"insurebot/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler handles catalog HTTP requests
type PlanHandler struct {
	planService  *service.PlanService
	defaultLimit int
	maxLimit     int
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService *service.PlanService, defaultLimit, maxLimit int) *PlanHandler {
	return &PlanHandler{
		planService:  planService,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List handles GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	start := time.Now()
	plans := h.planService.List(c.Request.Context())

	c.JSON(http.StatusOK, model.PlanListResponse{
		Plans: plans,
		Total: len(plans),
		Took:  time.Since(start).Milliseconds(),
	})
}

// Filter handles POST /api/v1/plans/filter. An empty body applies no filters.
func (h *PlanHandler) Filter(c *gin.Context) {
	var criteria model.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	start := time.Now()
	plans := h.planService.Filter(c.Request.Context(), criteria)

	c.JSON(http.StatusOK, model.PlanListResponse{
		Plans: plans,
		Total: len(plans),
		Took:  time.Since(start).Milliseconds(),
	})
}

// Get handles GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	plan, ok := h.planService.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// Similar handles GET /api/v1/plans/:id/similar
func (h *PlanHandler) Similar(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	plans, err := h.planService.Similar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVectorSearchUnavailable):
			c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		case errors.Is(err, service.ErrNoEmbedding):
			c.JSON(http.StatusConflict, gin.H{"error": "Plan has no embedding yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Similarity search failed: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans, "total": len(plans)})
}

// Ingest handles POST /api/v1/plans/ingest
func (h *PlanHandler) Ingest(c *gin.Context) {
	start := time.Now()
	n, err := h.planService.Ingest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingest failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.IngestResponse{
		Ingested: n,
		Took:     time.Since(start).Milliseconds(),
	})
}
