package handler

import (
	"net/http"
	"time"

	"insurebot/internal/model"
	"insurebot/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles saved plan and profile HTTP requests
type UserHandler struct {
	userService *service.UserPlanService
	planService *service.PlanService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserPlanService, planService *service.PlanService) *UserHandler {
	return &UserHandler{
		userService: userService,
		planService: planService,
	}
}

// ListSaved handles GET /api/v1/users/:user/saved
func (h *UserHandler) ListSaved(c *gin.Context) {
	userID := c.Param("user")
	c.JSON(http.StatusOK, model.SavedPlansResponse{
		UserID: userID,
		Plans:  h.userService.ListSaved(userID),
	})
}

// SavePlan handles POST /api/v1/users/:user/saved
func (h *UserHandler) SavePlan(c *gin.Context) {
	var req model.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !h.userService.SavePlan(c.Request.Context(), req.PlanID, c.Param("user")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Plan saved"})
}

// RemoveSaved handles DELETE /api/v1/users/:user/saved/:planID
func (h *UserHandler) RemoveSaved(c *gin.Context) {
	if !h.userService.RemoveSavedPlan(c.Request.Context(), c.Param("planID"), c.Param("user")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No saved plans for user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Plan removed"})
}

// GetProfile handles GET /api/v1/users/:user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.userService.GetProfile(c.Param("user")))
}

// PutProfile handles PUT /api/v1/users/:user/profile
func (h *UserHandler) PutProfile(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	userID := c.Param("user")
	if err := h.userService.SaveProfile(userID, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.userService.GetProfile(userID))
}

// Recommendations handles GET /api/v1/users/:user/recommendations by filtering the
// catalog with the user's profile.
func (h *UserHandler) Recommendations(c *gin.Context) {
	start := time.Now()
	criteria := service.ProfileCriteria(h.userService.GetProfile(c.Param("user")), start)
	plans := h.planService.Filter(c.Request.Context(), criteria)

	c.JSON(http.StatusOK, model.PlanListResponse{
		Plans: plans,
		Total: len(plans),
		Took:  time.Since(start).Milliseconds(),
	})
}
