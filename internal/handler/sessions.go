package handler

import (
	"errors"
	"io"
	"net/http"

	"insurebot/internal/model"
	"insurebot/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler handles chat session HTTP requests
type SessionHandler struct {
	chatService *service.ChatService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(chatService *service.ChatService) *SessionHandler {
	return &SessionHandler{
		chatService: chatService,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req model.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, err := h.chatService.CreateSession(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.chatService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.chatService.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		sessionError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateProfile handles PUT /api/v1/sessions/:id/profile
func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, err := h.chatService.UpdateProfile(c.Request.Context(), c.Param("id"), profile)
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SendMessage handles POST /api/v1/sessions/:id/messages
func (h *SessionHandler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, result, err := h.chatService.SendMessage(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		sessionError(c, err)
		return
	}

	resp := model.SendMessageResponse{
		Reply:    result.Text,
		Messages: session.Messages,
	}
	if result.HasSearchCriteria {
		resp.Recommendations = session.CurrentRecommendations
	}

	c.JSON(http.StatusOK, resp)
}

// AddComparison handles POST /api/v1/sessions/:id/comparison
func (h *SessionHandler) AddComparison(c *gin.Context) {
	var req model.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, added, err := h.chatService.AddToComparison(c.Request.Context(), c.Param("id"), req.PlanID)
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ComparisonResponse{
		Added:          added,
		Plans:          session.ComparisonPlans,
		ShowComparison: session.ShowComparison,
	})
}

// RemoveComparison handles DELETE /api/v1/sessions/:id/comparison/:planID
func (h *SessionHandler) RemoveComparison(c *gin.Context) {
	session, err := h.chatService.RemoveFromComparison(c.Request.Context(), c.Param("id"), c.Param("planID"))
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ComparisonResponse{
		Plans:          session.ComparisonPlans,
		ShowComparison: session.ShowComparison,
	})
}

// SaveComparison handles POST /api/v1/sessions/:id/comparison/save
func (h *SessionHandler) SaveComparison(c *gin.Context) {
	saved, err := h.chatService.SaveComparison(c.Request.Context(), c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SaveComparisonResponse{Saved: saved})
}

func sessionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
