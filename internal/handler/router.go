package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Plans      *PlanHandler
	Users      *UserHandler
	Sessions   *SessionHandler
	Embeddings *EmbeddingHandler
}

// RegisterRoutes mounts every API endpoint on router
func RegisterRoutes(router *gin.Engine, h Handlers) {
	apiV1 := router.Group("/api/v1")
	{
		// Catalog endpoints
		apiV1.GET("/plans", h.Plans.List)
		apiV1.POST("/plans/filter", h.Plans.Filter)
		apiV1.POST("/plans/ingest", h.Plans.Ingest)
		apiV1.GET("/plans/:id", h.Plans.Get)
		apiV1.GET("/plans/:id/similar", h.Plans.Similar)

		// Saved plans and profiles
		apiV1.GET("/users/:user/saved", h.Users.ListSaved)
		apiV1.POST("/users/:user/saved", h.Users.SavePlan)
		apiV1.DELETE("/users/:user/saved/:planID", h.Users.RemoveSaved)
		apiV1.GET("/users/:user/profile", h.Users.GetProfile)
		apiV1.PUT("/users/:user/profile", h.Users.PutProfile)
		apiV1.GET("/users/:user/recommendations", h.Users.Recommendations)

		// Chat sessions
		apiV1.POST("/sessions", h.Sessions.Create)
		apiV1.GET("/sessions/:id", h.Sessions.Get)
		apiV1.DELETE("/sessions/:id", h.Sessions.Delete)
		apiV1.PUT("/sessions/:id/profile", h.Sessions.UpdateProfile)
		apiV1.POST("/sessions/:id/messages", h.Sessions.SendMessage)
		apiV1.POST("/sessions/:id/comparison", h.Sessions.AddComparison)
		apiV1.POST("/sessions/:id/comparison/save", h.Sessions.SaveComparison)
		apiV1.DELETE("/sessions/:id/comparison/:planID", h.Sessions.RemoveComparison)

		// Embedding endpoints
		apiV1.POST("/embeddings/batch", h.Embeddings.BatchUpdate)
		apiV1.POST("/embeddings/catalog", h.Embeddings.EmbedCatalog)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
