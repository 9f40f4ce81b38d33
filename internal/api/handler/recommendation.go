package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/api/middleware"
	"github.com/mbela/lookbook/internal/service"
)

// RecommendationHandler serves personalized product recommendations.
type RecommendationHandler struct {
	recommendations *service.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(recommendations *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// Get handles GET /api/v1/recommendations.
func (h *RecommendationHandler) Get(c *gin.Context) {
	resp, err := h.recommendations.GetRecommendations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
