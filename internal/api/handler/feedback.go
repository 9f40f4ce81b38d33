package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/api/middleware"
	"github.com/mbela/lookbook/internal/service"
)

// FeedbackHandler handles swipe deck and swipe feedback endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Deck handles GET /api/v1/feedback/deck: a random batch of products the user
// has not swiped on yet.
func (h *FeedbackHandler) Deck(c *gin.Context) {
	deck, err := h.feedback.Deck(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": deck})
}

// Submit handles POST /api/v1/feedback: one swipe decision.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var input service.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.feedback.Submit(c.Request.Context(), middleware.UserID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	c.JSON(status, result)
}
