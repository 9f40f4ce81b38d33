package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/service"
)

// SearchHandler handles search-by-image endpoints.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// ByImage handles POST /api/v1/search/image.
func (h *SearchHandler) ByImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "image file is required")
		return
	}
	if file.Size > maxUploadBytes {
		badRequest(c, "image exceeds the 10MB upload limit")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.search.SearchByImage(c.Request.Context(), data, file.Filename, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
