package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/catalog"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	catalog *catalog.Catalog
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cat *catalog.Catalog) *HealthHandler {
	return &HealthHandler{catalog: cat}
}

// Health returns the health status of the service
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"catalog_rows": h.catalog.RowCount(),
		"dimensions":   h.catalog.Dimensions(),
	})
}
