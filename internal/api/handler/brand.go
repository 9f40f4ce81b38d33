package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/service"
)

// BrandHandler handles brand endpoints.
type BrandHandler struct {
	brands *service.BrandService
}

// NewBrandHandler creates a new brand handler.
func NewBrandHandler(brands *service.BrandService) *BrandHandler {
	return &BrandHandler{brands: brands}
}

func brandID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "brand id must be an integer")
		return 0, false
	}
	return uint(id), true
}

// List handles GET /api/v1/brands.
func (h *BrandHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	brands, err := h.brands.List(c.Request.Context(), page, limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"page":   page,
		"limit":  limit,
	})
}

// Get handles GET /api/v1/brands/:id.
func (h *BrandHandler) Get(c *gin.Context) {
	id, ok := brandID(c)
	if !ok {
		return
	}

	brand, err := h.brands.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

// PopularProducts handles GET /api/v1/brands/:id/popular-products.
func (h *BrandHandler) PopularProducts(c *gin.Context) {
	id, ok := brandID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	products, err := h.brands.PopularProducts(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Create handles POST /api/v1/brands. Admin only.
func (h *BrandHandler) Create(c *gin.Context) {
	var input service.BrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	brand, err := h.brands.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brand)
}

// Update handles PUT /api/v1/brands/:id. Admin only.
func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := brandID(c)
	if !ok {
		return
	}

	var input service.BrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	brand, err := h.brands.Update(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

// Delete handles DELETE /api/v1/brands/:id. Admin only.
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := brandID(c)
	if !ok {
		return
	}

	if err := h.brands.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
