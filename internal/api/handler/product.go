package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/service"
)

// maxUploadBytes caps product image uploads at 10 MB.
const maxUploadBytes = 10 << 20

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	search := c.Query("search")

	products, err := h.products.List(c.Request.Context(), page, limit, search)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"page":     page,
		"limit":    limit,
	})
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "product id must be an integer")
		return
	}

	product, err := h.products.Get(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create handles POST /api/v1/products. Admin only.
func (h *ProductHandler) Create(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/v1/products/:id. Admin only.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "product id must be an integer")
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), productID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/v1/products/:id. Admin only.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "product id must be an integer")
		return
	}

	if err := h.products.Delete(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /api/v1/products/images. Admin only.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "image file is required")
		return
	}
	if file.Size > maxUploadBytes {
		badRequest(c, "image exceeds the 10MB upload limit")
		return
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

	path, err := h.products.UploadImage(c.Request.Context(), data, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}
