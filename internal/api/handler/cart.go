package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/api/middleware"
	"github.com/mbela/lookbook/internal/service"
)

// CartHandler handles shopping cart endpoints.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

func cartID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "cart id must be an integer")
		return 0, false
	}
	return uint(id), true
}

// AddItem handles POST /api/v1/carts/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var input service.CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	cart, err := h.carts.AddItem(c.Request.Context(), middleware.UserID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PATCH /api/v1/carts/:id/items/:productId. Quantity zero
// removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		badRequest(c, "product id must be an integer")
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cart, err := h.carts.UpdateItem(c.Request.Context(), middleware.UserID(c), id, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Get handles GET /api/v1/carts/:id.
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	cart, err := h.carts.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// List handles GET /api/v1/carts.
func (h *CartHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	carts, err := h.carts.List(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"carts": carts,
		"page":  page,
		"limit": limit,
	})
}

// Delete handles DELETE /api/v1/carts/:id.
func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	if err := h.carts.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
