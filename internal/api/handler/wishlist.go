package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/api/middleware"
	"github.com/mbela/lookbook/internal/service"
)

// WishlistHandler handles wishlist endpoints.
type WishlistHandler struct {
	wishlists *service.WishlistService
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(wishlists *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

type addWishlistRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// List handles GET /api/v1/wishlist.
func (h *WishlistHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	entries, err := h.wishlists.List(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wishlist": entries,
		"page":     page,
		"limit":    limit,
	})
}

// Add handles POST /api/v1/wishlist.
func (h *WishlistHandler) Add(c *gin.Context) {
	var req addWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.wishlists.Add(c.Request.Context(), middleware.UserID(c), req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product_id": req.ProductID})
}

// Remove handles DELETE /api/v1/wishlist/:productId.
func (h *WishlistHandler) Remove(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		badRequest(c, "product id must be an integer")
		return
	}

	if err := h.wishlists.Remove(c.Request.Context(), middleware.UserID(c), productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
