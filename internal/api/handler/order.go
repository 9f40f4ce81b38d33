package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/api/middleware"
	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "order id must be an integer")
		return 0, false
	}
	return uint(id), true
}

// Checkout handles POST /api/v1/orders: places an order from a cart.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), middleware.UserID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	orders, err := h.orders.List(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateStatus handles PATCH /api/v1/orders/:id/status. Admin only.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !req.Status.Valid() {
		badRequest(c, "unknown order status")
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
