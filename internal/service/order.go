package service

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
)

// CheckoutInput places an order from a cart.
type CheckoutInput struct {
	CartID          uint   `json:"cart_id" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// OrderService turns carts into orders and tracks fulfillment state.
type OrderService struct {
	orders   *repository.OrderRepository
	carts    *repository.CartRepository
	products *repository.ProductRepository
	logger   *logger.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(
	orders *repository.OrderRepository,
	carts *repository.CartRepository,
	products *repository.ProductRepository,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		logger:   log.WithField(logger.FieldComponent, "order_service"),
	}
}

// Checkout places an order from the given cart, snapshotting current
// discounted unit prices, then deletes the cart.
// Returns:
//   - *domain.Order: the created order with items preloaded.
//   - error: ErrEmptyCart when the cart holds no items.
func (s *OrderService) Checkout(ctx context.Context, userID uint, input *CheckoutInput) (*domain.Order, error) {
	cart, err := s.carts.GetByID(ctx, input.CartID, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
	}
	for _, item := range cart.Items {
		product, err := s.products.GetByProductID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
		}
		price := discountedPrice(product)
		subtotal := price * float64(item.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
			Subtotal:  subtotal,
		})
		order.TotalAmount += subtotal
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.carts.Delete(ctx, cart.ID, userID); err != nil {
		s.logger.CtxWarn(ctx, "failed to delete cart after checkout", logger.Fields{
			"cart_id": cart.ID,
			"error":   err.Error(),
		})
	}

	s.logger.CtxInfo(ctx, "order placed", logger.Fields{
		logger.FieldUserID: userID,
		"order_id":         order.ID,
		"total_amount":     order.TotalAmount,
		"item_count":       len(order.Items),
	})
	return s.orders.GetByID(ctx, order.ID, userID)
}

// Get returns one of the user's orders with items preloaded.
func (s *OrderService) Get(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	return s.orders.GetByID(ctx, orderID, userID)
}

// List returns a page of the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID uint, page, limit int) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID, page, limit)
}

// UpdateStatus moves an order to a new fulfillment state. Admin only; the
// handler enforces the role.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown order status %q", status)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.logger.CtxInfo(ctx, "order status updated", logger.Fields{
		"order_id":         orderID,
		logger.FieldStatus: string(status),
	})
	return nil
}
