package repository

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"gorm.io/gorm"
)

// OrderRepository handles order data operations.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order along with its items.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID retrieves a user's order with items and products preloaded.
func (r *OrderRepository) GetByID(ctx context.Context, orderID, userID uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Items").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus transitions an order to the given status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
