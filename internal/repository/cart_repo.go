package repository

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"gorm.io/gorm"
)

// CartRepository handles cart data operations.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetByID retrieves a user's cart with items and products preloaded.
func (r *CartRepository) GetByID(ctx context.Context, cartID, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items.Product.Category").
		Preload("Items.Product").
		Preload("Items").
		First(&cart, "id = ? AND user_id = ?", cartID, userID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListByUser retrieves a user's carts with items and products preloaded.
func (r *CartRepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]domain.Cart, error) {
	var carts []domain.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items.Product.Category").
		Preload("Items.Product").
		Preload("Items").
		Where("user_id = ?", userID).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&carts).Error; err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	return carts, nil
}

// FindActiveByUser returns the user's current cart, or gorm.ErrRecordNotFound.
func (r *CartRepository) FindActiveByUser(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	if err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts a new cart record.
func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// Save persists cart changes.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).Save(cart).Error
}

// FindItem returns the cart line for a product, or gorm.ErrRecordNotFound.
func (r *CartRepository) FindItem(ctx context.Context, cartID uint, productID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem persists a cart line.
func (r *CartRepository) SaveItem(ctx context.Context, item *domain.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes a single cart line by its ID.
func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&domain.CartItem{}, "id = ?", itemID).Error
}

// DeleteItems removes every line of a cart.
func (r *CartRepository) DeleteItems(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Delete(&domain.CartItem{}, "cart_id = ?", cartID).Error
}

// Delete removes a user's cart and, via cascade, its items.
func (r *CartRepository) Delete(ctx context.Context, cartID, userID uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Cart{}, "id = ? AND user_id = ?", cartID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
