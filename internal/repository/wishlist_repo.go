package repository

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"gorm.io/gorm"
)

// WishlistRepository handles wishlist data operations.
type WishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a new WishlistRepository.
func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// ListByUser retrieves a user's wishlist entries with products preloaded.
func (r *WishlistRepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]domain.Wishlist, error) {
	var items []domain.Wishlist
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// Exists reports whether a product is already on a user's wishlist.
func (r *WishlistRepository) Exists(ctx context.Context, userID uint, productID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Wishlist{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts a wishlist entry.
func (r *WishlistRepository) Add(ctx context.Context, item *domain.Wishlist) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Remove deletes a user's wishlist entry for a product.
func (r *WishlistRepository) Remove(ctx context.Context, userID uint, productID int64) error {
	result := r.db.WithContext(ctx).
		Delete(&domain.Wishlist{}, "user_id = ? AND product_id = ?", userID, productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
