package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
)

// WishlistEntry is one saved product with rendered image URLs.
type WishlistEntry struct {
	ID      uint          `json:"id"`
	Product ProductDetail `json:"product"`
	AddedAt string        `json:"added_at"`
}

// WishlistService manages per-user saved products.
type WishlistService struct {
	wishlists *repository.WishlistRepository
	products  *repository.ProductRepository
	renderer  *Renderer
	logger    *logger.Logger
}

// NewWishlistService creates a WishlistService.
func NewWishlistService(
	wishlists *repository.WishlistRepository,
	products *repository.ProductRepository,
	renderer *Renderer,
	log *logger.Logger,
) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		products:  products,
		renderer:  renderer,
		logger:    log.WithField(logger.FieldComponent, "wishlist_service"),
	}
}

// List returns a page of the user's saved products.
func (s *WishlistService) List(ctx context.Context, userID uint, page, limit int) ([]WishlistEntry, error) {
	items, err := s.wishlists.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]WishlistEntry, 0, len(items))
	for _, item := range items {
		entry := WishlistEntry{ID: item.ID, AddedAt: item.CreatedAt.Format(time.RFC3339)}
		if item.Product != nil {
			entry.Product = s.renderer.RenderDetail(item.Product)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Add saves a product to the user's wishlist.
// Returns:
//   - error: ErrAlreadyInWishlist when the product is already saved, or a
//     not-found error when the product does not exist.
func (s *WishlistService) Add(ctx context.Context, userID uint, productID int64) error {
	if _, err := s.products.GetByProductID(ctx, productID); err != nil {
		return err
	}

	exists, err := s.wishlists.Exists(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to check wishlist: %w", err)
	}
	if exists {
		return ErrAlreadyInWishlist
	}

	if err := s.wishlists.Add(ctx, &domain.Wishlist{UserID: userID, ProductID: productID}); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	s.logger.CtxInfo(ctx, "product added to wishlist", logger.Fields{
		logger.FieldUserID: userID,
		"product_id":       productID,
	})
	return nil
}

// Remove drops a product from the user's wishlist.
func (s *WishlistService) Remove(ctx context.Context, userID uint, productID int64) error {
	return s.wishlists.Remove(ctx, userID, productID)
}
