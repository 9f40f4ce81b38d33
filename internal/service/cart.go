package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
)

// CartItemInput adds or updates one product line in the active cart.
type CartItemInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// CartService manages the user's active cart. All amounts use the discounted
// unit price at the time of the write.
type CartService struct {
	carts    *repository.CartRepository
	products *repository.ProductRepository
	logger   *logger.Logger
}

// NewCartService creates a CartService.
func NewCartService(
	carts *repository.CartRepository,
	products *repository.ProductRepository,
	log *logger.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   log.WithField(logger.FieldComponent, "cart_service"),
	}
}

// AddItem adds a product to the user's active cart, creating the cart when
// none exists. Adding an already-present product increments its quantity.
func (s *CartService) AddItem(ctx context.Context, userID uint, input *CartItemInput) (*domain.Cart, error) {
	product, err := s.products.GetByProductID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = &domain.Cart{UserID: userID}
		if err := s.carts.Create(ctx, cart); err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	item, err := s.carts.FindItem(ctx, cart.ID, input.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = &domain.CartItem{CartID: cart.ID, ProductID: input.ProductID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	item.Quantity += input.Quantity
	item.Subtotal = discountedPrice(product) * float64(item.Quantity)
	if err := s.carts.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save cart item: %w", err)
	}

	if err := s.recomputeTotal(ctx, cart.ID, userID); err != nil {
		return nil, err
	}

	s.logger.CtxInfo(ctx, "cart item added", logger.Fields{
		logger.FieldUserID: userID,
		"cart_id":          cart.ID,
		"product_id":       input.ProductID,
		"quantity":         item.Quantity,
	})
	return s.carts.GetByID(ctx, cart.ID, userID)
}

// UpdateItem sets the quantity of a product line in the given cart. Quantity
// zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, cartID uint, productID int64, quantity int) (*domain.Cart, error) {
	if _, err := s.carts.GetByID(ctx, cartID, userID); err != nil {
		return nil, err
	}

	item, err := s.carts.FindItem(ctx, cartID, productID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
	} else {
		product, err := s.products.GetByProductID(ctx, productID)
		if err != nil {
			return nil, err
		}
		item.Quantity = quantity
		item.Subtotal = discountedPrice(product) * float64(quantity)
		if err := s.carts.SaveItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to save cart item: %w", err)
		}
	}

	if err := s.recomputeTotal(ctx, cartID, userID); err != nil {
		return nil, err
	}
	return s.carts.GetByID(ctx, cartID, userID)
}

// Get returns a cart with its items and products.
func (s *CartService) Get(ctx context.Context, userID, cartID uint) (*domain.Cart, error) {
	return s.carts.GetByID(ctx, cartID, userID)
}

// List returns a page of the user's carts, newest first.
func (s *CartService) List(ctx context.Context, userID uint, page, limit int) ([]domain.Cart, error) {
	return s.carts.ListByUser(ctx, userID, page, limit)
}

// Delete removes a cart and its items.
func (s *CartService) Delete(ctx context.Context, userID, cartID uint) error {
	return s.carts.Delete(ctx, cartID, userID)
}

// recomputeTotal rewrites the cart total from its item subtotals.
func (s *CartService) recomputeTotal(ctx context.Context, cartID, userID uint) error {
	cart, err := s.carts.GetByID(ctx, cartID, userID)
	if err != nil {
		return err
	}
	var total float64
	for _, item := range cart.Items {
		total += item.Subtotal
	}
	cart.TotalAmount = total
	if err := s.carts.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to update cart total: %w", err)
	}
	return nil
}

// discountedPrice is the effective unit price after the product discount.
func discountedPrice(p *domain.Product) float64 {
	return p.Price * (1 - p.DiscountPercentage/100)
}
