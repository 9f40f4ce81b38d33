package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
	"github.com/mbela/lookbook/internal/storage"
)

// maxImageDimension rejects absurd uploads before they reach storage.
const maxImageDimension = 8192

// ProductInput holds the writable product fields for create and update.
type ProductInput struct {
	ProductID          int64              `json:"product_id" binding:"required"`
	Title              string             `json:"title" binding:"required"`
	Description        string             `json:"description"`
	Price              float64            `json:"price" binding:"required,gt=0"`
	DiscountPercentage float64            `json:"discount_percentage" binding:"gte=0,lte=100"`
	Stock              int                `json:"stock" binding:"gte=0"`
	Thumbnail          string             `json:"thumbnail"`
	Images             domain.StringArray `json:"images"`
	IsPublished        *bool              `json:"is_published"`
	Gender             domain.Gender      `json:"gender" binding:"required,oneof=men women unisex"`
	Sizes              domain.StringArray `json:"sizes"`
	CategoryID         uint               `json:"category_id" binding:"required"`
	BrandID            uint               `json:"brand_id" binding:"required"`
}

// ProductService handles product catalog management.
type ProductService struct {
	products *repository.ProductRepository
	storage  storage.ObjectStorage
	renderer *Renderer
	logger   *logger.Logger
}

// NewProductService creates a ProductService.
func NewProductService(
	products *repository.ProductRepository,
	objectStorage storage.ObjectStorage,
	renderer *Renderer,
	log *logger.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		storage:  objectStorage,
		renderer: renderer,
		logger:   log.WithField(logger.FieldComponent, "product_service"),
	}
}

// Create stores a new product.
func (s *ProductService) Create(ctx context.Context, input *ProductInput) (*ProductDetail, error) {
	product := input.toProduct()
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.CtxInfo(ctx, "product created", logger.Fields{"product_id": product.ProductID})
	detail := s.renderer.RenderDetail(product)
	return &detail, nil
}

// Update replaces the writable fields of an existing product.
func (s *ProductService) Update(ctx context.Context, productID int64, input *ProductInput) (*ProductDetail, error) {
	existing, err := s.products.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	updated := input.toProduct()
	updated.ID = existing.ID
	updated.ProductID = existing.ProductID
	updated.CreatedAt = existing.CreatedAt
	if err := s.products.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	detail := s.renderer.RenderDetail(updated)
	return &detail, nil
}

// Delete removes a product by its public ID.
func (s *ProductService) Delete(ctx context.Context, productID int64) error {
	return s.products.Delete(ctx, productID)
}

// Get returns a single product with absolute image URLs.
func (s *ProductService) Get(ctx context.Context, productID int64) (*ProductDetail, error) {
	product, err := s.products.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	detail := s.renderer.RenderDetail(product)
	return &detail, nil
}

// List returns a page of products, optionally filtered by a title search.
func (s *ProductService) List(ctx context.Context, page, limit int, search string) ([]ProductDetail, error) {
	products, err := s.products.List(ctx, page, limit, search)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderDetails(products), nil
}

// UploadImage stores a product image and returns its relative serving path.
// Parameters:
//   - data: raw image bytes.
//   - filename: original file name, used only for its extension.
//   - contentType: MIME type reported by the client.
func (s *ProductService) UploadImage(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unsupported or corrupt image: %w", err)
	}
	if cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return "", fmt.Errorf("image %dx%d exceeds the %d pixel limit", cfg.Width, cfg.Height, maxImageDimension)
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = "." + format
	}
	relative := "/products/imgs/" + uuid.NewString() + ext

	key := strings.TrimPrefix(relative, "/")
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("failed to store product image: %w", err)
	}
	s.logger.CtxInfo(ctx, "product image uploaded", logger.Fields{
		"path": relative,
		"size": len(data),
	})
	return relative, nil
}

func (in *ProductInput) toProduct() *domain.Product {
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	return &domain.Product{
		ProductID:          in.ProductID,
		Title:              in.Title,
		Description:        in.Description,
		Price:              in.Price,
		DiscountPercentage: in.DiscountPercentage,
		Stock:              in.Stock,
		Thumbnail:          in.Thumbnail,
		Images:             in.Images,
		IsPublished:        published,
		Gender:             in.Gender,
		Sizes:              in.Sizes,
		CategoryID:         in.CategoryID,
		BrandID:            in.BrandID,
	}
}
