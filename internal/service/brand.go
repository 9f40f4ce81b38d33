package service

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
)

// BrandInput holds the writable brand fields.
type BrandInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Website     string `json:"website"`
	IsActive    *bool  `json:"is_active"`
}

// PopularProductView is a popular-products entry with rendered image URLs.
type PopularProductView struct {
	Product       ProductDetail `json:"product"`
	LikesCount    int64         `json:"likes_count"`
	AverageRating float64       `json:"average_rating"`
}

// BrandService handles brand management and brand-scoped product rankings.
type BrandService struct {
	brands   *repository.BrandRepository
	products *repository.ProductRepository
	renderer *Renderer
	logger   *logger.Logger
}

// NewBrandService creates a BrandService.
func NewBrandService(
	brands *repository.BrandRepository,
	products *repository.ProductRepository,
	renderer *Renderer,
	log *logger.Logger,
) *BrandService {
	return &BrandService{
		brands:   brands,
		products: products,
		renderer: renderer,
		logger:   log.WithField(logger.FieldComponent, "brand_service"),
	}
}

// Create stores a new brand.
func (s *BrandService) Create(ctx context.Context, input *BrandInput) (*domain.Brand, error) {
	brand := input.toBrand()
	if err := s.brands.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	s.logger.CtxInfo(ctx, "brand created", logger.Fields{"brand_id": brand.ID, "name": brand.Name})
	return brand, nil
}

// Update replaces the writable fields of an existing brand.
func (s *BrandService) Update(ctx context.Context, id uint, input *BrandInput) (*domain.Brand, error) {
	existing, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := input.toBrand()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.brands.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return updated, nil
}

// Delete removes a brand.
func (s *BrandService) Delete(ctx context.Context, id uint) error {
	return s.brands.Delete(ctx, id)
}

// Get returns a single brand.
func (s *BrandService) Get(ctx context.Context, id uint) (*domain.Brand, error) {
	return s.brands.GetByID(ctx, id)
}

// List returns a page of brands, optionally filtered by a name search.
func (s *BrandService) List(ctx context.Context, page, limit int, search string) ([]domain.Brand, error) {
	return s.brands.List(ctx, page, limit, search)
}

// PopularProducts returns a brand's products ranked by liked-feedback count.
// The brand must exist; an unknown ID is a not-found error, not an empty list.
func (s *BrandService) PopularProducts(ctx context.Context, brandID uint, limit int) ([]PopularProductView, error) {
	if _, err := s.brands.GetByID(ctx, brandID); err != nil {
		return nil, err
	}

	ranked, err := s.products.PopularByBrand(ctx, brandID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]PopularProductView, 0, len(ranked))
	for i := range ranked {
		views = append(views, PopularProductView{
			Product:       s.renderer.RenderDetail(&ranked[i].Product),
			LikesCount:    ranked[i].LikesCount,
			AverageRating: ranked[i].AverageRating,
		})
	}
	return views, nil
}

func (in *BrandInput) toBrand() *domain.Brand {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &domain.Brand{
		Name:        in.Name,
		Description: in.Description,
		Logo:        in.Logo,
		Website:     in.Website,
		IsActive:    active,
	}
}
