package repository

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"gorm.io/gorm"
)

// BrandRepository handles brand data operations.
type BrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// Create inserts a new brand record.
func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

// Update updates an existing brand record.
func (r *BrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// Delete removes a brand by ID.
func (r *BrandRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Brand{}, "id = ?", id).Error
}

// GetByID retrieves a brand by ID.
func (r *BrandRepository) GetByID(ctx context.Context, id uint) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// List retrieves brands with pagination and optional name search.
func (r *BrandRepository) List(ctx context.Context, page, limit int, search string) ([]domain.Brand, error) {
	var brands []domain.Brand
	query := r.db.WithContext(ctx).Order("id ASC")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}
