package repository

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"gorm.io/gorm"
)

// ProductRepository handles product data operations.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product record.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update updates an existing product record.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product by its public product ID.
func (r *ProductRepository) Delete(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, "product_id = ?", productID).Error
}

// GetByProductID retrieves a product by its public product ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - productID: public business key of the product.
// Returns:
//   - *domain.Product: product with category and brand preloaded.
//   - error: gorm.ErrRecordNotFound when no such product exists.
func (r *ProductRepository) GetByProductID(ctx context.Context, productID int64) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		First(&product, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List retrieves published products with pagination and optional title search.
func (r *ProductRepository) List(ctx context.Context, page, limit int, search string) ([]domain.Product, error) {
	var products []domain.Product
	query := r.db.WithContext(ctx).Order("id ASC")
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if err := query.
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByProductIDs retrieves products by a list of public product IDs. The
// returned order is the store's natural retrieval order, not the input order.
func (r *ProductRepository) GetByProductIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("product_id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// GetByThumbnails retrieves products whose thumbnail path is in the given set.
func (r *ProductRepository) GetByThumbnails(ctx context.Context, paths []string) ([]domain.Product, error) {
	if len(paths) == 0 {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("thumbnail IN ?", paths).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by thumbnails: %w", err)
	}
	return products, nil
}

// SampleRandom retrieves up to count random products, excluding the given
// public product IDs. Fewer rows than requested is not an error.
func (r *ProductRepository) SampleRandom(ctx context.Context, count int, excludeIDs []int64) ([]domain.Product, error) {
	if count <= 0 {
		return []domain.Product{}, nil
	}
	query := r.db.WithContext(ctx)
	if len(excludeIDs) > 0 {
		query = query.Where("product_id NOT IN ?", excludeIDs)
	}
	var products []domain.Product
	// RANDOM() is understood by both sqlite and postgres
	if err := query.Order("RANDOM()").Limit(count).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to sample random products: %w", err)
	}
	return products, nil
}

// PopularProduct pairs a product with its aggregated feedback stats.
type PopularProduct struct {
	domain.Product
	LikesCount    int64   `json:"likes_count"`
	AverageRating float64 `json:"average_rating"`
}

// PopularByBrand retrieves a brand's products ranked by like count, then
// average rating. Only liked feedback is counted.
func (r *ProductRepository) PopularByBrand(ctx context.Context, brandID uint, limit int) ([]PopularProduct, error) {
	var results []PopularProduct
	if err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("products.*, COUNT(product_feedback.id) AS likes_count, AVG(product_feedback.rating) AS average_rating").
		Joins("JOIN product_feedback ON product_feedback.product_id = products.product_id").
		Where("products.brand_id = ? AND product_feedback.liked = ?", brandID, true).
		Group("products.id").
		Order("likes_count DESC, average_rating DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get popular products: %w", err)
	}
	return results, nil
}
