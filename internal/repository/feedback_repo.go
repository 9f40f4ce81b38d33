package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"gorm.io/gorm"
)

// FeedbackRepository handles product feedback data operations.
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// RecentLiked retrieves a user's most recent liked feedback, newest first.
// An empty result is the cold-start signal, not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user to fetch feedback for.
//   - limit: maximum number of signals to return.
// Returns:
//   - []domain.ProductFeedback: liked signals ordered by recency descending.
//   - error: non-nil if the query fails.
func (r *FeedbackRepository) RecentLiked(ctx context.Context, userID uint, limit int) ([]domain.ProductFeedback, error) {
	var feedback []domain.ProductFeedback
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND liked = ?", userID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to get liked feedback: %w", err)
	}
	return feedback, nil
}

// SwipedProductIDs returns every product the user has already swiped on,
// liked or not. Used to keep already-seen products out of the swipe deck.
func (r *FeedbackRepository) SwipedProductIDs(ctx context.Context, userID uint) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&domain.ProductFeedback{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get swiped product ids: %w", err)
	}
	return ids, nil
}

// Upsert records feedback for a user and product, updating the existing row
// when the user has already swiped this product.
// Returns:
//   - *domain.ProductFeedback: the stored row.
//   - bool: true when an existing row was updated rather than created.
//   - error: non-nil if the write fails.
func (r *FeedbackRepository) Upsert(ctx context.Context, fb *domain.ProductFeedback) (*domain.ProductFeedback, bool, error) {
	var existing domain.ProductFeedback
	err := r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND product_id = ?", fb.UserID, fb.ProductID).Error
	if err == nil {
		existing.Liked = fb.Liked
		existing.Rating = fb.Rating
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, false, fmt.Errorf("failed to update feedback: %w", err)
		}
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up feedback: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create feedback: %w", err)
	}
	return fb, false, nil
}
