package service

import (
	"context"
	"fmt"

	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
)

// FeedbackInput is one swipe decision on a product.
type FeedbackInput struct {
	ProductID int64    `json:"product_id" binding:"required"`
	Liked     bool     `json:"liked"`
	Rating    *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

// FeedbackResult reports the stored feedback and whether it replaced an
// earlier swipe on the same product.
type FeedbackResult struct {
	Feedback *domain.ProductFeedback `json:"feedback"`
	Updated  bool                    `json:"updated"`
}

// FeedbackService records swipe feedback and serves the swipe deck.
type FeedbackService struct {
	feedback *repository.FeedbackRepository
	products *repository.ProductRepository
	renderer *Renderer
	logger   *logger.Logger
	deckSize int
}

// NewFeedbackService creates a FeedbackService. deckSize is the number of
// products served per swipe deck request.
func NewFeedbackService(
	feedback *repository.FeedbackRepository,
	products *repository.ProductRepository,
	renderer *Renderer,
	deckSize int,
	log *logger.Logger,
) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		products: products,
		renderer: renderer,
		logger:   log.WithField(logger.FieldComponent, "feedback_service"),
		deckSize: deckSize,
	}
}

// Submit records a swipe, replacing any earlier swipe by the same user on the
// same product.
func (s *FeedbackService) Submit(ctx context.Context, userID uint, input *FeedbackInput) (*FeedbackResult, error) {
	if _, err := s.products.GetByProductID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	fb := &domain.ProductFeedback{
		UserID:    userID,
		ProductID: input.ProductID,
		Liked:     input.Liked,
		Rating:    input.Rating,
	}
	stored, updated, err := s.feedback.Upsert(ctx, fb)
	if err != nil {
		return nil, err
	}

	s.logger.CtxInfo(ctx, "feedback recorded", logger.Fields{
		logger.FieldUserID: userID,
		"product_id":       input.ProductID,
		"liked":            input.Liked,
		"updated":          updated,
	})
	return &FeedbackResult{Feedback: stored, Updated: updated}, nil
}

// Deck serves a random batch of products the user has not swiped on yet.
func (s *FeedbackService) Deck(ctx context.Context, userID uint) ([]RenderedProduct, error) {
	swiped, err := s.feedback.SwipedProductIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build swipe deck: %w", err)
	}

	deck, err := s.products.SampleRandom(ctx, s.deckSize, swiped)
	if err != nil {
		return nil, fmt.Errorf("failed to build swipe deck: %w", err)
	}
	return s.renderer.RenderProducts(deck), nil
}
