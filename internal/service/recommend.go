// Package service implements the application's business logic on top of the
// repository, catalog and storage layers.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mbela/lookbook/internal/catalog"
	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
)

// FeedbackStore provides the swipe signals that seed recommendations.
type FeedbackStore interface {
	RecentLiked(ctx context.Context, userID uint, limit int) ([]domain.ProductFeedback, error)
}

// ProductStore provides the catalog lookups the engine needs.
type ProductStore interface {
	GetByProductIDs(ctx context.Context, productIDs []int64) ([]domain.Product, error)
	GetByThumbnails(ctx context.Context, thumbnails []string) ([]domain.Product, error)
	SampleRandom(ctx context.Context, count int, excludeProductIDs []int64) ([]domain.Product, error)
}

// RecommendationResponse is the engine's response for both personalized and
// cold-start requests. LikedImages is omitted when the user has no liked
// history.
type RecommendationResponse struct {
	LikedImages []string          `json:"liked_images,omitempty"`
	Products    []RenderedProduct `json:"products"`
}

// RecommendationService produces visually similar product recommendations
// from a user's liked history by scanning the embedding catalog.
type RecommendationService struct {
	feedback FeedbackStore
	products ProductStore
	catalog  *catalog.Catalog
	renderer *Renderer
	logger   *logger.Logger

	topK           int
	recentLikes    int
	minResults     int
	internalPrefix string
	publicPrefix   string
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(
	feedback FeedbackStore,
	products ProductStore,
	cat *catalog.Catalog,
	renderer *Renderer,
	cfg *config.RecommendConfig,
	catalogCfg *config.CatalogConfig,
	log *logger.Logger,
) *RecommendationService {
	return &RecommendationService{
		feedback:       feedback,
		products:       products,
		catalog:        cat,
		renderer:       renderer,
		logger:         log.WithField(logger.FieldComponent, "recommendation_service"),
		topK:           cfg.TopK,
		recentLikes:    cfg.RecentLikes,
		minResults:     cfg.MinResults,
		internalPrefix: catalogCfg.InternalPrefix,
		publicPrefix:   catalogCfg.PublicPrefix,
	}
}

// GetRecommendations returns personalized recommendations for the user, or a
// random cold-start sample when the user has no liked history.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID uint) (*RecommendationResponse, error) {
	signals, err := s.feedback.RecentLiked(ctx, userID, s.recentLikes)
	if err != nil {
		return nil, fmt.Errorf("failed to load liked feedback: %w", err)
	}
	if len(signals) == 0 {
		return s.coldStart(ctx, userID)
	}

	likedImages, seedRows, err := s.resolveSeeds(ctx, signals)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seeds: %w", err)
	}
	if len(seedRows) == 0 {
		s.logger.CtxWarn(ctx, "no liked product matched the embedding catalog, serving cold start", logger.Fields{
			logger.FieldUserID: userID,
			"liked_count":      len(signals),
		})
		return s.coldStart(ctx, userID)
	}

	candidateRows, err := s.searchSimilar(seedRows)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	candidatePaths := make([]string, 0, len(candidateRows))
	for _, row := range candidateRows {
		imagePath, err := s.catalog.ImagePathAt(row)
		if err != nil {
			return nil, fmt.Errorf("similarity search failed: %w", err)
		}
		candidatePaths = append(candidatePaths, s.translatePath(imagePath))
	}

	matched, err := s.hydrate(ctx, candidatePaths)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate recommendations: %w", err)
	}

	rendered := s.renderer.RenderProducts(matched)
	if len(rendered) < s.minResults {
		rendered, err = s.pad(ctx, rendered)
		if err != nil {
			return nil, fmt.Errorf("failed to pad recommendations: %w", err)
		}
	}

	s.logger.CtxInfo(ctx, "personalized recommendations served", logger.Fields{
		logger.FieldUserID: userID,
		"seed_count":       len(seedRows),
		"candidate_count":  len(candidateRows),
		logger.FieldCount:  len(rendered),
	})

	return &RecommendationResponse{
		LikedImages: s.renderLikedImages(likedImages),
		Products:    rendered,
	}, nil
}

// coldStart serves a random product sample for users without liked history.
func (s *RecommendationService) coldStart(ctx context.Context, userID uint) (*RecommendationResponse, error) {
	sample, err := s.products.SampleRandom(ctx, s.minResults, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sample cold-start products: %w", err)
	}
	s.logger.CtxInfo(ctx, "cold-start recommendations served", logger.Fields{
		logger.FieldUserID: userID,
		logger.FieldCount:  len(sample),
	})
	return &RecommendationResponse{Products: s.renderer.RenderProducts(sample)}, nil
}

// resolveSeeds maps liked feedback to catalog rows. Products whose thumbnail
// has no catalog row are skipped; a failing product lookup is a request
// failure, not a skip. The returned slices follow feedback recency, most
// recent first.
func (s *RecommendationService) resolveSeeds(ctx context.Context, signals []domain.ProductFeedback) ([]string, []int, error) {
	likedIDs := make([]int64, 0, len(signals))
	for _, fb := range signals {
		likedIDs = append(likedIDs, fb.ProductID)
	}

	liked, err := s.products.GetByProductIDs(ctx, likedIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load liked products: %w", err)
	}

	byID := make(map[int64]*domain.Product, len(liked))
	for i := range liked {
		byID[liked[i].ProductID] = &liked[i]
	}

	var likedImages []string
	var seedRows []int
	for _, id := range likedIDs {
		p, ok := byID[id]
		if !ok || p.Thumbnail == "" {
			continue
		}
		filename := p.Thumbnail[strings.LastIndex(p.Thumbnail, "/")+1:]
		row, ok := s.catalog.FindRowBySuffix(filename)
		if !ok {
			s.logger.CtxDebug(ctx, "liked product has no embedding row", logger.Fields{
				"product_id": p.ProductID,
				"thumbnail":  p.Thumbnail,
			})
			continue
		}
		likedImages = append(likedImages, p.Thumbnail)
		seedRows = append(seedRows, row)
	}
	return likedImages, seedRows, nil
}

// searchSimilar runs a top-K scan per seed row and merges the per-seed
// results in seed order, keeping the first occurrence of each row.
func (s *RecommendationService) searchSimilar(seedRows []int) ([]int, error) {
	seen := make(map[int]bool)
	var merged []int
	for _, seed := range seedRows {
		rows, err := s.topKSimilar(seed)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if seen[row] {
				continue
			}
			seen[row] = true
			merged = append(merged, row)
		}
	}
	return merged, nil
}

// topKSimilar scores every catalog row against the seed by dot product and
// returns the K best rows, highest score first. Equal scores keep the lower
// row index first. The seed row itself competes like any other row.
func (s *RecommendationService) topKSimilar(seedRow int) ([]int, error) {
	seed, err := s.catalog.VectorAt(seedRow)
	if err != nil {
		return nil, err
	}

	n := s.catalog.RowCount()
	scores := make([]float64, n)
	for row := 0; row < n; row++ {
		vec, err := s.catalog.VectorAt(row)
		if err != nil {
			return nil, err
		}
		var sum float64
		for i := range seed {
			sum += float64(seed[i]) * float64(vec[i])
		}
		scores[row] = sum
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k := s.topK
	if k > n {
		k = n
	}
	return order[:k], nil
}

// translatePath rewrites a catalog-internal image path to its public serving
// path. Paths without the internal prefix pass through unchanged.
func (s *RecommendationService) translatePath(imagePath string) string {
	if strings.HasPrefix(imagePath, s.internalPrefix) {
		return s.publicPrefix + imagePath[len(s.internalPrefix):]
	}
	return imagePath
}

// hydrate loads the products behind the candidate image paths and restores
// candidate ranking order. Paths with no matching product are dropped.
func (s *RecommendationService) hydrate(ctx context.Context, paths []string) ([]domain.Product, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	matched, err := s.products.GetByThumbnails(ctx, paths)
	if err != nil {
		return nil, err
	}

	byThumbnail := make(map[string]*domain.Product, len(matched))
	for i := range matched {
		byThumbnail[matched[i].Thumbnail] = &matched[i]
	}

	ordered := make([]domain.Product, 0, len(matched))
	for _, p := range paths {
		if prod, ok := byThumbnail[p]; ok {
			ordered = append(ordered, *prod)
			delete(byThumbnail, p)
		}
	}
	return ordered, nil
}

// pad fills the recommendation list up to the configured minimum with random
// products, excluding products already present.
func (s *RecommendationService) pad(ctx context.Context, rendered []RenderedProduct) ([]RenderedProduct, error) {
	exclude := make([]int64, 0, len(rendered))
	for _, p := range rendered {
		exclude = append(exclude, p.ID)
	}
	filler, err := s.products.SampleRandom(ctx, s.minResults-len(rendered), exclude)
	if err != nil {
		return nil, err
	}
	return append(rendered, s.renderer.RenderProducts(filler)...), nil
}

// renderLikedImages converts liked thumbnail paths to absolute URLs.
func (s *RecommendationService) renderLikedImages(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	return s.renderer.imageURLs(paths)
}
