package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/logger"
)

// engineResponse is the external visual search engine's result payload.
type engineResponse struct {
	Results []struct {
		ImagePath string  `json:"image_path"`
		Score     float64 `json:"score"`
	} `json:"results"`
	Detail string `json:"detail,omitempty"`
}

// SearchResult is one visual search hit.
type SearchResult struct {
	Product RenderedProduct `json:"product"`
	Score   float64         `json:"score"`
}

// SearchService runs search-by-image against the external visual search
// engine and hydrates its hits into catalog products.
type SearchService struct {
	client   *resty.Client
	products ProductStore
	renderer *Renderer
	logger   *logger.Logger

	internalPrefix string
	publicPrefix   string
}

// NewSearchService creates a SearchService.
func NewSearchService(
	cfg *config.SearchConfig,
	catalogCfg *config.CatalogConfig,
	products ProductStore,
	renderer *Renderer,
	log *logger.Logger,
) *SearchService {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.EngineURL, "/")).
		SetTimeout(cfg.Timeout)

	return &SearchService{
		client:         client,
		products:       products,
		renderer:       renderer,
		logger:         log.WithField(logger.FieldComponent, "search_service"),
		internalPrefix: catalogCfg.InternalPrefix,
		publicPrefix:   catalogCfg.PublicPrefix,
	}
}

// SearchByImage sends the query image to the engine and returns the matching
// catalog products, engine ranking preserved. Hits with no stored product are
// dropped.
// Parameters:
//   - image: raw query image bytes.
//   - filename: original file name, forwarded for content-type sniffing.
//   - limit: maximum hits requested from the engine.
func (s *SearchService) SearchByImage(ctx context.Context, image []byte, filename string, limit int) ([]SearchResult, error) {
	var engineResp engineResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("image", filename, bytes.NewReader(image)).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&engineResp).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("visual search request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("visual search engine returned %d: %s", resp.StatusCode(), engineResp.Detail)
	}

	paths := make([]string, 0, len(engineResp.Results))
	scores := make(map[string]float64, len(engineResp.Results))
	for _, hit := range engineResp.Results {
		p := s.translate(hit.ImagePath)
		paths = append(paths, p)
		scores[p] = hit.Score
	}

	matched, err := s.products.GetByThumbnails(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate search results: %w", err)
	}

	byThumbnail := make(map[string]int, len(matched))
	for i := range matched {
		byThumbnail[matched[i].Thumbnail] = i
	}

	results := make([]SearchResult, 0, len(matched))
	for _, p := range paths {
		i, ok := byThumbnail[p]
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			Product: s.renderer.RenderProduct(&matched[i]),
			Score:   scores[p],
		})
		delete(byThumbnail, p)
	}

	s.logger.CtxInfo(ctx, "visual search served", logger.Fields{
		"hit_count":       len(engineResp.Results),
		logger.FieldCount: len(results),
	})
	return results, nil
}

// translate rewrites an engine-internal image path to its public form.
func (s *SearchService) translate(imagePath string) string {
	if strings.HasPrefix(imagePath, s.internalPrefix) {
		return s.publicPrefix + imagePath[len(s.internalPrefix):]
	}
	return imagePath
}
