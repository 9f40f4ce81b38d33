package service

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mbela/lookbook/internal/catalog"
	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
)

type fakeFeedbackStore struct {
	liked []domain.ProductFeedback
	err   error
}

func (f *fakeFeedbackStore) RecentLiked(_ context.Context, _ uint, limit int) ([]domain.ProductFeedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.liked) > limit {
		return f.liked[:limit], nil
	}
	return f.liked, nil
}

type fakeProductStore struct {
	products []domain.Product
	filler   []domain.Product
	idsErr   error

	sampledCount   int
	sampledExclude []int64
}

func (f *fakeProductStore) GetByProductIDs(_ context.Context, productIDs []int64) ([]domain.Product, error) {
	if f.idsErr != nil {
		return nil, f.idsErr
	}
	var out []domain.Product
	for _, p := range f.products {
		for _, id := range productIDs {
			if p.ProductID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProductStore) GetByThumbnails(_ context.Context, thumbnails []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		for _, thumb := range thumbnails {
			if p.Thumbnail == thumb {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProductStore) SampleRandom(_ context.Context, count int, excludeProductIDs []int64) ([]domain.Product, error) {
	f.sampledCount = count
	f.sampledExclude = excludeProductIDs
	if len(f.filler) > count {
		return f.filler[:count], nil
	}
	return f.filler, nil
}

// buildCatalog writes a metadata CSV plus float32 npy matrix into a temp dir
// and loads them.
func buildCatalog(t *testing.T, imagePaths []string, vectors [][]float32) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()

	csvContent := ",image_path\n"
	for i, p := range imagePaths {
		csvContent += fmt.Sprintf("%d,%s\n", i, p)
	}
	metadataPath := filepath.Join(dir, "metadata.csv")
	if err := os.WriteFile(metadataPath, []byte(csvContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cols := 0
	if len(vectors) > 0 {
		cols = len(vectors[0])
	}
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }\n", len(vectors), cols)
	buf := []byte{0x93, 'N', 'U', 'M', 'P', 'Y', 1, 0}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	for _, vec := range vectors {
		for _, v := range vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	embeddingsPath := filepath.Join(dir, "embeddings.npy")
	if err := os.WriteFile(embeddingsPath, buf, 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := catalog.Load(metadataPath, embeddingsPath)
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	return cat
}

func newTestService(t *testing.T, feedback *fakeFeedbackStore, products *fakeProductStore, cat *catalog.Catalog, topK, minResults int) *RecommendationService {
	t.Helper()
	return NewRecommendationService(
		feedback,
		products,
		cat,
		NewRenderer("http://localhost:8080"),
		&config.RecommendConfig{TopK: topK, RecentLikes: 10, MinResults: minResults},
		&config.CatalogConfig{InternalPrefix: "/content/new/", PublicPrefix: "/products/"},
		logger.NewDefault(),
	)
}

// catalogProduct builds a product whose thumbnail is the public form of the
// given catalog-internal image path.
func catalogProduct(id int64, internalPath string) domain.Product {
	return domain.Product{
		ProductID: id,
		Title:     fmt.Sprintf("product %d", id),
		Price:     float64(id),
		Thumbnail: "/products/" + strings.TrimPrefix(internalPath, "/content/new/"),
	}
}

func likedAt(productID int64, minutesAgo int) domain.ProductFeedback {
	return domain.ProductFeedback{
		ProductID: productID,
		Liked:     true,
		CreatedAt: time.Now().Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func TestGetRecommendationsColdStart(t *testing.T) {
	filler := make([]domain.Product, 25)
	for i := range filler {
		filler[i] = catalogProduct(int64(1000+i), fmt.Sprintf("/content/new/imgs/%d.jpg", 1000+i))
	}
	products := &fakeProductStore{filler: filler}
	cat := buildCatalog(t, []string{"/content/new/imgs/1.jpg"}, [][]float32{{1}})
	svc := newTestService(t, &fakeFeedbackStore{}, products, cat, 3, 20)

	resp, err := svc.GetRecommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(resp.Products) != 20 {
		t.Errorf("cold start returned %d products, want 20", len(resp.Products))
	}
	if products.sampledCount != 20 {
		t.Errorf("sampled %d products, want 20", products.sampledCount)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(body), "liked_images") {
		t.Errorf("cold-start response must not carry liked_images: %s", body)
	}
}

func TestGetRecommendationsSimilaritySearch(t *testing.T) {
	// Orthogonal basis rows: row 0 and row 2 share a direction, so seeding
	// from row 0 with k=2 must return rows 0 and 2 in that order.
	imagePaths := []string{
		"/content/new/imgs/10.jpg",
		"/content/new/imgs/11.jpg",
		"/content/new/imgs/12.jpg",
		"/content/new/imgs/13.jpg",
	}
	vectors := [][]float32{{1, 0}, {0, 1}, {1, 0}, {0, 1}}
	cat := buildCatalog(t, imagePaths, vectors)

	seed := catalogProduct(10, imagePaths[0])
	similar := catalogProduct(12, imagePaths[2])
	products := &fakeProductStore{products: []domain.Product{seed, similar}}
	feedback := &fakeFeedbackStore{liked: []domain.ProductFeedback{likedAt(10, 0)}}
	svc := newTestService(t, feedback, products, cat, 2, 2)

	resp, err := svc.GetRecommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}

	if len(resp.LikedImages) != 1 {
		t.Fatalf("LikedImages = %v, want one entry", resp.LikedImages)
	}
	if want := "http://localhost:8080/uploads/products/imgs/10.jpg"; resp.LikedImages[0] != want {
		t.Errorf("LikedImages[0] = %q, want %q", resp.LikedImages[0], want)
	}

	if len(resp.Products) != 2 {
		t.Fatalf("Products = %d entries, want 2", len(resp.Products))
	}
	// The seed row competes like any other row and wins on its own score.
	if resp.Products[0].ID != 10 || resp.Products[1].ID != 12 {
		t.Errorf("product order = [%d %d], want [10 12]", resp.Products[0].ID, resp.Products[1].ID)
	}
}

func TestGetRecommendationsMergesSeedsInOrder(t *testing.T) {
	imagePaths := []string{
		"/content/new/imgs/20.jpg",
		"/content/new/imgs/21.jpg",
		"/content/new/imgs/22.jpg",
	}
	// Seeding from rows 0 and 2 with k=2 gives [0 2] then [2 0]; the merge
	// keeps first occurrences, so the final candidate order is [0 2].
	vectors := [][]float32{{2, 0}, {0, 1}, {1, 0}}
	cat := buildCatalog(t, imagePaths, vectors)

	p20 := catalogProduct(20, imagePaths[0])
	p22 := catalogProduct(22, imagePaths[2])
	products := &fakeProductStore{products: []domain.Product{p20, p22}}
	feedback := &fakeFeedbackStore{liked: []domain.ProductFeedback{likedAt(20, 0), likedAt(22, 5)}}
	svc := newTestService(t, feedback, products, cat, 2, 2)

	resp, err := svc.GetRecommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(resp.Products) != 2 {
		t.Fatalf("Products = %d entries, want 2", len(resp.Products))
	}
	if resp.Products[0].ID != 20 || resp.Products[1].ID != 22 {
		t.Errorf("product order = [%d %d], want [20 22]", resp.Products[0].ID, resp.Products[1].ID)
	}
}

func TestGetRecommendationsPadsToMinimum(t *testing.T) {
	imagePaths := []string{"/content/new/imgs/30.jpg", "/content/new/imgs/31.jpg"}
	vectors := [][]float32{{1, 0}, {0, 1}}
	cat := buildCatalog(t, imagePaths, vectors)

	seed := catalogProduct(30, imagePaths[0])
	filler := []domain.Product{
		catalogProduct(900, "/content/new/imgs/900.jpg"),
		catalogProduct(901, "/content/new/imgs/901.jpg"),
	}
	products := &fakeProductStore{products: []domain.Product{seed}, filler: filler}
	feedback := &fakeFeedbackStore{liked: []domain.ProductFeedback{likedAt(30, 0)}}
	svc := newTestService(t, feedback, products, cat, 1, 3)

	resp, err := svc.GetRecommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(resp.Products) != 3 {
		t.Fatalf("Products = %d entries, want 3", len(resp.Products))
	}
	if products.sampledCount != 2 {
		t.Errorf("pad sampled %d products, want 2", products.sampledCount)
	}
	if len(products.sampledExclude) != 1 || products.sampledExclude[0] != 30 {
		t.Errorf("pad exclusion = %v, want [30]", products.sampledExclude)
	}

	seen := make(map[int64]bool)
	for _, p := range resp.Products {
		if seen[p.ID] {
			t.Errorf("duplicate product %d in padded response", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestGetRecommendationsUnmatchedSeedsFallBack(t *testing.T) {
	// The liked product's thumbnail matches no catalog row, so the engine
	// falls back to a cold-start sample.
	cat := buildCatalog(t, []string{"/content/new/imgs/1.jpg"}, [][]float32{{1}})
	products := &fakeProductStore{
		products: []domain.Product{catalogProduct(99, "/content/new/imgs/99.jpg")},
		filler:   []domain.Product{catalogProduct(500, "/content/new/imgs/500.jpg")},
	}
	feedback := &fakeFeedbackStore{liked: []domain.ProductFeedback{likedAt(99, 0)}}
	svc := newTestService(t, feedback, products, cat, 3, 1)

	resp, err := svc.GetRecommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(resp.LikedImages) != 0 {
		t.Errorf("fallback response carries liked images: %v", resp.LikedImages)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != 500 {
		t.Errorf("fallback products = %v, want the sampled product", resp.Products)
	}
}

func TestGetRecommendationsNoHydratedCandidatesStillPads(t *testing.T) {
	// The seed resolves but no candidate path matches a stored product: the
	// engine pads the empty candidate set up to the minimum.
	imagePaths := []string{"/content/new/imgs/40.jpg"}
	cat := buildCatalog(t, imagePaths, [][]float32{{1}})

	seed := catalogProduct(40, imagePaths[0])
	seed.Thumbnail = "/somewhere/else/40.jpg" // resolves by suffix, hydrates nothing
	filler := []domain.Product{
		catalogProduct(700, "/content/new/imgs/700.jpg"),
		catalogProduct(701, "/content/new/imgs/701.jpg"),
	}
	products := &fakeProductStore{products: []domain.Product{seed}, filler: filler}
	feedback := &fakeFeedbackStore{liked: []domain.ProductFeedback{likedAt(40, 0)}}
	svc := newTestService(t, feedback, products, cat, 1, 2)

	resp, err := svc.GetRecommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(resp.Products) != 2 {
		t.Fatalf("Products = %d entries, want 2", len(resp.Products))
	}
	if products.sampledCount != 2 {
		t.Errorf("pad sampled %d products, want 2", products.sampledCount)
	}
	if len(products.sampledExclude) != 0 {
		t.Errorf("pad exclusion = %v, want empty", products.sampledExclude)
	}
	if resp.Products[0].ID != 700 || resp.Products[1].ID != 701 {
		t.Errorf("padded products = [%d %d], want [700 701]", resp.Products[0].ID, resp.Products[1].ID)
	}
}

func TestGetRecommendationsLikedLookupErrorFailsRequest(t *testing.T) {
	cat := buildCatalog(t, []string{"/content/new/imgs/50.jpg"}, [][]float32{{1}})
	products := &fakeProductStore{
		idsErr: fmt.Errorf("connection reset"),
		filler: []domain.Product{catalogProduct(600, "/content/new/imgs/600.jpg")},
	}
	feedback := &fakeFeedbackStore{liked: []domain.ProductFeedback{likedAt(50, 0)}}
	svc := newTestService(t, feedback, products, cat, 3, 20)

	resp, err := svc.GetRecommendations(context.Background(), 1)
	if err == nil {
		t.Fatal("GetRecommendations() error = nil, want lookup failure")
	}
	if resp != nil {
		t.Errorf("GetRecommendations() = %v, want nil response", resp)
	}
	if products.sampledCount != 0 {
		t.Errorf("cold start ran after a failed product lookup")
	}
}

func TestTranslatePath(t *testing.T) {
	cat := buildCatalog(t, []string{"/content/new/imgs/1.jpg"}, [][]float32{{1}})
	svc := newTestService(t, &fakeFeedbackStore{}, &fakeProductStore{}, cat, 3, 20)

	tests := []struct {
		in   string
		want string
	}{
		{"/content/new/imgs/886029004.jpg", "/products/imgs/886029004.jpg"},
		{"/products/imgs/886029004.jpg", "/products/imgs/886029004.jpg"},
		{"/content/old/imgs/1.jpg", "/content/old/imgs/1.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := svc.translatePath(tt.in); got != tt.want {
			t.Errorf("translatePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTopKTiesPreferLowerRow(t *testing.T) {
	// Rows 1 and 3 score identically against the seed; the lower row index
	// must come first.
	imagePaths := []string{
		"/content/new/imgs/0.jpg",
		"/content/new/imgs/1.jpg",
		"/content/new/imgs/2.jpg",
		"/content/new/imgs/3.jpg",
	}
	vectors := [][]float32{{1, 0}, {0.5, 0}, {0, 1}, {0.5, 0}}
	cat := buildCatalog(t, imagePaths, vectors)
	svc := newTestService(t, &fakeFeedbackStore{}, &fakeProductStore{}, cat, 3, 20)

	rows, err := svc.topKSimilar(0)
	if err != nil {
		t.Fatalf("topKSimilar() error = %v", err)
	}
	want := []int{0, 1, 3}
	if len(rows) != len(want) {
		t.Fatalf("topKSimilar() = %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("topKSimilar() = %v, want %v", rows, want)
		}
	}
}

func TestTopKClampsToRowCount(t *testing.T) {
	cat := buildCatalog(t,
		[]string{"/content/new/imgs/0.jpg", "/content/new/imgs/1.jpg"},
		[][]float32{{1, 0}, {0, 1}})
	svc := newTestService(t, &fakeFeedbackStore{}, &fakeProductStore{}, cat, 10, 20)

	rows, err := svc.topKSimilar(0)
	if err != nil {
		t.Fatalf("topKSimilar() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("topKSimilar() returned %d rows, want 2", len(rows))
	}
}
