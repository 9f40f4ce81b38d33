package service

import (
	"strings"

	"github.com/mbela/lookbook/internal/domain"
)

// RenderedProduct is the response shape shared by the recommendation engine
// and the search endpoints: the product essentials with absolute image URLs.
type RenderedProduct struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
}

// ProductDetail is the full product response with image paths replaced by
// absolute URLs.
type ProductDetail struct {
	domain.Product
	Thumbnail string   `json:"thumbnail"`
	Images    []string `json:"images"`
}

// Renderer turns stored relative image paths into absolute URLs under the
// configured base URL, mirroring how the upload directory is served.
type Renderer struct {
	baseURL string
}

// NewRenderer creates a Renderer for the given base URL.
func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// ImageURL converts a stored relative image path to an absolute URL. Empty
// paths stay empty.
func (r *Renderer) ImageURL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return r.baseURL + "/uploads" + relativePath
}

// imageURLs maps ImageURL over a path list, never returning nil.
func (r *Renderer) imageURLs(paths []string) []string {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, r.ImageURL(p))
	}
	return urls
}

// RenderProduct renders a product into the reduced response shape.
func (r *Renderer) RenderProduct(p *domain.Product) RenderedProduct {
	return RenderedProduct{
		ID:          p.ProductID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Thumbnail:   r.ImageURL(p.Thumbnail),
		Images:      r.imageURLs(p.Images),
	}
}

// RenderProducts renders a product slice, preserving order.
func (r *Renderer) RenderProducts(products []domain.Product) []RenderedProduct {
	rendered := make([]RenderedProduct, 0, len(products))
	for i := range products {
		rendered = append(rendered, r.RenderProduct(&products[i]))
	}
	return rendered
}

// RenderDetail renders a product with all fields and absolute image URLs.
func (r *Renderer) RenderDetail(p *domain.Product) ProductDetail {
	return ProductDetail{
		Product:   *p,
		Thumbnail: r.ImageURL(p.Thumbnail),
		Images:    r.imageURLs(p.Images),
	}
}

// RenderDetails renders a product slice with all fields, preserving order.
func (r *Renderer) RenderDetails(products []domain.Product) []ProductDetail {
	rendered := make([]ProductDetail, 0, len(products))
	for i := range products {
		rendered = append(rendered, r.RenderDetail(&products[i]))
	}
	return rendered
}
