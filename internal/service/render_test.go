package service

import (
	"testing"

	"github.com/mbela/lookbook/internal/domain"
)

func TestImageURL(t *testing.T) {
	r := NewRenderer("http://localhost:8080/")

	tests := []struct {
		in   string
		want string
	}{
		{"/products/imgs/886029004.jpg", "http://localhost:8080/uploads/products/imgs/886029004.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := r.ImageURL(tt.in); got != tt.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderProduct(t *testing.T) {
	r := NewRenderer("https://shop.example.com")
	p := &domain.Product{
		ProductID: 42,
		Title:     "denim jacket",
		Price:     79.9,
		Thumbnail: "/products/imgs/42.jpg",
		Images:    domain.StringArray{"/products/imgs/42-a.jpg", "/products/imgs/42-b.jpg"},
	}

	got := r.RenderProduct(p)
	if got.ID != 42 || got.Title != "denim jacket" {
		t.Errorf("RenderProduct() = %+v", got)
	}
	if got.Thumbnail != "https://shop.example.com/uploads/products/imgs/42.jpg" {
		t.Errorf("Thumbnail = %q", got.Thumbnail)
	}
	if len(got.Images) != 2 || got.Images[1] != "https://shop.example.com/uploads/products/imgs/42-b.jpg" {
		t.Errorf("Images = %v", got.Images)
	}
}

func TestRenderProductsNeverNil(t *testing.T) {
	r := NewRenderer("http://localhost:8080")
	if got := r.RenderProducts(nil); got == nil || len(got) != 0 {
		t.Errorf("RenderProducts(nil) = %v, want empty non-nil slice", got)
	}
}
