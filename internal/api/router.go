// Package api wires HTTP routing for the lookbook backend.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/api/handler"
	"github.com/mbela/lookbook/internal/api/middleware"
	"github.com/mbela/lookbook/internal/catalog"
	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/service"
	"github.com/mbela/lookbook/internal/storage"
)

// Services bundles everything the router needs.
type Services struct {
	Auth            *service.AuthService
	Products        *service.ProductService
	Brands          *service.BrandService
	Feedback        *service.FeedbackService
	Recommendations *service.RecommendationService
	Search          *service.SearchService
	Carts           *service.CartService
	Orders          *service.OrderService
	Wishlists       *service.WishlistService
	Catalog         *catalog.Catalog
	Storage         storage.ObjectStorage
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(svc *Services, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(svc.Catalog)
	authHandler := handler.NewAuthHandler(svc.Auth)
	productHandler := handler.NewProductHandler(svc.Products)
	brandHandler := handler.NewBrandHandler(svc.Brands)
	feedbackHandler := handler.NewFeedbackHandler(svc.Feedback)
	recommendationHandler := handler.NewRecommendationHandler(svc.Recommendations)
	searchHandler := handler.NewSearchHandler(svc.Search)
	cartHandler := handler.NewCartHandler(svc.Carts)
	orderHandler := handler.NewOrderHandler(svc.Orders)
	wishlistHandler := handler.NewWishlistHandler(svc.Wishlists)
	uploadsHandler := handler.NewUploadsHandler(svc.Storage)

	r.GET("/health", healthHandler.Health)
	r.GET("/uploads/*filepath", uploadsHandler.Serve)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.RequireAuth(svc.Auth), authHandler.Me)
		}

		// Public catalog browsing
		v1.GET("/products", productHandler.List)
		v1.GET("/products/:id", productHandler.Get)
		v1.GET("/brands", brandHandler.List)
		v1.GET("/brands/:id", brandHandler.Get)
		v1.GET("/brands/:id/popular-products", brandHandler.PopularProducts)
		v1.POST("/search/image", searchHandler.ByImage)

		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(svc.Auth))
		{
			authed.GET("/recommendations", recommendationHandler.Get)

			authed.GET("/feedback/deck", feedbackHandler.Deck)
			authed.POST("/feedback", feedbackHandler.Submit)

			authed.POST("/carts/items", cartHandler.AddItem)
			authed.GET("/carts", cartHandler.List)
			authed.GET("/carts/:id", cartHandler.Get)
			authed.PATCH("/carts/:id/items/:productId", cartHandler.UpdateItem)
			authed.DELETE("/carts/:id", cartHandler.Delete)

			authed.POST("/orders", orderHandler.Checkout)
			authed.GET("/orders", orderHandler.List)
			authed.GET("/orders/:id", orderHandler.Get)

			authed.GET("/wishlist", wishlistHandler.List)
			authed.POST("/wishlist", wishlistHandler.Add)
			authed.DELETE("/wishlist/:productId", wishlistHandler.Remove)
		}

		admin := v1.Group("")
		admin.Use(middleware.RequireAuth(svc.Auth), middleware.RequireAdmin())
		{
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.POST("/products/images", productHandler.UploadImage)

			admin.POST("/brands", brandHandler.Create)
			admin.PUT("/brands/:id", brandHandler.Update)
			admin.DELETE("/brands/:id", brandHandler.Delete)

			admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
		}
	}

	return r
}
