package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbela/lookbook/internal/api"
	"github.com/mbela/lookbook/internal/catalog"
	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
	"github.com/mbela/lookbook/internal/service"
	"github.com/mbela/lookbook/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Failing to load the embedding catalog is fatal: every recommendation
	// request depends on it.
	cat, err := catalog.Load(cfg.Catalog.MetadataPath, cfg.Catalog.EmbeddingsPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load embedding catalog")
	}
	appLogger.WithFields(logger.Fields{
		"rows":       cat.RowCount(),
		"dimensions": cat.Dimensions(),
	}).Info("Embedding catalog loaded")

	objectStorage, err := storage.New(&cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	ctx := context.Background()
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	// Services
	renderer := service.NewRenderer(cfg.Server.BaseURL)
	services := &api.Services{
		Auth:     service.NewAuthService(userRepo, &cfg.Auth, appLogger),
		Products: service.NewProductService(productRepo, objectStorage, renderer, appLogger),
		Brands:   service.NewBrandService(brandRepo, productRepo, renderer, appLogger),
		Feedback: service.NewFeedbackService(feedbackRepo, productRepo, renderer, cfg.Recommend.MinResults, appLogger),
		Recommendations: service.NewRecommendationService(
			feedbackRepo, productRepo, cat, renderer,
			&cfg.Recommend, &cfg.Catalog, appLogger,
		),
		Search:    service.NewSearchService(&cfg.Search, &cfg.Catalog, productRepo, renderer, appLogger),
		Carts:     service.NewCartService(cartRepo, productRepo, appLogger),
		Orders:    service.NewOrderService(orderRepo, cartRepo, productRepo, appLogger),
		Wishlists: service.NewWishlistService(wishlistRepo, productRepo, renderer, appLogger),
		Catalog:   cat,
		Storage:   objectStorage,
	}

	router := api.SetupRouter(services, &cfg.Server, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
