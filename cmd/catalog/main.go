// Command catalog validates the embedding catalog against the product
// database and seeds products from a JSON dump.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/mbela/lookbook/internal/catalog"
	"github.com/mbela/lookbook/internal/config"
	"github.com/mbela/lookbook/internal/domain"
	"github.com/mbela/lookbook/internal/logger"
	"github.com/mbela/lookbook/internal/repository"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "lookbook-catalog",
	})
	logger.SetDefaultLogger(appLogger)

	configPath := flag.String("config", "", "Path to config file")
	importPath := flag.String("import", "", "Seed products from a JSON dump before validating")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	productRepo := repository.NewProductRepository(db)

	ctx := context.Background()

	if *importPath != "" {
		imported, skipped := importProducts(ctx, appLogger, productRepo, *importPath)
		appLogger.WithFields(logger.Fields{
			"imported": imported,
			"skipped":  skipped,
		}).Info("Product import finished")
	}

	cat, err := catalog.Load(cfg.Catalog.MetadataPath, cfg.Catalog.EmbeddingsPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load embedding catalog")
	}
	appLogger.WithFields(logger.Fields{
		"rows":       cat.RowCount(),
		"dimensions": cat.Dimensions(),
	}).Info("Embedding catalog loaded")

	validateCoverage(ctx, appLogger, productRepo, cat, &cfg.Catalog)
}

// importProducts loads a JSON array of products into the database, skipping
// product IDs that already exist.
func importProducts(ctx context.Context, log *logger.Logger, repo *repository.ProductRepository, path string) (imported, skipped int) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Fatal("Failed to read product dump")
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		log.WithError(err).Fatal("Failed to parse product dump")
	}

	for i := range products {
		if _, err := repo.GetByProductID(ctx, products[i].ProductID); err == nil {
			skipped++
			continue
		}
		if err := repo.Create(ctx, &products[i]); err != nil {
			log.WithError(err).WithField("product_id", products[i].ProductID).
				Warn("Failed to import product")
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped
}

// validateCoverage walks the catalog and reports how many rows resolve to a
// stored product through the public path rewrite.
func validateCoverage(
	ctx context.Context,
	log *logger.Logger,
	repo *repository.ProductRepository,
	cat *catalog.Catalog,
	cfg *config.CatalogConfig,
) {
	const batchSize = 500

	total := cat.RowCount()
	matched := 0
	var missing []string

	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		paths := make([]string, 0, end-start)
		for row := start; row < end; row++ {
			p, err := cat.ImagePathAt(row)
			if err != nil {
				log.WithError(err).Fatal("Catalog row read failed")
			}
			if strings.HasPrefix(p, cfg.InternalPrefix) {
				p = cfg.PublicPrefix + p[len(cfg.InternalPrefix):]
			}
			paths = append(paths, p)
		}

		products, err := repo.GetByThumbnails(ctx, paths)
		if err != nil {
			log.WithError(err).Fatal("Thumbnail lookup failed")
		}

		found := make(map[string]bool, len(products))
		for i := range products {
			found[products[i].Thumbnail] = true
		}
		for _, p := range paths {
			if found[p] {
				matched++
			} else if len(missing) < 10 {
				missing = append(missing, p)
			}
		}
	}

	log.WithFields(logger.Fields{
		"catalog_rows": total,
		"matched":      matched,
		"unmatched":    total - matched,
	}).Info("Catalog coverage")

	if len(missing) > 0 {
		log.WithField("examples", missing).Warn("Catalog rows without a stored product")
	}
}
