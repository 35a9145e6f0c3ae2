package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/config"
	"github.com/bco89/product-builder-pro-sub000/internal/repository/postgres"
	"github.com/bco89/product-builder-pro-sub000/internal/shopify"
)

// warm-cache refreshes the vendor and product-type caches once and exits.
// Useful after bulk catalog imports.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	store := cache.NewStore(repos.ShopCache, logger)
	refresher := cache.NewRefresher(store, shopify.NewClient(cfg.Shopify, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	refresher.WarmShop(ctx, cfg.Shopify.ShopDomain)
	fmt.Printf("Cache warm finished for %s\n", cfg.Shopify.ShopDomain)
}
