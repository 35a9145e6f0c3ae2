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
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/repository/postgres"
)

// invalidate-cache deletes the durable catalog cache entries for the
// configured shop so the next read rebuilds from the Admin API
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

	store := cache.NewStore(postgres.NewShopCacheRepository(db, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, dataType := range []domain.CacheDataType{domain.CacheDataTypeVendors, domain.CacheDataTypeProductTypes} {
		if err := store.Invalidate(ctx, cfg.Shopify.ShopDomain, dataType); err != nil {
			logger.Fatal("Invalidate failed", zap.String("data_type", string(dataType)), zap.Error(err))
		}
		fmt.Printf("Invalidated %s for %s\n", dataType, cfg.Shopify.ShopDomain)
	}
}
