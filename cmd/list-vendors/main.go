package main

import (
	"context"
	"encoding/json"
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

// list-vendors prints the cached vendor list for the configured shop
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	store := cache.NewStore(postgres.NewShopCacheRepository(db, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry, err := store.GetAllowStale(ctx, cfg.Shopify.ShopDomain, domain.CacheDataTypeVendors, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cache read failed: %v\n", err)
		os.Exit(1)
	}
	if entry == nil {
		fmt.Println("No vendor cache entry; run warm-cache first")
		return
	}

	var vendors domain.VendorCache
	if err := json.Unmarshal(entry.Data, &vendors); err != nil {
		fmt.Fprintf(os.Stderr, "Cache payload unparseable: %v\n", err)
		os.Exit(1)
	}

	status := "fresh"
	if entry.Stale {
		status = "stale"
	}
	fmt.Printf("%d vendors (%s, updated %s):\n", vendors.TotalVendors, status, vendors.LastUpdated.Format(time.RFC3339))
	for _, v := range vendors.Vendors {
		fmt.Println("  " + v)
	}
}
