package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/ai"
	"github.com/bco89/product-builder-pro-sub000/internal/api"
	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/config"
	"github.com/bco89/product-builder-pro-sub000/internal/repository/postgres"
	"github.com/bco89/product-builder-pro-sub000/internal/scraper"
	"github.com/bco89/product-builder-pro-sub000/internal/service"
	"github.com/bco89/product-builder-pro-sub000/internal/shopify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting Product Builder Pro server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("shop_domain", cfg.Shopify.ShopDomain),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Initialize clients
	shopifyClient := shopify.NewClient(cfg.Shopify, logger)
	aiClient := ai.NewClient(cfg.AI, logger)
	scraperClient := scraper.NewClient(cfg.Scraper, logger)

	// Initialize caching stack
	store := cache.NewStore(repos.ShopCache, logger)
	coalescer := cache.NewCoalescer(logger)
	refresher := cache.NewRefresher(store, shopifyClient, logger)
	facts := cache.NewRegistry(logger)

	// Initialize services
	catalogSvc := service.NewCatalogService(store, coalescer, refresher, logger)
	validationSvc := service.NewValidationService(facts, shopifyClient, logger)
	svcs := &api.Services{
		Catalog:     catalogSvc,
		Validation:  validationSvc,
		Product:     service.NewProductService(shopifyClient, validationSvc, catalogSvc, logger),
		Description: service.NewDescriptionService(aiClient, facts, shopifyClient, repos.GenerationLog, logger),
		Scrape:      service.NewScrapeService(scraperClient, logger),
		Refresher:   refresher,
		Facts:       facts,
	}

	// Initialize router
	router := api.NewRouter(cfg, svcs, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Eager cache warm so the first wizard session is served from cache
	if cfg.WarmCacheOnStart {
		go refresher.WarmShop(context.Background(), cfg.Shopify.ShopDomain)
		logger.Info("Eager cache warm started", zap.String("shop_domain", cfg.Shopify.ShopDomain))
	}

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
