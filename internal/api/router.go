package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/api/handlers"
	"github.com/bco89/product-builder-pro-sub000/internal/api/middleware"
	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/config"
	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

// Services aggregates everything the router wires into handlers
type Services struct {
	Catalog     *service.CatalogService
	Validation  *service.ValidationService
	Product     *service.ProductService
	Description *service.DescriptionService
	Scrape      *service.ScrapeService
	Refresher   *cache.Refresher
	Facts       *cache.Registry
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svcs *Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	shop := cfg.Shopify.ShopDomain

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Product Builder Pro API",
			"endpoints": []string{
				"GET /health",
				"GET /api/catalog/vendors",
				"GET /api/catalog/product-types",
				"GET /api/validate",
				"POST /api/products",
				"POST /api/descriptions",
				"GET /api/descriptions/history",
				"POST /api/scrape",
				"POST /internal/cache/warm",
				"POST /internal/cache/invalidate",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Shopify webhooks: catalog changes invalidate caches, uninstall clears them
	router.POST("/webhooks/shopify/products", handlers.HandleShopifyProductWebhook(shop, cfg.WebhookSecret, svcs.Catalog, svcs.Refresher, logger))
	router.POST("/webhooks/shopify/app-uninstalled", handlers.HandleShopifyUninstallWebhook(shop, cfg.WebhookSecret, svcs.Catalog, svcs.Facts, logger))

	// App-facing routes (require the service key)
	apiRoutes := router.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(cfg.ServiceKeyHash, logger))
	{
		apiRoutes.GET("/catalog/vendors", handlers.HandleGetVendors(shop, svcs.Catalog, logger))
		apiRoutes.GET("/catalog/product-types", handlers.HandleGetProductTypes(shop, svcs.Catalog, logger))
		apiRoutes.GET("/validate", handlers.HandleValidate(shop, svcs.Validation, logger))
		apiRoutes.POST("/products", handlers.HandleCreateProduct(shop, svcs.Product, logger))
		apiRoutes.POST("/descriptions", handlers.HandleGenerateDescription(shop, svcs.Description, logger))
		apiRoutes.GET("/descriptions/history", handlers.HandleListGenerations(shop, svcs.Description, logger))
		apiRoutes.POST("/scrape", handlers.HandleScrape(svcs.Scrape, logger))
	}

	// Operator routes
	internalRoutes := router.Group("/internal")
	internalRoutes.Use(middleware.AuthMiddleware(cfg.ServiceKeyHash, logger))
	{
		internalRoutes.POST("/cache/warm", handlers.HandleWarmCache(shop, svcs.Refresher, logger))
		internalRoutes.POST("/cache/invalidate", handlers.HandleInvalidateCache(shop, svcs.Catalog, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
