package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

// HandleWarmCache handles POST /internal/cache/warm. Warming is synchronous
// here so operators see the outcome; the eager install-time warm runs in the
// background from main.
func HandleWarmCache(shopDomain string, refresher *cache.Refresher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		refresher.WarmShop(c.Request.Context(), shopDomain)
		logger.Info("Cache warm requested via API", zap.String("shop_domain", shopDomain))
		c.JSON(http.StatusOK, gin.H{"ok": true, "shop_domain": shopDomain})
	}
}

// HandleInvalidateCache handles POST /internal/cache/invalidate
func HandleInvalidateCache(shopDomain string, catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog.InvalidateCatalog(c.Request.Context(), shopDomain)
		logger.Info("Cache invalidated via API", zap.String("shop_domain", shopDomain))
		c.JSON(http.StatusOK, gin.H{"ok": true, "shop_domain": shopDomain})
	}
}
