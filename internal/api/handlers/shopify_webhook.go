package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

func verifyShopifyHMAC(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	// constant-time compare
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(header)))
}

// HandleShopifyProductWebhook handles POST /webhooks/shopify/products.
// Configure Shopify webhook topics:
// - products/create
// - products/update
// - products/delete
// Catalog changes invalidate the vendor/product-type caches and kick a
// background re-warm so the next wizard session sees fresh lists.
func HandleShopifyProductWebhook(shopDomain, webhookSecret string, catalog *service.CatalogService, refresher *cache.Refresher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(webhookSecret)
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shopify webhook not configured"})
			return
		}

		// Read raw body (Shopify HMAC is computed over raw bytes)
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		hmacHeader := c.GetHeader("X-Shopify-Hmac-Sha256")
		if !verifyShopifyHMAC(secret, bodyBytes, hmacHeader) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
			return
		}

		topic := c.GetHeader("X-Shopify-Topic")
		catalog.InvalidateCatalog(c.Request.Context(), shopDomain)
		go refresher.WarmShop(context.WithoutCancel(c.Request.Context()), shopDomain)

		logger.Info("Product webhook processed, catalog caches invalidated",
			zap.String("shop_domain", shopDomain),
			zap.String("topic", topic),
		)
		c.JSON(http.StatusOK, gin.H{"ok": true, "topic": topic})
	}
}

// HandleShopifyUninstallWebhook handles POST /webhooks/shopify/app-uninstalled.
// Drops all cached state for the shop; Shopify revokes the token anyway.
func HandleShopifyUninstallWebhook(shopDomain, webhookSecret string, catalog *service.CatalogService, facts *cache.Registry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(webhookSecret)
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shopify webhook not configured"})
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		hmacHeader := c.GetHeader("X-Shopify-Hmac-Sha256")
		if !verifyShopifyHMAC(secret, bodyBytes, hmacHeader) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
			return
		}

		catalog.InvalidateCatalog(c.Request.Context(), shopDomain)
		facts.Clear(shopDomain)

		logger.Info("App uninstalled, shop caches cleared", zap.String("shop_domain", shopDomain))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
