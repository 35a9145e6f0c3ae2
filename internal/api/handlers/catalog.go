package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

// HandleGetVendors handles GET /api/catalog/vendors
func HandleGetVendors(shopDomain string, catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendors, err := catalog.Vendors(c.Request.Context(), shopDomain)
		if err != nil {
			logger.Error("Failed to get vendors", zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vendors)
	}
}

// HandleGetProductTypes handles GET /api/catalog/product-types. With
// ?vendor=Name it returns only that vendor's types.
func HandleGetProductTypes(shopDomain string, catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if vendor := c.Query("vendor"); vendor != "" {
			types, err := catalog.ProductTypesForVendor(c.Request.Context(), shopDomain, vendor)
			if err != nil {
				logger.Error("Failed to get vendor product types", zap.String("vendor", vendor), zap.Error(err))
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"vendor": vendor, "productTypes": types})
			return
		}

		cached, err := catalog.ProductTypes(c.Request.Context(), shopDomain)
		if err != nil {
			logger.Error("Failed to get product types", zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cached)
	}
}
