package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

// HandleCreateProduct handles POST /api/products
func HandleCreateProduct(shopDomain string, products *service.ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft domain.ProductDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON", "details": err.Error()})
			return
		}

		created, err := products.Create(c.Request.Context(), shopDomain, &draft)
		if err != nil {
			logger.Error("Product creation failed", zap.String("title", draft.Title), zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}
