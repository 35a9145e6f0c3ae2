package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

// HandleGenerateDescription handles POST /api/descriptions
func HandleGenerateDescription(shopDomain string, descriptions *service.DescriptionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.DescriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON", "details": err.Error()})
			return
		}
		if req.ProductTitle == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productTitle is required"})
			return
		}

		generated, err := descriptions.Generate(c.Request.Context(), shopDomain, &req)
		if err != nil {
			logger.Error("Description generation failed", zap.String("product_title", req.ProductTitle), zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, generated)
	}
}

// HandleListGenerations handles GET /api/descriptions/history
func HandleListGenerations(shopDomain string, descriptions *service.DescriptionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		logs, err := descriptions.History(c.Request.Context(), shopDomain, limit, offset)
		if err != nil {
			logger.Error("Failed to list generation history", zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"generations": logs})
	}
}
