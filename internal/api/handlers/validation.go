package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

// HandleValidate handles GET /api/validate?type=sku&value=ABC-123
func HandleValidate(shopDomain string, validation *service.ValidationService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vt := domain.ValidationType(c.Query("type"))
		value := c.Query("value")

		switch vt {
		case domain.ValidationTypeSKU, domain.ValidationTypeBarcode, domain.ValidationTypeHandle:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of sku, barcode, handle"})
			return
		}
		if value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
			return
		}

		result, err := validation.Validate(c.Request.Context(), shopDomain, vt, value)
		if err != nil {
			logger.Error("Validation failed", zap.String("type", string(vt)), zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"type":      result.Type,
			"value":     result.Value,
			"available": result.Available,
			"conflict":  result.ConflictGID,
		})
	}
}
