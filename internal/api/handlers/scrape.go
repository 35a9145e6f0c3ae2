package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/service"
)

type scrapeRequestBody struct {
	URL string `json:"url"`
}

// HandleScrape handles POST /api/scrape
func HandleScrape(scrape *service.ScrapeService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !scrape.Configured() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scraper not configured"})
			return
		}

		var body scrapeRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON", "details": err.Error()})
			return
		}

		extract, err := scrape.Extract(c.Request.Context(), body.URL)
		if err != nil {
			logger.Warn("Scrape failed", zap.String("url", body.URL), zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, extract)
	}
}
