package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bco89/product-builder-pro-sub000/pkg/errors"
)

// respondError maps typed service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error(), "fields": e.Fields})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *errors.ErrUpstream:
		c.JSON(http.StatusBadGateway, gin.H{"error": e.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
