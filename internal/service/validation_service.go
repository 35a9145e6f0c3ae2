package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/shopify"
)

// CatalogValidator answers existence checks against the live catalog
type CatalogValidator interface {
	FindVariantByField(ctx context.Context, field domain.ValidationType, value string) (*shopify.VariantMatch, error)
	FindProductByHandle(ctx context.Context, handle string) (string, error)
}

// ValidationService checks SKUs, barcodes and handles against existing
// catalog data. Results are memoized per shop for a few minutes so repeated
// checks while the merchant types don't hammer the Admin API.
type ValidationService struct {
	facts     *cache.Registry
	validator CatalogValidator
	logger    *zap.Logger
}

// NewValidationService creates a validation service
func NewValidationService(facts *cache.Registry, validator CatalogValidator, logger *zap.Logger) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{
		facts:     facts,
		validator: validator,
		logger:    logger,
	}
}

// Validate checks whether value is free to use for the given field
func (s *ValidationService) Validate(ctx context.Context, shopDomain string, vt domain.ValidationType, value string) (domain.ValidationResult, error) {
	if value == "" {
		return domain.ValidationResult{}, fmt.Errorf("validation value is required")
	}

	facts := s.facts.For(shopDomain)
	if result, ok := facts.CachedValidation(vt, value); ok {
		return result, nil
	}

	result := domain.ValidationResult{Type: vt, Value: value, CheckedAt: time.Now()}
	switch vt {
	case domain.ValidationTypeSKU, domain.ValidationTypeBarcode:
		match, err := s.validator.FindVariantByField(ctx, vt, value)
		if err != nil {
			return domain.ValidationResult{}, err
		}
		result.Available = match == nil
		if match != nil {
			result.ConflictGID = match.VariantGID
		}
	case domain.ValidationTypeHandle:
		gid, err := s.validator.FindProductByHandle(ctx, value)
		if err != nil {
			return domain.ValidationResult{}, err
		}
		result.Available = gid == ""
		result.ConflictGID = gid
	default:
		return domain.ValidationResult{}, fmt.Errorf("unknown validation type: %s", vt)
	}

	facts.CacheValidation(result)
	return result, nil
}
