package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/pkg/errors"
)

// ProductCreator runs the product-creation mutation against the catalog
type ProductCreator interface {
	CreateProduct(ctx context.Context, draft *domain.ProductDraft) (*domain.CreatedProduct, error)
}

// ProductService implements the product-creation flow: it validates the
// wizard draft, suggests a handle when the merchant left it blank, checks the
// draft's SKU/barcode/handle against the catalog and creates the product.
type ProductService struct {
	creator    ProductCreator
	validation *ValidationService
	catalog    *CatalogService
	logger     *zap.Logger
}

// NewProductService creates a product-creation service
func NewProductService(creator ProductCreator, validation *ValidationService, catalog *CatalogService, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		creator:    creator,
		validation: validation,
		catalog:    catalog,
		logger:     logger,
	}
}

// Create validates the draft and creates the product. On success the
// vendor/product-type caches are invalidated since the new product may have
// introduced a vendor or type the caches have not seen.
func (s *ProductService) Create(ctx context.Context, shopDomain string, draft *domain.ProductDraft) (*domain.CreatedProduct, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(draft.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(draft.Vendor) == "" {
		fields["vendor"] = "vendor is required"
	}
	if len(fields) > 0 {
		return nil, &errors.ErrValidation{Message: "invalid product draft", Fields: fields}
	}

	if draft.Handle == "" {
		draft.Handle = SuggestHandle(draft.Title)
	}

	for _, check := range []struct {
		vt    domain.ValidationType
		value string
	}{
		{domain.ValidationTypeHandle, draft.Handle},
		{domain.ValidationTypeSKU, draft.SKU},
		{domain.ValidationTypeBarcode, draft.Barcode},
	} {
		if check.value == "" {
			continue
		}
		result, err := s.validation.Validate(ctx, shopDomain, check.vt, check.value)
		if err != nil {
			return nil, err
		}
		if !result.Available {
			return nil, &errors.ErrValidation{
				Message: "draft conflicts with existing catalog data",
				Fields:  map[string]string{string(check.vt): "already in use by " + result.ConflictGID},
			}
		}
	}

	created, err := s.creator.CreateProduct(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("shop_domain", shopDomain),
		zap.String("product_gid", created.GID),
		zap.String("handle", created.Handle),
	)
	s.catalog.InvalidateCatalog(ctx, shopDomain)

	return created, nil
}

var handleStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// SuggestHandle derives a URL handle from a product title the way Shopify
// does: lowercase, non-alphanumerics collapsed to single hyphens
func SuggestHandle(title string) string {
	handle := handleStripRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(handle, "-")
}
