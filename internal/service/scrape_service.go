package service

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/pkg/errors"
)

// Extractor turns a reference URL into structured product data
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*domain.ProductExtract, error)
	Configured() bool
}

// ScrapeService fetches structured product data from a merchant-supplied
// reference URL to pre-fill the product wizard
type ScrapeService struct {
	extractor Extractor
	logger    *zap.Logger
}

// NewScrapeService creates a scrape service
func NewScrapeService(extractor Extractor, logger *zap.Logger) *ScrapeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScrapeService{
		extractor: extractor,
		logger:    logger,
	}
}

// Configured reports whether the underlying extraction API is available
func (s *ScrapeService) Configured() bool {
	return s.extractor.Configured()
}

// Extract validates the reference URL and runs the extraction
func (s *ScrapeService) Extract(ctx context.Context, pageURL string) (*domain.ProductExtract, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &errors.ErrValidation{
			Message: "invalid reference URL",
			Fields:  map[string]string{"url": fmt.Sprintf("%q is not an http(s) URL", pageURL)},
		}
	}

	extract, err := s.extractor.Extract(ctx, pageURL)
	if err != nil {
		s.logger.Warn("Reference URL extraction failed", zap.String("url", pageURL), zap.Error(err))
		return nil, &errors.ErrUpstream{Service: "scraper", Message: err.Error()}
	}
	return extract, nil
}
