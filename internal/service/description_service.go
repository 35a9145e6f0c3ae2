package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/ai"
	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/repository"
)

// ShopFactsSource fetches the slow-changing shop facts the prompt needs
type ShopFactsSource interface {
	GetShopIdentity(ctx context.Context) (*domain.ShopIdentity, error)
	GetStoreSettings(ctx context.Context) (*domain.StoreSettings, error)
}

// DescriptionService generates AI product descriptions tuned to the shop's
// brand voice. Shop identity and settings come through the per-shop facts
// memo so a wizard session fetches them once, and every attempt is audited
// in generation_logs.
type DescriptionService struct {
	generator ai.Generator
	facts     *cache.Registry
	source    ShopFactsSource
	logs      repository.GenerationLogRepository
	logger    *zap.Logger
}

// NewDescriptionService creates a description-generation service
func NewDescriptionService(generator ai.Generator, facts *cache.Registry, source ShopFactsSource, logs repository.GenerationLogRepository, logger *zap.Logger) *DescriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DescriptionService{
		generator: generator,
		facts:     facts,
		source:    source,
		logs:      logs,
		logger:    logger,
	}
}

// Generate produces a description for the draft product
func (s *DescriptionService) Generate(ctx context.Context, shopDomain string, req *domain.DescriptionRequest) (*domain.GeneratedDescription, error) {
	facts := s.facts.For(shopDomain)

	identity, err := facts.ShopIdentity(ctx, s.source.GetShopIdentity)
	if err != nil {
		// Brand framing is an enhancement, not a requirement
		s.logger.Warn("Description generation: shop identity fetch failed", zap.String("shop_domain", shopDomain), zap.Error(err))
	}
	settings, err := facts.StoreSettings(ctx, s.source.GetStoreSettings)
	if err != nil {
		s.logger.Warn("Description generation: store settings fetch failed", zap.String("shop_domain", shopDomain), zap.Error(err))
	}

	system := ai.BuildSystemPrompt(identity, settings)
	prompt := ai.BuildDescriptionPrompt(req)

	start := time.Now()
	text, err := s.generator.Generate(ctx, system, prompt)
	s.audit(ctx, shopDomain, req, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	return &domain.GeneratedDescription{
		DescriptionHTML: text,
		SEOTitle:        req.ProductTitle,
		SEODescription:  seoSummary(text),
		Model:           s.generator.Model(),
	}, nil
}

// audit writes the generation log row best-effort
func (s *DescriptionService) audit(ctx context.Context, shopDomain string, req *domain.DescriptionRequest, genErr error, took time.Duration) {
	log := &domain.GenerationLog{
		ShopDomain:   shopDomain,
		ProductTitle: req.ProductTitle,
		ProductType:  req.ProductType,
		Model:        s.generator.Model(),
		Status:       domain.GenerationStatusSucceeded,
		DurationMS:   took.Milliseconds(),
	}
	if genErr != nil {
		log.Status = domain.GenerationStatusFailed
		msg := genErr.Error()
		log.ErrorMessage = &msg
	}
	if err := s.logs.Create(ctx, log); err != nil {
		s.logger.Warn("Failed to write generation log", zap.String("shop_domain", shopDomain), zap.Error(err))
	}
}

// History lists recent generation attempts for the shop
func (s *DescriptionService) History(ctx context.Context, shopDomain string, limit, offset int) ([]*domain.GenerationLog, error) {
	return s.logs.ListByShop(ctx, shopDomain, limit, offset)
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// seoSummary strips markup and truncates to meta-description length. The cut
// falls on a rune boundary so multi-byte text stays valid UTF-8.
func seoSummary(html string) string {
	text := strings.TrimSpace(htmlTagRe.ReplaceAllString(html, " "))
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > 160 {
		text = strings.TrimSpace(string(runes[:157])) + "..."
	}
	return text
}
