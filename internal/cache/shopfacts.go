package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

const (
	productTypesTTL       = time.Hour
	validationTTL         = 5 * time.Minute
	validationSweepPeriod = 10 * time.Minute
)

// Registry holds one ShopFacts instance per shop. It is injected into
// services rather than accessed through a package-level singleton so tests
// can isolate instances.
type Registry struct {
	mu     sync.Mutex
	shops  map[string]*ShopFacts
	logger *zap.Logger
}

// NewRegistry creates an empty shop facts registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		shops:  make(map[string]*ShopFacts),
		logger: logger,
	}
}

// For returns the ShopFacts instance for shopDomain, creating it on first
// access. Repeated calls with the same domain return the same instance;
// distinct shops never share state.
func (r *Registry) For(shopDomain string) *ShopFacts {
	r.mu.Lock()
	defer r.mu.Unlock()
	if facts, ok := r.shops[shopDomain]; ok {
		return facts
	}
	facts := newShopFacts(shopDomain, r.logger)
	r.shops[shopDomain] = facts
	return facts
}

// Clear drops one shop's instance (e.g. on app uninstall)
func (r *Registry) Clear(shopDomain string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shops, shopDomain)
}

// ClearAll drops every shop's instance; intended for test isolation
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shops = make(map[string]*ShopFacts)
}

// ShopFacts memoizes slow-changing per-shop facts with independent TTLs:
// shop identity and store settings are fetched once per instance lifetime,
// the product-type universe is re-fetched after an hour, and validation
// results expire after five minutes. Nothing here persists across process
// restarts; only the durable Store does.
type ShopFacts struct {
	shopDomain string
	logger     *zap.Logger
	now        func() time.Time

	mu             sync.Mutex
	identity       *domain.ShopIdentity
	settings       *domain.StoreSettings
	productTypes   []string
	productTypesAt time.Time

	validations *gocache.Cache
}

func newShopFacts(shopDomain string, logger *zap.Logger) *ShopFacts {
	return &ShopFacts{
		shopDomain:  shopDomain,
		logger:      logger,
		now:         time.Now,
		validations: gocache.New(validationTTL, validationSweepPeriod),
	}
}

// ShopIdentity returns the memoized shop identity, calling fetch at most
// once for the lifetime of this instance. Concurrent callers serialize on
// the instance mutex so the fetch runs once even under a request burst.
func (f *ShopFacts) ShopIdentity(ctx context.Context, fetch func(context.Context) (*domain.ShopIdentity, error)) (*domain.ShopIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.identity != nil {
		return f.identity, nil
	}
	identity, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	f.identity = identity
	return identity, nil
}

// StoreSettings returns the memoized store settings, fetched once per
// instance lifetime
func (f *ShopFacts) StoreSettings(ctx context.Context, fetch func(context.Context) (*domain.StoreSettings, error)) (*domain.StoreSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settings != nil {
		return f.settings, nil
	}
	settings, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	f.settings = settings
	return settings, nil
}

// AllProductTypes returns the shop's product-type universe, re-fetching
// after the hourly TTL elapses. The fetch is expected to paginate the
// upstream source exhaustively; the result is de-duplicated and sorted
// lexicographically before caching.
func (f *ShopFacts) AllProductTypes(ctx context.Context, fetch func(context.Context) ([]string, error)) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productTypes != nil && f.now().Sub(f.productTypesAt) < productTypesTTL {
		return f.productTypes, nil
	}
	types, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	f.productTypes = sortUnique(types)
	f.productTypesAt = f.now()
	return f.productTypes, nil
}

// CacheValidation stores a validation result under type:value for five minutes
func (f *ShopFacts) CacheValidation(result domain.ValidationResult) {
	f.validations.Set(validationKey(result.Type, result.Value), result, gocache.DefaultExpiration)
}

// CachedValidation returns a previously cached validation result, if any
func (f *ShopFacts) CachedValidation(vt domain.ValidationType, value string) (domain.ValidationResult, bool) {
	v, ok := f.validations.Get(validationKey(vt, value))
	if !ok {
		return domain.ValidationResult{}, false
	}
	return v.(domain.ValidationResult), true
}

// Clear resets every memoized fact for this shop
func (f *ShopFacts) Clear() {
	f.mu.Lock()
	f.identity = nil
	f.settings = nil
	f.productTypes = nil
	f.productTypesAt = time.Time{}
	f.mu.Unlock()
	f.validations.Flush()
}

func validationKey(vt domain.ValidationType, value string) string {
	return string(vt) + ":" + value
}

func sortUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
