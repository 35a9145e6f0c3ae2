package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

// CatalogService serves vendor and product-type reads through the caching
// stack: the coalescer collapses concurrent identical requests, the durable
// store answers fresh hits and serves stale hits while a background refresh
// runs, and a miss or store failure falls through to a live upstream fetch.
type CatalogService struct {
	store     *cache.Store
	coalescer *cache.Coalescer
	refresher *cache.Refresher
	logger    *zap.Logger
}

// NewCatalogService creates a catalog read service
func NewCatalogService(store *cache.Store, coalescer *cache.Coalescer, refresher *cache.Refresher, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		store:     store,
		coalescer: coalescer,
		refresher: refresher,
		logger:    logger,
	}
}

// Vendors returns the shop's vendor list, cached
func (s *CatalogService) Vendors(ctx context.Context, shopDomain string) (*domain.VendorCache, error) {
	key := cache.GenerateKey("vendors", map[string]string{"shop": shopDomain})
	return cache.Deduplicate(s.coalescer, key, func() (*domain.VendorCache, error) {
		entry, err := s.store.GetAllowStale(ctx, shopDomain, domain.CacheDataTypeVendors, func(bg context.Context) {
			if err := s.refresher.RefreshVendors(bg, shopDomain); err != nil {
				s.logger.Warn("Background vendors refresh failed", zap.String("shop_domain", shopDomain), zap.Error(err))
			}
		})
		if err != nil {
			// Degraded read path: the cache store is unreachable, serve live
			s.logger.Warn("Vendor cache read failed, falling back to live fetch", zap.String("shop_domain", shopDomain), zap.Error(err))
			return s.refresher.BuildVendorCache(ctx)
		}
		if entry != nil {
			var cached domain.VendorCache
			if err := json.Unmarshal(entry.Data, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("Vendor cache payload malformed, rebuilding", zap.String("shop_domain", shopDomain))
		}

		built, err := s.refresher.BuildVendorCache(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, shopDomain, domain.CacheDataTypeVendors, built, 0); err != nil {
			// A failed cache write degrades performance, not correctness
			s.logger.Warn("Vendor cache write failed", zap.String("shop_domain", shopDomain), zap.Error(err))
		}
		return built, nil
	})
}

// ProductTypes returns the shop's product-type universe, cached
func (s *CatalogService) ProductTypes(ctx context.Context, shopDomain string) (*domain.ProductTypeCache, error) {
	key := cache.GenerateKey("productTypes", map[string]string{"shop": shopDomain})
	return cache.Deduplicate(s.coalescer, key, func() (*domain.ProductTypeCache, error) {
		entry, err := s.store.GetAllowStale(ctx, shopDomain, domain.CacheDataTypeProductTypes, func(bg context.Context) {
			if err := s.refresher.RefreshProductTypes(bg, shopDomain); err != nil {
				s.logger.Warn("Background product types refresh failed", zap.String("shop_domain", shopDomain), zap.Error(err))
			}
		})
		if err != nil {
			s.logger.Warn("Product type cache read failed, falling back to live fetch", zap.String("shop_domain", shopDomain), zap.Error(err))
			return s.refresher.BuildProductTypeCache(ctx)
		}
		if entry != nil {
			var cached domain.ProductTypeCache
			if err := json.Unmarshal(entry.Data, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("Product type cache payload malformed, rebuilding", zap.String("shop_domain", shopDomain))
		}

		built, err := s.refresher.BuildProductTypeCache(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, shopDomain, domain.CacheDataTypeProductTypes, built, 0); err != nil {
			s.logger.Warn("Product type cache write failed", zap.String("shop_domain", shopDomain), zap.Error(err))
		}
		return built, nil
	})
}

// ProductTypesForVendor returns one vendor's product types, refreshing just
// that vendor's slice of the cache when it has not been seen yet
func (s *CatalogService) ProductTypesForVendor(ctx context.Context, shopDomain, vendor string) ([]string, error) {
	cached, err := s.ProductTypes(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	if types, ok := cached.ByVendor[vendor]; ok {
		return types, nil
	}

	key := cache.GenerateKey("vendorProductTypes", map[string]string{"shop": shopDomain, "vendor": vendor})
	return cache.Deduplicate(s.coalescer, key, func() ([]string, error) {
		if err := s.refresher.RefreshVendorProductTypes(ctx, shopDomain, vendor); err != nil {
			return nil, err
		}
		entry, err := s.store.Get(ctx, shopDomain, domain.CacheDataTypeProductTypes)
		if err != nil || entry == nil {
			return nil, err
		}
		var fresh domain.ProductTypeCache
		if err := json.Unmarshal(entry.Data, &fresh); err != nil {
			return nil, err
		}
		return fresh.ByVendor[vendor], nil
	})
}

// InvalidateCatalog drops both durable catalog caches and forgets their
// in-flight registrations so the next read rebuilds from the API
func (s *CatalogService) InvalidateCatalog(ctx context.Context, shopDomain string) {
	for _, dataType := range []domain.CacheDataType{domain.CacheDataTypeVendors, domain.CacheDataTypeProductTypes} {
		if err := s.store.Invalidate(ctx, shopDomain, dataType); err != nil {
			s.logger.Warn("Cache invalidation failed", zap.String("shop_domain", shopDomain), zap.String("data_type", string(dataType)), zap.Error(err))
		}
	}
	s.coalescer.Forget(cache.GenerateKey("vendors", map[string]string{"shop": shopDomain}))
	s.coalescer.Forget(cache.GenerateKey("productTypes", map[string]string{"shop": shopDomain}))
}
