package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

// Page is one page of a cursor-paginated upstream listing
type Page struct {
	Items       []string
	HasNextPage bool
	EndCursor   string
}

// CatalogSource is the upstream pagination contract the refresher walks.
// Implemented by the Shopify Admin client.
type CatalogSource interface {
	VendorsPage(ctx context.Context, cursor string) (*Page, error)
	ProductTypesPage(ctx context.Context, cursor string) (*Page, error)
	// VendorProductTypesPage pages only the given vendor's products, so a
	// single-vendor refresh stays cheap.
	VendorProductTypesPage(ctx context.Context, vendor, cursor string) (*Page, error)
}

// Refresher repopulates the durable Store for a shop by walking the upstream
// API to completion. It runs eagerly on install and lazily as the
// stale-while-revalidate callback. Refresh functions return errors so the
// best-effort contract is visible at call sites: warming callers log and
// discard, they never fail a surrounding operation.
type Refresher struct {
	store  *Store
	source CatalogSource
	logger *zap.Logger
}

// NewRefresher creates a cache refresher
func NewRefresher(store *Store, source CatalogSource, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		store:  store,
		source: source,
		logger: logger,
	}
}

// BuildVendorCache pages through the upstream vendor listing to completion
// and returns the full sorted, de-duplicated list without touching the store
func (r *Refresher) BuildVendorCache(ctx context.Context) (*domain.VendorCache, error) {
	vendors, err := collectAll(ctx, r.source.VendorsPage)
	if err != nil {
		return nil, err
	}
	vendors = sortUnique(vendors)
	return &domain.VendorCache{
		Vendors:      vendors,
		TotalVendors: len(vendors),
		LastUpdated:  r.store.now(),
	}, nil
}

// RefreshVendors rebuilds and stores the vendor cache for the shop
func (r *Refresher) RefreshVendors(ctx context.Context, shopDomain string) error {
	vendorCache, err := r.BuildVendorCache(ctx)
	if err != nil {
		return fmt.Errorf("vendors refresh: %w", err)
	}
	if err := r.store.Set(ctx, shopDomain, domain.CacheDataTypeVendors, vendorCache, 0); err != nil {
		return fmt.Errorf("vendors refresh: %w", err)
	}
	r.logger.Info("Cache refresh: vendors updated",
		zap.String("shop_domain", shopDomain),
		zap.Int("vendors", vendorCache.TotalVendors),
	)
	return nil
}

// BuildProductTypeCache pages through the shop-wide product-type listing and
// returns the de-duplicated universe without touching the store
func (r *Refresher) BuildProductTypeCache(ctx context.Context) (*domain.ProductTypeCache, error) {
	types, err := collectAll(ctx, r.source.ProductTypesPage)
	if err != nil {
		return nil, err
	}
	return &domain.ProductTypeCache{
		AllTypes:    sortUnique(types),
		ByVendor:    make(map[string][]string),
		LastUpdated: r.store.now(),
	}, nil
}

// RefreshProductTypes rebuilds the shop-wide product-type universe while
// preserving any per-vendor breakdown already cached
func (r *Refresher) RefreshProductTypes(ctx context.Context, shopDomain string) error {
	fresh, err := r.BuildProductTypeCache(ctx)
	if err != nil {
		return fmt.Errorf("product types refresh: %w", err)
	}
	if current := r.currentProductTypes(ctx, shopDomain); current != nil {
		fresh.ByVendor = current.ByVendor
	}
	if err := r.store.Set(ctx, shopDomain, domain.CacheDataTypeProductTypes, fresh, 0); err != nil {
		return fmt.Errorf("product types refresh: %w", err)
	}
	r.logger.Info("Cache refresh: product types updated",
		zap.String("shop_domain", shopDomain),
		zap.Int("types", len(fresh.AllTypes)),
	)
	return nil
}

// RefreshVendorProductTypes refreshes one vendor's product-type list by
// paging only that vendor's products, then merges it into the cached
// structure read-modify-write. Last write wins when two vendor refreshes
// race on the same row; see DESIGN.md.
func (r *Refresher) RefreshVendorProductTypes(ctx context.Context, shopDomain, vendor string) error {
	types, err := collectAll(ctx, func(ctx context.Context, cursor string) (*Page, error) {
		return r.source.VendorProductTypesPage(ctx, vendor, cursor)
	})
	if err != nil {
		return fmt.Errorf("vendor product types refresh: %w", err)
	}

	current := r.currentProductTypes(ctx, shopDomain)
	if current == nil {
		current = &domain.ProductTypeCache{ByVendor: make(map[string][]string)}
	}
	if current.ByVendor == nil {
		current.ByVendor = make(map[string][]string)
	}
	current.ByVendor[vendor] = sortUnique(types)
	current.AllTypes = mergeSorted(current.AllTypes, current.ByVendor[vendor])
	current.LastUpdated = r.store.now()

	if err := r.store.Set(ctx, shopDomain, domain.CacheDataTypeProductTypes, current, 0); err != nil {
		return fmt.Errorf("vendor product types refresh: %w", err)
	}
	r.logger.Info("Cache refresh: vendor product types updated",
		zap.String("shop_domain", shopDomain),
		zap.String("vendor", vendor),
		zap.Int("types", len(current.ByVendor[vendor])),
	)
	return nil
}

// WarmShop proactively populates the vendor and product-type caches so the
// first real request is served from cache. Warming is best-effort per fact:
// each refresh logs and discards its own failure, and one listing failing
// never aborts the other's warm, so the goroutines share no cancellation.
func (r *Refresher) WarmShop(ctx context.Context, shopDomain string) {
	var g errgroup.Group
	g.Go(func() error {
		if err := r.RefreshVendors(ctx, shopDomain); err != nil {
			r.logger.Warn("Cache warm: vendors refresh failed",
				zap.String("shop_domain", shopDomain),
				zap.Error(err),
			)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.RefreshProductTypes(ctx, shopDomain); err != nil {
			r.logger.Warn("Cache warm: product types refresh failed",
				zap.String("shop_domain", shopDomain),
				zap.Error(err),
			)
		}
		return nil
	})
	_ = g.Wait()
}

// currentProductTypes reads the current cached structure, tolerating both
// stale entries (the point of read-modify-write is to keep their vendor map)
// and read failures (merge proceeds against an empty structure).
func (r *Refresher) currentProductTypes(ctx context.Context, shopDomain string) *domain.ProductTypeCache {
	entry, err := r.store.GetAllowStale(ctx, shopDomain, domain.CacheDataTypeProductTypes, nil)
	if err != nil || entry == nil {
		return nil
	}
	var cached domain.ProductTypeCache
	if err := json.Unmarshal(entry.Data, &cached); err != nil {
		return nil
	}
	return &cached
}

func collectAll(ctx context.Context, page func(ctx context.Context, cursor string) (*Page, error)) ([]string, error) {
	var items []string
	cursor := ""
	for {
		p, err := page(ctx, cursor)
		if err != nil {
			return nil, err
		}
		items = append(items, p.Items...)
		if !p.HasNextPage || p.EndCursor == "" {
			return items, nil
		}
		cursor = p.EndCursor
	}
}

func mergeSorted(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	return sortUnique(merged)
}
