package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

type memShopCacheRepo struct {
	mu     sync.Mutex
	rows   map[string][]byte
	writes int
	getErr error
}

func newMemShopCacheRepo() *memShopCacheRepo {
	return &memShopCacheRepo{rows: make(map[string][]byte)}
}

func (m *memShopCacheRepo) key(shopDomain string, dataType domain.CacheDataType) string {
	return shopDomain + "/" + string(dataType)
}

func (m *memShopCacheRepo) Get(_ context.Context, shopDomain string, dataType domain.CacheDataType) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	payload, ok := m.rows[m.key(shopDomain, dataType)]
	if !ok {
		return nil, nil
	}
	return payload, nil
}

func (m *memShopCacheRepo) Upsert(_ context.Context, shopDomain string, dataType domain.CacheDataType, payload []byte, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[m.key(shopDomain, dataType)] = payload
	m.writes++
	return nil
}

func (m *memShopCacheRepo) Delete(_ context.Context, shopDomain string, dataType domain.CacheDataType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, m.key(shopDomain, dataType))
	return nil
}

func (m *memShopCacheRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memShopCacheRepo) rowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type scriptedSource struct {
	mu          sync.Mutex
	vendors     []string
	types       []string
	vendorTypes map[string][]string
	calls       int
}

func (s *scriptedSource) page(items []string) *cache.Page {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return &cache.Page{Items: items, HasNextPage: false}
}

func (s *scriptedSource) VendorsPage(_ context.Context, _ string) (*cache.Page, error) {
	return s.page(s.vendors), nil
}

func (s *scriptedSource) ProductTypesPage(_ context.Context, _ string) (*cache.Page, error) {
	return s.page(s.types), nil
}

func (s *scriptedSource) VendorProductTypesPage(_ context.Context, vendor, _ string) (*cache.Page, error) {
	return s.page(s.vendorTypes[vendor]), nil
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newCatalogFixture(repo *memShopCacheRepo, source *scriptedSource) (*CatalogService, *cache.Store) {
	store := cache.NewStore(repo, nil)
	refresher := cache.NewRefresher(store, source, nil)
	return NewCatalogService(store, cache.NewCoalescer(nil), refresher, nil), store
}

func TestVendorsMissBuildsAndCaches(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	source := &scriptedSource{vendors: []string{"Zeta", "Acme"}}
	svc, _ := newCatalogFixture(repo, source)

	got, err := svc.Vendors(ctx, "shop.myshopify.com")
	if err != nil {
		t.Fatalf("vendors failed: %v", err)
	}
	if got.TotalVendors != 2 || got.Vendors[0] != "Acme" || got.Vendors[1] != "Zeta" {
		t.Fatalf("unexpected vendors: %+v", got)
	}
	if source.callCount() != 1 {
		t.Fatalf("upstream called %d times, want 1", source.callCount())
	}
	if repo.writeCount() != 1 {
		t.Fatalf("miss did not populate the cache, writes=%d", repo.writeCount())
	}
}

func TestVendorsFreshHitSkipsUpstream(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	source := &scriptedSource{vendors: []string{"Acme"}}
	svc, store := newCatalogFixture(repo, source)

	seeded := &domain.VendorCache{Vendors: []string{"Acme"}, TotalVendors: 1, LastUpdated: time.Now()}
	if err := store.Set(ctx, "shop.myshopify.com", domain.CacheDataTypeVendors, seeded, time.Minute); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	got, err := svc.Vendors(ctx, "shop.myshopify.com")
	if err != nil {
		t.Fatalf("vendors failed: %v", err)
	}
	if got.TotalVendors != 1 {
		t.Fatalf("unexpected vendors: %+v", got)
	}
	if source.callCount() != 0 {
		t.Fatalf("fresh hit reached upstream %d times", source.callCount())
	}
}

func TestVendorsStaleHitServesImmediatelyAndRefreshes(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	source := &scriptedSource{vendors: []string{"Acme", "Fresh Co"}}
	svc, store := newCatalogFixture(repo, source)

	seeded := &domain.VendorCache{Vendors: []string{"Acme"}, TotalVendors: 1, LastUpdated: time.Now()}
	if err := store.Set(ctx, "shop.myshopify.com", domain.CacheDataTypeVendors, seeded, 10*time.Millisecond); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	got, err := svc.Vendors(ctx, "shop.myshopify.com")
	if err != nil {
		t.Fatalf("vendors failed: %v", err)
	}
	if got.TotalVendors != 1 || got.Vendors[0] != "Acme" {
		t.Fatalf("stale hit should serve the cached list, got %+v", got)
	}

	// The background refresh lands shortly after the stale response
	deadline := time.Now().Add(time.Second)
	for repo.writeCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("background refresh never wrote, writes=%d", repo.writeCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if source.callCount() != 1 {
		t.Fatalf("background refresh called upstream %d times, want 1", source.callCount())
	}
}

func TestVendorsStoreFailureFallsBackToLiveFetch(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	repo.getErr = errors.New("connection refused")
	source := &scriptedSource{vendors: []string{"Acme"}}
	svc, _ := newCatalogFixture(repo, source)

	got, err := svc.Vendors(ctx, "shop.myshopify.com")
	if err != nil {
		t.Fatalf("degraded read must still serve: %v", err)
	}
	if got.TotalVendors != 1 || got.Vendors[0] != "Acme" {
		t.Fatalf("unexpected vendors: %+v", got)
	}
	if source.callCount() != 1 {
		t.Fatalf("expected one live fetch, got %d", source.callCount())
	}
}

func TestProductTypesMissBuildsUniverse(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	source := &scriptedSource{types: []string{"Boots", "Sandals", "Boots"}}
	svc, _ := newCatalogFixture(repo, source)

	got, err := svc.ProductTypes(ctx, "shop.myshopify.com")
	if err != nil {
		t.Fatalf("product types failed: %v", err)
	}
	if len(got.AllTypes) != 2 || got.AllTypes[0] != "Boots" || got.AllTypes[1] != "Sandals" {
		t.Fatalf("unexpected universe: %+v", got.AllTypes)
	}
	if got.ByVendor == nil {
		t.Fatal("vendor map not initialized")
	}
}

func TestProductTypesForVendorRefreshesUnseenVendor(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	source := &scriptedSource{
		types:       []string{"Boots"},
		vendorTypes: map[string][]string{"Zeta": {"Sandals", "Boots"}},
	}
	svc, store := newCatalogFixture(repo, source)

	types, err := svc.ProductTypesForVendor(ctx, "shop.myshopify.com", "Zeta")
	if err != nil {
		t.Fatalf("vendor product types failed: %v", err)
	}
	if len(types) != 2 || types[0] != "Boots" || types[1] != "Sandals" {
		t.Fatalf("unexpected vendor types: %v", types)
	}

	// The single-vendor refresh persisted the merged breakdown
	entry, err := store.Get(ctx, "shop.myshopify.com", domain.CacheDataTypeProductTypes)
	if err != nil || entry == nil {
		t.Fatalf("product type cache missing: entry=%v err=%v", entry, err)
	}
	var cached domain.ProductTypeCache
	if err := json.Unmarshal(entry.Data, &cached); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got := cached.ByVendor["Zeta"]; len(got) != 2 {
		t.Fatalf("vendor breakdown not persisted: %v", cached.ByVendor)
	}
}

func TestProductTypesForVendorServesCachedBreakdown(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	source := &scriptedSource{}
	svc, store := newCatalogFixture(repo, source)

	seeded := &domain.ProductTypeCache{
		AllTypes:    []string{"Boots"},
		ByVendor:    map[string][]string{"Acme": {"Boots"}},
		LastUpdated: time.Now(),
	}
	if err := store.Set(ctx, "shop.myshopify.com", domain.CacheDataTypeProductTypes, seeded, time.Minute); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	types, err := svc.ProductTypesForVendor(ctx, "shop.myshopify.com", "Acme")
	if err != nil {
		t.Fatalf("vendor product types failed: %v", err)
	}
	if len(types) != 1 || types[0] != "Boots" {
		t.Fatalf("unexpected vendor types: %v", types)
	}
	if source.callCount() != 0 {
		t.Fatalf("cached breakdown reached upstream %d times", source.callCount())
	}
}

func TestInvalidateCatalogDropsBothEntries(t *testing.T) {
	ctx := context.Background()
	repo := newMemShopCacheRepo()
	source := &scriptedSource{vendors: []string{"Acme"}, types: []string{"Boots"}}
	svc, store := newCatalogFixture(repo, source)

	if err := store.Set(ctx, "shop.myshopify.com", domain.CacheDataTypeVendors, &domain.VendorCache{}, 0); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := store.Set(ctx, "shop.myshopify.com", domain.CacheDataTypeProductTypes, &domain.ProductTypeCache{}, 0); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	svc.InvalidateCatalog(ctx, "shop.myshopify.com")

	if repo.rowCount() != 0 {
		t.Fatalf("expected both rows dropped, %d remain", repo.rowCount())
	}

	// The next read rebuilds from upstream even inside the linger window
	got, err := svc.Vendors(ctx, "shop.myshopify.com")
	if err != nil || got.TotalVendors != 1 {
		t.Fatalf("rebuild after invalidation failed: %+v err=%v", got, err)
	}
}
