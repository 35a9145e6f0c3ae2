package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	pkgerrors "github.com/bco89/product-builder-pro-sub000/pkg/errors"
)

type fakeCreator struct {
	created *domain.ProductDraft
}

func (f *fakeCreator) CreateProduct(_ context.Context, draft *domain.ProductDraft) (*domain.CreatedProduct, error) {
	f.created = draft
	return &domain.CreatedProduct{
		GID:    "gid://shopify/Product/100",
		Title:  draft.Title,
		Handle: draft.Handle,
	}, nil
}

func newProductFixture(validator *fakeValidator) (*ProductService, *fakeCreator, *memShopCacheRepo) {
	repo := newMemShopCacheRepo()
	catalog, _ := newCatalogFixture(repo, &scriptedSource{})
	creator := &fakeCreator{}
	validation := NewValidationService(cache.NewRegistry(nil), validator, nil)
	return NewProductService(creator, validation, catalog, nil), creator, repo
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	svc, _, _ := newProductFixture(&fakeValidator{})

	_, err := svc.Create(context.Background(), "shop.myshopify.com", &domain.ProductDraft{})
	var verr *pkgerrors.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
	if verr.Fields["title"] == "" || verr.Fields["vendor"] == "" {
		t.Fatalf("missing field diagnostics: %+v", verr.Fields)
	}
}

func TestCreateSuggestsHandleFromTitle(t *testing.T) {
	svc, creator, _ := newProductFixture(&fakeValidator{})

	created, err := svc.Create(context.Background(), "shop.myshopify.com", &domain.ProductDraft{
		Title:  "  Wool Socks — 3-Pack!  ",
		Vendor: "Acme",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if creator.created.Handle != "wool-socks-3-pack" {
		t.Fatalf("suggested handle %q", creator.created.Handle)
	}
	if created.GID == "" {
		t.Fatal("created product missing GID")
	}
}

func TestCreateRejectsConflictingSKU(t *testing.T) {
	svc, creator, _ := newProductFixture(&fakeValidator{
		variants: map[string]string{"SKU-1": "gid://shopify/ProductVariant/9"},
	})

	_, err := svc.Create(context.Background(), "shop.myshopify.com", &domain.ProductDraft{
		Title:  "Socks",
		Vendor: "Acme",
		SKU:    "SKU-1",
	})
	var verr *pkgerrors.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
	if creator.created != nil {
		t.Fatal("conflicting draft reached the create mutation")
	}
}

func TestCreateInvalidatesCatalogCaches(t *testing.T) {
	svc, _, repo := newProductFixture(&fakeValidator{})
	ctx := context.Background()

	store := cache.NewStore(repo, nil)
	if err := store.Set(ctx, "shop.myshopify.com", domain.CacheDataTypeVendors, &domain.VendorCache{}, 0); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.Create(ctx, "shop.myshopify.com", &domain.ProductDraft{Title: "Socks", Vendor: "New Vendor"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if repo.rowCount() != 0 {
		t.Fatalf("catalog caches not invalidated, %d rows remain", repo.rowCount())
	}
}

func TestSuggestHandle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Wool Socks", "wool-socks"},
		{"Café Crème 250g", "caf-cr-me-250g"},
		{"--Already--Hyphenated--", "already-hyphenated"},
		{"UPPER case MIX", "upper-case-mix"},
	}
	for _, tc := range cases {
		if got := SuggestHandle(tc.title); got != tc.want {
			t.Errorf("SuggestHandle(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
