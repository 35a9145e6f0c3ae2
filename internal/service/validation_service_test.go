package service

import (
	"context"
	"testing"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/shopify"
)

type fakeValidator struct {
	variants map[string]string // value -> conflicting variant GID
	handles  map[string]string // handle -> conflicting product GID
	calls    int
}

func (f *fakeValidator) FindVariantByField(_ context.Context, _ domain.ValidationType, value string) (*shopify.VariantMatch, error) {
	f.calls++
	gid, ok := f.variants[value]
	if !ok {
		return nil, nil
	}
	return &shopify.VariantMatch{VariantGID: gid}, nil
}

func (f *fakeValidator) FindProductByHandle(_ context.Context, handle string) (string, error) {
	f.calls++
	return f.handles[handle], nil
}

func TestValidateReportsAvailability(t *testing.T) {
	ctx := context.Background()
	validator := &fakeValidator{
		variants: map[string]string{"SKU-TAKEN": "gid://shopify/ProductVariant/1"},
		handles:  map[string]string{"taken-handle": "gid://shopify/Product/2"},
	}
	svc := NewValidationService(cache.NewRegistry(nil), validator, nil)

	free, err := svc.Validate(ctx, "shop.myshopify.com", domain.ValidationTypeSKU, "SKU-FREE")
	if err != nil || !free.Available {
		t.Fatalf("free SKU reported unavailable: %+v err=%v", free, err)
	}
	if free.CheckedAt.IsZero() {
		t.Fatal("checkedAt not stamped")
	}

	taken, err := svc.Validate(ctx, "shop.myshopify.com", domain.ValidationTypeSKU, "SKU-TAKEN")
	if err != nil || taken.Available {
		t.Fatalf("taken SKU reported available: %+v err=%v", taken, err)
	}
	if taken.ConflictGID != "gid://shopify/ProductVariant/1" {
		t.Fatalf("conflict GID missing: %+v", taken)
	}

	handle, err := svc.Validate(ctx, "shop.myshopify.com", domain.ValidationTypeHandle, "taken-handle")
	if err != nil || handle.Available || handle.ConflictGID != "gid://shopify/Product/2" {
		t.Fatalf("handle conflict not reported: %+v err=%v", handle, err)
	}
}

func TestValidateMemoizesRepeatedChecks(t *testing.T) {
	ctx := context.Background()
	validator := &fakeValidator{}
	svc := NewValidationService(cache.NewRegistry(nil), validator, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.Validate(ctx, "shop.myshopify.com", domain.ValidationTypeBarcode, "0123456789012"); err != nil {
			t.Fatalf("validate failed: %v", err)
		}
	}
	if validator.calls != 1 {
		t.Fatalf("repeated check hit the catalog %d times, want 1", validator.calls)
	}
}

func TestValidateRejectsEmptyValueAndUnknownType(t *testing.T) {
	ctx := context.Background()
	svc := NewValidationService(cache.NewRegistry(nil), &fakeValidator{}, nil)

	if _, err := svc.Validate(ctx, "shop.myshopify.com", domain.ValidationTypeSKU, ""); err == nil {
		t.Fatal("empty value accepted")
	}
	if _, err := svc.Validate(ctx, "shop.myshopify.com", domain.ValidationType("serial"), "x"); err == nil {
		t.Fatal("unknown validation type accepted")
	}
}
