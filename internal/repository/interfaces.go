package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

// ShopCacheRepository defines durable shop-cache data access. At most one
// row exists per (shopDomain, dataType); Upsert always replaces.
type ShopCacheRepository interface {
	// Get returns the stored payload, or (nil, nil) when no row exists.
	Get(ctx context.Context, shopDomain string, dataType domain.CacheDataType) ([]byte, error)
	Upsert(ctx context.Context, shopDomain string, dataType domain.CacheDataType, payload []byte, expiresAt time.Time) error
	Delete(ctx context.Context, shopDomain string, dataType domain.CacheDataType) error
}

// GenerationLogRepository defines AI generation audit data access
type GenerationLogRepository interface {
	Create(ctx context.Context, log *domain.GenerationLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationLog, error)
	ListByShop(ctx context.Context, shopDomain string, limit, offset int) ([]*domain.GenerationLog, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	ShopCache     ShopCacheRepository
	GenerationLog GenerationLogRepository
}
