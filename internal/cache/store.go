package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/internal/repository"
)

// DefaultTTL is applied when Set is called with ttl <= 0
const DefaultTTL = 15 * time.Minute

// envelope is the persisted wire format. Timestamps are unix milliseconds.
// Any stored payload that fails to deserialize into this shape is a miss.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	ExpiresAt int64           `json:"expiresAt"`
}

// Entry is one cache read result
type Entry struct {
	Data      json.RawMessage
	WrittenAt time.Time
	ExpiresAt time.Time
	Stale     bool
}

// Store is a durable, shop-scoped cache with explicit expiry on top of the
// shop_cache repository. Reads offer a plain mode (expired == absent) and a
// stale-while-revalidate mode that returns the expired payload while a
// background refresh runs.
type Store struct {
	repo   repository.ShopCacheRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewStore creates a durable cache store
func NewStore(repo repository.ShopCacheRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Get looks up the entry in plain mode: an expired entry is treated the same
// as an absent one. Returns (nil, nil) on miss. Repository errors propagate;
// callers are expected to fall back to a live fetch.
func (s *Store) Get(ctx context.Context, shopDomain string, dataType domain.CacheDataType) (*Entry, error) {
	entry, err := s.load(ctx, shopDomain, dataType)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Stale {
		return nil, nil
	}
	return entry, nil
}

// GetAllowStale looks up the entry in stale-while-revalidate mode: an expired
// entry is returned immediately with Stale set, and onStale is invoked once in
// a detached background goroutine to refresh it. onStale failures are the
// callback's own concern; panics are recovered and logged here so a refresh
// can never take down the read path.
func (s *Store) GetAllowStale(ctx context.Context, shopDomain string, dataType domain.CacheDataType, onStale func(context.Context)) (*Entry, error) {
	entry, err := s.load(ctx, shopDomain, dataType)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	if entry.Stale && onStale != nil {
		bgCtx := context.WithoutCancel(ctx)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Cache refresh callback panicked",
						zap.Any("panic", r),
						zap.String("shop_domain", shopDomain),
						zap.String("data_type", string(dataType)),
					)
				}
			}()
			onStale(bgCtx)
		}()
	}
	return entry, nil
}

// Set serializes data into the cache envelope and upserts it under the
// (shopDomain, dataType) pair. A write always replaces, never appends.
func (s *Store) Set(ctx context.Context, shopDomain string, dataType domain.CacheDataType, data any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	payload, err := json.Marshal(envelope{
		Data:      raw,
		Timestamp: now.UnixMilli(),
		ExpiresAt: expiresAt.UnixMilli(),
	})
	if err != nil {
		return err
	}

	return s.repo.Upsert(ctx, shopDomain, dataType, payload, expiresAt)
}

// Invalidate deletes the entry outright; a subsequent Get returns absent
func (s *Store) Invalidate(ctx context.Context, shopDomain string, dataType domain.CacheDataType) error {
	return s.repo.Delete(ctx, shopDomain, dataType)
}

func (s *Store) load(ctx context.Context, shopDomain string, dataType domain.CacheDataType) (*Entry, error) {
	payload, err := s.repo.Get(ctx, shopDomain, dataType)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil || env.ExpiresAt == 0 {
		// Corrupt cache data must never crash a read path; treat as a miss.
		s.logger.Warn("Discarding unparseable shop cache payload",
			zap.String("shop_domain", shopDomain),
			zap.String("data_type", string(dataType)),
			zap.Error(err),
		)
		return nil, nil
	}

	expiresAt := time.UnixMilli(env.ExpiresAt)
	return &Entry{
		Data:      env.Data,
		WrittenAt: time.UnixMilli(env.Timestamp),
		ExpiresAt: expiresAt,
		Stale:     s.now().After(expiresAt),
	}, nil
}
