package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

type shopCacheRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewShopCacheRepository creates a new shop cache repository
func NewShopCacheRepository(db *sql.DB, logger *zap.Logger) *shopCacheRepository {
	return &shopCacheRepository{db: db, logger: logger}
}

func (r *shopCacheRepository) Get(ctx context.Context, shopDomain string, dataType domain.CacheDataType) ([]byte, error) {
	query := `
		SELECT payload
		FROM shop_cache
		WHERE shop_domain = $1 AND data_type = $2
	`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, shopDomain, string(dataType)).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get shop cache entry", zap.Error(err), zap.String("shop_domain", shopDomain), zap.String("data_type", string(dataType)))
		return nil, err
	}

	return payload, nil
}

func (r *shopCacheRepository) Upsert(ctx context.Context, shopDomain string, dataType domain.CacheDataType, payload []byte, expiresAt time.Time) error {
	query := `
		INSERT INTO shop_cache (shop_domain, data_type, payload, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (shop_domain, data_type) DO UPDATE SET
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, shopDomain, string(dataType), payload, expiresAt, time.Now())
	if err != nil {
		r.logger.Error("Failed to upsert shop cache entry", zap.Error(err), zap.String("shop_domain", shopDomain), zap.String("data_type", string(dataType)))
		return err
	}

	return nil
}

func (r *shopCacheRepository) Delete(ctx context.Context, shopDomain string, dataType domain.CacheDataType) error {
	query := `
		DELETE FROM shop_cache
		WHERE shop_domain = $1 AND data_type = $2
	`

	_, err := r.db.ExecContext(ctx, query, shopDomain, string(dataType))
	if err != nil {
		r.logger.Error("Failed to delete shop cache entry", zap.Error(err), zap.String("shop_domain", shopDomain), zap.String("data_type", string(dataType)))
		return err
	}

	return nil
}
