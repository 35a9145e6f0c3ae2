package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/domain"
	"github.com/bco89/product-builder-pro-sub000/pkg/errors"
)

type generationLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGenerationLogRepository creates a new generation log repository
func NewGenerationLogRepository(db *sql.DB, logger *zap.Logger) *generationLogRepository {
	return &generationLogRepository{db: db, logger: logger}
}

func (r *generationLogRepository) Create(ctx context.Context, log *domain.GenerationLog) error {
	query := `
		INSERT INTO generation_logs (id, shop_domain, product_title, product_type, model, status, error_message, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.ShopDomain, log.ProductTitle, log.ProductType,
		log.Model, string(log.Status), log.ErrorMessage, log.DurationMS, log.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create generation log", zap.Error(err), zap.String("shop_domain", log.ShopDomain))
		return err
	}

	return nil
}

func (r *generationLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationLog, error) {
	query := `
		SELECT id, shop_domain, product_title, product_type, model, status, error_message, duration_ms, created_at
		FROM generation_logs
		WHERE id = $1
	`

	var log domain.GenerationLog
	var errMsg sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&log.ID, &log.ShopDomain, &log.ProductTitle, &log.ProductType,
		&log.Model, &log.Status, &errMsg, &log.DurationMS, &log.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "generation_log", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get generation log", zap.Error(err), zap.String("id", id.String()))
		return nil, err
	}
	if errMsg.Valid {
		log.ErrorMessage = &errMsg.String
	}

	return &log, nil
}

func (r *generationLogRepository) ListByShop(ctx context.Context, shopDomain string, limit, offset int) ([]*domain.GenerationLog, error) {
	query := `
		SELECT id, shop_domain, product_title, product_type, model, status, error_message, duration_ms, created_at
		FROM generation_logs
		WHERE shop_domain = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, query, shopDomain, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list generation logs", zap.Error(err), zap.String("shop_domain", shopDomain))
		return nil, err
	}
	defer rows.Close()

	var out []*domain.GenerationLog
	for rows.Next() {
		var log domain.GenerationLog
		var errMsg sql.NullString
		err := rows.Scan(
			&log.ID, &log.ShopDomain, &log.ProductTitle, &log.ProductType,
			&log.Model, &log.Status, &errMsg, &log.DurationMS, &log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if errMsg.Valid {
			log.ErrorMessage = &errMsg.String
		}
		out = append(out, &log)
	}
	return out, rows.Err()
}
