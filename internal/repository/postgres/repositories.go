package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/bco89/product-builder-pro-sub000/internal/repository"
)

// NewRepositories creates all repository implementations
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		ShopCache:     NewShopCacheRepository(db, logger),
		GenerationLog: NewGenerationLogRepository(db, logger),
	}
}
