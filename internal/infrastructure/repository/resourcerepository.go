package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/mappers"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/models"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type ResourceRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ResourceMapper
	logger logger.Interface
}

func NewResourceRepository(db *gorm.DB, logger logger.Interface) resource.Repository {
	return &ResourceRepositoryImpl{
		db:     db,
		mapper: mappers.NewResourceMapper(),
		logger: logger,
	}
}

// GetByPath returns nil for paths with no resource record; the caller
// decides what an unmanaged file means.
func (r *ResourceRepositoryImpl) GetByPath(ctx context.Context, path string) (*resource.Resource, error) {
	var model models.ResourceModel
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get resource by path", "error", err, "path", path)
		return nil, fmt.Errorf("failed to get resource by path: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ResourceRepositoryImpl) GetByID(ctx context.Context, id uint) (*resource.Resource, error) {
	var model models.ResourceModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get resource by ID", "error", err, "resource_id", id)
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	return r.mapper.ToEntity(&model)
}
