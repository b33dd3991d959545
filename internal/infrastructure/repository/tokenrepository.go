package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/mappers"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/models"
	apperrors "github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type TokenRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AccessTokenMapper
	logger logger.Interface
}

func NewTokenRepository(db *gorm.DB, logger logger.Interface) token.Repository {
	return &TokenRepositoryImpl{
		db:     db,
		mapper: mappers.NewAccessTokenMapper(),
		logger: logger,
	}
}

func (r *TokenRepositoryImpl) Create(ctx context.Context, t *token.AccessToken) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		r.logger.Errorw("failed to convert token to model", "error", err)
		return fmt.Errorf("failed to convert token to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("token value already exists")
		}
		r.logger.Errorw("failed to create access token", "error", err, "resource_id", t.ResourceID())
		return fmt.Errorf("failed to create access token: %w", err)
	}

	t.SetID(model.ID)

	r.logger.Infow("access token created", "token_id", model.ID, "resource_id", t.ResourceID())
	return nil
}

func (r *TokenRepositoryImpl) GetByValue(ctx context.Context, value string) (*token.AccessToken, error) {
	var model models.AccessTokenModel
	if err := r.db.WithContext(ctx).Where("token_value = ?", value).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get access token by value", "error", err)
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *TokenRepositoryImpl) ListByResource(ctx context.Context, resourceID uint) ([]*token.AccessToken, error) {
	var tokenModels []*models.AccessTokenModel
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at DESC").
		Find(&tokenModels).Error

	if err != nil {
		r.logger.Errorw("failed to list tokens by resource", "error", err, "resource_id", resourceID)
		return nil, fmt.Errorf("failed to list tokens by resource: %w", err)
	}

	return r.mapper.ToEntities(tokenModels)
}

func (r *TokenRepositoryImpl) UpdateStatus(ctx context.Context, value string, status token.Status) error {
	result := r.db.WithContext(ctx).Model(&models.AccessTokenModel{}).
		Where("token_value = ?", value).
		Update("status", status.String())

	if result.Error != nil {
		r.logger.Errorw("failed to update token status", "error", result.Error)
		return fmt.Errorf("failed to update token status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("access token not found")
	}
	return nil
}

func (r *TokenRepositoryImpl) UpdateStatusAndExpiry(ctx context.Context, value string, status token.Status, expiresAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.AccessTokenModel{}).
		Where("token_value = ?", value).
		Updates(map[string]interface{}{
			"status":     status.String(),
			"expires_at": expiresAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update token status and expiry", "error", result.Error)
		return fmt.Errorf("failed to update token status and expiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("access token not found")
	}
	return nil
}

func (r *TokenRepositoryImpl) UpdateMaxUses(ctx context.Context, value string, maxUses uint, status token.Status) error {
	result := r.db.WithContext(ctx).Model(&models.AccessTokenModel{}).
		Where("token_value = ?", value).
		Updates(map[string]interface{}{
			"max_uses": maxUses,
			"status":   status.String(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update token max uses", "error", result.Error)
		return fmt.Errorf("failed to update token max uses: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("access token not found")
	}
	return nil
}

// Consume burns one use in a single conditional UPDATE. The WHERE clause
// keeps the row untouched unless it is still active with headroom, and the
// CASE flips status to used in the same statement when the increment reaches
// max_uses. Concurrent consumers race on the row lock, not on stale reads,
// so use_count can never pass max_uses.
func (r *TokenRepositoryImpl) Consume(ctx context.Context, value string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.AccessTokenModel{}).
		Where("token_value = ? AND status = ?", value, token.StatusActive.String()).
		Where("max_uses = 0 OR use_count < max_uses").
		Updates(map[string]interface{}{
			"last_used_at": now,
			"status":       gorm.Expr("CASE WHEN max_uses > 0 AND use_count + 1 >= max_uses THEN 'used' ELSE status END"),
			"use_count":    gorm.Expr("use_count + 1"),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to consume access token", "error", result.Error)
		return false, fmt.Errorf("failed to consume access token: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *TokenRepositoryImpl) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.AccessTokenModel{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", token.StatusActive.String(), now).
		Update("status", token.StatusExpired.String())

	if result.Error != nil {
		r.logger.Errorw("failed to expire overdue tokens", "error", result.Error)
		return 0, fmt.Errorf("failed to expire overdue tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *TokenRepositoryImpl) DeleteInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status <> ? AND created_at < ?", token.StatusActive.String(), cutoff).
		Delete(&models.AccessTokenModel{})

	if result.Error != nil {
		r.logger.Errorw("failed to delete old tokens", "error", result.Error)
		return 0, fmt.Errorf("failed to delete old tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *TokenRepositoryImpl) Delete(ctx context.Context, value string) error {
	result := r.db.WithContext(ctx).
		Where("token_value = ?", value).
		Delete(&models.AccessTokenModel{})

	if result.Error != nil {
		r.logger.Errorw("failed to delete access token", "error", result.Error)
		return fmt.Errorf("failed to delete access token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("access token not found")
	}

	r.logger.Infow("access token deleted", "token_value_prefix", prefixOf(value))
	return nil
}

// prefixOf truncates a token value for logging. Full values never hit logs.
func prefixOf(value string) string {
	if len(value) <= 8 {
		return value
	}
	return value[:8]
}
