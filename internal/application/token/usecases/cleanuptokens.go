package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/biztime"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type CleanupTokensResult struct {
	Expired int64 `json:"expired"`
	Deleted int64 `json:"deleted"`
}

type CleanupTokensUseCase struct {
	tokenRepo token.Repository
	settings  setting.Provider
	logger    logger.Interface
}

func NewCleanupTokensUseCase(
	tokenRepo token.Repository,
	settings setting.Provider,
	logger logger.Interface,
) *CleanupTokensUseCase {
	return &CleanupTokensUseCase{
		tokenRepo: tokenRepo,
		settings:  settings,
		logger:    logger,
	}
}

// Execute sweeps overdue active tokens to expired, then optionally deletes
// non-active tokens older than the configured age. Active tokens are never
// deleted regardless of age.
func (uc *CleanupTokensUseCase) Execute(ctx context.Context) (*CleanupTokensResult, error) {
	cfg, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load settings", "error", err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	now := biztime.NowUTC()
	result := &CleanupTokensResult{}

	result.Expired, err = uc.tokenRepo.ExpireOverdue(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to expire overdue tokens", "error", err)
		return nil, fmt.Errorf("failed to expire overdue tokens: %w", err)
	}

	if cfg.CleanupDeleteOld && cfg.CleanupDeleteAgeMonths > 0 {
		cutoff := now.AddDate(0, -cfg.CleanupDeleteAgeMonths, 0)
		result.Deleted, err = uc.tokenRepo.DeleteInactiveOlderThan(ctx, cutoff)
		if err != nil {
			uc.logger.Errorw("failed to delete old tokens", "error", err)
			return nil, fmt.Errorf("failed to delete old tokens: %w", err)
		}
	}

	uc.logger.Infow("token cleanup completed",
		"expired", result.Expired,
		"deleted", result.Deleted,
	)
	return result, nil
}
