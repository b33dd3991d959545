package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/biztime"
	apperrors "github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type ReinstateTokenCommand struct {
	Value  string
	Expiry ExpiryPolicy
}

type ReinstateTokenUseCase struct {
	tokenRepo    token.Repository
	resourceRepo resource.Repository
	settings     setting.Provider
	logger       logger.Interface
}

func NewReinstateTokenUseCase(
	tokenRepo token.Repository,
	resourceRepo resource.Repository,
	settings setting.Provider,
	logger logger.Interface,
) *ReinstateTokenUseCase {
	return &ReinstateTokenUseCase{
		tokenRepo:    tokenRepo,
		resourceRepo: resourceRepo,
		settings:     settings,
		logger:       logger,
	}
}

// Execute returns an expired or revoked token to active with a fresh expiry
// resolved by the same precedence as issuance. Status and expiry are written
// in one update so a crash can never leave an active token with a stale
// expiry.
func (uc *ReinstateTokenUseCase) Execute(ctx context.Context, cmd ReinstateTokenCommand) (*AccessTokenDTO, error) {
	tok, err := uc.tokenRepo.GetByValue(ctx, cmd.Value)
	if err != nil {
		uc.logger.Errorw("failed to get token", "error", err)
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if tok == nil {
		return nil, apperrors.NewNotFoundError("token not found")
	}

	res, err := uc.resourceRepo.GetByID(ctx, tok.ResourceID())
	if err != nil {
		uc.logger.Errorw("failed to get resource", "error", err, "resource_id", tok.ResourceID())
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	cfg, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load settings", "error", err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	now := biztime.NowUTC()

	// Unlike issuance, a stale explicit expiry is a caller error here, not
	// something to silently fall through: the whole point of reinstating is
	// the fresh expiry.
	if cmd.Expiry.ExpiresAt != nil && !cmd.Expiry.ExpiresAt.After(now) {
		return nil, apperrors.NewValidationError("expiry must be in the future")
	}

	expiresAt := resolveExpiry(cmd.Expiry, res, cfg, now)

	if err := tok.Reinstate(expiresAt, now); err != nil {
		return nil, apperrors.NewConflictError("token cannot be reinstated", err.Error())
	}

	if err := uc.tokenRepo.UpdateStatusAndExpiry(ctx, cmd.Value, tok.Status(), tok.ExpiresAt()); err != nil {
		uc.logger.Errorw("failed to persist reinstatement", "error", err, "token_id", tok.ID())
		return nil, fmt.Errorf("failed to reinstate token: %w", err)
	}

	uc.logger.Infow("access token reinstated",
		"token_id", tok.ID(),
		"resource_id", tok.ResourceID(),
		"expires_at", tok.ExpiresAt(),
	)
	return tokenToDTO(tok), nil
}
