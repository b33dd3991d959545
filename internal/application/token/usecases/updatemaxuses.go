package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/biztime"
	apperrors "github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type UpdateMaxUsesCommand struct {
	Value   string
	MaxUses uint
}

type UpdateMaxUsesUseCase struct {
	tokenRepo    token.Repository
	resourceRepo resource.Repository
	logger       logger.Interface
}

func NewUpdateMaxUsesUseCase(
	tokenRepo token.Repository,
	resourceRepo resource.Repository,
	logger logger.Interface,
) *UpdateMaxUsesUseCase {
	return &UpdateMaxUsesUseCase{
		tokenRepo:    tokenRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

func (uc *UpdateMaxUsesUseCase) Execute(ctx context.Context, cmd UpdateMaxUsesCommand) (*AccessTokenDTO, error) {
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
	if exceedsResourceCap(cmd.MaxUses, res) {
		return nil, apperrors.NewValidationError("max uses exceeds resource cap")
	}

	if err := tok.UpdateMaxUses(cmd.MaxUses, biztime.NowUTC()); err != nil {
		return nil, apperrors.NewValidationError("invalid max uses", err.Error())
	}

	if err := uc.tokenRepo.UpdateMaxUses(ctx, cmd.Value, tok.MaxUses(), tok.Status()); err != nil {
		uc.logger.Errorw("failed to persist max uses", "error", err, "token_id", tok.ID())
		return nil, fmt.Errorf("failed to update max uses: %w", err)
	}

	uc.logger.Infow("token max uses updated",
		"token_id", tok.ID(),
		"max_uses", tok.MaxUses(),
		"status", tok.Status(),
	)
	return tokenToDTO(tok), nil
}
