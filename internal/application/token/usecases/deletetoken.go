package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/token"
	apperrors "github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type DeleteTokenCommand struct {
	Value string
}

type DeleteTokenUseCase struct {
	tokenRepo token.Repository
	logger    logger.Interface
}

func NewDeleteTokenUseCase(tokenRepo token.Repository, logger logger.Interface) *DeleteTokenUseCase {
	return &DeleteTokenUseCase{tokenRepo: tokenRepo, logger: logger}
}

func (uc *DeleteTokenUseCase) Execute(ctx context.Context, cmd DeleteTokenCommand) error {
	tok, err := uc.tokenRepo.GetByValue(ctx, cmd.Value)
	if err != nil {
		uc.logger.Errorw("failed to get token", "error", err)
		return fmt.Errorf("failed to get token: %w", err)
	}
	if tok == nil {
		return apperrors.NewNotFoundError("token not found")
	}

	if err := uc.tokenRepo.Delete(ctx, cmd.Value); err != nil {
		uc.logger.Errorw("failed to delete token", "error", err, "token_id", tok.ID())
		return fmt.Errorf("failed to delete token: %w", err)
	}

	uc.logger.Infow("access token deleted", "token_id", tok.ID(), "resource_id", tok.ResourceID())
	return nil
}
