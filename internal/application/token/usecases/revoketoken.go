package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/token"
	apperrors "github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type RevokeTokenCommand struct {
	Value string
}

type RevokeTokenUseCase struct {
	tokenRepo token.Repository
	logger    logger.Interface
}

func NewRevokeTokenUseCase(tokenRepo token.Repository, logger logger.Interface) *RevokeTokenUseCase {
	return &RevokeTokenUseCase{tokenRepo: tokenRepo, logger: logger}
}

func (uc *RevokeTokenUseCase) Execute(ctx context.Context, cmd RevokeTokenCommand) (*AccessTokenDTO, error) {
	tok, err := uc.tokenRepo.GetByValue(ctx, cmd.Value)
	if err != nil {
		uc.logger.Errorw("failed to get token", "error", err)
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if tok == nil {
		return nil, apperrors.NewNotFoundError("token not found")
	}

	if err := tok.Revoke(); err != nil {
		return nil, apperrors.NewConflictError("token cannot be revoked", err.Error())
	}

	if err := uc.tokenRepo.UpdateStatus(ctx, cmd.Value, tok.Status()); err != nil {
		uc.logger.Errorw("failed to persist revocation", "error", err, "token_id", tok.ID())
		return nil, fmt.Errorf("failed to revoke token: %w", err)
	}

	uc.logger.Infow("access token revoked", "token_id", tok.ID(), "resource_id", tok.ResourceID())
	return tokenToDTO(tok), nil
}
