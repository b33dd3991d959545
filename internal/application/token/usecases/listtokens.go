package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type ListTokensQuery struct {
	ResourceID uint
}

type ListTokensUseCase struct {
	tokenRepo token.Repository
	logger    logger.Interface
}

func NewListTokensUseCase(tokenRepo token.Repository, logger logger.Interface) *ListTokensUseCase {
	return &ListTokensUseCase{tokenRepo: tokenRepo, logger: logger}
}

func (uc *ListTokensUseCase) Execute(ctx context.Context, query ListTokensQuery) ([]*AccessTokenDTO, error) {
	tokens, err := uc.tokenRepo.ListByResource(ctx, query.ResourceID)
	if err != nil {
		uc.logger.Errorw("failed to list tokens", "error", err, "resource_id", query.ResourceID)
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	dtos := make([]*AccessTokenDTO, 0, len(tokens))
	for _, tok := range tokens {
		dtos = append(dtos, tokenToDTO(tok))
	}
	return dtos, nil
}
