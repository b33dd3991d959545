package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/biztime"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// ValidationStatus is the outcome of a pure token check.
type ValidationStatus string

const (
	ValidationValid           ValidationStatus = "valid"
	ValidationNotFound        ValidationStatus = "not_found"
	ValidationInvalidResource ValidationStatus = "invalid_resource"
	ValidationExpired         ValidationStatus = "expired"
	ValidationUsedUp          ValidationStatus = "used_limit_reached"
	ValidationRevoked         ValidationStatus = "revoked"
)

type ValidateTokenQuery struct {
	Value      string
	ResourceID uint
}

type ValidateTokenResult struct {
	Status ValidationStatus
	Token  *AccessTokenDTO

	// LazyExpired is set when an active record was observed past its
	// expiry. Validation itself never writes; the caller persists the
	// expired transition.
	LazyExpired bool
}

type ValidateTokenUseCase struct {
	tokenRepo token.Repository
	logger    logger.Interface
}

func NewValidateTokenUseCase(tokenRepo token.Repository, logger logger.Interface) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{tokenRepo: tokenRepo, logger: logger}
}

func (uc *ValidateTokenUseCase) Execute(ctx context.Context, query ValidateTokenQuery) (*ValidateTokenResult, error) {
	tok, err := uc.tokenRepo.GetByValue(ctx, query.Value)
	if err != nil {
		uc.logger.Errorw("failed to get token", "error", err)
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	if tok == nil {
		return &ValidateTokenResult{Status: ValidationNotFound}, nil
	}

	dto := tokenToDTO(tok)

	if tok.ResourceID() != query.ResourceID {
		return &ValidateTokenResult{Status: ValidationInvalidResource, Token: dto}, nil
	}

	switch tok.Status() {
	case token.StatusRevoked:
		return &ValidateTokenResult{Status: ValidationRevoked, Token: dto}, nil
	case token.StatusUsed:
		return &ValidateTokenResult{Status: ValidationUsedUp, Token: dto}, nil
	case token.StatusExpired:
		return &ValidateTokenResult{Status: ValidationExpired, Token: dto}, nil
	}

	if tok.IsExpired(biztime.NowUTC()) {
		return &ValidateTokenResult{Status: ValidationExpired, Token: dto, LazyExpired: true}, nil
	}
	if tok.UsesExhausted() {
		return &ValidateTokenResult{Status: ValidationUsedUp, Token: dto}, nil
	}

	return &ValidateTokenResult{Status: ValidationValid, Token: dto}, nil
}
