package usecases

import (
	"context"
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/biztime"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type ConsumeTokenCommand struct {
	Value string
}

type ConsumeTokenUseCase struct {
	tokenRepo token.Repository
	logger    logger.Interface
}

func NewConsumeTokenUseCase(tokenRepo token.Repository, logger logger.Interface) *ConsumeTokenUseCase {
	return &ConsumeTokenUseCase{tokenRepo: tokenRepo, logger: logger}
}

// Execute burns one use. The repository performs a single conditional update
// so concurrent consumers racing on the same token get at most max_uses
// successes between them. Returns false when the token was not consumable.
func (uc *ConsumeTokenUseCase) Execute(ctx context.Context, cmd ConsumeTokenCommand) (bool, error) {
	consumed, err := uc.tokenRepo.Consume(ctx, cmd.Value, biztime.NowUTC())
	if err != nil {
		uc.logger.Errorw("failed to consume token", "error", err)
		return false, fmt.Errorf("failed to consume token: %w", err)
	}
	if !consumed {
		uc.logger.Debugw("token not consumable", "status_required", token.StatusActive)
	}
	return consumed, nil
}
