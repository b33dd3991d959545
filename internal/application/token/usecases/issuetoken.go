package usecases

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/biztime"
	"github.com/filegate-io/filegate/internal/shared/constants"
	apperrors "github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
	"github.com/filegate-io/filegate/internal/shared/utils"
)

const tokenValueBytes = 16

type IssueTokenCommand struct {
	ResourceID uint
	Expiry     ExpiryPolicy
	MaxUses    *uint
	OwnerID    uint
	OwnerEmail *string
	OwnerIP    *string
}

type IssueTokenResult struct {
	Token     *AccessTokenDTO `json:"token"`
	AccessURL string          `json:"access_url"`
}

type IssueTokenUseCase struct {
	tokenRepo    token.Repository
	resourceRepo resource.Repository
	settings     setting.Provider
	baseURL      string
	logger       logger.Interface
}

func NewIssueTokenUseCase(
	tokenRepo token.Repository,
	resourceRepo resource.Repository,
	settings setting.Provider,
	baseURL string,
	logger logger.Interface,
) *IssueTokenUseCase {
	return &IssueTokenUseCase{
		tokenRepo:    tokenRepo,
		resourceRepo: resourceRepo,
		settings:     settings,
		baseURL:      baseURL,
		logger:       logger,
	}
}

func (uc *IssueTokenUseCase) Execute(ctx context.Context, cmd IssueTokenCommand) (*IssueTokenResult, error) {
	res, err := uc.resourceRepo.GetByID(ctx, cmd.ResourceID)
	if err != nil {
		uc.logger.Errorw("failed to get resource", "error", err, "resource_id", cmd.ResourceID)
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	if res == nil {
		return nil, apperrors.NewNotFoundError("resource not found")
	}

	cfg, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load settings", "error", err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	now := biztime.NowUTC()
	expiresAt := resolveExpiry(cmd.Expiry, res, cfg, now)
	maxUses := resolveMaxUses(cmd.MaxUses, res, cfg)
	if cmd.MaxUses != nil && exceedsResourceCap(maxUses, res) {
		return nil, apperrors.NewValidationError("max uses exceeds resource cap")
	}

	value, err := utils.GenerateTokenValue(tokenValueBytes)
	if err != nil {
		uc.logger.Errorw("failed to generate token value", "error", err)
		return nil, fmt.Errorf("failed to generate token value: %w", err)
	}

	tok, err := token.NewAccessToken(value, cmd.ResourceID, cmd.OwnerID, cmd.OwnerEmail, cmd.OwnerIP, expiresAt, maxUses)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid token parameters", err.Error())
	}

	if err := uc.tokenRepo.Create(ctx, tok); err != nil {
		uc.logger.Errorw("failed to persist token", "error", err, "resource_id", cmd.ResourceID)
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	uc.logger.Infow("access token issued",
		"token_id", tok.ID(),
		"resource_id", cmd.ResourceID,
		"max_uses", maxUses,
	)

	return &IssueTokenResult{
		Token:     tokenToDTO(tok),
		AccessURL: uc.accessURL(res.Path(), value),
	}, nil
}

// accessURL builds the shareable link: base URL, resource path, and the
// token as a query parameter.
func (uc *IssueTokenUseCase) accessURL(path, value string) string {
	base := strings.TrimRight(uc.baseURL, "/")
	return base + "/" + path + "?" + constants.QueryAccessToken + "=" + url.QueryEscape(value)
}
