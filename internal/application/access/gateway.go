package access

import (
	"context"
	"fmt"
	"path"
	"strings"

	tokenusecases "github.com/filegate-io/filegate/internal/application/token/usecases"
	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// BotVerifier reports whether the request comes from a verified crawler.
// Implementations must degrade to false on resolver or cache failures.
type BotVerifier interface {
	IsVerifiedBot(ctx context.Context, userAgent, ip string) bool
}

type CheckInput struct {
	Path       string // uploads-relative request path, as received
	Principal  identity.Principal
	UserAgent  string
	ClientIP   string
	TokenValue string
}

// Decision is what the gateway hands the delivery layer: serve with a grant
// reason, or deny with a redirect base and an opaque reason code.
type Decision struct {
	Serve  bool
	Reason string

	// Set on serve
	Path       string // cleaned uploads-relative path
	Resource   *resource.Resource // nil for unmanaged files
	Attachment bool
	Cacheable  bool

	// Set on deny: resource override > global default > site root (empty)
	RedirectBase string
}

// Gateway runs the full access pipeline for one request: path sanity, the
// rule chain, the bot check, then the token check, denying by default.
type Gateway struct {
	resourceRepo resource.Repository
	settings     setting.Provider
	evaluator    *Evaluator
	botVerifier  BotVerifier
	validateTok  *tokenusecases.ValidateTokenUseCase
	consumeTok   *tokenusecases.ConsumeTokenUseCase
	tokenRepo    token.Repository
	logger       logger.Interface
}

func NewGateway(
	resourceRepo resource.Repository,
	settings setting.Provider,
	evaluator *Evaluator,
	botVerifier BotVerifier,
	validateTok *tokenusecases.ValidateTokenUseCase,
	consumeTok *tokenusecases.ConsumeTokenUseCase,
	tokenRepo token.Repository,
	logger logger.Interface,
) *Gateway {
	return &Gateway{
		resourceRepo: resourceRepo,
		settings:     settings,
		evaluator:    evaluator,
		botVerifier:  botVerifier,
		validateTok:  validateTok,
		consumeTok:   consumeTok,
		tokenRepo:    tokenRepo,
		logger:       logger,
	}
}

// Check evaluates one request. The error return is reserved for environment
// failures (settings store down); every expected condition comes back as a
// Decision.
func (g *Gateway) Check(ctx context.Context, input CheckInput) (*Decision, error) {
	cfg, err := g.settings.Get(ctx)
	if err != nil {
		g.logger.Errorw("failed to load settings", "error", err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	relPath, ok := cleanRelPath(input.Path)
	if !ok {
		return g.deny(ReasonInvalidPath, nil, cfg), nil
	}

	res, err := g.resourceRepo.GetByPath(ctx, relPath)
	if err != nil {
		g.logger.Errorw("failed to look up resource", "error", err, "path", relPath)
		return nil, fmt.Errorf("failed to look up resource: %w", err)
	}

	if res == nil {
		if cfg.UnmanagedFilePolicy == setting.UnmanagedDeny {
			return g.deny(ReasonUnmanagedRestricted, nil, cfg), nil
		}
		return &Decision{Serve: true, Reason: ReasonUnmanagedPublic, Path: relPath, Cacheable: true}, nil
	}

	if !res.IsProtected() {
		return g.serve(ReasonUnprotected, relPath, res), nil
	}

	verdict, reason := g.evaluator.Evaluate(input.Principal, res, cfg)
	switch verdict {
	case VerdictGrant:
		return g.serve(reason, relPath, res), nil
	case VerdictDeny:
		return g.deny(reason, res, cfg), nil
	}

	if res.AllowsBots(cfg.AllowBots) && g.botVerifier.IsVerifiedBot(ctx, input.UserAgent, input.ClientIP) {
		return g.serve(ReasonBotAccess, relPath, res), nil
	}

	if input.TokenValue != "" {
		return g.checkToken(ctx, input.TokenValue, relPath, res, cfg)
	}

	return g.deny(ReasonRestrictedDefault, res, cfg), nil
}

func (g *Gateway) checkToken(ctx context.Context, value, relPath string, res *resource.Resource, cfg *setting.Settings) (*Decision, error) {
	result, err := g.validateTok.Execute(ctx, tokenusecases.ValidateTokenQuery{Value: value, ResourceID: res.ID()})
	if err != nil {
		return nil, err
	}

	// Validation is a pure read; the gateway persists the observed
	// expiry transition so later validations stay on "expired".
	if result.LazyExpired {
		if err := g.tokenRepo.UpdateStatus(ctx, value, token.StatusExpired); err != nil {
			g.logger.Warnw("failed to persist lazy expiry", "error", err)
		}
	}

	switch result.Status {
	case tokenusecases.ValidationValid:
		consumed, err := g.consumeTok.Execute(ctx, tokenusecases.ConsumeTokenCommand{Value: value})
		if err != nil {
			return nil, err
		}
		if !consumed {
			// Lost the race against a concurrent consumer.
			return g.deny(ReasonTokenUsageError, res, cfg), nil
		}
		d := g.serve(ReasonTokenValid, relPath, res)
		d.Attachment = true
		d.Cacheable = false
		return d, nil
	case tokenusecases.ValidationNotFound:
		return g.deny(ReasonTokenNotFound, res, cfg), nil
	case tokenusecases.ValidationInvalidResource:
		return g.deny(ReasonTokenWrongResource, res, cfg), nil
	case tokenusecases.ValidationExpired:
		return g.deny(ReasonTokenExpired, res, cfg), nil
	case tokenusecases.ValidationUsedUp:
		return g.deny(ReasonTokenUsedUp, res, cfg), nil
	case tokenusecases.ValidationRevoked:
		return g.deny(ReasonTokenRevoked, res, cfg), nil
	}
	return g.deny(ReasonTokenUsageError, res, cfg), nil
}

func (g *Gateway) serve(reason, relPath string, res *resource.Resource) *Decision {
	return &Decision{Serve: true, Reason: reason, Path: relPath, Resource: res, Cacheable: true}
}

func (g *Gateway) deny(reason string, res *resource.Resource, cfg *setting.Settings) *Decision {
	base := ""
	if res != nil && res.RedirectURL() != nil && *res.RedirectURL() != "" {
		base = *res.RedirectURL()
	} else if cfg.DefaultRedirectURL != "" {
		base = cfg.DefaultRedirectURL
	}
	return &Decision{Serve: false, Reason: reason, Resource: res, RedirectBase: base}
}

// cleanRelPath normalizes an uploads-relative path and rejects anything that
// could escape the upload root.
func cleanRelPath(p string) (string, bool) {
	if p == "" || strings.ContainsAny(p, "\\\x00") {
		return "", false
	}
	p = strings.TrimPrefix(p, "/")
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return "", false
	}
	return cleaned, true
}
