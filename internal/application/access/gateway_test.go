package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filegate-io/filegate/internal/application/token/testutil"
	tokenusecases "github.com/filegate-io/filegate/internal/application/token/usecases"
	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/domain/token"
)

type stubBotVerifier struct {
	verified bool
}

func (s *stubBotVerifier) IsVerifiedBot(_ context.Context, _, _ string) bool {
	return s.verified
}

type gatewayFixture struct {
	gateway      *Gateway
	tokenRepo    *testutil.MockTokenRepository
	resourceRepo *testutil.MockResourceRepository
	settings     *testutil.MockSettingProvider
	bot          *stubBotVerifier
}

func newGatewayFixture(cfg *setting.Settings) *gatewayFixture {
	tokenRepo := testutil.NewMockTokenRepository()
	resourceRepo := testutil.NewMockResourceRepository()
	settings := testutil.NewMockSettingProvider(cfg)
	bot := &stubBotVerifier{}
	log := testutil.NewMockLogger()

	gw := NewGateway(
		resourceRepo,
		settings,
		NewEvaluator(),
		bot,
		tokenusecases.NewValidateTokenUseCase(tokenRepo, log),
		tokenusecases.NewConsumeTokenUseCase(tokenRepo, log),
		tokenRepo,
		log,
	)
	return &gatewayFixture{gateway: gw, tokenRepo: tokenRepo, resourceRepo: resourceRepo, settings: settings, bot: bot}
}

func addResource(t *testing.T, f *gatewayFixture, protected bool, redirectURL *string, botPolicy resource.BotPolicy, roleDeny []string) *resource.Resource {
	t.Helper()
	now := time.Now().UTC()
	res, err := resource.ReconstructResource(
		1, "2026/08/report.pdf", protected, redirectURL, botPolicy,
		nil, nil, nil, roleDeny, nil, nil, now, now,
	)
	require.NoError(t, err)
	f.resourceRepo.Add(res)
	return res
}

func addToken(t *testing.T, f *gatewayFixture, value string, expiresAt *time.Time, useCount, maxUses uint, status token.Status) {
	t.Helper()
	tok, err := token.ReconstructAccessToken(
		0, value, 1, 0, nil, nil, time.Now().UTC().Add(-time.Hour), expiresAt, useCount, maxUses, nil, status,
	)
	require.NoError(t, err)
	f.tokenRepo.Add(tok)
}

func TestGatewayPathValidation(t *testing.T) {
	f := newGatewayFixture(nil)

	for _, bad := range []string{"", "../etc/passwd", "a/../../b", "a\\b", "a\x00b"} {
		d, err := f.gateway.Check(context.Background(), CheckInput{Path: bad})
		require.NoError(t, err)
		assert.False(t, d.Serve, "path %q should be denied", bad)
		assert.Equal(t, ReasonInvalidPath, d.Reason)
	}
}

func TestGatewayUnmanagedPolicy(t *testing.T) {
	t.Run("serve publicly", func(t *testing.T) {
		f := newGatewayFixture(nil)
		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/other.pdf"})
		require.NoError(t, err)
		assert.True(t, d.Serve)
		assert.Equal(t, ReasonUnmanagedPublic, d.Reason)
		assert.True(t, d.Cacheable)
		assert.Nil(t, d.Resource)
	})

	t.Run("deny", func(t *testing.T) {
		cfg := setting.Defaults()
		cfg.UnmanagedFilePolicy = setting.UnmanagedDeny
		cfg.DefaultRedirectURL = "https://example.com/denied"

		f := newGatewayFixture(cfg)
		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/other.pdf"})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonUnmanagedRestricted, d.Reason)
		assert.Equal(t, "https://example.com/denied", d.RedirectBase)
	})
}

func TestGatewayUnprotectedBypassesRules(t *testing.T) {
	cfg := setting.Defaults()
	cfg.GlobalUserDenyList = []uint{42}

	f := newGatewayFixture(cfg)
	addResource(t, f, false, nil, resource.BotPolicyInherit, nil)

	d, err := f.gateway.Check(context.Background(), CheckInput{
		Path:      "2026/08/report.pdf",
		Principal: identity.Principal{ID: 42},
	})
	require.NoError(t, err)
	assert.True(t, d.Serve)
	assert.Equal(t, ReasonUnprotected, d.Reason)
	assert.False(t, d.Attachment)
	assert.True(t, d.Cacheable)
}

func TestGatewayRuleOutcomes(t *testing.T) {
	t.Run("role grant serves inline", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)

		d, err := f.gateway.Check(context.Background(), CheckInput{
			Path:      "2026/08/report.pdf",
			Principal: identity.Principal{ID: 7, Roles: []string{"administrator"}},
		})
		require.NoError(t, err)
		assert.True(t, d.Serve)
		assert.Equal(t, ReasonRoleGlobalAllow, d.Reason)
	})

	t.Run("rule deny uses resource redirect override", func(t *testing.T) {
		cfg := setting.Defaults()
		cfg.DefaultRedirectURL = "https://example.com/global"

		f := newGatewayFixture(cfg)
		override := "https://example.com/custom"
		addResource(t, f, true, &override, resource.BotPolicyInherit, []string{"guest"})

		d, err := f.gateway.Check(context.Background(), CheckInput{
			Path:      "2026/08/report.pdf",
			Principal: identity.Principal{ID: 7, Roles: []string{"guest"}},
		})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonFileRoleDeny, d.Reason)
		assert.Equal(t, "https://example.com/custom", d.RedirectBase)
	})

	t.Run("anonymous with no token is denied by default", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)

		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/report.pdf"})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonRestrictedDefault, d.Reason)
	})
}

func TestGatewayBotAccess(t *testing.T) {
	t.Run("verified bot is served", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)
		f.bot.verified = true

		d, err := f.gateway.Check(context.Background(), CheckInput{
			Path:      "2026/08/report.pdf",
			UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1)",
			ClientIP:  "66.249.66.1",
		})
		require.NoError(t, err)
		assert.True(t, d.Serve)
		assert.Equal(t, ReasonBotAccess, d.Reason)
	})

	t.Run("resource bot policy deny overrides global allow", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyDeny, nil)
		f.bot.verified = true

		d, err := f.gateway.Check(context.Background(), CheckInput{
			Path:      "2026/08/report.pdf",
			UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1)",
			ClientIP:  "66.249.66.1",
		})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonRestrictedDefault, d.Reason)
	})
}

func TestGatewayTokenFlow(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)

	t.Run("valid token serves as attachment and burns a use", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)
		addToken(t, f, "tok", &future, 0, 1, token.StatusActive)

		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/report.pdf", TokenValue: "tok"})
		require.NoError(t, err)
		assert.True(t, d.Serve)
		assert.Equal(t, ReasonTokenValid, d.Reason)
		assert.True(t, d.Attachment)
		assert.False(t, d.Cacheable)

		d, err = f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/report.pdf", TokenValue: "tok"})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonTokenUsedUp, d.Reason)
	})

	t.Run("expired token is denied and the transition persists", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)
		past := time.Now().UTC().Add(-time.Minute)
		addToken(t, f, "tok", &past, 0, 1, token.StatusActive)

		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/report.pdf", TokenValue: "tok"})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonTokenExpired, d.Reason)

		stored, err := f.tokenRepo.GetByValue(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, token.StatusExpired, stored.Status())
	})

	t.Run("token for another resource is rejected", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)
		other, err := token.ReconstructAccessToken(
			0, "tok", 2, 0, nil, nil, time.Now().UTC(), &future, 0, 1, nil, token.StatusActive,
		)
		require.NoError(t, err)
		f.tokenRepo.Add(other)

		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/report.pdf", TokenValue: "tok"})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonTokenWrongResource, d.Reason)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)

		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/report.pdf", TokenValue: "nope"})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonTokenNotFound, d.Reason)
	})

	t.Run("revoked token", func(t *testing.T) {
		f := newGatewayFixture(nil)
		addResource(t, f, true, nil, resource.BotPolicyInherit, nil)
		addToken(t, f, "tok", &future, 0, 1, token.StatusRevoked)

		d, err := f.gateway.Check(context.Background(), CheckInput{Path: "2026/08/report.pdf", TokenValue: "tok"})
		require.NoError(t, err)
		assert.False(t, d.Serve)
		assert.Equal(t, ReasonTokenRevoked, d.Reason)
	})
}
