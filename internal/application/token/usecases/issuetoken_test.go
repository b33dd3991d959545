package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filegate-io/filegate/internal/application/token/testutil"
	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
)

func seedResource(t *testing.T, repo *testutil.MockResourceRepository, expirySeconds *int64, maxUses *uint) *resource.Resource {
	t.Helper()
	now := time.Now().UTC()
	res, err := resource.ReconstructResource(
		1, "2026/08/report.pdf", true, nil, resource.BotPolicyInherit,
		nil, nil, nil, nil, expirySeconds, maxUses, now, now,
	)
	require.NoError(t, err)
	repo.Add(res)
	return res
}

func TestIssueToken_Defaults(t *testing.T) {
	tokenRepo := testutil.NewMockTokenRepository()
	resourceRepo := testutil.NewMockResourceRepository()
	seedResource(t, resourceRepo, nil, nil)

	cfg := setting.Defaults()
	cfg.DefaultTokenExpiry = time.Hour
	cfg.DefaultTokenMaxUses = 1

	uc := NewIssueTokenUseCase(tokenRepo, resourceRepo, testutil.NewMockSettingProvider(cfg), "https://example.com/uploads", testutil.NewMockLogger())

	before := time.Now().UTC()
	result, err := uc.Execute(context.Background(), IssueTokenCommand{ResourceID: 1})
	require.NoError(t, err)

	assert.Equal(t, uint(1), result.Token.MaxUses)
	assert.Equal(t, "active", result.Token.Status)
	require.NotNil(t, result.Token.ExpiresAt)
	assert.WithinDuration(t, before.Add(time.Hour), *result.Token.ExpiresAt, 5*time.Second)
	assert.True(t, strings.HasPrefix(result.AccessURL, "https://example.com/uploads/2026/08/report.pdf?access_token="))

	stored, err := tokenRepo.GetByValue(context.Background(), result.Token.Value)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestIssueToken_ExpiryPrecedence(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(30 * time.Minute)
	relative := int64(600)
	resExpiry := int64(7200)

	tests := []struct {
		name           string
		policy         ExpiryPolicy
		resourceExpiry *int64
		wantAround     time.Duration
	}{
		{
			name:       "absolute future wins over relative",
			policy:     ExpiryPolicy{ExpiresAt: &future, ExpiresInSeconds: &relative},
			wantAround: 30 * time.Minute,
		},
		{
			name:           "past absolute is discarded, relative applies",
			policy:         ExpiryPolicy{ExpiresAt: &past, ExpiresInSeconds: &relative},
			resourceExpiry: &resExpiry,
			wantAround:     10 * time.Minute,
		},
		{
			name:           "resource override beats global default",
			policy:         ExpiryPolicy{},
			resourceExpiry: &resExpiry,
			wantAround:     2 * time.Hour,
		},
		{
			name:       "global default applies last",
			policy:     ExpiryPolicy{},
			wantAround: time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenRepo := testutil.NewMockTokenRepository()
			resourceRepo := testutil.NewMockResourceRepository()
			seedResource(t, resourceRepo, tt.resourceExpiry, nil)

			cfg := setting.Defaults()
			cfg.DefaultTokenExpiry = time.Hour

			uc := NewIssueTokenUseCase(tokenRepo, resourceRepo, testutil.NewMockSettingProvider(cfg), "https://example.com/uploads", testutil.NewMockLogger())

			before := time.Now().UTC()
			result, err := uc.Execute(context.Background(), IssueTokenCommand{ResourceID: 1, Expiry: tt.policy})
			require.NoError(t, err)
			require.NotNil(t, result.Token.ExpiresAt)
			assert.WithinDuration(t, before.Add(tt.wantAround), *result.Token.ExpiresAt, 5*time.Second)
		})
	}
}

func TestIssueToken_MaxUsesResourceCap(t *testing.T) {
	tokenRepo := testutil.NewMockTokenRepository()
	resourceRepo := testutil.NewMockResourceRepository()
	capUses := uint(3)
	seedResource(t, resourceRepo, nil, &capUses)

	uc := NewIssueTokenUseCase(tokenRepo, resourceRepo, testutil.NewMockSettingProvider(nil), "https://example.com/uploads", testutil.NewMockLogger())

	over := uint(10)
	_, err := uc.Execute(context.Background(), IssueTokenCommand{ResourceID: 1, MaxUses: &over})
	assert.Error(t, err)

	unlimited := uint(0)
	_, err = uc.Execute(context.Background(), IssueTokenCommand{ResourceID: 1, MaxUses: &unlimited})
	assert.Error(t, err)

	within := uint(2)
	result, err := uc.Execute(context.Background(), IssueTokenCommand{ResourceID: 1, MaxUses: &within})
	require.NoError(t, err)
	assert.Equal(t, uint(2), result.Token.MaxUses)
}

func TestIssueToken_UnknownResource(t *testing.T) {
	uc := NewIssueTokenUseCase(
		testutil.NewMockTokenRepository(),
		testutil.NewMockResourceRepository(),
		testutil.NewMockSettingProvider(nil),
		"https://example.com/uploads",
		testutil.NewMockLogger(),
	)

	_, err := uc.Execute(context.Background(), IssueTokenCommand{ResourceID: 99})
	assert.Error(t, err)
}
