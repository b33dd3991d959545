package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
)

func testResource(t *testing.T, userAllow, userDeny []uint, roleAllow, roleDeny []string) *resource.Resource {
	t.Helper()
	now := time.Now().UTC()
	res, err := resource.ReconstructResource(
		1, "2026/08/report.pdf", true, nil, resource.BotPolicyInherit,
		userAllow, userDeny, roleAllow, roleDeny, nil, nil, now, now,
	)
	require.NoError(t, err)
	return res
}

func TestEvaluatorPriorityChain(t *testing.T) {
	ev := NewEvaluator()

	tests := []struct {
		name       string
		principal  identity.Principal
		res        func(t *testing.T) *resource.Resource
		cfg        *setting.Settings
		wantV      Verdict
		wantReason string
	}{
		{
			name:      "global user allow wins",
			principal: identity.Principal{ID: 42},
			res:       func(t *testing.T) *resource.Resource { return testResource(t, nil, []uint{42}, nil, nil) },
			cfg: &setting.Settings{
				GlobalUserAllowList: []uint{42},
			},
			wantV:      VerdictGrant,
			wantReason: ReasonUserGlobalAllow,
		},
		{
			name:      "user deny outranks role allow",
			principal: identity.Principal{ID: 42, Roles: []string{"editor"}},
			res:       func(t *testing.T) *resource.Resource { return testResource(t, nil, nil, []string{"editor"}, nil) },
			cfg: &setting.Settings{
				GlobalUserDenyList: []uint{42},
			},
			wantV:      VerdictDeny,
			wantReason: ReasonGlobalUserDeny,
		},
		{
			name:      "resource user allow beats global role deny",
			principal: identity.Principal{ID: 7, Roles: []string{"subscriber"}},
			res:       func(t *testing.T) *resource.Resource { return testResource(t, []uint{7}, nil, nil, nil) },
			cfg: &setting.Settings{
				GlobalRoleDenyList: []string{"subscriber"},
			},
			wantV:      VerdictGrant,
			wantReason: ReasonUserFileAllow,
		},
		{
			name:      "global role allow",
			principal: identity.Principal{ID: 7, Roles: []string{"administrator"}},
			res:       func(t *testing.T) *resource.Resource { return testResource(t, nil, nil, nil, nil) },
			cfg: &setting.Settings{
				GlobalRoleAllowList: []string{"administrator"},
			},
			wantV:      VerdictGrant,
			wantReason: ReasonRoleGlobalAllow,
		},
		{
			name:      "resource role deny",
			principal: identity.Principal{ID: 7, Roles: []string{"guest"}},
			res:       func(t *testing.T) *resource.Resource { return testResource(t, nil, nil, nil, []string{"guest"}) },
			cfg:        &setting.Settings{},
			wantV:      VerdictDeny,
			wantReason: ReasonFileRoleDeny,
		},
		{
			name:      "no match is indeterminate",
			principal: identity.Principal{ID: 7, Roles: []string{"subscriber"}},
			res:       func(t *testing.T) *resource.Resource { return testResource(t, nil, nil, nil, nil) },
			cfg:        &setting.Settings{},
			wantV:      VerdictIndeterminate,
			wantReason: "",
		},
		{
			name:      "anonymous never matches ID lists",
			principal: identity.Anonymous(),
			res:       func(t *testing.T) *resource.Resource { return testResource(t, []uint{0}, nil, nil, nil) },
			cfg: &setting.Settings{
				GlobalUserAllowList: []uint{0},
			},
			wantV:      VerdictIndeterminate,
			wantReason: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, reason := ev.Evaluate(tt.principal, tt.res(t), tt.cfg)
			assert.Equal(t, tt.wantV, v)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
