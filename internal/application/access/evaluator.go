package access

import (
	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
)

// Verdict is the rule evaluator's three-way outcome. Indeterminate means no
// rule matched and the caller falls through to bot and token checks.
type Verdict int

const (
	VerdictIndeterminate Verdict = iota
	VerdictGrant
	VerdictDeny
)

func (v Verdict) String() string {
	switch v {
	case VerdictGrant:
		return "grant"
	case VerdictDeny:
		return "deny"
	}
	return "indeterminate"
}

// Evaluator walks the fixed rule chain for a principal against a resource.
// First match wins; user rules outrank role rules, global rules outrank
// per-resource rules at the same specificity.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs the chain and returns the verdict with its reason code.
// Anonymous principals never match an ID list: ID 0 is not an identity, and
// absence-of-id must not turn into a grant.
func (e *Evaluator) Evaluate(p identity.Principal, res *resource.Resource, cfg *setting.Settings) (Verdict, string) {
	if !p.IsAnonymous() {
		if containsID(cfg.GlobalUserAllowList, p.ID) {
			return VerdictGrant, ReasonUserGlobalAllow
		}
		if containsID(cfg.GlobalUserDenyList, p.ID) {
			return VerdictDeny, ReasonGlobalUserDeny
		}
		if containsID(res.UserAllowList(), p.ID) {
			return VerdictGrant, ReasonUserFileAllow
		}
		if containsID(res.UserDenyList(), p.ID) {
			return VerdictDeny, ReasonFileUserDeny
		}
	}

	if p.HasAnyRole(cfg.GlobalRoleAllowList) {
		return VerdictGrant, ReasonRoleGlobalAllow
	}
	if p.HasAnyRole(cfg.GlobalRoleDenyList) {
		return VerdictDeny, ReasonGlobalRoleDeny
	}
	if p.HasAnyRole(res.RoleAllowList()) {
		return VerdictGrant, ReasonRoleFileAllow
	}
	if p.HasAnyRole(res.RoleDenyList()) {
		return VerdictDeny, ReasonFileRoleDeny
	}

	return VerdictIndeterminate, ""
}

func containsID(list []uint, id uint) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
