package resource

import (
	"errors"
	"time"
)

// BotPolicy is the per-resource override for verified-bot access.
type BotPolicy string

const (
	BotPolicyInherit BotPolicy = ""
	BotPolicyAllow   BotPolicy = "allow"
	BotPolicyDeny    BotPolicy = "deny"
)

// IsValid reports whether p is one of the three known policies.
func (p BotPolicy) IsValid() bool {
	switch p {
	case BotPolicyInherit, BotPolicyAllow, BotPolicyDeny:
		return true
	}
	return false
}

// Resource is a protected file entry under the upload tree with its own
// override settings. The core consumes it read-only; mutation goes through
// the administrative write path.
type Resource struct {
	id          uint
	path        string // uploads-relative, forward slashes
	isProtected bool
	redirectURL *string
	botPolicy   BotPolicy

	userAllowList []uint
	userDenyList  []uint
	roleAllowList []string
	roleDenyList  []string

	tokenExpirySeconds *int64
	tokenMaxUses       *uint

	createdAt time.Time
	updatedAt time.Time
}

// ReconstructResource rebuilds a resource from persisted state.
func ReconstructResource(
	id uint,
	path string,
	isProtected bool,
	redirectURL *string,
	botPolicy BotPolicy,
	userAllowList []uint,
	userDenyList []uint,
	roleAllowList []string,
	roleDenyList []string,
	tokenExpirySeconds *int64,
	tokenMaxUses *uint,
	createdAt time.Time,
	updatedAt time.Time,
) (*Resource, error) {
	if id == 0 {
		return nil, errors.New("resource ID cannot be zero")
	}
	if path == "" {
		return nil, errors.New("resource path cannot be empty")
	}
	if !botPolicy.IsValid() {
		return nil, errors.New("invalid bot policy")
	}

	return &Resource{
		id:                 id,
		path:               path,
		isProtected:        isProtected,
		redirectURL:        redirectURL,
		botPolicy:          botPolicy,
		userAllowList:      userAllowList,
		userDenyList:       userDenyList,
		roleAllowList:      roleAllowList,
		roleDenyList:       roleDenyList,
		tokenExpirySeconds: tokenExpirySeconds,
		tokenMaxUses:       tokenMaxUses,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (r *Resource) ID() uint                  { return r.id }
func (r *Resource) Path() string              { return r.path }
func (r *Resource) IsProtected() bool         { return r.isProtected }
func (r *Resource) RedirectURL() *string      { return r.redirectURL }
func (r *Resource) BotPolicy() BotPolicy      { return r.botPolicy }
func (r *Resource) UserAllowList() []uint     { return r.userAllowList }
func (r *Resource) UserDenyList() []uint      { return r.userDenyList }
func (r *Resource) RoleAllowList() []string   { return r.roleAllowList }
func (r *Resource) RoleDenyList() []string    { return r.roleDenyList }
func (r *Resource) TokenExpirySeconds() *int64 { return r.tokenExpirySeconds }
func (r *Resource) TokenMaxUses() *uint       { return r.tokenMaxUses }
func (r *Resource) CreatedAt() time.Time      { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time      { return r.updatedAt }

// AllowsBots resolves the tri-state override against the global setting.
func (r *Resource) AllowsBots(globalAllow bool) bool {
	switch r.botPolicy {
	case BotPolicyAllow:
		return true
	case BotPolicyDeny:
		return false
	}
	return globalAllow
}
