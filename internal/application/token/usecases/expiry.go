package usecases

import (
	"time"

	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
)

// ExpiryPolicy carries the caller's expiry request for issue and reinstate.
// Absolute wins over relative; when both are absent the resource override and
// the global default apply in that order. A nil resolved expiry means the
// token never expires.
type ExpiryPolicy struct {
	ExpiresAt        *time.Time
	ExpiresInSeconds *int64
}

// resolveExpiry applies the precedence chain. An absolute timestamp that is
// not strictly in the future is discarded rather than rejected, so the next
// level of the chain takes over.
func resolveExpiry(policy ExpiryPolicy, res *resource.Resource, cfg *setting.Settings, now time.Time) *time.Time {
	if policy.ExpiresAt != nil && policy.ExpiresAt.After(now) {
		at := policy.ExpiresAt.UTC()
		return &at
	}
	if policy.ExpiresInSeconds != nil && *policy.ExpiresInSeconds > 0 {
		at := now.Add(time.Duration(*policy.ExpiresInSeconds) * time.Second)
		return &at
	}
	if res != nil && res.TokenExpirySeconds() != nil {
		secs := *res.TokenExpirySeconds()
		if secs <= 0 {
			return nil
		}
		at := now.Add(time.Duration(secs) * time.Second)
		return &at
	}
	if cfg.DefaultTokenExpiry <= 0 {
		return nil
	}
	at := now.Add(cfg.DefaultTokenExpiry)
	return &at
}

// resolveMaxUses applies explicit > resource override > global default.
func resolveMaxUses(explicit *uint, res *resource.Resource, cfg *setting.Settings) uint {
	if explicit != nil {
		return *explicit
	}
	if res != nil && res.TokenMaxUses() != nil {
		return *res.TokenMaxUses()
	}
	return cfg.DefaultTokenMaxUses
}

// exceedsResourceCap reports whether maxUses breaks a resource-level cap.
// A cap of 0 means uncapped; a maxUses of 0 (unlimited) always exceeds a
// positive cap.
func exceedsResourceCap(maxUses uint, res *resource.Resource) bool {
	if res == nil || res.TokenMaxUses() == nil {
		return false
	}
	cap := *res.TokenMaxUses()
	if cap == 0 {
		return false
	}
	return maxUses == 0 || maxUses > cap
}
