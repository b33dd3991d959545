package token

import (
	"context"
	"time"
)

// Repository persists access tokens. Consume is the only shared-mutation
// point in the request path and must be a single conditional update so
// concurrent consumers can never push use_count past max_uses.
type Repository interface {
	// Create inserts a new token. A duplicate value is a conflict error,
	// not a retry target.
	Create(ctx context.Context, t *AccessToken) error

	GetByValue(ctx context.Context, value string) (*AccessToken, error)

	ListByResource(ctx context.Context, resourceID uint) ([]*AccessToken, error)

	// UpdateStatus persists a bare status transition (lazy expiry, revoke).
	UpdateStatus(ctx context.Context, value string, status Status) error

	// UpdateStatusAndExpiry persists a reinstatement: status and expiry
	// change in one write, never separately.
	UpdateStatusAndExpiry(ctx context.Context, value string, status Status, expiresAt *time.Time) error

	UpdateMaxUses(ctx context.Context, value string, maxUses uint, status Status) error

	// Consume atomically increments use_count, stamps last_used_at, and
	// flips status to used when the increment reaches max_uses, but only
	// while status is still active. Returns false when nothing matched.
	Consume(ctx context.Context, value string, now time.Time) (bool, error)

	// ExpireOverdue bulk-transitions active tokens whose expiry has passed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)

	// DeleteInactiveOlderThan removes non-active tokens created before the
	// cutoff. Active tokens are never swept.
	DeleteInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	Delete(ctx context.Context, value string) error
}
