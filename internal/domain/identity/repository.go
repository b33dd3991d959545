package identity

import "context"

// AccountRepository reads the host application's identity store. All three
// lookups are read-only; the gate never mutates accounts or sessions.
type AccountRepository interface {
	// GetByLogin returns nil when no account carries the login.
	GetByLogin(ctx context.Context, login string) (*Account, error)

	// GetSessionRegistry returns the account's serialized session registry,
	// keyed by hashed session-token verifier.
	GetSessionRegistry(ctx context.Context, accountID uint) (map[string]SessionEntry, error)

	// GetCapabilities returns the account's capability map. Truthy keys
	// flatten into the principal's role set.
	GetCapabilities(ctx context.Context, accountID uint) (map[string]bool, error)
}
