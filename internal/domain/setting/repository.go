package setting

import "context"

// Provider serves the current global settings. Implementations cache reads
// with a short TTL; callers treat the result as immutable.
type Provider interface {
	Get(ctx context.Context) (*Settings, error)
}

// Repository persists individual setting values.
type Repository interface {
	// Load reads all stored rows merged over Defaults().
	Load(ctx context.Context) (*Settings, error)

	// Set writes one named value and invalidates any cache.
	Set(ctx context.Context, name string, value string) error
}
