package resource

import "context"

// Repository reads resource metadata. The gate never writes resources;
// they are managed by the host application's administrative layer.
type Repository interface {
	// GetByPath resolves an uploads-relative path to its resource record.
	// Returns nil when the path is not managed.
	GetByPath(ctx context.Context, path string) (*Resource, error)

	GetByID(ctx context.Context, id uint) (*Resource, error)
}
