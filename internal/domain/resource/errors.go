package resource

import "errors"

var (
	ErrNotFound    = errors.New("resource not found")
	ErrInvalidPath = errors.New("invalid resource path")
)
