package token

import "errors"

var (
	ErrEmptyValue        = errors.New("token value cannot be empty")
	ErrZeroResourceID    = errors.New("resource ID cannot be zero")
	ErrExpiryNotFuture   = errors.New("expiry must be in the future")
	ErrNotReinstatable   = errors.New("only expired or revoked tokens can be reinstated")
	ErrAlreadyRevoked    = errors.New("token is already revoked")
	ErrNotActive         = errors.New("token is not active")
	ErrMaxUsesBelowCount = errors.New("max uses cannot be lower than current use count")
)
