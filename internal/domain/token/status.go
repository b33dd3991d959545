package token

import "fmt"

// Status is the lifecycle state of an access token.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusUsed    Status = "used"
	StatusRevoked Status = "revoked"
)

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusExpired, StatusUsed, StatusRevoked:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown token status: %q", s)
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the token is in the active state.
func (s Status) IsActive() bool {
	return s == StatusActive
}
