package token

import (
	"time"
)

// AccessToken is a time- and count-limited capability granting access to a
// single resource. The value doubles as the lookup key and is immutable.
type AccessToken struct {
	id         uint
	value      string
	resourceID uint
	ownerID    uint
	ownerEmail *string
	ownerIP    *string
	createdAt  time.Time
	expiresAt  *time.Time
	useCount   uint
	maxUses    uint
	lastUsedAt *time.Time
	status     Status
}

// NewAccessToken creates an active token draft. A nil expiresAt means the
// token never expires; maxUses 0 means unlimited uses.
func NewAccessToken(
	value string,
	resourceID uint,
	ownerID uint,
	ownerEmail *string,
	ownerIP *string,
	expiresAt *time.Time,
	maxUses uint,
) (*AccessToken, error) {
	if value == "" {
		return nil, ErrEmptyValue
	}
	if resourceID == 0 {
		return nil, ErrZeroResourceID
	}
	if expiresAt != nil && !expiresAt.After(time.Now().UTC()) {
		return nil, ErrExpiryNotFuture
	}

	return &AccessToken{
		value:      value,
		resourceID: resourceID,
		ownerID:    ownerID,
		ownerEmail: ownerEmail,
		ownerIP:    ownerIP,
		createdAt:  time.Now().UTC(),
		expiresAt:  expiresAt,
		useCount:   0,
		maxUses:    maxUses,
		status:     StatusActive,
	}, nil
}

// ReconstructAccessToken rebuilds a token from persisted state.
func ReconstructAccessToken(
	id uint,
	value string,
	resourceID uint,
	ownerID uint,
	ownerEmail *string,
	ownerIP *string,
	createdAt time.Time,
	expiresAt *time.Time,
	useCount uint,
	maxUses uint,
	lastUsedAt *time.Time,
	status Status,
) (*AccessToken, error) {
	if value == "" {
		return nil, ErrEmptyValue
	}
	if resourceID == 0 {
		return nil, ErrZeroResourceID
	}

	return &AccessToken{
		id:         id,
		value:      value,
		resourceID: resourceID,
		ownerID:    ownerID,
		ownerEmail: ownerEmail,
		ownerIP:    ownerIP,
		createdAt:  createdAt,
		expiresAt:  expiresAt,
		useCount:   useCount,
		maxUses:    maxUses,
		lastUsedAt: lastUsedAt,
		status:     status,
	}, nil
}

// IsExpired reports whether the expiry timestamp has passed. Tokens without
// an expiry never expire.
func (t *AccessToken) IsExpired(now time.Time) bool {
	if t.expiresAt == nil {
		return false
	}
	return now.After(*t.expiresAt)
}

// UsesExhausted reports whether the use count has reached the limit.
func (t *AccessToken) UsesExhausted() bool {
	return t.maxUses > 0 && t.useCount >= t.maxUses
}

// MarkExpired transitions an active token to expired. The transition is
// lazy: callers persist it when validation observes a past expiry.
func (t *AccessToken) MarkExpired() error {
	if t.status != StatusActive {
		return ErrNotActive
	}
	t.status = StatusExpired
	return nil
}

// Revoke transitions the token to revoked.
func (t *AccessToken) Revoke() error {
	if t.status == StatusRevoked {
		return ErrAlreadyRevoked
	}
	t.status = StatusRevoked
	return nil
}

// Reinstate returns an expired or revoked token to active with a fresh
// expiry. Status and expiry change together; a past expiry is rejected
// before any state is touched.
func (t *AccessToken) Reinstate(expiresAt *time.Time, now time.Time) error {
	if t.status != StatusExpired && t.status != StatusRevoked {
		return ErrNotReinstatable
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return ErrExpiryNotFuture
	}
	t.status = StatusActive
	t.expiresAt = expiresAt
	return nil
}

// UpdateMaxUses raises or lowers the use limit. Lowering below the current
// use count is rejected so the use_count <= max_uses invariant holds.
// Raising the cap on a used-up token frees it again: it returns to active
// when its expiry still holds, or to expired when the expiry has passed.
func (t *AccessToken) UpdateMaxUses(newMax uint, now time.Time) error {
	if newMax > 0 && newMax < t.useCount {
		return ErrMaxUsesBelowCount
	}
	t.maxUses = newMax
	if t.status == StatusUsed && (newMax == 0 || t.useCount < newMax) {
		if t.IsExpired(now) {
			t.status = StatusExpired
		} else {
			t.status = StatusActive
		}
	}
	return nil
}

func (t *AccessToken) ID() uint                { return t.id }
func (t *AccessToken) Value() string           { return t.value }
func (t *AccessToken) ResourceID() uint        { return t.resourceID }
func (t *AccessToken) OwnerID() uint           { return t.ownerID }
func (t *AccessToken) OwnerEmail() *string     { return t.ownerEmail }
func (t *AccessToken) OwnerIP() *string        { return t.ownerIP }
func (t *AccessToken) CreatedAt() time.Time    { return t.createdAt }
func (t *AccessToken) ExpiresAt() *time.Time   { return t.expiresAt }
func (t *AccessToken) UseCount() uint          { return t.useCount }
func (t *AccessToken) MaxUses() uint           { return t.maxUses }
func (t *AccessToken) LastUsedAt() *time.Time  { return t.lastUsedAt }
func (t *AccessToken) Status() Status          { return t.status }

func (t *AccessToken) SetID(id uint) {
	t.id = id
}
