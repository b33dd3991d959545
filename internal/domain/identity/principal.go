package identity

// Principal is the resolved identity for the current request. ID 0 is the
// anonymous principal; it never matches any allow or deny list.
type Principal struct {
	ID    uint
	Roles []string
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// IsAnonymous reports whether the principal carries no identity.
func (p Principal) IsAnonymous() bool {
	return p.ID == 0
}

// HasAnyRole reports whether any of the principal's roles appears in the
// given set.
func (p Principal) HasAnyRole(roles []string) bool {
	if len(p.Roles) == 0 || len(roles) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	for _, r := range p.Roles {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}
