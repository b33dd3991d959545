package identity

// Account is the host application's user record, read-only from the gate's
// perspective. Only the fields the session authenticator needs are mapped.
type Account struct {
	ID       uint
	Login    string
	PassHash string
}

// SessionEntry is one entry of an account's session registry, keyed by the
// hashed session-token verifier.
type SessionEntry struct {
	Expiration int64  `json:"expiration"`
	IP         string `json:"ip,omitempty"`
	UserAgent  string `json:"ua,omitempty"`
	Login      int64  `json:"login,omitempty"`
}
