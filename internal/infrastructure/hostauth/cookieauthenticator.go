// Package hostauth resolves the requesting principal from the host
// application's signed identity cookie, without calling into the host. The
// signing scheme is replicated bit for bit; any deviation silently turns
// every session anonymous.
package hostauth

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/shared/biztime"
	"github.com/filegate-io/filegate/internal/shared/config"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// Scheme selects the salt and cookie name, mirroring the host's cookie
// contexts.
type Scheme string

const (
	SchemeAuth       Scheme = "auth"
	SchemeSecureAuth Scheme = "secure_auth"
	SchemeLoggedIn   Scheme = "logged_in"
)

type CookieAuthenticator struct {
	accounts identity.AccountRepository
	cfg      config.HostConfig
	logger   logger.Interface
}

func NewCookieAuthenticator(
	accounts identity.AccountRepository,
	cfg config.HostConfig,
	logger logger.Interface,
) *CookieAuthenticator {
	return &CookieAuthenticator{accounts: accounts, cfg: cfg, logger: logger}
}

// CookieName returns the host cookie carrying the given scheme's payload.
func (a *CookieAuthenticator) CookieName(scheme Scheme) string {
	switch scheme {
	case SchemeAuth:
		return a.cfg.AuthCookie
	case SchemeSecureAuth:
		return a.cfg.SecureAuthCookie
	}
	return a.cfg.LoggedInCookie
}

// Authenticate validates a raw cookie value and returns the principal. Every
// failure path returns the anonymous principal, never an error: callers fall
// through to bot and token checks.
func (a *CookieAuthenticator) Authenticate(ctx context.Context, rawCookie string, scheme Scheme) identity.Principal {
	parts := strings.Split(rawCookie, "|")
	if len(parts) != 4 {
		return identity.Anonymous()
	}
	login, expStr, sessionToken, signature := parts[0], parts[1], parts[2], parts[3]
	if login == "" || sessionToken == "" || signature == "" {
		return identity.Anonymous()
	}

	expiration, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return identity.Anonymous()
	}
	now := biztime.NowUTC().Unix()
	if expiration < now {
		return identity.Anonymous()
	}

	account, err := a.accounts.GetByLogin(ctx, login)
	if err != nil {
		a.logger.Warnw("account lookup failed during cookie auth", "error", err)
		return identity.Anonymous()
	}
	if account == nil {
		return identity.Anonymous()
	}

	expected := a.expectedSignature(account, login, expStr, sessionToken, scheme)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return identity.Anonymous()
	}

	if !a.sessionValid(ctx, account.ID, sessionToken, now) {
		return identity.Anonymous()
	}

	return identity.Principal{
		ID:    account.ID,
		Roles: a.resolveRoles(ctx, account.ID),
	}
}

// expectedSignature derives the signing key from the credential-hash
// fragment, then signs the cookie payload with it. Both steps must match
// the host's algorithm exactly: HMAC-MD5 to derive the key, HMAC-SHA256
// over login|expiration|token with the hex key.
func (a *CookieAuthenticator) expectedSignature(account *identity.Account, login, expStr, sessionToken string, scheme Scheme) string {
	frag := passFragment(account.PassHash)
	keyInput := login + "|" + frag + "|" + expStr + "|" + sessionToken
	key := hmacHex(md5.New, []byte(a.saltFor(scheme)), keyInput)

	payload := login + "|" + expStr + "|" + sessionToken
	return hmacHex(sha256.New, []byte(key), payload)
}

// sessionValid checks the account's session registry: the entry keyed by
// the hashed token verifier must exist and be unexpired.
func (a *CookieAuthenticator) sessionValid(ctx context.Context, accountID uint, sessionToken string, now int64) bool {
	registry, err := a.accounts.GetSessionRegistry(ctx, accountID)
	if err != nil {
		a.logger.Warnw("session registry lookup failed", "error", err, "account_id", accountID)
		return false
	}

	sum := sha256.Sum256([]byte(sessionToken))
	verifier := hex.EncodeToString(sum[:])

	entry, ok := registry[verifier]
	if !ok {
		return false
	}
	return entry.Expiration >= now
}

func (a *CookieAuthenticator) resolveRoles(ctx context.Context, accountID uint) []string {
	caps, err := a.accounts.GetCapabilities(ctx, accountID)
	if err != nil {
		a.logger.Warnw("capability lookup failed", "error", err, "account_id", accountID)
		return nil
	}

	roles := make([]string, 0, len(caps))
	for name, granted := range caps {
		if granted {
			roles = append(roles, name)
		}
	}
	return roles
}

func (a *CookieAuthenticator) saltFor(scheme Scheme) string {
	switch scheme {
	case SchemeAuth:
		return a.cfg.AuthSalt
	case SchemeSecureAuth:
		return a.cfg.SecureAuthSalt
	}
	return a.cfg.LoggedInSalt
}

// passFragment extracts the short credential-hash fragment mixed into the
// signing key: characters 8-12 for prefixed hash formats, the last four
// characters otherwise.
func passFragment(passHash string) string {
	if strings.HasPrefix(passHash, "$P$") || strings.HasPrefix(passHash, "$2y$") {
		if len(passHash) >= 12 {
			return passHash[8:12]
		}
		return passHash
	}
	if len(passHash) >= 4 {
		return passHash[len(passHash)-4:]
	}
	return passHash
}

func hmacHex(algo func() hash.Hash, key []byte, data string) string {
	mac := hmac.New(algo, key)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
