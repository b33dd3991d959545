package hostauth

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/filegate-io/filegate/internal/domain/identity"
	"github.com/filegate-io/filegate/internal/shared/config"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type fakeAccountRepo struct {
	account  *identity.Account
	registry map[string]identity.SessionEntry
	caps     map[string]bool
}

func (r *fakeAccountRepo) GetByLogin(_ context.Context, login string) (*identity.Account, error) {
	if r.account != nil && r.account.Login == login {
		return r.account, nil
	}
	return nil, nil
}

func (r *fakeAccountRepo) GetSessionRegistry(_ context.Context, _ uint) (map[string]identity.SessionEntry, error) {
	return r.registry, nil
}

func (r *fakeAccountRepo) GetCapabilities(_ context.Context, _ uint) (map[string]bool, error) {
	return r.caps, nil
}

var testHostCfg = config.HostConfig{
	AuthSalt:       "auth-salt",
	SecureAuthSalt: "secure-auth-salt",
	LoggedInSalt:   "logged-in-salt",
	LoggedInCookie: "host_logged_in",
}

// signCookie reproduces the host's signing algorithm so the test exercises
// the authenticator against a known-good cookie.
func signCookie(login, passHash string, expiration int64, sessionToken, salt string) string {
	frag := passFragment(passHash)
	expStr := strconv.FormatInt(expiration, 10)

	key := hmacHex(md5.New, []byte(salt), login+"|"+frag+"|"+expStr+"|"+sessionToken)
	sig := hmacHex(sha256.New, []byte(key), login+"|"+expStr+"|"+sessionToken)

	return fmt.Sprintf("%s|%s|%s|%s", login, expStr, sessionToken, sig)
}

func verifierOf(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}

func newTestAuthenticator(repo *fakeAccountRepo) *CookieAuthenticator {
	log := logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
	return NewCookieAuthenticator(repo, testHostCfg, log)
}

func TestAuthenticate_ValidCookie(t *testing.T) {
	const (
		login        = "alice"
		passHash     = "$P$B9qRlAbcdefghijklmnopqrstuvwxy1"
		sessionToken = "sess-token-1"
	)
	expiration := time.Now().Add(time.Hour).Unix()

	repo := &fakeAccountRepo{
		account: &identity.Account{ID: 42, Login: login, PassHash: passHash},
		registry: map[string]identity.SessionEntry{
			verifierOf(sessionToken): {Expiration: expiration},
		},
		caps: map[string]bool{"administrator": true, "revoked_role": false},
	}

	auth := newTestAuthenticator(repo)
	cookie := signCookie(login, passHash, expiration, sessionToken, testHostCfg.LoggedInSalt)

	p := auth.Authenticate(context.Background(), cookie, SchemeLoggedIn)
	assert.Equal(t, uint(42), p.ID)
	assert.Equal(t, []string{"administrator"}, p.Roles)
}

func TestAuthenticate_Failures(t *testing.T) {
	const (
		login        = "alice"
		passHash     = "$P$B9qRlAbcdefghijklmnopqrstuvwxy1"
		sessionToken = "sess-token-1"
	)
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()

	goodRepo := func() *fakeAccountRepo {
		return &fakeAccountRepo{
			account: &identity.Account{ID: 42, Login: login, PassHash: passHash},
			registry: map[string]identity.SessionEntry{
				verifierOf(sessionToken): {Expiration: future},
			},
			caps: map[string]bool{"administrator": true},
		}
	}

	tests := []struct {
		name   string
		repo   *fakeAccountRepo
		cookie string
	}{
		{
			name:   "wrong field count",
			repo:   goodRepo(),
			cookie: "alice|12345|token",
		},
		{
			name:   "expired cookie",
			repo:   goodRepo(),
			cookie: signCookie(login, passHash, past, sessionToken, testHostCfg.LoggedInSalt),
		},
		{
			name:   "unknown account",
			repo:   &fakeAccountRepo{},
			cookie: signCookie(login, passHash, future, sessionToken, testHostCfg.LoggedInSalt),
		},
		{
			name:   "wrong salt invalidates signature",
			repo:   goodRepo(),
			cookie: signCookie(login, passHash, future, sessionToken, "not-the-salt"),
		},
		{
			name:   "tampered login",
			repo:   goodRepo(),
			cookie: "mallory" + signCookie(login, passHash, future, sessionToken, testHostCfg.LoggedInSalt)[5:],
		},
		{
			name: "session missing from registry",
			repo: &fakeAccountRepo{
				account:  &identity.Account{ID: 42, Login: login, PassHash: passHash},
				registry: map[string]identity.SessionEntry{},
			},
			cookie: signCookie(login, passHash, future, sessionToken, testHostCfg.LoggedInSalt),
		},
		{
			name: "session entry expired",
			repo: &fakeAccountRepo{
				account: &identity.Account{ID: 42, Login: login, PassHash: passHash},
				registry: map[string]identity.SessionEntry{
					verifierOf(sessionToken): {Expiration: past},
				},
			},
			cookie: signCookie(login, passHash, future, sessionToken, testHostCfg.LoggedInSalt),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := newTestAuthenticator(tt.repo)
			p := auth.Authenticate(context.Background(), tt.cookie, SchemeLoggedIn)
			assert.True(t, p.IsAnonymous())
		})
	}
}

func TestPassFragment(t *testing.T) {
	tests := []struct {
		hash string
		want string
	}{
		{"$P$B9qRlAbcdefgh", "Abcd"},
		{"$2y$10$abcdefghij", "bcde"},
		{"5f4dcc3b5aa765d61d8327deb882cf99", "cf99"},
		{"ab", "ab"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, passFragment(tt.hash), "hash %q", tt.hash)
	}
}

func TestCookieName(t *testing.T) {
	auth := newTestAuthenticator(&fakeAccountRepo{})
	assert.Equal(t, "host_logged_in", auth.CookieName(SchemeLoggedIn))
}
