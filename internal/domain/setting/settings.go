package setting

import "time"

// UnmanagedFilePolicy decides what happens to upload-tree files that have
// no resource record.
type UnmanagedFilePolicy string

const (
	UnmanagedServePublicly UnmanagedFilePolicy = "serve_publicly"
	UnmanagedDeny          UnmanagedFilePolicy = "deny"
)

// Settings is the gate's global configuration, stored as key/value rows and
// served through a short-TTL cache. Zero values fall back to the defaults
// below.
type Settings struct {
	DefaultRedirectURL  string
	UnmanagedFilePolicy UnmanagedFilePolicy

	AllowBots          bool
	BotSignatures      []string
	VerifiedBotDomains []string
	DNSCacheTTL        time.Duration

	DefaultTokenExpiry  time.Duration // 0 means tokens never expire
	DefaultTokenMaxUses uint          // 0 means unlimited

	CleanupDeleteOld       bool
	CleanupDeleteAgeMonths int

	GlobalUserAllowList []uint
	GlobalUserDenyList  []uint
	GlobalRoleAllowList []string
	GlobalRoleDenyList  []string
}

// DefaultBotSignatures matches the stock crawler user-agent fragments.
func DefaultBotSignatures() []string {
	return []string{"googlebot", "bingbot", "slurp", "duckduckbot", "baiduspider", "yandexbot", "applebot"}
}

// DefaultVerifiedBotDomains matches the stock verified rDNS suffixes.
func DefaultVerifiedBotDomains() []string {
	return []string{".googlebot.com", ".google.com", ".search.msn.com", ".crawl.yahoo.net", ".baidu.com", ".yandex.com", ".applebot.apple.com"}
}

// Defaults returns the settings used when no rows exist yet.
func Defaults() *Settings {
	return &Settings{
		UnmanagedFilePolicy:    UnmanagedServePublicly,
		AllowBots:              true,
		BotSignatures:          DefaultBotSignatures(),
		VerifiedBotDomains:     DefaultVerifiedBotDomains(),
		DNSCacheTTL:            time.Hour,
		DefaultTokenExpiry:     24 * time.Hour,
		DefaultTokenMaxUses:    1,
		CleanupDeleteOld:       false,
		CleanupDeleteAgeMonths: 6,
		GlobalRoleAllowList:    []string{"administrator"},
	}
}
