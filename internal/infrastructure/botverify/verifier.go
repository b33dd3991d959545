// Package botverify implements crawler verification: a cheap user-agent
// signature match followed by a double DNS check (reverse, then forward)
// that defeats spoofed reverse records.
package botverify

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// Resolver is satisfied by *net.Resolver.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// DNSCache stores resolutions keyed by IP (reverse) and hostname (forward).
// A found result with an empty value is a cached lookup failure.
type DNSCache interface {
	GetReverse(ctx context.Context, ip string) (host string, found bool)
	SetReverse(ctx context.Context, ip, host string, ttl time.Duration)
	SetReverseMiss(ctx context.Context, ip string, ttl time.Duration)
	GetForward(ctx context.Context, hostname string) (ips []string, found bool)
	SetForward(ctx context.Context, hostname string, ips []string, ttl time.Duration)
	SetForwardMiss(ctx context.Context, hostname string, ttl time.Duration)
}

type Verifier struct {
	resolver Resolver
	cache    DNSCache
	settings setting.Provider
	timeout  time.Duration
	logger   logger.Interface
}

func NewVerifier(
	resolver Resolver,
	cache DNSCache,
	settings setting.Provider,
	timeout time.Duration,
	logger logger.Interface,
) *Verifier {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = 300 * time.Millisecond
	}
	return &Verifier{
		resolver: resolver,
		cache:    cache,
		settings: settings,
		timeout:  timeout,
		logger:   logger,
	}
}

// IsVerifiedBot runs all four stages; every failure, including a resolver
// timeout, means "not a bot". The signature match short-circuits so normal
// traffic never touches DNS.
func (v *Verifier) IsVerifiedBot(ctx context.Context, userAgent, ip string) bool {
	cfg, err := v.settings.Get(ctx)
	if err != nil {
		v.logger.Warnw("bot check skipped, settings unavailable", "error", err)
		return false
	}

	if !matchesSignature(userAgent, cfg.BotSignatures) {
		return false
	}
	if ip == "" {
		return false
	}

	negTTL := cfg.DNSCacheTTL / 4

	hostname, ok := v.reverseLookup(ctx, ip, cfg.DNSCacheTTL, negTTL)
	if !ok || hostname == ip {
		return false
	}

	if !matchesVerifiedSuffix(hostname, cfg.VerifiedBotDomains) {
		return false
	}

	ips, ok := v.forwardLookup(ctx, hostname, cfg.DNSCacheTTL, negTTL)
	if !ok {
		return false
	}
	for _, resolved := range ips {
		if resolved == ip {
			return true
		}
	}

	v.logger.Debugw("forward resolution does not include claimed IP",
		"hostname", hostname,
		"ip", ip,
	)
	return false
}

func (v *Verifier) reverseLookup(ctx context.Context, ip string, ttl, negTTL time.Duration) (string, bool) {
	if host, found := v.cache.GetReverse(ctx, ip); found {
		return host, host != ""
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	names, err := v.resolver.LookupAddr(lookupCtx, ip)
	if err != nil || len(names) == 0 {
		v.cache.SetReverseMiss(ctx, ip, negTTL)
		return "", false
	}

	host := strings.TrimSuffix(names[0], ".")
	v.cache.SetReverse(ctx, ip, host, ttl)
	return host, true
}

func (v *Verifier) forwardLookup(ctx context.Context, hostname string, ttl, negTTL time.Duration) ([]string, bool) {
	if ips, found := v.cache.GetForward(ctx, hostname); found {
		return ips, len(ips) > 0
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	ips, err := v.resolver.LookupHost(lookupCtx, hostname)
	if err != nil || len(ips) == 0 {
		v.cache.SetForwardMiss(ctx, hostname, negTTL)
		return nil, false
	}

	v.cache.SetForward(ctx, hostname, ips, ttl)
	return ips, true
}

// matchesSignature does a lowercase substring match; blank signatures are
// ignored so a sloppy settings row cannot turn every client into a bot.
func matchesSignature(userAgent string, signatures []string) bool {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return false
	}
	for _, sig := range signatures {
		sig = strings.ToLower(strings.TrimSpace(sig))
		if sig == "" {
			continue
		}
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

// matchesVerifiedSuffix requires a case-insensitive suffix match, not a
// substring match: "fakegooglebot.com.evil.net" must not pass.
func matchesVerifiedSuffix(hostname string, suffixes []string) bool {
	host := strings.ToLower(hostname)
	for _, suffix := range suffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
