package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/filegate-io/filegate/internal/shared/logger"
)

const (
	dnsReversePrefix = "botverify:rdns:"
	dnsForwardPrefix = "botverify:fdns:"

	// Stored for failed lookups so a flaky resolver is not hammered.
	dnsMissMarker = "!"
)

// RedisDNSCache caches DNS resolutions for the bot verifier. Failed lookups
// are cached too, under a shorter TTL, so an unresolvable crawler IP does
// not trigger a resolver round-trip on every request. Cache errors degrade
// to a miss; the verifier then resolves directly.
type RedisDNSCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisDNSCache(client *redis.Client, logger logger.Interface) *RedisDNSCache {
	return &RedisDNSCache{client: client, logger: logger}
}

// GetReverse returns the cached hostname for an IP. found=true with an
// empty host means a cached resolution failure.
func (c *RedisDNSCache) GetReverse(ctx context.Context, ip string) (host string, found bool) {
	return c.get(ctx, dnsReversePrefix+ip)
}

func (c *RedisDNSCache) SetReverse(ctx context.Context, ip, host string, ttl time.Duration) {
	c.set(ctx, dnsReversePrefix+ip, host, ttl)
}

func (c *RedisDNSCache) SetReverseMiss(ctx context.Context, ip string, ttl time.Duration) {
	c.set(ctx, dnsReversePrefix+ip, dnsMissMarker, ttl)
}

// GetForward returns the cached IP set for a hostname.
func (c *RedisDNSCache) GetForward(ctx context.Context, hostname string) (ips []string, found bool) {
	val, found := c.get(ctx, dnsForwardPrefix+hostname)
	if !found || val == "" {
		return nil, found
	}
	return strings.Split(val, ","), true
}

func (c *RedisDNSCache) SetForward(ctx context.Context, hostname string, ips []string, ttl time.Duration) {
	c.set(ctx, dnsForwardPrefix+hostname, strings.Join(ips, ","), ttl)
}

func (c *RedisDNSCache) SetForwardMiss(ctx context.Context, hostname string, ttl time.Duration) {
	c.set(ctx, dnsForwardPrefix+hostname, dnsMissMarker, ttl)
}

func (c *RedisDNSCache) get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("dns cache read failed", "error", err, "key", key)
		}
		return "", false
	}
	if val == dnsMissMarker {
		return "", true
	}
	return val, true
}

func (c *RedisDNSCache) set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warnw("dns cache write failed", "error", err, "key", key)
	}
}
