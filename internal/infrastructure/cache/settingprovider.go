package cache

import (
	"context"
	"sync"
	"time"

	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// CachedSettingProvider serves settings snapshots with a short TTL so the
// hot request path does not hit the settings table on every file. A stale
// snapshot is served when a refresh fails; settings are not worth failing a
// request over once we have any copy at all.
type CachedSettingProvider struct {
	repo   setting.Repository
	ttl    time.Duration
	logger logger.Interface

	mu        sync.RWMutex
	snapshot  *setting.Settings
	fetchedAt time.Time
}

func NewCachedSettingProvider(repo setting.Repository, ttl time.Duration, logger logger.Interface) *CachedSettingProvider {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedSettingProvider{repo: repo, ttl: ttl, logger: logger}
}

func (p *CachedSettingProvider) Get(ctx context.Context) (*setting.Settings, error) {
	p.mu.RLock()
	if p.snapshot != nil && time.Since(p.fetchedAt) < p.ttl {
		s := p.snapshot
		p.mu.RUnlock()
		return s, nil
	}
	p.mu.RUnlock()

	fresh, err := p.repo.Load(ctx)
	if err != nil {
		p.mu.RLock()
		stale := p.snapshot
		p.mu.RUnlock()
		if stale != nil {
			p.logger.Warnw("settings refresh failed, serving stale snapshot", "error", err)
			return stale, nil
		}
		return nil, err
	}

	p.mu.Lock()
	p.snapshot = fresh
	p.fetchedAt = time.Now()
	p.mu.Unlock()
	return fresh, nil
}

// Invalidate drops the snapshot so the next Get reloads from storage.
func (p *CachedSettingProvider) Invalidate() {
	p.mu.Lock()
	p.snapshot = nil
	p.mu.Unlock()
}
