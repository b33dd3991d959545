// Package testutil provides in-memory fakes for token use case tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/domain/setting"
	"github.com/filegate-io/filegate/internal/domain/token"
	apperrors "github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// MockTokenRepository is a map-backed token.Repository. Consume holds the
// mutex for the whole conditional update, matching the atomicity the real
// repository gets from a single SQL statement.
type MockTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*token.AccessToken
	nextID uint
}

func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{tokens: make(map[string]*token.AccessToken), nextID: 1}
}

func (r *MockTokenRepository) Create(_ context.Context, t *token.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tokens[t.Value()]; exists {
		return apperrors.NewConflictError("token value already exists")
	}
	t.SetID(r.nextID)
	r.nextID++
	r.tokens[t.Value()] = t
	return nil
}

func (r *MockTokenRepository) GetByValue(_ context.Context, value string) (*token.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok {
		return nil, nil
	}
	return cloneToken(t), nil
}

func (r *MockTokenRepository) ListByResource(_ context.Context, resourceID uint) ([]*token.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*token.AccessToken
	for _, t := range r.tokens {
		if t.ResourceID() == resourceID {
			out = append(out, cloneToken(t))
		}
	}
	return out, nil
}

func (r *MockTokenRepository) UpdateStatus(_ context.Context, value string, status token.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok {
		return apperrors.NewNotFoundError("token not found")
	}
	r.tokens[value] = rebuild(t, t.ExpiresAt(), t.UseCount(), t.MaxUses(), t.LastUsedAt(), status)
	return nil
}

func (r *MockTokenRepository) UpdateStatusAndExpiry(_ context.Context, value string, status token.Status, expiresAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok {
		return apperrors.NewNotFoundError("token not found")
	}
	r.tokens[value] = rebuild(t, expiresAt, t.UseCount(), t.MaxUses(), t.LastUsedAt(), status)
	return nil
}

func (r *MockTokenRepository) UpdateMaxUses(_ context.Context, value string, maxUses uint, status token.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok {
		return apperrors.NewNotFoundError("token not found")
	}
	r.tokens[value] = rebuild(t, t.ExpiresAt(), t.UseCount(), maxUses, t.LastUsedAt(), status)
	return nil
}

func (r *MockTokenRepository) Consume(_ context.Context, value string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok || t.Status() != token.StatusActive {
		return false, nil
	}
	if t.MaxUses() > 0 && t.UseCount() >= t.MaxUses() {
		return false, nil
	}
	newCount := t.UseCount() + 1
	status := t.Status()
	if t.MaxUses() > 0 && newCount >= t.MaxUses() {
		status = token.StatusUsed
	}
	r.tokens[value] = rebuild(t, t.ExpiresAt(), newCount, t.MaxUses(), &now, status)
	return true, nil
}

func (r *MockTokenRepository) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for v, t := range r.tokens {
		if t.Status() == token.StatusActive && t.ExpiresAt() != nil && now.After(*t.ExpiresAt()) {
			r.tokens[v] = rebuild(t, t.ExpiresAt(), t.UseCount(), t.MaxUses(), t.LastUsedAt(), token.StatusExpired)
			n++
		}
	}
	return n, nil
}

func (r *MockTokenRepository) DeleteInactiveOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for v, t := range r.tokens {
		if t.Status() != token.StatusActive && t.CreatedAt().Before(cutoff) {
			delete(r.tokens, v)
			n++
		}
	}
	return n, nil
}

func (r *MockTokenRepository) Delete(_ context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[value]; !ok {
		return apperrors.NewNotFoundError("token not found")
	}
	delete(r.tokens, value)
	return nil
}

// Add seeds a token directly, bypassing Create's conflict check.
func (r *MockTokenRepository) Add(t *token.AccessToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID() == 0 {
		t.SetID(r.nextID)
		r.nextID++
	}
	r.tokens[t.Value()] = t
}

func cloneToken(t *token.AccessToken) *token.AccessToken {
	return rebuild(t, t.ExpiresAt(), t.UseCount(), t.MaxUses(), t.LastUsedAt(), t.Status())
}

func rebuild(t *token.AccessToken, expiresAt *time.Time, useCount, maxUses uint, lastUsedAt *time.Time, status token.Status) *token.AccessToken {
	out, _ := token.ReconstructAccessToken(
		t.ID(), t.Value(), t.ResourceID(), t.OwnerID(), t.OwnerEmail(), t.OwnerIP(),
		t.CreatedAt(), expiresAt, useCount, maxUses, lastUsedAt, status,
	)
	return out
}

// MockResourceRepository is a map-backed resource.Repository.
type MockResourceRepository struct {
	mu     sync.Mutex
	byID   map[uint]*resource.Resource
	byPath map[string]*resource.Resource
}

func NewMockResourceRepository() *MockResourceRepository {
	return &MockResourceRepository{
		byID:   make(map[uint]*resource.Resource),
		byPath: make(map[string]*resource.Resource),
	}
}

func (r *MockResourceRepository) Add(res *resource.Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[res.ID()] = res
	r.byPath[res.Path()] = res
}

func (r *MockResourceRepository) GetByID(_ context.Context, id uint) (*resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *MockResourceRepository) GetByPath(_ context.Context, path string) (*resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPath[path], nil
}

// MockSettingProvider returns a fixed settings snapshot.
type MockSettingProvider struct {
	Settings *setting.Settings
}

func NewMockSettingProvider(s *setting.Settings) *MockSettingProvider {
	if s == nil {
		s = setting.Defaults()
	}
	return &MockSettingProvider{Settings: s}
}

func (p *MockSettingProvider) Get(_ context.Context) (*setting.Settings, error) {
	return p.Settings, nil
}

// NewMockLogger returns a logger that discards all output.
func NewMockLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
}
