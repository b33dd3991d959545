package scheduler

import (
	"context"
	"sync"
	"time"

	tokenUsecases "github.com/filegate-io/filegate/internal/application/token/usecases"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

// TokenCleanupScheduler periodically expires overdue tokens and, when
// enabled, deletes old non-active ones. Expiry is also applied lazily at
// validation time; the sweep keeps reports and listings consistent for
// tokens nobody tried to use.
type TokenCleanupScheduler struct {
	cleanupUC *tokenUsecases.CleanupTokensUseCase
	logger    logger.Interface
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	interval  time.Duration
}

// NewTokenCleanupScheduler creates a new TokenCleanupScheduler
func NewTokenCleanupScheduler(
	cleanupUC *tokenUsecases.CleanupTokensUseCase,
	logger logger.Interface,
) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{
		cleanupUC: cleanupUC,
		logger:    logger,
		stopChan:  make(chan struct{}),
		interval:  time.Hour,
	}
}

// Start starts the scheduler
func (s *TokenCleanupScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting token cleanup scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *TokenCleanupScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping token cleanup scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("token cleanup scheduler stopped")
	})
}

func (s *TokenCleanupScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear any backlog
	s.runCleanup(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("token cleanup scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *TokenCleanupScheduler) runCleanup(ctx context.Context) {
	startTime := time.Now()

	result, err := s.cleanupUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("token cleanup failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Expired > 0 || result.Deleted > 0 {
		s.logger.Infow("token cleanup finished",
			"expired", result.Expired,
			"deleted", result.Deleted,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("token cleanup found nothing to do",
			"duration", time.Since(startTime),
		)
	}
}
