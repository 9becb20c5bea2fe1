package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/protoguide/protoguide/internal/domain/history"
	"github.com/protoguide/protoguide/internal/logger"
	"github.com/protoguide/protoguide/internal/metrics"
)

// Defaults for background writes and listing.
const (
	DefaultWriteTimeout = 5 * time.Second
	DefaultListLimit    = 50
)

// Service writes history entries in the background and lists them back.
type Service struct {
	repo         Repository
	writeTimeout time.Duration
	wg           sync.WaitGroup
}

// New creates a history service. writeTimeout <= 0 uses DefaultWriteTimeout.
func New(repo Repository, writeTimeout time.Duration) *Service {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Service{repo: repo, writeTimeout: writeTimeout}
}

// Record stores e in a goroutine detached from the request's cancellation.
// Failures are logged and counted only.
func (s *Service) Record(ctx context.Context, e history.Entry) {
	log := logger.FromContext(ctx)
	bg := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		writeCtx, cancel := context.WithTimeout(bg, s.writeTimeout)
		defer cancel()

		if _, err := s.repo.Create(writeCtx, e); err != nil {
			metrics.HistoryWriteErrorsTotal.Inc()
			log.Warn("History write failed",
				zap.Int64("identity_id", e.IdentityID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight writes finish or ctx ends. Used on shutdown.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for history writes: %w", ctx.Err())
	}
}

// List returns the newest entries of an identity.
func (s *Service) List(ctx context.Context, identityID int64) ([]history.Item, error) {
	items, err := s.repo.ListForIdentity(ctx, identityID, DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}
