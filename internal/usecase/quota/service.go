package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/identity"
	"github.com/protoguide/protoguide/internal/metrics"
)

// Limits are the per-day ceilings. Zero values fall back to the tier defaults.
type Limits struct {
	Free int
	Paid int
}

// Guard decides whether an identity may run a search today and records
// counted calls.
type Guard struct {
	store  Store
	limits Limits
	now    func() time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock overrides the time source used for day stamps.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// WithLimits overrides the tier ceilings.
func WithLimits(l Limits) Option {
	return func(g *Guard) { g.limits = l }
}

// New creates a quota guard.
func New(store Store, opts ...Option) *Guard {
	g := &Guard{store: store, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.limits.Free <= 0 {
		g.limits.Free = identity.FreeDailyLimit
	}
	if g.limits.Paid <= 0 {
		g.limits.Paid = identity.PaidDailyLimit
	}
	return g
}

// Today returns the current UTC day stamp.
func (g *Guard) Today() identity.Day {
	return identity.DayOf(g.now())
}

// Limit returns the daily ceiling for the identity's tier.
func (g *Guard) Limit(id identity.Identity) int {
	if id.Tier.Paid() {
		return g.limits.Paid
	}
	return g.limits.Free
}

// Remaining returns the calls left today, never negative.
func (g *Guard) Remaining(id identity.Identity) int {
	r := g.Limit(id) - id.Quota.CountFor(g.Today())
	if r < 0 {
		return 0
	}
	return r
}

// Check rejects with domain.ErrQuotaExceeded when today's count has reached
// the ceiling. It never mutates the counter.
func (g *Guard) Check(id identity.Identity) error {
	used := id.Quota.CountFor(g.Today())
	limit := g.Limit(id)
	if used >= limit {
		metrics.QuotaDecisionsTotal.WithLabelValues(tierLabel(id.Tier), "rejected").Inc()
		return fmt.Errorf("%w: %d of %d used", domain.ErrQuotaExceeded, used, limit)
	}
	metrics.QuotaDecisionsTotal.WithLabelValues(tierLabel(id.Tier), "allowed").Inc()
	return nil
}

// Record counts one successful call and returns the new count.
func (g *Guard) Record(ctx context.Context, id identity.Identity) (int, error) {
	n, err := g.store.Increment(ctx, id.ID, g.Today())
	if err != nil {
		return 0, fmt.Errorf("record quota: %w", err)
	}
	return n, nil
}

// Snapshot loads the persisted counter of an identity.
func (g *Guard) Snapshot(ctx context.Context, identityID int64) (identity.QuotaState, error) {
	st, err := g.store.Load(ctx, identityID)
	if err != nil {
		return identity.QuotaState{}, fmt.Errorf("load quota: %w", err)
	}
	return st, nil
}

func tierLabel(t identity.Tier) string {
	if t.Paid() {
		return string(t)
	}
	return string(identity.TierFree)
}
