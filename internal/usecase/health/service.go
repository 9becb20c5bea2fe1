package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a non-critical component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates a critical component is failing.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultProbeTimeout bounds each probe.
const DefaultProbeTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Ready reports whether every critical probe passed.
func (r Report) Ready() bool { return r.Status != Unhealthy }

// Service coordinates health checks.
type Service struct {
	probes  []Probe
	timeout time.Duration
}

// New creates a Service.
func New(timeout time.Duration, probes ...Probe) *Service {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Service{probes: probes, timeout: timeout}
}

// Check runs all probes concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(s.probes))
		status = Healthy
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			res := CheckOK
			if err := p.Check(pctx); err != nil {
				res = CheckError
			}

			mu.Lock()
			defer mu.Unlock()
			checks[p.Name] = res
			if res == CheckError {
				if p.Critical {
					status = Unhealthy
				} else if status == Healthy {
					status = Degraded
				}
			}
			// failures are reported, never returned
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: status, Checks: checks}
}
