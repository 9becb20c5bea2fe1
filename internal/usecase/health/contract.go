package health

import "context"

// Pinger checks a store's availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe is a named availability check. Critical probes gate readiness.
type Probe struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// FromPinger adapts a Pinger into a probe.
func FromPinger(name string, critical bool, p Pinger) Probe {
	return Probe{Name: name, Critical: critical, Check: p.Ping}
}
