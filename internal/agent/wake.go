package agent

import (
	"math"
	"math/rand"
	"time"
)

// SessionScale maps the elapsed fraction of the trading session to a wake
// delay multiplier. The hook exists for time-of-day arrival shaping; the
// strategies in use apply the identity.
type SessionScale func(elapsed float64) float64

func IdentityScale(float64) float64 { return 1 }

// WakePolicy computes the delay until the agent's next activation. elapsed
// is the fraction of the session already behind us, clamped to [0, 1].
type WakePolicy interface {
	NextDelay(rng *rand.Rand, elapsed float64) time.Duration
}

// Staged wake delays: one bootstrap tick, one short warmup gap, then a long
// steady-state period. Purely deterministic and independent of the agent's
// random stream.
const (
	BootstrapDelay = 10 * time.Nanosecond
	WarmupDelay    = 300 * time.Second
	SteadyDelay    = 30000 * time.Second
)

// StagedWake is the ladder strategy's schedule. The call ordinal
// distinguishes first call, second call and steady state.
type StagedWake struct {
	calls int
}

func NewStagedWake() *StagedWake { return &StagedWake{} }

func (s *StagedWake) NextDelay(_ *rand.Rand, _ float64) time.Duration {
	s.calls++
	switch s.calls {
	case 1:
		return BootstrapDelay
	case 2:
		return WarmupDelay
	default:
		return SteadyDelay
	}
}

// PoissonWake draws each delay from an exponential distribution with the
// configured arrival rate (mean delay 1/rate nanoseconds), using the agent's
// private stream. Scale defaults to the identity.
type PoissonWake struct {
	Rate  float64 // mean arrivals per nanosecond of simulated time
	Scale SessionScale
}

func (p PoissonWake) NextDelay(rng *rand.Rand, elapsed float64) time.Duration {
	delay := rng.ExpFloat64() / p.Rate
	scale := p.Scale
	if scale == nil {
		scale = IdentityScale
	}
	delay *= scale(elapsed)
	d := time.Duration(math.Round(delay))
	if d < time.Nanosecond {
		d = time.Nanosecond
	}
	return d
}
