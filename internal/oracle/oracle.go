// Package oracle provides the fundamental-value process agents observe. The
// fundamental follows a mean-reverting (Ornstein-Uhlenbeck) path advanced
// lazily with the exact discretization between observation times, driven by
// the oracle's own seeded stream. Observation noise is always drawn from the
// caller's private stream so each agent's observation sequence depends only
// on its own seed and the times it asks at.
package oracle

import (
	"math"
	"math/rand"
	"time"
)

type Config struct {
	Symbol string
	RBar   float64 // long-run fundamental mean
	Kappa  float64 // mean-reversion rate, per second
	SigmaS float64 // shock variance, per second
	Seed   int64
}

type MeanReverting struct {
	cfg Config
	rng *rand.Rand
	r   float64
	at  time.Time
}

func NewMeanReverting(cfg Config, start time.Time) *MeanReverting {
	return &MeanReverting{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		r:   cfg.RBar,
		at:  start,
	}
}

// fundamental advances the path to t and returns r(t). The exact OU step
// keeps the distribution correct for arbitrary gaps between observations.
func (o *MeanReverting) fundamental(t time.Time) float64 {
	if t.After(o.at) {
		dt := t.Sub(o.at).Seconds()
		decay := math.Exp(-o.cfg.Kappa * dt)
		mean := o.cfg.RBar + (o.r-o.cfg.RBar)*decay
		variance := o.cfg.SigmaS * dt
		if o.cfg.Kappa > 0 {
			variance = o.cfg.SigmaS * (1 - decay*decay) / (2 * o.cfg.Kappa)
		}
		o.r = mean + o.rng.NormFloat64()*math.Sqrt(variance)
		if o.r < 0 {
			o.r = 0
		}
		o.at = t
	}
	return o.r
}

// ObserveDiscrete returns an integer noise-perturbed sample of the
// fundamental at t. A positive width buckets the result to multiples of
// width; width 0 rounds to the nearest unit.
func (o *MeanReverting) ObserveDiscrete(symbol string, t time.Time, width int, noiseVar float64, rng *rand.Rand) int64 {
	obs := o.Observe(symbol, t, noiseVar, rng)
	if width > 0 {
		w := float64(width)
		return int64(math.Round(obs/w) * w)
	}
	return int64(math.Round(obs))
}

// Observe returns a raw noise-perturbed sample. With noiseVar 0 it reads the
// true fundamental, which the agents use once at shutdown for reporting.
func (o *MeanReverting) Observe(symbol string, t time.Time, noiseVar float64, rng *rand.Rand) float64 {
	obs := o.fundamental(t)
	if noiseVar > 0 && rng != nil {
		obs += rng.NormFloat64() * math.Sqrt(noiseVar)
	}
	return obs
}
