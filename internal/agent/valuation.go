package agent

import (
	"math"
	"math/rand"
	"sort"
	"time"
)

// Oracle is the fundamental-value process the agent observes. Observation
// noise is drawn from the stream the caller passes in, never from an oracle
// stream, so an agent's observation sequence depends only on its own seed.
type Oracle interface {
	ObserveDiscrete(symbol string, t time.Time, width int, noiseVar float64, rng *rand.Rand) int64
	Observe(symbol string, t time.Time, noiseVar float64, rng *rand.Rand) float64
}

// Beliefs carries the agent's valuation prior and its private-value ladder.
// The prior mean/variance are carried for interface compatibility but are
// never filtered against new observations; the strategies consume the raw
// observation directly.
type Beliefs struct {
	PriorMean float64
	PriorVar  float64

	// Theta is the private-value ladder: 3×maxHoldings zero-mean normal
	// draws, sorted descending, fixed at construction. It backs surplus
	// accounting and is not consumed by the decision engines.
	Theta []int64
}

func NewBeliefs(rBar, sigmaPV float64, qMax int, rng *rand.Rand) Beliefs {
	theta := make([]int64, 3*qMax)
	sd := math.Sqrt(sigmaPV)
	for i := range theta {
		theta[i] = int64(math.Round(rng.NormFloat64() * sd))
	}
	sort.Slice(theta, func(i, j int) bool { return theta[i] > theta[j] })
	return Beliefs{PriorMean: rBar, Theta: theta}
}

// Estimator turns one oracle query into the cycle's valuation estimate: a
// discretized, noise-perturbed sample at the current time with zero extra
// discretization width, returned as-is.
type Estimator struct {
	oracle   Oracle
	symbol   string
	noiseVar float64
}

func NewEstimator(oracle Oracle, symbol string, noiseVar float64) Estimator {
	return Estimator{oracle: oracle, symbol: symbol, noiseVar: noiseVar}
}

func (e Estimator) Estimate(t time.Time, rng *rand.Rand) float64 {
	return float64(e.oracle.ObserveDiscrete(e.symbol, t, 0, e.noiseVar, rng))
}
