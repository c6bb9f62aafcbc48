// Package sizing holds the two order-sizing disciplines as pure functions so
// strategies can swap between them without touching decision logic.
package sizing

import (
	"math"
	"math/rand"
)

// DepthQty sizes an order as a concave power of the opposing side's resting
// volume: round(depth^0.35). The exponent dampens size against deep books.
// The literal formula yields 0 on thin or empty books, so the result is
// floored to 1 — a zero-quantity order must never be submitted.
func DepthQty(depth int) int {
	if depth <= 0 {
		return 1
	}
	qty := int(math.Round(math.Pow(float64(depth), 0.35)))
	if qty < 1 {
		qty = 1
	}
	return qty
}

// SampleQty draws an order size from a power-law distribution with shape 3.5
// via inverse-CDF sampling on the caller's private stream: candidate =
// ceil(70/X). With probability 0.8 the candidate is used as-is; otherwise it
// is rounded to the nearest multiple of 10, bumping candidates below 5 by 5
// first so the rounding cannot produce 0.
func SampleQty(rng *rand.Rand) int {
	// 1-Float64() lies in (0, 1], keeping the draw away from zero.
	x := math.Pow(1-rng.Float64(), 1/3.5)
	candidate := math.Ceil(70 / x)

	if rng.Float64() < 0.8 {
		return int(candidate)
	}
	if candidate < 5 {
		candidate += 5
	}
	return int(math.Round(candidate/10) * 10)
}
