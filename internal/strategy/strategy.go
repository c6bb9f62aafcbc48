// Package strategy holds the decision engines that turn one valuation
// estimate plus the current book snapshot into order intents, and the
// per-strategy cancellation policies applied at the top of a wake cycle.
package strategy

import "mktsim/internal/domain"

// WakeAction is the cancellation policy's verdict for one activation.
type WakeAction int

const (
	// ActTrade proceeds to the spread request and the decision engine.
	ActTrade WakeAction = iota
	// ActCancelAll withdraws every outstanding order, then idles.
	ActCancelAll
	// ActIdle takes no action this cycle.
	ActIdle
	// ActHalt parks the agent permanently; reserved for inconsistent
	// lifecycle state that should never arise.
	ActHalt
)

// Strategy maps an estimate and a spread snapshot to zero or more intents.
// The snapshot is only valid for this call and must not be retained.
type Strategy interface {
	Name() string
	Decide(estimate float64, snap domain.Snapshot) []domain.OrderIntent
}

// CancelPolicy decides, before any spread request is issued, whether the
// cycle trades, cancels, idles or halts.
type CancelPolicy interface {
	OnWake() WakeAction
}

// NoCancel never withdraws standing orders; they accumulate across cycles.
// The directional and momentum strategies use it.
type NoCancel struct{}

func (NoCancel) OnWake() WakeAction { return ActTrade }
