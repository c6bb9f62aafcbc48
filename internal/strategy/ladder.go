package strategy

import (
	"math"

	"mktsim/internal/domain"
)

// Ladder lifecycle. Modeling the phases as one enum makes the
// "filling and cancelling at once" combination unrepresentable.
type ladderPhase int8

const (
	ladderFilling ladderPhase = iota
	ladderCancelling
	ladderDone
)

// Ladder seeds the book with a full symmetric ladder of limit orders around
// the valuation estimate, then withdraws them on its next activation and
// stays idle for the rest of the session.
type Ladder struct {
	phase ladderPhase
}

func NewLadder() *Ladder {
	return &Ladder{phase: ladderFilling}
}

func (l *Ladder) Name() string { return "ladder" }

func (l *Ladder) OnWake() WakeAction {
	switch l.phase {
	case ladderFilling:
		return ActTrade
	case ladderCancelling:
		l.phase = ladderDone
		return ActCancelAll
	case ladderDone:
		return ActIdle
	default:
		return ActHalt
	}
}

// Decide emits 99 paired buy/sell limit orders at offsets 1..99 around
// ⌊estimate⌋, sized min(i+1, 5). No order is ever placed at the estimate
// itself. Once the ladder is out, the next activation cancels it.
func (l *Ladder) Decide(estimate float64, _ domain.Snapshot) []domain.OrderIntent {
	if l.phase != ladderFilling {
		return nil
	}
	p := int64(math.Floor(estimate))
	intents := make([]domain.OrderIntent, 0, 198)
	for i := 1; i < 100; i++ {
		qty := i + 1
		if qty > 5 {
			qty = 5
		}
		intents = append(intents,
			domain.OrderIntent{Side: domain.Buy, Qty: qty, Limit: p - int64(i)},
			domain.OrderIntent{Side: domain.Sell, Qty: qty, Limit: p + int64(i)},
		)
	}
	l.phase = ladderCancelling
	return intents
}
