package strategy

import (
	"math"

	"mktsim/internal/domain"
	"mktsim/internal/md"
	"mktsim/internal/sizing"
)

// MomentumCrossover compares a short and a long simple moving average of the
// mid-price, offset by a margin, and crosses the spread with a market order
// when the short average breaks out of the band. It trades only once the
// trailing window has filled past the long duration.
type MomentumCrossover struct {
	NoCancel

	short  int
	long   int
	margin float64
	window *md.Window
}

func NewMomentumCrossover(short, long int, margin float64) *MomentumCrossover {
	return &MomentumCrossover{
		short:  short,
		long:   long,
		margin: margin,
		window: md.NewWindow(long),
	}
}

func (s *MomentumCrossover) Name() string { return "momentum" }

func (s *MomentumCrossover) Decide(estimate float64, snap domain.Snapshot) []domain.OrderIntent {
	mid, ok := snap.Mid()
	if !ok {
		return nil
	}
	s.window.Push(mid)
	if !s.window.Ready() {
		return nil
	}

	values := s.window.Values()
	shortMA, err := md.MovingAverage(values, s.short)
	if err != nil {
		return nil
	}
	longMA, err := md.MovingAverage(values, s.long)
	if err != nil {
		return nil
	}
	// Averages compare at integer resolution, matching the integer price grid.
	shortMA = math.Round(shortMA)
	longMA = math.Round(longMA)

	switch {
	case shortMA < longMA-s.margin:
		return []domain.OrderIntent{{
			Side:   domain.Sell,
			Qty:    sizing.DepthQty(snap.BidSize),
			Market: true,
		}}
	case shortMA > longMA+s.margin:
		return []domain.OrderIntent{{
			Side:   domain.Buy,
			Qty:    sizing.DepthQty(snap.AskSize),
			Market: true,
		}}
	default:
		return nil
	}
}
