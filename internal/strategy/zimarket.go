package strategy

import (
	"mktsim/internal/domain"
	"mktsim/internal/sizing"
)

// DirectionalMarket is the zero-intelligence market-order engine: one market
// order per cycle in the direction of the valuation estimate relative to the
// mid, sized against the opposing side's resting depth.
type DirectionalMarket struct {
	NoCancel

	// Per-agent activity counters, zeroed at construction.
	Orders    int
	BuyOrders int
}

func NewDirectionalMarket() *DirectionalMarket {
	return &DirectionalMarket{}
}

func (s *DirectionalMarket) Name() string { return "zi-market" }

func (s *DirectionalMarket) Decide(estimate float64, snap domain.Snapshot) []domain.OrderIntent {
	mid, ok := snap.Mid()
	if !ok {
		// Missing bid or ask: no order this cycle.
		return nil
	}

	switch {
	case estimate > mid:
		s.Orders++
		s.BuyOrders++
		return []domain.OrderIntent{{
			Side:   domain.Buy,
			Qty:    sizing.DepthQty(snap.AskSize),
			Market: true,
		}}
	case estimate < mid:
		s.Orders++
		return []domain.OrderIntent{{
			Side:   domain.Sell,
			Qty:    sizing.DepthQty(snap.BidSize),
			Market: true,
		}}
	default:
		// Estimate exactly at mid carries no direction.
		return nil
	}
}
