// Package risk guards the paper-account mirror. Simulated agents trade
// whatever their strategies produce, but anything forwarded to a real
// endpoint passes this gate first.
package risk

import (
	"fmt"
	"log/slog"

	"mktsim/internal/domain"
)

type Limits struct {
	MaxQty      int     // per-order quantity cap
	MaxNotional float64 // per-order notional cap, limit orders only
	KillSwitch  bool    // if true, never forward orders
}

type Gate struct {
	Limits
}

// Approve accepts or rejects one intent. Market orders carry no price, so
// only the quantity cap applies to them.
func (g Gate) Approve(in domain.OrderIntent) error {
	if g.KillSwitch {
		slog.Info("mirror rejected", "reason", "kill_switch_enabled")
		return fmt.Errorf("kill_switch_enabled")
	}
	if in.Qty <= 0 {
		slog.Info("mirror rejected", "reason", "invalid_quantity", "qty", in.Qty)
		return fmt.Errorf("invalid_quantity")
	}
	if g.MaxQty > 0 && in.Qty > g.MaxQty {
		slog.Info("mirror rejected", "reason", "max_qty_exceeded", "qty", in.Qty, "max", g.MaxQty)
		return fmt.Errorf("max_qty_exceeded")
	}
	if !in.Market && g.MaxNotional > 0 {
		notional := float64(in.Limit) * float64(in.Qty)
		if notional > g.MaxNotional {
			slog.Info("mirror rejected", "reason", "max_notional_exceeded", "notional", notional, "max", g.MaxNotional)
			return fmt.Errorf("max_notional_exceeded")
		}
	}
	return nil
}
