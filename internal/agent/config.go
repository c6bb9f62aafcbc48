package agent

import "fmt"

// Config carries the construction-time parameters of one agent. It is
// immutable after construction.
type Config struct {
	ID           int
	Name         string
	Symbol       string
	StartingCash int64   // integer currency units
	SigmaN       float64 // observation noise variance
	RBar         float64 // fundamental mean
	Kappa        float64 // mean-reversion rate
	SigmaS       float64 // shock variance
	QMax         int     // max unit holdings
	SigmaPV      float64 // private value variance
	RMin         int64   // min requested surplus
	RMax         int64   // max requested surplus
	Eta          float64 // strategic threshold
	LambdaA      float64 // mean arrival rate (per ns)
	LogOrders    bool
	Seed         int64
	ShortWindow  int
	LongWindow   int
	Margin       float64
}

func (c Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.SigmaN < 0 {
		return fmt.Errorf("sigma-n must be >= 0")
	}
	if c.QMax <= 0 {
		return fmt.Errorf("q-max must be > 0")
	}
	if c.SigmaPV < 0 {
		return fmt.Errorf("sigma-pv must be >= 0")
	}
	if c.LambdaA < 0 {
		return fmt.Errorf("lambda-a must be >= 0")
	}
	if c.ShortWindow < 0 || c.LongWindow < 0 {
		return fmt.Errorf("moving-average windows must be >= 0")
	}
	if c.LongWindow > 0 && c.ShortWindow > c.LongWindow {
		return fmt.Errorf("short window must be <= long window")
	}
	return nil
}
