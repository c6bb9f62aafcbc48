// Package agent implements the trading agent's wake/state-machine skeleton.
// One agent is a single logical actor advanced by the kernel: it schedules
// its own future activations, interleaves them with correlated quote
// responses, and hands the decision itself to an injected strategy.
package agent

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"mktsim/internal/domain"
	"mktsim/internal/kernel"
	"mktsim/internal/metrics"
	"mktsim/internal/orderlog"
	"mktsim/internal/strategy"
)

// Scheduler books the agent's next activation with the kernel.
type Scheduler interface {
	SetWakeup(agentID int, at time.Time)
}

// Gateway is the trading/book interface. Spread responses arrive
// asynchronously as kernel messages; order entry is fire-and-forget.
type Gateway interface {
	RequestSpread(agentID int, symbol string)
	PlaceLimitOrder(agentID int, symbol string, qty int, buy bool, limit int64)
	PlaceMarketOrder(agentID int, symbol string, qty int, buy bool)
	CancelAll(agentID int, symbol string)
	// Hours reports the market session; known is false until the session
	// times have been discovered.
	Hours() (open, close time.Time, known bool)
}

type Agent struct {
	cfg    Config
	sched  Scheduler
	gw     Gateway
	oracle Oracle
	orders *orderlog.Logger

	strat  strategy.Strategy
	cancel strategy.CancelPolicy
	wake   WakePolicy
	est    Estimator

	rng     *rand.Rand
	beliefs Beliefs

	phase    Phase
	halted   bool
	trading  bool
	prevWake time.Time

	closeRecorded bool
	closePrice    float64

	holdings int
	cash     decimal.Decimal
	wakeups  int
}

// New wires an agent from its config and injected policies. The strategy,
// cancellation policy and wake policy are fixed at construction; there is no
// runtime type dispatch. orders may be nil when order logging is off.
func New(cfg Config, strat strategy.Strategy, cancel strategy.CancelPolicy, wake WakePolicy,
	sched Scheduler, gw Gateway, oracle Oracle, orders *orderlog.Logger) (*Agent, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Agent{
		cfg:     cfg,
		sched:   sched,
		gw:      gw,
		oracle:  oracle,
		orders:  orders,
		strat:   strat,
		cancel:  cancel,
		wake:    wake,
		est:     NewEstimator(oracle, cfg.Symbol, cfg.SigmaN),
		rng:     rng,
		beliefs: NewBeliefs(cfg.RBar, cfg.SigmaPV, cfg.QMax, rng),
		phase:   PhaseAwaitingWakeup,
		cash:    decimal.NewFromInt(cfg.StartingCash),
	}, nil
}

func (a *Agent) ID() int       { return a.cfg.ID }
func (a *Agent) Phase() Phase  { return a.phase }
func (a *Agent) Holdings() int { return a.holdings }
func (a *Agent) Wakeups() int  { return a.wakeups }

func (a *Agent) Cash() decimal.Decimal { return a.cash }

// Wakeup runs one activation cycle. The next wakeup is always scheduled
// before anything else can fail, so a lost quote response never strands the
// agent.
func (a *Agent) Wakeup(now time.Time) {
	if a.halted {
		return
	}
	a.phase = PhaseInactive
	a.wakeups++
	metrics.Wakeups.Inc()

	open, close, known := a.gw.Hours()
	if !known {
		// Session times not discovered yet; nothing to do this round.
		return
	}
	if !a.trading {
		a.trading = true
		slog.Info("agent ready to trade", "agent", a.cfg.Name, "strategy", a.strat.Name(), "time", now)
	}

	closed := !now.Before(close)
	if closed && a.closeRecorded {
		// Terminal quiescence: closing price captured, no more scheduling.
		return
	}

	a.scheduleNext(now, open, close)

	if closed {
		// One final spread request to capture the closing observation.
		a.requestSpread()
		return
	}

	switch a.cancel.OnWake() {
	case strategy.ActCancelAll:
		a.gw.CancelAll(a.cfg.ID, a.cfg.Symbol)
		a.phase = PhaseAwaitingWakeup
	case strategy.ActIdle:
		a.phase = PhaseAwaitingWakeup
	case strategy.ActHalt:
		slog.Warn("inconsistent cancellation state, halting agent", "agent", a.cfg.Name)
		a.halted = true
	default:
		a.requestSpread()
	}
}

func (a *Agent) scheduleNext(now, open, close time.Time) {
	elapsed := 0.0
	if session := close.Sub(open); session > 0 {
		elapsed = float64(now.Sub(open)) / float64(session)
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed > 1 {
			elapsed = 1
		}
	}
	a.sched.SetWakeup(a.cfg.ID, now.Add(a.wake.NextDelay(a.rng, elapsed)))
	a.prevWake = now
}

// requestSpread issues the cycle's spread query. The phase guard makes a
// second outstanding request impossible: the only transition into
// AWAITING_SPREAD goes through here.
func (a *Agent) requestSpread() {
	if a.phase == PhaseAwaitingSpread {
		return
	}
	a.phase = PhaseAwaitingSpread
	a.gw.RequestSpread(a.cfg.ID, a.cfg.Symbol)
}

// ReceiveMessage handles asynchronously delivered responses. Only a spread
// response while one is awaited advances the state machine; fills feed
// bookkeeping and everything else is ignored.
func (a *Agent) ReceiveMessage(now time.Time, msg kernel.Message) {
	if a.halted {
		return
	}
	switch msg.Type {
	case domain.MsgOrderExecuted:
		if fill, ok := msg.Body.(domain.Fill); ok {
			a.applyFill(fill)
		}
	case domain.MsgQuerySpread:
		if reply, ok := msg.Body.(domain.SpreadReply); ok {
			a.onSpread(now, reply.Snapshot)
		}
	}
}

func (a *Agent) onSpread(now time.Time, snap domain.Snapshot) {
	_, close, known := a.gw.Hours()
	closed := known && !now.Before(close)

	if closed && !a.closeRecorded {
		if mid, ok := snap.Mid(); ok {
			a.closePrice = mid
		}
		a.closeRecorded = true
	}

	if a.phase != PhaseAwaitingSpread {
		// Late or unsolicited response: drop it.
		return
	}
	if closed {
		// No order activity after the close.
		a.phase = PhaseAwaitingWakeup
		return
	}

	a.placeOrders(now, snap)
	a.phase = PhaseAwaitingWakeup
}

func (a *Agent) placeOrders(now time.Time, snap domain.Snapshot) {
	estimate := a.est.Estimate(now, a.rng)
	intents := a.strat.Decide(estimate, snap)

	for _, in := range intents {
		if in.Qty < 1 {
			// Degenerate size: never submit.
			continue
		}
		orderType := "limit"
		if in.Market {
			orderType = "market"
			a.gw.PlaceMarketOrder(a.cfg.ID, a.cfg.Symbol, in.Qty, in.Side == domain.Buy)
		} else {
			a.gw.PlaceLimitOrder(a.cfg.ID, a.cfg.Symbol, in.Qty, in.Side == domain.Buy, in.Limit)
		}
		metrics.Orders.WithLabelValues(a.strat.Name(), in.Side.String(), orderType).Inc()
		if a.cfg.LogOrders && a.orders != nil {
			a.orders.Append(orderlog.Entry{
				SimTime:  now,
				Agent:    a.cfg.Name,
				Strategy: a.strat.Name(),
				Symbol:   a.cfg.Symbol,
				Side:     in.Side.String(),
				Qty:      in.Qty,
				Market:   in.Market,
				Limit:    in.Limit,
			})
		}
	}

	if len(intents) > 0 {
		slog.Debug("orders placed",
			"agent", a.cfg.Name, "strategy", a.strat.Name(),
			"estimate", estimate, "count", len(intents))
	}
}

func (a *Agent) applyFill(fill domain.Fill) {
	notional := decimal.NewFromInt(fill.Price).Mul(decimal.NewFromInt(int64(fill.Qty)))
	if fill.Side == domain.Buy {
		a.holdings += fill.Qty
		a.cash = a.cash.Sub(notional)
	} else {
		a.holdings -= fill.Qty
		a.cash = a.cash.Add(notional)
	}
}

// KernelStopping reads the fundamental one last time for the end-of-run
// report. The read has no effect on decisions; all agent state is discarded
// after this.
func (a *Agent) KernelStopping(now time.Time) {
	rT := a.oracle.Observe(a.cfg.Symbol, now, 0, a.rng)
	value := a.cash.Add(decimal.NewFromFloat(rT).Mul(decimal.NewFromInt(int64(a.holdings))))
	slog.Info("final valuation",
		"agent", a.cfg.Name,
		"strategy", a.strat.Name(),
		"holdings", a.holdings,
		"cash", a.cash.StringFixed(2),
		"fundamental", rT,
		"value", value.StringFixed(2),
		"wakeups", a.wakeups)
}
