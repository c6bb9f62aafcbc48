// Package exchange is the kernel actor that keeps the limit order book and
// answers agent gateway calls. Spread responses and fill reports go back
// through the kernel as zero-delay messages, so they interleave with agent
// wakeups in deterministic scheduling order.
package exchange

import (
	"log/slog"
	"time"

	"mktsim/internal/domain"
	"mktsim/internal/kernel"
	"mktsim/internal/metrics"
)

type Config struct {
	ID     int
	Symbol string
	Open   time.Time
	Close  time.Time
}

type Exchange struct {
	cfg    Config
	k      *kernel.Kernel
	book   book
	nextID uint64

	lastTrade int64
	trades    int
	rejected  int
}

func New(cfg Config, k *kernel.Kernel) *Exchange {
	return &Exchange{cfg: cfg, k: k}
}

func (e *Exchange) ID() int { return e.cfg.ID }

func (e *Exchange) Wakeup(now time.Time) {
	slog.Info("market session", "symbol", e.cfg.Symbol, "open", e.cfg.Open, "close", e.cfg.Close)
}

func (e *Exchange) ReceiveMessage(now time.Time, msg kernel.Message) {}

// Hours reports the configured session. Sessions are fixed at construction,
// so they are always known.
func (e *Exchange) Hours() (open, close time.Time, known bool) {
	return e.cfg.Open, e.cfg.Close, true
}

// LastTrade returns the most recent execution price, or false before the
// first trade.
func (e *Exchange) LastTrade() (int64, bool) {
	if e.trades == 0 {
		return 0, false
	}
	return e.lastTrade, true
}

func (e *Exchange) Trades() int { return e.trades }

// RequestSpread answers with the current best bid/ask. The reply is a
// zero-delay kernel message, so the requester processes it after the event
// that issued the call.
func (e *Exchange) RequestSpread(agentID int, symbol string) {
	snap := e.snapshot()
	e.k.Send(agentID, 0, kernel.Message{
		Type: domain.MsgQuerySpread,
		From: e.cfg.ID,
		Body: domain.SpreadReply{Symbol: symbol, Snapshot: snap},
	})
}

func (e *Exchange) snapshot() domain.Snapshot {
	var snap domain.Snapshot
	if level, ok := e.book.bestBid(); ok {
		snap.HasBid = true
		snap.Bid = level.price
		snap.BidSize = level.size()
	}
	if level, ok := e.book.bestAsk(); ok {
		snap.HasAsk = true
		snap.Ask = level.price
		snap.AskSize = level.size()
	}
	return snap
}

// PlaceLimitOrder crosses the book as far as the limit allows and rests the
// remainder. Orders arriving after the close are dropped.
func (e *Exchange) PlaceLimitOrder(agentID int, symbol string, qty int, buy bool, limit int64) {
	if e.afterClose() {
		e.reject(agentID, symbol)
		return
	}
	execs := e.book.match(buy, qty, limit, true)
	filled := e.report(agentID, symbol, buy, execs)
	if remainder := qty - filled; remainder > 0 {
		e.nextID++
		e.book.insert(&restingOrder{id: e.nextID, agent: agentID, buy: buy, qty: remainder, price: limit})
		e.k.Send(agentID, 0, kernel.Message{Type: domain.MsgOrderAccepted, From: e.cfg.ID})
	}
}

// PlaceMarketOrder consumes resting depth up to qty. Any unfilled remainder
// is discarded, never converted to a resting order.
func (e *Exchange) PlaceMarketOrder(agentID int, symbol string, qty int, buy bool) {
	if e.afterClose() {
		e.reject(agentID, symbol)
		return
	}
	execs := e.book.match(buy, qty, 0, false)
	filled := e.report(agentID, symbol, buy, execs)
	if filled < qty {
		slog.Debug("market order partially unfilled",
			"symbol", symbol, "agent", agentID, "wanted", qty, "filled", filled)
	}
}

// CancelAll withdraws every resting order the agent owns in this symbol.
func (e *Exchange) CancelAll(agentID int, symbol string) {
	removed := e.book.cancelAgent(agentID)
	if removed > 0 {
		metrics.Cancels.Add(float64(removed))
		e.k.Send(agentID, 0, kernel.Message{Type: domain.MsgOrderCancelled, From: e.cfg.ID})
	}
}

// report sends both parties their fills. The maker's side is the opposite of
// the aggressor's, and both fills print at the maker's resting price.
func (e *Exchange) report(aggressor int, symbol string, aggressorBuy bool, execs []execution) int {
	filled := 0
	aggSide, makerSide := domain.Sell, domain.Buy
	if aggressorBuy {
		aggSide, makerSide = domain.Buy, domain.Sell
	}
	for _, ex := range execs {
		filled += ex.qty
		e.trades++
		e.lastTrade = ex.price
		metrics.Trades.Inc()
		e.k.Send(aggressor, 0, kernel.Message{
			Type: domain.MsgOrderExecuted,
			From: e.cfg.ID,
			Body: domain.Fill{Symbol: symbol, Side: aggSide, Qty: ex.qty, Price: ex.price},
		})
		e.k.Send(ex.maker.agent, 0, kernel.Message{
			Type: domain.MsgOrderExecuted,
			From: e.cfg.ID,
			Body: domain.Fill{OrderID: ex.maker.id, Symbol: symbol, Side: makerSide, Qty: ex.qty, Price: ex.price},
		})
	}
	return filled
}

func (e *Exchange) afterClose() bool {
	return !e.k.Now().Before(e.cfg.Close)
}

func (e *Exchange) reject(agentID int, symbol string) {
	e.rejected++
	slog.Debug("order rejected after close", "symbol", symbol, "agent", agentID)
}
