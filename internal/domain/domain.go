// Package domain defines the types shared between the kernel, the exchange
// and the trading agents: sides, order intents, spread snapshots and fills.
package domain

// Prices are integer currency units as quoted by the fundamental oracle.

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// OrderIntent is a single order decision produced by a strategy. Quantity is
// always a positive integer once emitted; Limit is ignored for market orders.
type OrderIntent struct {
	Side   Side
	Qty    int
	Limit  int64
	Market bool
}

// Snapshot is the best bid/ask view returned by a spread query. It is valid
// for one decision cycle only and is never cached across cycles.
type Snapshot struct {
	Bid     int64
	Ask     int64
	BidSize int
	AskSize int
	HasBid  bool
	HasAsk  bool
}

// Mid returns the arithmetic mid-price, or false when either side is absent.
func (s Snapshot) Mid() (float64, bool) {
	if !s.HasBid || !s.HasAsk {
		return 0, false
	}
	return float64(s.Bid+s.Ask) / 2, true
}

// Fill reports an execution against one of the agent's orders.
type Fill struct {
	OrderID uint64
	Symbol  string
	Side    Side
	Qty     int
	Price   int64
}

// Message type tags delivered by the kernel. Agents act only on
// MsgQuerySpread; everything else feeds generic bookkeeping.
const (
	MsgQuerySpread    = "QUERY_SPREAD"
	MsgOrderExecuted  = "ORDER_EXECUTED"
	MsgOrderAccepted  = "ORDER_ACCEPTED"
	MsgOrderCancelled = "ORDER_CANCELLED"
)

// SpreadReply is the body of a MsgQuerySpread response.
type SpreadReply struct {
	Symbol   string
	Snapshot Snapshot
}
