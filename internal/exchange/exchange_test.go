package exchange

import (
	"testing"
	"time"

	"mktsim/internal/domain"
	"mktsim/internal/kernel"
)

type collector struct {
	id   int
	msgs []kernel.Message
}

func (c *collector) ID() int                                      { return c.id }
func (c *collector) Wakeup(time.Time)                             {}
func (c *collector) ReceiveMessage(_ time.Time, m kernel.Message) { c.msgs = append(c.msgs, m) }

func (c *collector) fills() []domain.Fill {
	var out []domain.Fill
	for _, m := range c.msgs {
		if m.Type == domain.MsgOrderExecuted {
			out = append(out, m.Body.(domain.Fill))
		}
	}
	return out
}

func (c *collector) spreads() []domain.Snapshot {
	var out []domain.Snapshot
	for _, m := range c.msgs {
		if m.Type == domain.MsgQuerySpread {
			out = append(out, m.Body.(domain.SpreadReply).Snapshot)
		}
	}
	return out
}

func newVenue(t *testing.T, ids ...int) (*Exchange, *kernel.Kernel, map[int]*collector) {
	t.Helper()
	open := time.Unix(0, 0)
	k := kernel.New(open)
	ex := New(Config{ID: 0, Symbol: "IBM", Open: open, Close: open.Add(4 * time.Hour)}, k)
	if err := k.Register(ex); err != nil {
		t.Fatalf("register exchange: %v", err)
	}
	agents := make(map[int]*collector, len(ids))
	for _, id := range ids {
		c := &collector{id: id}
		if err := k.Register(c); err != nil {
			t.Fatalf("register collector %d: %v", id, err)
		}
		agents[id] = c
	}
	return ex, k, agents
}

func drain(k *kernel.Kernel) {
	k.Run(time.Unix(0, 0).Add(time.Hour))
}

func TestSpreadReplyReflectsBook(t *testing.T) {
	ex, k, agents := newVenue(t, 1, 2, 3)

	ex.PlaceLimitOrder(1, "IBM", 5, true, 99)
	ex.PlaceLimitOrder(1, "IBM", 2, true, 99)
	ex.PlaceLimitOrder(1, "IBM", 4, true, 98)
	ex.PlaceLimitOrder(2, "IBM", 3, false, 101)
	ex.RequestSpread(3, "IBM")
	drain(k)

	spreads := agents[3].spreads()
	if len(spreads) != 1 {
		t.Fatalf("expected one spread reply, got %d", len(spreads))
	}
	snap := spreads[0]
	if !snap.HasBid || snap.Bid != 99 || snap.BidSize != 7 {
		t.Fatalf("bad bid side: %+v", snap)
	}
	if !snap.HasAsk || snap.Ask != 101 || snap.AskSize != 3 {
		t.Fatalf("bad ask side: %+v", snap)
	}
}

func TestEmptyBookSpread(t *testing.T) {
	ex, k, agents := newVenue(t, 1)

	ex.RequestSpread(1, "IBM")
	drain(k)

	snap := agents[1].spreads()[0]
	if snap.HasBid || snap.HasAsk {
		t.Fatalf("empty book reported quotes: %+v", snap)
	}
}

func TestLimitCrossExecutesAtRestingPrice(t *testing.T) {
	ex, k, agents := newVenue(t, 1, 2)

	ex.PlaceLimitOrder(1, "IBM", 5, false, 100)
	ex.PlaceLimitOrder(2, "IBM", 3, true, 102)
	drain(k)

	buyer := agents[2].fills()
	if len(buyer) != 1 || buyer[0].Side != domain.Buy || buyer[0].Qty != 3 || buyer[0].Price != 100 {
		t.Fatalf("bad aggressor fill: %+v", buyer)
	}
	seller := agents[1].fills()
	if len(seller) != 1 || seller[0].Side != domain.Sell || seller[0].Qty != 3 || seller[0].Price != 100 {
		t.Fatalf("bad maker fill: %+v", seller)
	}
	if price, ok := ex.LastTrade(); !ok || price != 100 {
		t.Fatalf("last trade not recorded: %d %v", price, ok)
	}
}

func TestLimitRemainderRests(t *testing.T) {
	ex, k, agents := newVenue(t, 1, 2, 3)

	ex.PlaceLimitOrder(1, "IBM", 2, false, 100)
	ex.PlaceLimitOrder(2, "IBM", 5, true, 100)
	ex.RequestSpread(3, "IBM")
	drain(k)

	snap := agents[3].spreads()[0]
	if !snap.HasBid || snap.Bid != 100 || snap.BidSize != 3 {
		t.Fatalf("remainder did not rest at limit: %+v", snap)
	}
	if snap.HasAsk {
		t.Fatalf("crossed ask still on book: %+v", snap)
	}
}

func TestPriceTimePriority(t *testing.T) {
	ex, k, agents := newVenue(t, 1, 2, 3)

	ex.PlaceLimitOrder(1, "IBM", 2, false, 100)
	ex.PlaceLimitOrder(2, "IBM", 2, false, 100)
	ex.PlaceMarketOrder(3, "IBM", 3, true)
	drain(k)

	first := agents[1].fills()
	if len(first) != 1 || first[0].Qty != 2 {
		t.Fatalf("earlier order at level not filled first: %+v", first)
	}
	second := agents[2].fills()
	if len(second) != 1 || second[0].Qty != 1 {
		t.Fatalf("later order filled out of turn: %+v", second)
	}
}

func TestMarketRemainderDropped(t *testing.T) {
	ex, k, agents := newVenue(t, 1, 2, 3)

	ex.PlaceLimitOrder(1, "IBM", 3, false, 100)
	ex.PlaceMarketOrder(2, "IBM", 10, true)
	ex.RequestSpread(3, "IBM")
	drain(k)

	fills := agents[2].fills()
	if len(fills) != 1 || fills[0].Qty != 3 {
		t.Fatalf("expected fill of available depth only: %+v", fills)
	}
	snap := agents[3].spreads()[0]
	if snap.HasBid || snap.HasAsk {
		t.Fatalf("market remainder rested on the book: %+v", snap)
	}
}

func TestCancelAllRemovesOnlyOwnOrders(t *testing.T) {
	ex, k, agents := newVenue(t, 1, 2, 3)

	ex.PlaceLimitOrder(1, "IBM", 5, true, 99)
	ex.PlaceLimitOrder(1, "IBM", 5, false, 101)
	ex.PlaceLimitOrder(2, "IBM", 4, true, 98)
	ex.CancelAll(1, "IBM")
	ex.RequestSpread(3, "IBM")
	drain(k)

	var cancelled int
	for _, m := range agents[1].msgs {
		if m.Type == domain.MsgOrderCancelled {
			cancelled++
		}
	}
	if cancelled != 1 {
		t.Fatalf("expected cancel confirmation, got %d", cancelled)
	}

	snap := agents[3].spreads()[0]
	if !snap.HasBid || snap.Bid != 98 || snap.BidSize != 4 {
		t.Fatalf("other agent's order disturbed: %+v", snap)
	}
	if snap.HasAsk {
		t.Fatalf("cancelled ask survived: %+v", snap)
	}
}

func TestOrdersRejectedAfterClose(t *testing.T) {
	open := time.Unix(0, 0)
	k := kernel.New(open.Add(5 * time.Hour)) // past the close
	ex := New(Config{ID: 0, Symbol: "IBM", Open: open, Close: open.Add(4 * time.Hour)}, k)
	if err := k.Register(ex); err != nil {
		t.Fatalf("register exchange: %v", err)
	}
	c := &collector{id: 1}
	if err := k.Register(c); err != nil {
		t.Fatalf("register collector: %v", err)
	}

	ex.PlaceLimitOrder(1, "IBM", 5, true, 99)
	ex.PlaceMarketOrder(1, "IBM", 5, true)
	ex.RequestSpread(1, "IBM")
	k.Run(open.Add(6 * time.Hour))

	snap := c.spreads()[0]
	if snap.HasBid || snap.HasAsk {
		t.Fatalf("order accepted after close: %+v", snap)
	}
	if len(c.fills()) != 0 {
		t.Fatalf("fill produced after close")
	}
}
