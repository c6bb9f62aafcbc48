package exchange

import "sort"

// restingOrder is one open limit order on the book. Orders keep their
// arrival sequence through partial fills, so price-time priority holds.
type restingOrder struct {
	id    uint64
	agent int
	buy   bool
	qty   int
	price int64
}

type priceLevel struct {
	price  int64
	orders []*restingOrder // FIFO within the level
}

func (l *priceLevel) size() int {
	total := 0
	for _, o := range l.orders {
		total += o.qty
	}
	return total
}

// book holds both sides of one symbol. Bids are kept best-first
// (descending price), asks best-first (ascending price).
type book struct {
	bids []*priceLevel
	asks []*priceLevel
}

func (b *book) insert(o *restingOrder) {
	if o.buy {
		i := sort.Search(len(b.bids), func(i int) bool { return b.bids[i].price <= o.price })
		if i < len(b.bids) && b.bids[i].price == o.price {
			b.bids[i].orders = append(b.bids[i].orders, o)
			return
		}
		b.bids = append(b.bids, nil)
		copy(b.bids[i+1:], b.bids[i:])
		b.bids[i] = &priceLevel{price: o.price, orders: []*restingOrder{o}}
		return
	}
	i := sort.Search(len(b.asks), func(i int) bool { return b.asks[i].price >= o.price })
	if i < len(b.asks) && b.asks[i].price == o.price {
		b.asks[i].orders = append(b.asks[i].orders, o)
		return
	}
	b.asks = append(b.asks, nil)
	copy(b.asks[i+1:], b.asks[i:])
	b.asks[i] = &priceLevel{price: o.price, orders: []*restingOrder{o}}
}

func (b *book) bestBid() (*priceLevel, bool) {
	if len(b.bids) == 0 {
		return nil, false
	}
	return b.bids[0], true
}

func (b *book) bestAsk() (*priceLevel, bool) {
	if len(b.asks) == 0 {
		return nil, false
	}
	return b.asks[0], true
}

// execution is one maker-side match produced while walking the book.
// Trades print at the resting order's price.
type execution struct {
	maker *restingOrder
	qty   int
	price int64
}

// match consumes up to qty units from the side opposing an aggressor
// order. hasLimit bounds how deep a limit order may cross; market orders
// walk the whole side and the unfilled remainder is the caller's problem.
func (b *book) match(aggressorBuy bool, qty int, limit int64, hasLimit bool) []execution {
	var execs []execution
	levels := &b.asks
	if !aggressorBuy {
		levels = &b.bids
	}
	for qty > 0 && len(*levels) > 0 {
		level := (*levels)[0]
		if hasLimit {
			if aggressorBuy && level.price > limit {
				break
			}
			if !aggressorBuy && level.price < limit {
				break
			}
		}
		for qty > 0 && len(level.orders) > 0 {
			maker := level.orders[0]
			take := maker.qty
			if take > qty {
				take = qty
			}
			maker.qty -= take
			qty -= take
			execs = append(execs, execution{maker: maker, qty: take, price: level.price})
			if maker.qty == 0 {
				level.orders = level.orders[1:]
			}
		}
		if len(level.orders) == 0 {
			*levels = (*levels)[1:]
		}
	}
	return execs
}

// cancelAgent removes every resting order owned by agent and reports how
// many were withdrawn.
func (b *book) cancelAgent(agent int) int {
	removed := 0
	prune := func(levels []*priceLevel) []*priceLevel {
		out := levels[:0]
		for _, level := range levels {
			kept := level.orders[:0]
			for _, o := range level.orders {
				if o.agent == agent {
					removed++
					continue
				}
				kept = append(kept, o)
			}
			level.orders = kept
			if len(level.orders) > 0 {
				out = append(out, level)
			}
		}
		return out
	}
	b.bids = prune(b.bids)
	b.asks = prune(b.asks)
	return removed
}
