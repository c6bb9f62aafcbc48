// Package broker mirrors simulated order flow to an Alpaca paper account.
// Mirroring is optional and strictly one-way: nothing the paper account does
// feeds back into the simulation, so mirrored runs stay deterministic.
package broker

import (
	"context"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"mktsim/internal/agent"
	"mktsim/internal/domain"
	"mktsim/internal/risk"
)

type OrderRef struct {
	ID            string
	ClientOrderID string
	Status        string
}

type Account struct {
	Equity      float64
	BuyingPower float64
}

type Mirror struct {
	client *alpaca.Client
	symbol string
}

func New(apiKey, apiSecret, baseURL, symbol string) *Mirror {
	opts := alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	}
	return &Mirror{client: alpaca.NewClient(opts), symbol: symbol}
}

// PlaceIntent submits one simulated order intent to the paper account.
// Simulated integer prices are used as dollar limits verbatim.
func (m *Mirror) PlaceIntent(ctx context.Context, in domain.OrderIntent) (OrderRef, error) {
	qty := decimal.NewFromInt(int64(in.Qty))
	side := alpaca.Sell
	if in.Side == domain.Buy {
		side = alpaca.Buy
	}
	req := alpaca.PlaceOrderRequest{
		Symbol:      m.symbol,
		Qty:         &qty,
		Side:        side,
		Type:        alpaca.Market,
		TimeInForce: alpaca.Day,
	}
	if !in.Market {
		limit := decimal.NewFromInt(in.Limit)
		req.Type = alpaca.Limit
		req.LimitPrice = &limit
	}

	order, err := m.client.PlaceOrder(req)
	if err != nil {
		slog.Error("mirror order failed", "side", side, "symbol", m.symbol, "qty", in.Qty, "error", err)
		return OrderRef{}, err
	}
	slog.Debug("mirror order placed", "order_id", order.ID, "side", side, "symbol", m.symbol, "qty", in.Qty, "status", order.Status)
	return OrderRef{
		ID:            order.ID,
		ClientOrderID: order.ClientOrderID,
		Status:        string(order.Status),
	}, nil
}

// CancelAll withdraws every open mirrored order.
func (m *Mirror) CancelAll(ctx context.Context) error {
	orders, err := m.client.GetOrders(alpaca.GetOrdersRequest{Status: "open"})
	if err != nil {
		slog.Error("fetch open mirror orders failed", "error", err)
		return err
	}
	for _, order := range orders {
		if err := m.client.CancelOrder(order.ID); err != nil {
			slog.Error("cancel mirror order failed", "order_id", order.ID, "error", err)
			return err
		}
	}
	slog.Debug("mirror orders cancelled", "count", len(orders))
	return nil
}

// Account fetches the paper account for the startup sanity log.
func (m *Mirror) Account(ctx context.Context) (Account, error) {
	acct, err := m.client.GetAccount()
	if err != nil {
		slog.Error("fetch mirror account failed", "error", err)
		return Account{}, err
	}
	equity, _ := acct.Equity.Float64()
	buyingPower, _ := acct.BuyingPower.Float64()
	return Account{Equity: equity, BuyingPower: buyingPower}, nil
}

// MirroredGateway decorates a gateway so order entry is also forwarded to
// the paper account, subject to the risk gate. Forwarding happens on its own
// goroutine with a short deadline; the simulation never waits on the network.
type MirroredGateway struct {
	agent.Gateway
	mirror *Mirror
	gate   risk.Gate
}

func NewMirroredGateway(inner agent.Gateway, mirror *Mirror, gate risk.Gate) *MirroredGateway {
	return &MirroredGateway{Gateway: inner, mirror: mirror, gate: gate}
}

func (g *MirroredGateway) PlaceLimitOrder(agentID int, symbol string, qty int, buy bool, limit int64) {
	g.Gateway.PlaceLimitOrder(agentID, symbol, qty, buy, limit)
	g.forward(domain.OrderIntent{Side: sideOf(buy), Qty: qty, Limit: limit})
}

func (g *MirroredGateway) PlaceMarketOrder(agentID int, symbol string, qty int, buy bool) {
	g.Gateway.PlaceMarketOrder(agentID, symbol, qty, buy)
	g.forward(domain.OrderIntent{Side: sideOf(buy), Qty: qty, Market: true})
}

func (g *MirroredGateway) CancelAll(agentID int, symbol string) {
	g.Gateway.CancelAll(agentID, symbol)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = g.mirror.CancelAll(ctx)
	}()
}

func (g *MirroredGateway) forward(in domain.OrderIntent) {
	if err := g.gate.Approve(in); err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = g.mirror.PlaceIntent(ctx, in)
	}()
}

func sideOf(buy bool) domain.Side {
	if buy {
		return domain.Buy
	}
	return domain.Sell
}
