// Package metrics exposes simulation counters in Prometheus text format:
//
//   - sim_wakeups_total              – agent activations delivered
//   - sim_orders_total{strategy,side,type} – order intents emitted
//   - sim_trades_total               – executions matched by the exchange
//   - sim_cancels_total              – orders withdrawn
//
// Registered in init and served wherever the caller mounts Handler().
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Wakeups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_wakeups_total",
			Help: "Agent activations delivered",
		},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_orders_total",
			Help: "Order intents emitted",
		},
		[]string{"strategy", "side", "type"},
	)

	Trades = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_trades_total",
			Help: "Executions matched by the exchange",
		},
	)

	Cancels = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_cancels_total",
			Help: "Orders withdrawn",
		},
	)
)

func init() {
	prometheus.MustRegister(Wakeups, Orders, Trades, Cancels)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
