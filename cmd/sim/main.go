package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mktsim/internal/agent"
	"mktsim/internal/broker"
	"mktsim/internal/config"
	"mktsim/internal/exchange"
	"mktsim/internal/kernel"
	"mktsim/internal/metrics"
	"mktsim/internal/oracle"
	"mktsim/internal/orderlog"
	"mktsim/internal/risk"
	"mktsim/internal/strategy"
)

const exchangeID = 0

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	setupLogging(cfg.LogLevel)

	pop, err := config.LoadPopulation(cfg.Population)
	if err != nil {
		log.Fatalf("population error: %v", err)
	}
	specs := pop.Build(cfg)

	var orders *orderlog.Logger
	if cfg.OrdersPath != "" {
		orders, err = orderlog.New(cfg.OrdersPath)
		if err != nil {
			log.Fatalf("order log error: %v", err)
		}
		defer func() {
			if err := orders.Close(); err != nil {
				log.Printf("failed to close order log: %v", err)
			}
		}()
		log.Printf("logging orders to %s run_id=%s", cfg.OrdersPath, orders.RunID())
	}

	open := time.Now().UTC()
	closeAt := open.Add(cfg.Session)

	k := kernel.New(open)
	ex := exchange.New(exchange.Config{
		ID:     exchangeID,
		Symbol: cfg.Symbol,
		Open:   open,
		Close:  closeAt,
	}, k)
	if err := k.Register(ex); err != nil {
		log.Fatalf("register exchange: %v", err)
	}
	k.SetWakeup(exchangeID, open)

	var gw agent.Gateway = ex
	if cfg.Mirror {
		gw = mirroredGateway(cfg, ex)
	}

	orc := oracle.NewMeanReverting(oracle.Config{
		Symbol: cfg.Symbol,
		RBar:   cfg.RBar,
		Kappa:  cfg.Kappa,
		SigmaS: cfg.SigmaS,
		Seed:   cfg.Seed,
	}, open)

	for _, spec := range specs {
		a, err := buildAgent(spec, k, gw, orc, orders)
		if err != nil {
			log.Fatalf("agent %s: %v", spec.Agent.Name, err)
		}
		if err := k.Register(a); err != nil {
			log.Fatalf("register agent %s: %v", spec.Agent.Name, err)
		}
		k.SetWakeup(a.ID(), open)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	log.Printf("starting simulation symbol=%s agents=%d session=%s seed=%d",
		cfg.Symbol, len(specs), cfg.Session, cfg.Seed)

	done := make(chan struct{})
	go func() {
		// The horizon sits well past the close so post-close wakeups can
		// capture the closing price before the queue drains.
		k.Run(closeAt.Add(24 * time.Hour))
		close(done)
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-done:
		if price, ok := ex.LastTrade(); ok {
			log.Printf("simulation complete trades=%d last_trade=%d", ex.Trades(), price)
		} else {
			log.Printf("simulation complete trades=0")
		}
	case sig := <-signalChan:
		log.Printf("shutdown signal received: %v", sig)
	}
}

func buildAgent(spec config.AgentSpec, k *kernel.Kernel, gw agent.Gateway,
	orc *oracle.MeanReverting, orders *orderlog.Logger) (*agent.Agent, error) {

	var strat strategy.Strategy
	var cancel strategy.CancelPolicy
	switch spec.Strategy {
	case config.StrategyLadder:
		l := strategy.NewLadder()
		strat, cancel = l, l
	case config.StrategyZIMarket:
		s := strategy.NewDirectionalMarket()
		strat, cancel = s, s
	case config.StrategyMomentum:
		s := strategy.NewMomentumCrossover(spec.Agent.ShortWindow, spec.Agent.LongWindow, spec.Agent.Margin)
		strat, cancel = s, s
	}

	var wake agent.WakePolicy
	switch spec.Wake {
	case config.WakeStaged:
		wake = agent.NewStagedWake()
	default:
		wake = agent.PoissonWake{Rate: spec.Agent.LambdaA}
	}

	return agent.New(spec.Agent, strat, cancel, wake, k, gw, orc, orders)
}

func mirroredGateway(cfg config.Config, ex *exchange.Exchange) agent.Gateway {
	mirror := broker.New(cfg.APIKey, cfg.APISecret, cfg.PaperBaseURL, cfg.Symbol)
	gate := risk.Gate{Limits: risk.Limits{
		MaxQty:      cfg.MirrorMaxQty,
		MaxNotional: cfg.MirrorMaxNotional,
		KillSwitch:  cfg.KillSwitch,
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if acct, err := mirror.Account(ctx); err == nil {
		log.Printf("paper account equity=%.2f buying_power=%.2f", acct.Equity, acct.BuyingPower)
	}
	log.Printf("mirroring orders to %s", cfg.PaperBaseURL)
	return broker.NewMirroredGateway(ex, mirror, gate)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics server stopped: %v", err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
