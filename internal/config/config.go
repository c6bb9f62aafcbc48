// Package config loads the run configuration: command-line flags for the
// run-level knobs, a YAML population file for the agent roster, and the
// environment (optionally a .env file) for paper-account credentials.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Symbol      string
	Population  string // agent roster YAML
	OrdersPath  string // NDJSON order log, empty disables
	MetricsAddr string // Prometheus listen address, empty disables
	Session     time.Duration
	LogLevel    string

	// Fundamental process.
	RBar   float64
	Kappa  float64
	SigmaS float64

	// Master seed. The oracle and every agent derive their private streams
	// from it, so one value pins the whole run.
	Seed int64

	// Paper-account mirroring.
	Mirror            bool
	MirrorMaxQty      int
	MirrorMaxNotional float64
	KillSwitch        bool
	PaperBaseURL      string
	APIKey            string
	APISecret         string
}

func Load() (Config, error) {
	var cfg Config

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return cfg, fmt.Errorf("load .env: %w", err)
		}
	}

	flag.StringVar(&cfg.Symbol, "symbol", "IBM", "simulated symbol")
	flag.StringVar(&cfg.Population, "population", "population.yaml", "agent roster YAML")
	flag.StringVar(&cfg.OrdersPath, "orders-path", "orders.ndjson", "order log path, empty disables")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Prometheus listen address, empty disables")
	flag.DurationVar(&cfg.Session, "session", 6*time.Hour+30*time.Minute, "market session length")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	flag.Float64Var(&cfg.RBar, "r-bar", 100000, "fundamental long-run mean")
	flag.Float64Var(&cfg.Kappa, "kappa", 1.67e-12, "fundamental mean-reversion rate per second")
	flag.Float64Var(&cfg.SigmaS, "sigma-s", 100, "fundamental shock variance per second")
	flag.Int64Var(&cfg.Seed, "seed", 1, "master seed")
	flag.BoolVar(&cfg.Mirror, "mirror", false, "mirror order flow to the paper account")
	flag.IntVar(&cfg.MirrorMaxQty, "mirror-max-qty", 5, "per-order quantity cap on mirrored orders")
	flag.Float64Var(&cfg.MirrorMaxNotional, "mirror-max-notional", 200, "per-order notional cap on mirrored limit orders")
	flag.BoolVar(&cfg.KillSwitch, "kill-switch", false, "if true, never forward mirrored orders")
	flag.StringVar(&cfg.PaperBaseURL, "paper-base-url", "https://paper-api.alpaca.markets", "paper trading base URL")
	flag.Parse()

	cfg.APIKey = os.Getenv("APCA_API_KEY_ID")
	cfg.APISecret = os.Getenv("APCA_API_SECRET_KEY")

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if cfg.Population == "" {
		return fmt.Errorf("population file is required")
	}
	if cfg.Session <= 0 {
		return fmt.Errorf("session must be > 0")
	}
	if cfg.RBar <= 0 {
		return fmt.Errorf("r-bar must be > 0")
	}
	if cfg.Kappa < 0 {
		return fmt.Errorf("kappa must be >= 0")
	}
	if cfg.SigmaS < 0 {
		return fmt.Errorf("sigma-s must be >= 0")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	if cfg.Mirror && (cfg.APIKey == "" || cfg.APISecret == "") {
		return fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required with -mirror")
	}
	return nil
}
