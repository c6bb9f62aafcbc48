package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mktsim/internal/agent"
)

// Strategy and wake-policy names accepted in the population file.
const (
	StrategyLadder   = "ladder"
	StrategyZIMarket = "zi-market"
	StrategyMomentum = "momentum"

	WakeStaged  = "staged"
	WakePoisson = "poisson"
)

// Group declares a homogeneous block of agents. Every agent in the group
// shares the parameters but gets its own derived seed.
type Group struct {
	Strategy     string  `yaml:"strategy"`
	Count        int     `yaml:"count"`
	Wake         string  `yaml:"wake"`
	SigmaN       float64 `yaml:"sigma_n"`
	LambdaA      float64 `yaml:"lambda_a"`
	StartingCash int64   `yaml:"starting_cash"`
	QMax         int     `yaml:"q_max"`
	SigmaPV      float64 `yaml:"sigma_pv"`
	ShortWindow  int     `yaml:"short_window"`
	LongWindow   int     `yaml:"long_window"`
	Margin       float64 `yaml:"margin"`
	LogOrders    bool    `yaml:"log_orders"`
}

type Population struct {
	Groups []Group `yaml:"groups"`
}

// AgentSpec is one fully resolved agent: its config plus the strategy and
// wake-policy names the command maps to concrete implementations.
type AgentSpec struct {
	Strategy string
	Wake     string
	Agent    agent.Config
}

func LoadPopulation(path string) (Population, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Population{}, fmt.Errorf("read population: %w", err)
	}
	var pop Population
	if err := yaml.Unmarshal(raw, &pop); err != nil {
		return Population{}, fmt.Errorf("parse population: %w", err)
	}
	if err := pop.Validate(); err != nil {
		return Population{}, err
	}
	return pop, nil
}

func (p Population) Validate() error {
	if len(p.Groups) == 0 {
		return fmt.Errorf("population has no groups")
	}
	for i, g := range p.Groups {
		switch g.Strategy {
		case StrategyLadder, StrategyZIMarket, StrategyMomentum:
		default:
			return fmt.Errorf("group %d: unknown strategy %q", i, g.Strategy)
		}
		switch g.Wake {
		case "", WakeStaged, WakePoisson:
		default:
			return fmt.Errorf("group %d: unknown wake policy %q", i, g.Wake)
		}
		if g.Count < 0 {
			return fmt.Errorf("group %d: count must be >= 0", i)
		}
		if g.SigmaN < 0 {
			return fmt.Errorf("group %d: sigma_n must be >= 0", i)
		}
		if g.LambdaA < 0 {
			return fmt.Errorf("group %d: lambda_a must be >= 0", i)
		}
		if g.Strategy == StrategyMomentum {
			short, long := g.ShortWindow, g.LongWindow
			if short == 0 {
				short = defaultShortWindow
			}
			if long == 0 {
				long = defaultLongWindow
			}
			if short < 2 || short >= long {
				return fmt.Errorf("group %d: momentum windows must satisfy 2 <= short < long", i)
			}
		}
	}
	return nil
}

const (
	defaultCount        = 1
	defaultStartingCash = 10_000_000
	defaultQMax         = 10
	defaultSigmaPV      = 5_000_000
	defaultLambdaA      = 1e-7 // mean inter-wake 10s
	defaultShortWindow  = 20
	defaultLongWindow   = 50
)

// Build expands the groups into one AgentSpec per agent. Agent IDs start at
// 1 (the exchange holds 0) and seeds are derived from the run's master seed
// by ID, so the roster is reproducible from the two files alone.
func (p Population) Build(run Config) []AgentSpec {
	var specs []AgentSpec
	id := 1
	for _, g := range p.Groups {
		count := g.Count
		if count == 0 {
			count = defaultCount
		}
		wake := g.Wake
		if wake == "" {
			wake = WakePoisson
			if g.Strategy == StrategyLadder {
				wake = WakeStaged
			}
		}
		for i := 0; i < count; i++ {
			cfg := agent.Config{
				ID:           id,
				Name:         fmt.Sprintf("%s-%d", g.Strategy, id),
				Symbol:       run.Symbol,
				StartingCash: orInt64(g.StartingCash, defaultStartingCash),
				SigmaN:       g.SigmaN,
				RBar:         run.RBar,
				Kappa:        run.Kappa,
				SigmaS:       run.SigmaS,
				QMax:         orInt(g.QMax, defaultQMax),
				SigmaPV:      orFloat(g.SigmaPV, defaultSigmaPV),
				LambdaA:      orFloat(g.LambdaA, defaultLambdaA),
				LogOrders:    g.LogOrders,
				Seed:         run.Seed + int64(id),
				ShortWindow:  orInt(g.ShortWindow, defaultShortWindow),
				LongWindow:   orInt(g.LongWindow, defaultLongWindow),
				Margin:       g.Margin,
			}
			specs = append(specs, AgentSpec{Strategy: g.Strategy, Wake: wake, Agent: cfg})
			id++
		}
	}
	return specs
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orInt64(v, def int64) int64 {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
