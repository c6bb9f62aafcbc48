package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Symbol:     "IBM",
		Population: "population.yaml",
		Session:    4 * time.Hour,
		LogLevel:   "info",
		RBar:       100000,
		SigmaS:     100,
		Seed:       1,
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	if err := validate(validConfig()); err != nil {
		t.Fatalf("expected config to be valid, got %v", err)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty symbol":       func(c *Config) { c.Symbol = "" },
		"empty population":   func(c *Config) { c.Population = "" },
		"zero session":       func(c *Config) { c.Session = 0 },
		"non-positive r-bar": func(c *Config) { c.RBar = 0 },
		"negative kappa":     func(c *Config) { c.Kappa = -1 },
		"negative sigma-s":   func(c *Config) { c.SigmaS = -1 },
		"bad log level":      func(c *Config) { c.LogLevel = "verbose" },
		"mirror without credentials": func(c *Config) {
			c.Mirror = true
			c.APIKey = ""
			c.APISecret = ""
		},
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadReadsFlagsAndEnv(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "env-key")
	t.Setenv("APCA_API_SECRET_KEY", "env-secret")

	restore := resetFlagSet(t)
	defer restore()
	os.Args = []string{
		"sim",
		"--symbol", "JPM",
		"--seed", "42",
		"--session", "2h",
		"--mirror",
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Symbol != "JPM" {
		t.Fatalf("expected symbol from CLI, got %q", cfg.Symbol)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed from CLI, got %d", cfg.Seed)
	}
	if cfg.Session != 2*time.Hour {
		t.Fatalf("expected session from CLI, got %v", cfg.Session)
	}
	if cfg.APIKey != "env-key" || cfg.APISecret != "env-secret" {
		t.Fatalf("expected credentials from env, got %q/%q", cfg.APIKey, cfg.APISecret)
	}
}

func TestLoadPopulationExpandsGroups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "population.yaml")
	contents := `groups:
  - strategy: ladder
    sigma_n: 1000
  - strategy: zi-market
    count: 3
    sigma_n: 10000
    lambda_a: 1e-7
  - strategy: momentum
    count: 2
    short_window: 10
    long_window: 30
    margin: 1
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write population: %v", err)
	}

	pop, err := LoadPopulation(path)
	if err != nil {
		t.Fatalf("load population: %v", err)
	}
	specs := pop.Build(validConfig())

	if len(specs) != 6 {
		t.Fatalf("expected 6 agents, got %d", len(specs))
	}
	if specs[0].Strategy != StrategyLadder || specs[0].Wake != WakeStaged {
		t.Fatalf("ladder group: got %+v", specs[0])
	}
	if specs[1].Wake != WakePoisson {
		t.Fatalf("zi group should default to poisson wake, got %q", specs[1].Wake)
	}
	seen := make(map[int]bool)
	seeds := make(map[int64]bool)
	for _, s := range specs {
		if s.Agent.ID == 0 {
			t.Fatalf("agent id 0 is reserved for the exchange")
		}
		if seen[s.Agent.ID] {
			t.Fatalf("duplicate agent id %d", s.Agent.ID)
		}
		seen[s.Agent.ID] = true
		if seeds[s.Agent.Seed] {
			t.Fatalf("duplicate agent seed %d", s.Agent.Seed)
		}
		seeds[s.Agent.Seed] = true
		if err := s.Agent.Validate(); err != nil {
			t.Fatalf("built agent config invalid: %v", err)
		}
	}
	if specs[2].Agent.StartingCash != defaultStartingCash {
		t.Fatalf("starting cash default not applied: %d", specs[2].Agent.StartingCash)
	}
	if specs[4].Agent.ShortWindow != 10 || specs[4].Agent.LongWindow != 30 {
		t.Fatalf("momentum windows not carried: %+v", specs[4].Agent)
	}
}

func TestLoadPopulationRejectsUnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "population.yaml")
	if err := os.WriteFile(path, []byte("groups:\n  - strategy: hft\n"), 0o600); err != nil {
		t.Fatalf("write population: %v", err)
	}
	if _, err := LoadPopulation(path); err == nil {
		t.Fatalf("expected unknown strategy error")
	}
}

func TestLoadPopulationRejectsBadMomentumWindows(t *testing.T) {
	pop := Population{Groups: []Group{{
		Strategy:    StrategyMomentum,
		ShortWindow: 30,
		LongWindow:  10,
	}}}
	if err := pop.Validate(); err == nil {
		t.Fatalf("expected window order error")
	}
}

func resetFlagSet(t *testing.T) func() {
	t.Helper()
	originalArgs := os.Args
	originalCommandLine := flag.CommandLine
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	return func() {
		flag.CommandLine = originalCommandLine
		os.Args = originalArgs
	}
}
