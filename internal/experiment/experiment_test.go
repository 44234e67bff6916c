package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mcmc"
	"github.com/san-kum/mcsim/internal/metrics"
	"github.com/san-kum/mcsim/internal/target"
)

func TestRegistry_ListTargets(t *testing.T) {
	r := NewRegistry()
	want := []string{"bimodal", "flat", "gaussian", "linear", "normal-model"}

	got := r.ListTargets()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRegistry_Presets(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.ListTargets() {
		for _, preset := range config.ListPresets(name) {
			cfg := config.GetPreset(name, preset)
			if _, err := r.GetTarget(cfg); err != nil {
				t.Errorf("%s/%s: %v", name, preset, err)
			}
		}
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	cfg := config.DefaultConfig()
	cfg.Target = "banana"
	if _, err := r.GetTarget(cfg); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("expected ErrUnknownTarget, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Target = "linear"
	cfg.Dim = 2
	if _, err := r.GetTarget(cfg); !errors.Is(err, target.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}

	cfg.Dim = 3
	if _, err := r.GetTarget(cfg); !errors.Is(err, target.ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}

func TestRegistry_DataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	if err := os.WriteFile(path, []byte("value\n4.0\n5.0\n6.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Target = "normal-model"
	cfg.Dim = 2
	cfg.DataFile = path

	tgt, err := NewRegistry().GetTarget(cfg)
	if err != nil {
		t.Fatalf("GetTarget: %v", err)
	}
	p, err := tgt.Density(mcmc.State{5, 0.816496580927726})
	if err != nil {
		t.Fatal(err)
	}
	if p < 0.999 || p > 1.001 {
		t.Errorf("expected density 1 at the MLE, got %f", p)
	}
}

func TestExperiment_RunNotSetup(t *testing.T) {
	exp := New(config.DefaultConfig())
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestExperiment_SetupInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StepSize = -1
	if err := New(cfg).Setup(NewRegistry(), nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExperiment_Run(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 500

	exp := New(cfg)
	if err := exp.Setup(NewRegistry(), metrics.Defaults); err != nil {
		t.Fatalf("setup: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Trace) != cfg.Steps+1 {
		t.Errorf("expected %d states, got %d", cfg.Steps+1, len(res.Trace))
	}
	if _, ok := res.Metrics["max_reject_run"]; !ok {
		t.Errorf("expected default metrics, got %v", res.Metrics)
	}

	again, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i := range res.Trace {
		if res.Trace[i][0] != again.Trace[i][0] {
			t.Fatalf("state %d differs between runs with the same seed", i)
		}
	}
}

func TestExperiment_RunEnsemble(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 300
	cfg.Chains = 3

	exp := New(cfg)
	if err := exp.Setup(NewRegistry(), metrics.Defaults); err != nil {
		t.Fatalf("setup: %v", err)
	}

	single, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	results, err := exp.RunEnsemble(context.Background(), 2)
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := range single.Trace {
		if single.Trace[i][0] != results[0].Trace[i][0] {
			t.Fatalf("chain 0 should match the single run at state %d", i)
		}
	}
	if results[0].Trace[1][0] == results[1].Trace[1][0] && results[0].Trace[0][0] == results[1].Trace[0][0] {
		t.Error("chains with different seeds should differ")
	}
}

func TestExperiment_Chain(t *testing.T) {
	cfg := config.DefaultConfig()
	exp := New(cfg)
	if _, err := exp.Chain(); err == nil {
		t.Error("expected error before setup")
	}
	if err := exp.Setup(NewRegistry(), nil); err != nil {
		t.Fatal(err)
	}

	chain, err := exp.Chain()
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, _, err := chain.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if chain.Steps() != 10 {
		t.Errorf("expected 10 steps, got %d", chain.Steps())
	}
}

func TestExperiment_ShortChain(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 5
	cfg.Source = "mt19937"

	exp := New(cfg)
	if err := exp.Setup(NewRegistry(), metrics.Defaults); err != nil {
		t.Fatalf("setup: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Trace) != 6 {
		t.Errorf("expected 6 states, got %d", len(res.Trace))
	}
}

func TestPresets_Run(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.ListTargets() {
		for _, preset := range config.ListPresets(name) {
			t.Run(name+"/"+preset, func(t *testing.T) {
				cfg := config.GetPreset(name, preset)
				cfg.Steps = 2000

				exp := New(cfg)
				if err := exp.Setup(r, nil); err != nil {
					t.Fatalf("setup: %v", err)
				}
				res, err := exp.Run(context.Background())
				if err != nil {
					t.Fatalf("run: %v", err)
				}
				if res.AcceptanceRatio <= 0 {
					t.Errorf("chain never moved from %v", res.Trace[0])
				}
			})
		}
	}
}

func TestLinearPreset_MovesFromAnyStart(t *testing.T) {
	r := NewRegistry()
	for seed := int64(1); seed <= 12; seed++ {
		cfg := config.GetPreset("linear", "line-fit")
		cfg.Steps = 1000
		cfg.Seed = seed

		exp := New(cfg)
		if err := exp.Setup(r, nil); err != nil {
			t.Fatalf("seed %d: setup: %v", seed, err)
		}
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatalf("seed %d: run: %v", seed, err)
		}
		if res.AcceptanceRatio <= 0 {
			t.Errorf("seed %d: chain frozen at %v", seed, res.Trace[0])
		}
	}
}
