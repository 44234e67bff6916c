package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newRunCommand(t *testing.T, argv ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	bindRunFlags(cmd)
	if err := cmd.ParseFlags(argv); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(newRunCommand(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Target != "gaussian" || cfg.Steps != 20000 {
		t.Errorf("unexpected defaults: %s/%d", cfg.Target, cfg.Steps)
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "steps: 300\nstep_size: 0.25\nseed: 9\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCommand(t, "--preset", "correlated", "--config", path, "--seed", "77")
	cfg, err := resolveConfig(cmd, []string{"gaussian"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Dim != 2 {
		t.Errorf("preset dim should survive, got %d", cfg.Dim)
	}
	if cfg.Steps != 300 || cfg.StepSize != 0.25 {
		t.Errorf("config file should override preset: steps %d step size %f", cfg.Steps, cfg.StepSize)
	}
	if cfg.Seed != 77 {
		t.Errorf("flag should override config file, got seed %d", cfg.Seed)
	}
}

func TestResolveConfig_RangesAndParams(t *testing.T) {
	cmd := newRunCommand(t, "--dim", "2", "--range", "-1:1", "--range", "0:5", "-p", "sigma=2", "-p", "rho = 0.5")
	cfg, err := resolveConfig(cmd, []string{"gaussian"})
	if err != nil {
		t.Fatal(err)
	}

	b := cfg.Bounds()
	if len(b) != 2 || b[0].Low != -1 || b[1].High != 5 {
		t.Errorf("unexpected bounds %v", b)
	}
	if cfg.Param("sigma", 0) != 2 || cfg.Param("rho", 0) != 0.5 {
		t.Errorf("unexpected params %v", cfg.Params)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown preset", []string{"--preset", "nope"}},
		{"bad range", []string{"--range", "1-2"}},
		{"bad range number", []string{"--range", "a:2"}},
		{"bad param", []string{"-p", "sigma"}},
		{"bad param value", []string{"-p", "sigma=x"}},
		{"missing config", []string{"--config", "/nonexistent/run.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := resolveConfig(newRunCommand(t, tt.argv...), []string{"gaussian"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
