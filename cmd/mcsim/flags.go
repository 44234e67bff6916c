package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/mcsim/internal/config"
)

// resolveConfig builds the run configuration. Later sources win: defaults,
// then the preset, then the config file, then the target argument and any
// flag set on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	flags := cmd.Flags()

	name := config.DefaultTarget
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Target = name

	if flags.Changed("preset") {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if flags.Changed("config") {
		loaded, err := config.LoadWith(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Target = args[0]
		}
	}

	if flags.Changed("dim") {
		cfg.Dim = dim
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("step-size") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("source") {
		cfg.Source = source
	}
	if flags.Changed("burn-in") {
		cfg.BurnIn = burnIn
	}
	if flags.Changed("thin") {
		cfg.Thin = thin
	}
	if flags.Changed("chains") {
		cfg.Chains = chains
	}
	if flags.Changed("data-file") {
		cfg.DataFile = dataFile
	}

	if flags.Changed("range") {
		parsed, err := parseRanges(ranges)
		if err != nil {
			return nil, err
		}
		cfg.Ranges = parsed
	}
	if flags.Changed("param") {
		for _, kv := range params {
			k, v, err := parseParam(kv)
			if err != nil {
				return nil, err
			}
			cfg.Params[k] = v
		}
	}

	return cfg, nil
}

func parseRanges(specs []string) ([][2]float64, error) {
	out := make([][2]float64, 0, len(specs))
	for _, spec := range specs {
		lo, hi, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("range %q: want low:high", spec)
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", spec, err)
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", spec, err)
		}
		out = append(out, [2]float64{low, high})
	}
	return out, nil
}

func parseParam(kv string) (string, float64, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return "", 0, fmt.Errorf("param %q: want name=value", kv)
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return "", 0, fmt.Errorf("param %q: %w", kv, err)
	}
	return strings.TrimSpace(k), val, nil
}
