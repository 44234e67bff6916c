package config

import "sort"

// Presets holds named configurations per target.
var Presets = map[string]map[string]*Config{
	"gaussian": {
		"standard": {
			Target: "gaussian", Dim: 1, Steps: 20000, StepSize: 1.0, Seed: 42, Source: "mt19937",
			Ranges: [][2]float64{{-10, 10}}, BurnIn: 1000, Thin: 1, Chains: 1,
			Params: map[string]float64{"mu": 0, "sigma": 1},
		},
		"correlated": {
			Target: "gaussian", Dim: 2, Steps: 50000, StepSize: 0.5, Seed: 7, Source: "pcg",
			Ranges: [][2]float64{{-10, 10}, {-10, 10}}, BurnIn: 2000, Thin: 5, Chains: 1,
			Params: map[string]float64{"mu": 1, "sigma": 1.5, "rho": 0.8},
		},
		"wide-step": {
			Target: "gaussian", Dim: 1, Steps: 20000, StepSize: 8.0, Seed: 42, Source: "pcg",
			Ranges: [][2]float64{{-10, 10}}, BurnIn: 1000, Thin: 1, Chains: 1,
			Params: map[string]float64{"mu": 0, "sigma": 1},
		},
	},
	"bimodal": {
		"separated": {
			Target: "bimodal", Dim: 1, Steps: 50000, StepSize: 2.5, Seed: 3, Source: "pcg",
			Ranges: [][2]float64{{-10, 10}}, BurnIn: 2000, Thin: 1, Chains: 4,
			Params: map[string]float64{"separation": 6, "sigma": 1},
		},
		"trapped": {
			Target: "bimodal", Dim: 1, Steps: 20000, StepSize: 0.2, Seed: 3, Source: "pcg",
			Ranges: [][2]float64{{-10, 10}}, BurnIn: 1000, Thin: 1, Chains: 4,
			Params: map[string]float64{"separation": 8, "sigma": 0.7},
		},
	},
	"flat": {
		"box": {
			Target: "flat", Dim: 2, Steps: 10000, StepSize: 0.5, Seed: 1, Source: "pcg",
			Ranges: [][2]float64{{-1, 1}, {-1, 1}}, BurnIn: 0, Thin: 1, Chains: 1,
		},
	},
	"linear": {
		"line-fit": {
			Target: "linear", Dim: 2, Steps: 40000, StepSize: 0.1, Seed: 11, Source: "pcg",
			Ranges: [][2]float64{{-5, 5}, {-10, 10}}, BurnIn: 2000, Thin: 2, Chains: 1,
			Params: map[string]float64{"noise": 1},
			Observations: [][]float64{
				{0, 1.2}, {1, 2.9}, {2, 5.3}, {3, 6.8}, {4, 9.1},
				{5, 11.2}, {6, 12.7}, {7, 15.4}, {8, 16.9}, {9, 19.2},
			},
		},
	},
	"normal-model": {
		"estimate": {
			Target: "normal-model", Dim: 2, Steps: 40000, StepSize: 0.3, Seed: 5, Source: "pcg",
			Ranges: [][2]float64{{-10, 10}, {0, 10}}, BurnIn: 2000, Thin: 2, Chains: 1,
			Observations: [][]float64{
				{4.1}, {5.6}, {3.2}, {6.3}, {4.9}, {5.1}, {2.8}, {4.4},
				{5.9}, {4.7}, {3.9}, {6.1}, {5.3}, {4.0}, {4.8},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(target, name string) *Config {
	presets, ok := Presets[target]
	if !ok {
		return nil
	}
	cfg, ok := presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(target string) []string {
	presets, ok := Presets[target]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
