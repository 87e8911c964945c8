package config

import (
	"sort"

	"github.com/san-kum/dedx/internal/stopping"
)

// Presets are named energy grids.
var Presets = map[string]*GridConfig{
	"reference": {
		Start: 0.1, End: 250.0, Step: 0.1,
		Rules: []stopping.StepRule{{Threshold: 10, Step: 0.5}, {Threshold: 50, Step: 1}, {Threshold: 100, Step: 5}},
	},
	"fine": {
		Start: 0.1, End: 250.0, Step: 0.01, StepMode: "piecewise",
		Rules: []stopping.StepRule{{Threshold: 2, Step: 0.05}, {Threshold: 10, Step: 0.1}, {Threshold: 100, Step: 0.5}},
	},
	"coarse": {
		Start: 1.0, End: 250.0, Step: 1.0, StepMode: "piecewise",
		Rules: []stopping.StepRule{{Threshold: 50, Step: 10}},
	},
	"therapy": {
		Start: 70.0, End: 250.0, Step: 1.0, StepMode: "piecewise",
	},
	"bragg": {
		Start: 0.1, End: 10.0, Step: 0.01, StepMode: "piecewise",
		Rules: []stopping.StepRule{{Threshold: 1, Step: 0.05}},
	},
}

func GetPreset(name string) *GridConfig {
	g, ok := Presets[name]
	if !ok {
		return nil
	}
	return g
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
