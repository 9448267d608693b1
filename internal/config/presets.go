package config

import "sort"

// Presets are keyed by shape, then by preset name.
var Presets = map[string]map[string]*Config{
	"sphere": {
		"papadikis": DefaultConfig(),
		"cooling": {
			Shape: "sphere", Density: 700, SpecificHeat: 1500, Conductivity: 0.105, Convection: 375,
			Initial: 773, Ambient: 300, Radius: 0.000175, NodeCount: 100, StepCount: 1000, MaxTime: 0.8, Solver: "lu",
		},
		"steel-ball": {
			Shape: "sphere", Density: 7850, SpecificHeat: 490, Conductivity: 45, Convection: 120,
			Initial: 1100, Ambient: 300, Radius: 0.01, NodeCount: 50, StepCount: 2000, MaxTime: 600, Solver: "lu",
		},
	},
	"cylinder": {
		"pellet": {
			Shape: "cylinder", Density: 1100, SpecificHeat: 1600, Conductivity: 0.17, Convection: 60,
			Initial: 300, Ambient: 873, Radius: 0.003, NodeCount: 60, StepCount: 1500, MaxTime: 300, Solver: "lu",
		},
		"copper-rod": {
			Shape: "cylinder", Density: 8960, SpecificHeat: 385, Conductivity: 400, Convection: 25,
			Initial: 500, Ambient: 295, Radius: 0.005, NodeCount: 40, StepCount: 1000, MaxTime: 1200, Solver: "banded",
		},
	},
	"slab": {
		"board": {
			Shape: "slab", Density: 500, SpecificHeat: 1700, Conductivity: 0.12, Convection: 15,
			Initial: 293, Ambient: 353, Radius: 0.01, NodeCount: 50, StepCount: 1000, MaxTime: 7200, Solver: "lu",
		},
		"quench": {
			Shape: "slab", Density: 7850, SpecificHeat: 490, Conductivity: 45, Convection: 2000,
			Initial: 1123, Ambient: 320, Radius: 0.02, NodeCount: 80, StepCount: 2000, MaxTime: 300, Solver: "dense",
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(shape, preset string) *Config {
	shapePresets, ok := Presets[shape]
	if !ok {
		return nil
	}
	cfg, ok := shapePresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(shape string) []string {
	shapePresets, ok := Presets[shape]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(shapePresets))
	for name := range shapePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
