package config

import (
	"sort"

	"github.com/san-kum/nbodysim/internal/universe"
)

// Presets are random-universe setups tuned for a particular outcome.
var Presets = map[string]*Config{
	// collision packs large bodies into a small cube so merges start at once.
	"collision": {
		Dt: 0.1, MaxTime: 50, Workers: 1, OutputDir: DefaultOutputDir,
		Random: RandomConfig{
			Count: 200,
			Ranges: universe.Ranges{
				Mass:     universe.Interval{Min: 1e9, Max: 1e11},
				Radius:   universe.Interval{Min: 5, Max: 20},
				Position: universe.Interval{Min: -200, Max: 200},
				Velocity: universe.Interval{Min: -1, Max: 1},
			},
		},
	},
	// cluster starts heavy bodies nearly at rest so gravity drives the merges.
	"cluster": {
		Dt: 1, MaxTime: 2000, GrowRadius: true, Workers: 0, OutputDir: DefaultOutputDir,
		Random: RandomConfig{
			Count: 500,
			Ranges: universe.Ranges{
				Mass:     universe.Interval{Min: 1e12, Max: 5e12},
				Radius:   universe.Interval{Min: 1, Max: 10},
				Position: universe.Interval{Min: -1000, Max: 1000},
				Velocity: universe.Interval{Min: -0.1, Max: 0.1},
			},
		},
	},
	// sparse uses the reference ranges over a long horizon.
	"sparse": {
		Dt: 1, MaxTime: 1000, Workers: 1, OutputDir: DefaultOutputDir,
		Random: RandomConfig{
			Count:  50,
			Ranges: universe.DefaultRanges(),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
