package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/universe"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt != DefaultDt || cfg.MaxTime != DefaultMaxTime {
		t.Errorf("unexpected times: dt=%v max=%v", cfg.Dt, cfg.MaxTime)
	}
	if !cfg.RandomMode() {
		t.Error("default config should be in random mode")
	}
	if cfg.RadiusPolicy() != physics.KeepRadius {
		t.Error("radius should be kept by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := DefaultConfig()
	cfg.Universe = "universes/univ001.tsv"
	cfg.Dt = 0.5
	cfg.GrowRadius = true
	cfg.Random.Velocity = universe.Interval{Min: -3, Max: 3}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Universe != cfg.Universe || loaded.Dt != 0.5 || !loaded.GrowRadius {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if loaded.Random.Velocity.Max != 3 {
		t.Errorf("ranges not preserved: %+v", loaded.Random.Ranges)
	}
	if loaded.RadiusPolicy() != physics.VolumeRadius {
		t.Error("grow_radius should select the volume policy")
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "universe: univ.tsv\nmax_time: 25\nrandom:\n  count: 7\n  mass:\n    min: 1\n    max: 2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("dt = %v, want default %v", cfg.Dt, DefaultDt)
	}
	if cfg.MaxTime != 25 || cfg.Universe != "univ.tsv" {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Random.Count != 7 || cfg.Random.Mass.Max != 2 {
		t.Errorf("random section not read: %+v", cfg.Random)
	}
	if cfg.Random.Radius != universe.DefaultRanges().Radius {
		t.Errorf("unset radius range should keep its default, got %+v", cfg.Random.Radius)
	}
}

func TestApplySeed(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name  string
		yaml  string
		force bool
		want  int64
	}{
		{"explicit zero kept", "seed: 0\n", false, 0},
		{"explicit seed kept", "seed: 17\n", false, 17},
		{"missing seed filled", "dt: 2\n", false, 99},
		{"flag overrides file", "seed: 0\n", true, 99},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(write(fmt.Sprintf("seed%d.yaml", i), tt.yaml))
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			cfg.ApplySeed(99, tt.force)
			if cfg.Seed != tt.want {
				t.Errorf("seed = %d, want %d", cfg.Seed, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.ApplySeed(5, false)
	cfg.ApplySeed(6, false)
	if cfg.Seed != 5 {
		t.Errorf("second ApplySeed replaced seed: %d", cfg.Seed)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative max time", func(c *Config) { c.MaxTime = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"no random bodies", func(c *Config) { c.Random.Count = 0 }},
		{"inverted range", func(c *Config) { c.Random.Radius = universe.Interval{Min: 10, Max: 1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}

	// ranges are irrelevant once a universe file is set
	cfg := DefaultConfig()
	cfg.Universe = "univ.tsv"
	cfg.Random.Count = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("file mode should ignore random settings: %v", err)
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0.25
	cfg.Workers = 4
	cfg.GrowRadius = true

	sc := cfg.SimConfig(nil)
	if sc.Dt != 0.25 || sc.MaxTime != cfg.MaxTime || sc.Workers != 4 || sc.Radius != physics.VolumeRadius {
		t.Errorf("unexpected sim config: %+v", sc)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("collision")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}

	cfg.Dt = 99
	if Presets["collision"].Dt == 99 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"cluster", "collision", "sparse"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("preset %d = %s, want %s", i, names[i], want[i])
		}
		if err := GetPreset(names[i]).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", names[i], err)
		}
	}
}
