package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/sim"
	"github.com/san-kum/nbodysim/internal/universe"
)

const (
	DefaultDt          = 1.0
	DefaultMaxTime     = 10.0
	DefaultRandomCount = 100
	DefaultOutputDir   = "results"
)

type Config struct {
	// Universe is the path of a universe file. Empty selects random mode.
	Universe   string       `yaml:"universe,omitempty" json:"universe,omitempty"`
	Dt         float64      `yaml:"dt" json:"dt"`
	MaxTime    float64      `yaml:"max_time" json:"max_time"`
	Seed       int64        `yaml:"seed" json:"seed"`
	GrowRadius bool         `yaml:"grow_radius" json:"grow_radius"`
	Workers    int          `yaml:"workers" json:"workers"`
	OutputDir  string       `yaml:"output_dir" json:"output_dir"`
	SaveFinal  bool         `yaml:"save_final" json:"save_final"`
	Random     RandomConfig `yaml:"random" json:"random"`

	// seedSet records that Seed was chosen explicitly, so a seed of 0 is
	// honoured.
	seedSet bool
}

type RandomConfig struct {
	Count           int `yaml:"count" json:"count"`
	universe.Ranges `yaml:",inline" json:"ranges"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:        DefaultDt,
		MaxTime:   DefaultMaxTime,
		Workers:   1,
		OutputDir: DefaultOutputDir,
		Random: RandomConfig{
			Count:  DefaultRandomCount,
			Ranges: universe.DefaultRanges(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var explicit struct {
		Seed *int64 `yaml:"seed"`
	}
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.seedSet = explicit.Seed != nil
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplySeed uses seed unless the config already names one. force replaces
// an existing seed too.
func (c *Config) ApplySeed(seed int64, force bool) {
	if force || !c.seedSet {
		c.Seed = seed
		c.seedSet = true
	}
}

// RandomMode reports whether bodies are generated rather than loaded.
func (c *Config) RandomMode() bool { return c.Universe == "" }

func (c *Config) RadiusPolicy() physics.RadiusPolicy {
	if c.GrowRadius {
		return physics.VolumeRadius
	}
	return physics.KeepRadius
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, c.Dt)
	}
	if !(c.MaxTime > 0) {
		return fmt.Errorf("%w: max_time must be positive, got %g", dynamo.ErrParameterBounds, c.MaxTime)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", dynamo.ErrParameterBounds, c.Workers)
	}
	if c.RandomMode() {
		if c.Random.Count <= 0 {
			return fmt.Errorf("%w: random body count must be positive, got %d", dynamo.ErrParameterBounds, c.Random.Count)
		}
		return c.Random.Validate()
	}
	return nil
}

// SimConfig converts to the simulation's own settings.
func (c *Config) SimConfig(logger *slog.Logger) sim.Config {
	return sim.Config{
		Dt:      c.Dt,
		MaxTime: c.MaxTime,
		Radius:  c.RadiusPolicy(),
		Workers: c.Workers,
		Logger:  logger,
	}
}

// Clone returns a copy safe to modify.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
