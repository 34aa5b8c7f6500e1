package universe

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

const (
	DefaultMinMass     = 10.0
	DefaultMaxMass     = 2000.0
	DefaultMinRadius   = 1.0
	DefaultMaxRadius   = 1000.0
	DefaultMinPosition = -1000.0
	DefaultMaxPosition = 1000.0
	DefaultMinVelocity = -1000.0
	DefaultMaxVelocity = 1000.0
)

type Interval struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (i Interval) sample(rng *rand.Rand) float64 {
	return i.Min + rng.Float64()*(i.Max-i.Min)
}

// Ranges bounds every generated quantity. Position and Velocity apply to
// each axis independently.
type Ranges struct {
	Mass     Interval `yaml:"mass" json:"mass"`
	Radius   Interval `yaml:"radius" json:"radius"`
	Position Interval `yaml:"position" json:"position"`
	Velocity Interval `yaml:"velocity" json:"velocity"`
}

func DefaultRanges() Ranges {
	return Ranges{
		Mass:     Interval{DefaultMinMass, DefaultMaxMass},
		Radius:   Interval{DefaultMinRadius, DefaultMaxRadius},
		Position: Interval{DefaultMinPosition, DefaultMaxPosition},
		Velocity: Interval{DefaultMinVelocity, DefaultMaxVelocity},
	}
}

func (r Ranges) Validate() error {
	checks := []struct {
		name string
		iv   Interval
	}{
		{"mass", r.Mass},
		{"radius", r.Radius},
		{"position", r.Position},
		{"velocity", r.Velocity},
	}
	for _, c := range checks {
		if !(c.iv.Min <= c.iv.Max) {
			return fmt.Errorf("%w: %s range [%g, %g] is empty", dynamo.ErrParameterBounds, c.name, c.iv.Min, c.iv.Max)
		}
	}
	if r.Mass.Min <= 0 {
		return fmt.Errorf("%w: minimum mass must be positive, got %g", dynamo.ErrParameterBounds, r.Mass.Min)
	}
	if r.Radius.Min < 0 {
		return fmt.Errorf("%w: minimum radius must not be negative, got %g", dynamo.ErrParameterBounds, r.Radius.Min)
	}
	return nil
}

// Generate creates n bodies drawn uniformly from r. The same seed always
// yields the same universe.
func Generate(n int, r Ranges, seed int64) ([]*physics.Body, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: body count must be positive, got %d", dynamo.ErrParameterBounds, n)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	bodies := make([]*physics.Body, n)
	for i := range bodies {
		mass := r.Mass.sample(rng)
		radius := r.Radius.sample(rng)
		var pos, vel dynamo.Vector3
		pos.X, vel.X = r.Position.sample(rng), r.Velocity.sample(rng)
		pos.Y, vel.Y = r.Position.sample(rng), r.Velocity.sample(rng)
		pos.Z, vel.Z = r.Position.sample(rng), r.Velocity.sample(rng)
		bodies[i] = physics.NewBody(mass, radius, pos, vel)
	}
	return bodies, nil
}
