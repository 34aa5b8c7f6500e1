package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// G is the gravitational constant applied to every pairwise attraction term.
const G = 6.67e-11

// RadiusPolicy selects what happens to the survivor's radius on a merge.
type RadiusPolicy int

const (
	// KeepRadius leaves the survivor's radius untouched.
	KeepRadius RadiusPolicy = iota
	// VolumeRadius grows the survivor to the sphere holding both volumes.
	VolumeRadius
)

func (p RadiusPolicy) String() string {
	switch p {
	case KeepRadius:
		return "keep"
	case VolumeRadius:
		return "volume"
	default:
		return fmt.Sprintf("RadiusPolicy(%d)", int(p))
	}
}

// Body is a spherical mass point. A non-positive mass marks a body that has
// been absorbed; it stays in its slot but no longer attracts or collides.
type Body struct {
	Mass         float64
	Radius       float64
	Position     dynamo.Vector3
	Velocity     dynamo.Vector3
	Acceleration dynamo.Vector3
}

func NewBody(mass, radius float64, position, velocity dynamo.Vector3) *Body {
	return &Body{
		Mass:     mass,
		Radius:   radius,
		Position: position,
		Velocity: velocity,
	}
}

func (b *Body) Active() bool { return b.Mass > 0 }

// UpdateAcceleration adds other.mass·d/|d|³ with d = other.position -
// b.position. The sum is not yet multiplied by G; see ScaleAcceleration.
// Coincident positions contribute nothing.
func (b *Body) UpdateAcceleration(other *Body) {
	distance := other.Position.Sub(b.Position)
	magnitude := distance.Magnitude()
	if magnitude == 0 {
		return
	}
	distance.Scale(other.Mass / (magnitude * magnitude * magnitude))
	b.Acceleration = b.Acceleration.Add(distance)
}

func (b *Body) ResetAcceleration() { b.Acceleration.Reset() }

func (b *Body) ScaleAcceleration(k float64) { b.Acceleration.Scale(k) }

// UpdateVelocity applies v += a·dt using the acceleration of the current step.
func (b *Body) UpdateVelocity(dt float64) {
	b.Velocity = b.Velocity.Add(b.Acceleration.Scaled(dt))
}

// UpdatePosition applies x += v·dt; call it after UpdateVelocity.
func (b *Body) UpdatePosition(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scaled(dt))
}

// CheckCollision reports whether the centres are closer than the radius sum.
func (b *Body) CheckCollision(other *Body) bool {
	return b.Position.Sub(other.Position).Magnitude() < b.Radius+other.Radius
}

func (b *Body) Deactivate() { b.Mass = -b.Mass }

// MergedRadius is the radius of a sphere whose volume equals both bodies'.
func (b *Body) MergedRadius(other *Body) float64 {
	return math.Cbrt(b.Radius*b.Radius*b.Radius + other.Radius*other.Radius*other.Radius)
}

// Absorb merges other into b if b is at least as massive, conserving
// momentum, and deactivates other. It returns false and changes nothing
// when other is heavier.
func (b *Body) Absorb(other *Body, policy RadiusPolicy) bool {
	if b.Mass < other.Mass {
		return false
	}

	mass := b.Mass
	total := mass + other.Mass

	momentum := b.Velocity.Scaled(mass).Add(other.Velocity.Scaled(other.Mass))
	b.Velocity = *momentum.Scale(1 / total)
	if policy == VolumeRadius {
		b.Radius = b.MergedRadius(other)
	}
	b.Mass = total

	other.Deactivate()
	return true
}

func (b *Body) Momentum() dynamo.Vector3 {
	return b.Velocity.Scaled(b.Mass)
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

// Equal compares mass, radius and position.
func (b *Body) Equal(other *Body) bool {
	return b.Mass == other.Mass && b.Radius == other.Radius && b.Position.Equal(other.Position)
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

func (b *Body) String() string {
	return fmt.Sprintf("mass=%g radius=%g pos=%v vel=%v", b.Mass, b.Radius, b.Position, b.Velocity)
}
