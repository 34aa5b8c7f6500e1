// Package physics models the spherical bodies of a gravitational system.
//
// A [Body] accumulates unnormalized attraction terms from its neighbours
// through [Body.UpdateAcceleration]; the caller multiplies the finished sum
// by -[G]. Integration is semi-implicit Euler: [Body.UpdateVelocity] for
// every body first, then [Body.UpdatePosition] for every body.
//
// # Merging
//
// Colliding bodies merge inelastically through [Body.Absorb]. The absorbed
// body keeps its slot with its mass negated, so slices of bodies never
// shrink and indices stay stable. The survivor's radius follows a
// [RadiusPolicy].
package physics
