package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Dim is the number of components in a Vector3.
const Dim = 3

// Vector3 is a real-valued 3-component vector.
//
// Add, Sub, Dot and Magnitude return new values. Scale, Pow and Reset mutate
// the receiver in place and return it so calls can be chained.
type Vector3 r3.Vec

// NewVector3 builds a vector from its components.
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// FromSlice converts a component slice, rejecting any length other than Dim.
func FromSlice(components []float64) (Vector3, error) {
	if len(components) != Dim {
		return Vector3{}, fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, len(components), Dim)
	}
	return Vector3{X: components[0], Y: components[1], Z: components[2]}, nil
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3(r3.Add(r3.Vec(v), r3.Vec(other)))
}

func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3(r3.Sub(r3.Vec(v), r3.Vec(other)))
}

func (v Vector3) Dot(other Vector3) float64 {
	return r3.Dot(r3.Vec(v), r3.Vec(other))
}

// Magnitude returns the Euclidean norm.
func (v Vector3) Magnitude() float64 {
	return r3.Norm(r3.Vec(v))
}

// Scaled returns a copy of v multiplied by k.
func (v Vector3) Scaled(k float64) Vector3 {
	return Vector3(r3.Scale(k, r3.Vec(v)))
}

// Scale multiplies every component by k in place.
func (v *Vector3) Scale(k float64) *Vector3 {
	v.X *= k
	v.Y *= k
	v.Z *= k
	return v
}

// Pow raises every component to e in place. Callers pass non-negative
// components when e is not an integer.
func (v *Vector3) Pow(e float64) *Vector3 {
	v.X = math.Pow(v.X, e)
	v.Y = math.Pow(v.Y, e)
	v.Z = math.Pow(v.Z, e)
	return v
}

// Reset sets every component to zero.
func (v *Vector3) Reset() *Vector3 {
	*v = Vector3{}
	return v
}

func (v Vector3) Equal(other Vector3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

func (v Vector3) IsValid() bool {
	for _, c := range [Dim]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector3) String() string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}
