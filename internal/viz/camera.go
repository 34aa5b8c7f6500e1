package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
)

// Camera is an orthographic view of the universe. Rotations are applied
// about the world x axis first, then y.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(50, c.Zoom*1.25) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.02, c.Zoom/1.25) }
func (c *Camera) Reset()            { *c = Camera{Zoom: 1} }

// Rotate turns a world point into view space.
func (c *Camera) Rotate(p dynamo.Vector3) r3.Vec {
	v := r3.Vec(p)
	v = r3.NewRotation(c.RotX, axisX).Rotate(v)
	return r3.NewRotation(c.RotY, axisY).Rotate(v)
}

// Frame maps view-space x/y onto a canvas so that extent world units from
// center fill the shorter side.
type Frame struct {
	Center r3.Vec
	Extent float64
	W, H   int
}

// FitFrame centers on the active bodies' centroid and sizes the frame to the
// farthest of them.
func FitFrame(bodies []*physics.Body, cam *Camera, w, h int) Frame {
	f := Frame{Extent: 1, W: w, H: h}
	var sum r3.Vec
	n := 0
	for _, b := range bodies {
		if b.Active() {
			sum = r3.Add(sum, cam.Rotate(b.Position))
			n++
		}
	}
	if n == 0 {
		return f
	}
	f.Center = r3.Scale(1/float64(n), sum)
	for _, b := range bodies {
		if b.Active() {
			d := r3.Sub(cam.Rotate(b.Position), f.Center)
			f.Extent = math.Max(f.Extent, math.Max(math.Abs(d.X), math.Abs(d.Y))+b.Radius)
		}
	}
	return f
}

// Scale is sub-pixels per world unit at the given zoom.
func (f Frame) Scale(zoom float64) float64 {
	half := float64(min(f.W, f.H)) / 2
	return zoom * half / f.Extent
}

// Project returns the sub-pixel position of a view-space point.
func (f Frame) Project(v r3.Vec, zoom float64) (int, int) {
	s := f.Scale(zoom)
	x := f.W/2 + int(math.Round((v.X-f.Center.X)*s))
	y := f.H/2 - int(math.Round((v.Y-f.Center.Y)*s))
	return x, y
}
