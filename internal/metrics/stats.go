package metrics

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

// Summary holds the aggregate statistics of a final system state.
type Summary struct {
	Remaining     int            `json:"remaining"`
	DistanceMean  dynamo.Vector3 `json:"distance_mean"`
	DistanceStdev dynamo.Vector3 `json:"distance_stdev"`
	VelocityMean  dynamo.Vector3 `json:"velocity_mean"`
	VelocityStdev dynamo.Vector3 `json:"velocity_stdev"`
}

func Summarize(bodies []*physics.Body) Summary {
	distances := Distances(bodies)
	velocities := Velocities(bodies)
	distanceMean := Mean(distances)
	velocityMean := Mean(velocities)
	return Summary{
		Remaining:     Remaining(bodies),
		DistanceMean:  distanceMean,
		DistanceStdev: Stdev(distances, distanceMean),
		VelocityMean:  velocityMean,
		VelocityStdev: Stdev(velocities, velocityMean),
	}
}

// Remaining counts bodies with strictly positive mass.
func Remaining(bodies []*physics.Body) int {
	n := 0
	for _, b := range bodies {
		if b.Active() {
			n++
		}
	}
	return n
}

// Distances returns bodies[i].Position - bodies[j].Position for every i < j
// where both bodies are active.
func Distances(bodies []*physics.Body) []dynamo.Vector3 {
	var out []dynamo.Vector3
	for i := 0; i < len(bodies)-1; i++ {
		if !bodies[i].Active() {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			if bodies[j].Active() {
				out = append(out, bodies[i].Position.Sub(bodies[j].Position))
			}
		}
	}
	return out
}

// Velocities returns the velocity of every active body.
func Velocities(bodies []*physics.Body) []dynamo.Vector3 {
	var out []dynamo.Vector3
	for _, b := range bodies {
		if b.Active() {
			out = append(out, b.Velocity)
		}
	}
	return out
}

// Mean is the component-wise mean; no samples yields the zero vector.
func Mean(samples []dynamo.Vector3) dynamo.Vector3 {
	var sum dynamo.Vector3
	if len(samples) == 0 {
		return sum
	}
	for _, s := range samples {
		sum = sum.Add(s)
	}
	return *sum.Scale(1 / float64(len(samples)))
}

// Stdev is the component-wise population standard deviation around mean.
func Stdev(samples []dynamo.Vector3, mean dynamo.Vector3) dynamo.Vector3 {
	var sum dynamo.Vector3
	if len(samples) == 0 {
		return sum
	}
	for _, s := range samples {
		diff := s.Sub(mean)
		sum = sum.Add(*diff.Pow(2))
	}
	return *sum.Scale(1 / float64(len(samples))).Pow(0.5)
}

func DistanceMean(bodies []*physics.Body) dynamo.Vector3 {
	return Mean(Distances(bodies))
}

func DistanceStdev(bodies []*physics.Body) dynamo.Vector3 {
	d := Distances(bodies)
	return Stdev(d, Mean(d))
}

func VelocityMean(bodies []*physics.Body) dynamo.Vector3 {
	return Mean(Velocities(bodies))
}

func VelocityStdev(bodies []*physics.Body) dynamo.Vector3 {
	v := Velocities(bodies)
	return Stdev(v, Mean(v))
}
