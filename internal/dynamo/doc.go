// Package dynamo provides the numeric primitives shared by the simulator.
//
//   - [Vector3]: 3-component real vector backed by gonum's r3.Vec
//   - [ParallelFor]: chunked fan-out with a completion barrier
//   - domain errors such as [ErrDimensionMismatch] and [ErrParameterBounds]
//
// # Mutation
//
// Value methods (Add, Sub, Dot, Magnitude, Scaled) never modify their
// operands. Pointer methods (Scale, Pow, Reset) modify the receiver in place
// and are meant for accumulators:
//
//	var sum dynamo.Vector3
//	for _, d := range samples {
//	    sum = sum.Add(d)
//	}
//	sum.Scale(1 / float64(len(samples)))
package dynamo
