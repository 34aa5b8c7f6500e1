package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

func vec(x, y, z float64) dynamo.Vector3 { return dynamo.NewVector3(x, y, z) }

func near(a, b dynamo.Vector3, eps float64) bool {
	return a.Sub(b).Magnitude() <= eps
}

func TestStatistics_ThreeBodies(t *testing.T) {
	bodies := []*physics.Body{
		physics.NewBody(1, 1, vec(0, 0, 0), vec(1, 0, 0)),
		physics.NewBody(1, 1, vec(3, 0, 0), vec(3, 0, 0)),
		physics.NewBody(1, 1, vec(0, 6, 0), vec(2, 3, 0)),
	}

	// pair displacements: (-3,0,0), (0,-6,0), (3,-6,0)
	wantDistMean := vec(0, -4, 0)
	if got := DistanceMean(bodies); !near(got, wantDistMean, 1e-12) {
		t.Errorf("DistanceMean = %v, want %v", got, wantDistMean)
	}

	wantDistStdev := vec(math.Sqrt(6), math.Sqrt(8), 0)
	if got := DistanceStdev(bodies); !near(got, wantDistStdev, 1e-12) {
		t.Errorf("DistanceStdev = %v, want %v", got, wantDistStdev)
	}

	wantVelMean := vec(2, 1, 0)
	if got := VelocityMean(bodies); !near(got, wantVelMean, 1e-12) {
		t.Errorf("VelocityMean = %v, want %v", got, wantVelMean)
	}

	wantVelStdev := vec(math.Sqrt(2.0/3), math.Sqrt(2), 0)
	if got := VelocityStdev(bodies); !near(got, wantVelStdev, 1e-12) {
		t.Errorf("VelocityStdev = %v, want %v", got, wantVelStdev)
	}

	if got := Remaining(bodies); got != 3 {
		t.Errorf("Remaining = %d, want 3", got)
	}
}

func TestStatistics_SkipsInactive(t *testing.T) {
	bodies := []*physics.Body{
		physics.NewBody(2, 1, vec(0, 0, 0), vec(1, 1, 1)),
		physics.NewBody(-1, 1, vec(100, 0, 0), vec(50, 0, 0)),
		physics.NewBody(2, 1, vec(4, 0, 0), vec(3, 1, 1)),
	}

	if got := DistanceMean(bodies); !near(got, vec(-4, 0, 0), 1e-12) {
		t.Errorf("DistanceMean = %v, want [-4, 0, 0]", got)
	}
	if got := VelocityMean(bodies); !near(got, vec(2, 1, 1), 1e-12) {
		t.Errorf("VelocityMean = %v, want [2, 1, 1]", got)
	}
	if got := Remaining(bodies); got != 2 {
		t.Errorf("Remaining = %d, want 2", got)
	}
}

func TestStatistics_NoSamples(t *testing.T) {
	tests := []struct {
		name   string
		bodies []*physics.Body
	}{
		{"empty", nil},
		{"single active", []*physics.Body{physics.NewBody(1, 1, vec(1, 2, 3), vec(4, 5, 6))}},
		{"all inactive", []*physics.Body{
			physics.NewBody(-1, 1, vec(0, 0, 0), vec(0, 0, 0)),
			physics.NewBody(0, 1, vec(1, 0, 0), vec(0, 0, 0)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.bodies)
			if !s.DistanceMean.Equal(dynamo.Vector3{}) || !s.DistanceStdev.Equal(dynamo.Vector3{}) {
				t.Errorf("no pairs should give zero distance stats, got %v %v", s.DistanceMean, s.DistanceStdev)
			}
			if !s.VelocityStdev.IsValid() {
				t.Errorf("velocity stdev not finite: %v", s.VelocityStdev)
			}
		})
	}
}

func TestSummarize_MatchesIndividualFunctions(t *testing.T) {
	bodies := []*physics.Body{
		physics.NewBody(1, 1, vec(1, 2, 3), vec(-1, 0, 2)),
		physics.NewBody(3, 1, vec(-4, 0, 9), vec(2, 2, 2)),
		physics.NewBody(5, 1, vec(7, -1, 0), vec(0, -3, 1)),
		physics.NewBody(2, 1, vec(0, 5, -5), vec(4, 1, 0)),
	}

	s := Summarize(bodies)
	if !s.DistanceMean.Equal(DistanceMean(bodies)) ||
		!s.DistanceStdev.Equal(DistanceStdev(bodies)) ||
		!s.VelocityMean.Equal(VelocityMean(bodies)) ||
		!s.VelocityStdev.Equal(VelocityStdev(bodies)) ||
		s.Remaining != Remaining(bodies) {
		t.Errorf("Summarize disagrees with individual statistics: %+v", s)
	}
}

func TestDiagnose(t *testing.T) {
	bodies := []*physics.Body{
		physics.NewBody(2, 1, vec(0, 0, 0), vec(1, 0, 0)),
		physics.NewBody(4, 1, vec(5, 0, 0), vec(0, -1, 0)),
		physics.NewBody(-9, 1, vec(9, 0, 0), vec(100, 0, 0)),
	}

	d := Diagnose(bodies)
	if d.TotalMass != 6 {
		t.Errorf("TotalMass = %v, want 6", d.TotalMass)
	}
	if !d.Momentum.Equal(vec(2, -4, 0)) {
		t.Errorf("Momentum = %v, want [2, -4, 0]", d.Momentum)
	}
	if d.KineticEnergy != 3 {
		t.Errorf("KineticEnergy = %v, want 3", d.KineticEnergy)
	}
	if math.Abs(d.MassMean-3) > 1e-12 || math.Abs(d.MassStdev-1) > 1e-12 {
		t.Errorf("mass mean/stdev = %v/%v, want 3/1", d.MassMean, d.MassStdev)
	}
	if KineticEnergy(bodies) != d.KineticEnergy {
		t.Error("KineticEnergy helper disagrees with Diagnose")
	}
}

func TestDiagnose_Degenerate(t *testing.T) {
	d := Diagnose(nil)
	if d != (Diagnostics{}) {
		t.Errorf("empty diagnostics = %+v", d)
	}

	d = Diagnose([]*physics.Body{physics.NewBody(7, 1, vec(0, 0, 0), vec(0, 0, 0))})
	if d.MassMean != 7 || d.MassStdev != 0 {
		t.Errorf("single body diagnostics = %+v", d)
	}
}
