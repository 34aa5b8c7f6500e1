package metrics

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

// Diagnostics are conserved-quantity checks over the active bodies.
type Diagnostics struct {
	TotalMass     float64        `json:"total_mass"`
	Momentum      dynamo.Vector3 `json:"momentum"`
	KineticEnergy float64        `json:"kinetic_energy"`
	MassMean      float64        `json:"mass_mean"`
	MassStdev     float64        `json:"mass_stdev"`
}

func Diagnose(bodies []*physics.Body) Diagnostics {
	var d Diagnostics
	masses := make([]float64, 0, len(bodies))
	for _, b := range bodies {
		if !b.Active() {
			continue
		}
		masses = append(masses, b.Mass)
		d.TotalMass += b.Mass
		d.Momentum = d.Momentum.Add(b.Momentum())
		d.KineticEnergy += b.KineticEnergy()
	}
	switch len(masses) {
	case 0:
	case 1:
		d.MassMean = masses[0]
	default:
		d.MassMean, d.MassStdev = stat.PopMeanStdDev(masses, nil)
	}
	return d
}

// LogValue implements slog.LogValuer.
func (d Diagnostics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("total_mass", d.TotalMass),
		slog.String("momentum", d.Momentum.String()),
		slog.Float64("kinetic_energy", d.KineticEnergy),
		slog.Float64("mass_mean", d.MassMean),
		slog.Float64("mass_stdev", d.MassStdev),
	)
}

// KineticEnergy sums ½mv² over active bodies.
func KineticEnergy(bodies []*physics.Body) float64 {
	e := 0.0
	for _, b := range bodies {
		if b.Active() {
			e += b.KineticEnergy()
		}
	}
	return e
}
