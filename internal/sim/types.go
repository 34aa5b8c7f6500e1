package sim

import (
	"log/slog"

	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/physics"
)

type Config struct {
	Dt      float64
	MaxTime float64
	// Radius decides whether a merge grows the surviving body.
	Radius physics.RadiusPolicy
	// Workers > 1 splits the acceleration pass across goroutines; 0 uses
	// GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Dt:      1.0,
		MaxTime: 10.0,
		Radius:  physics.KeepRadius,
		Workers: 1,
	}
}

// StepInfo is passed to observers after every completed step.
type StepInfo struct {
	Step   int
	Time   float64
	Active int
	Bodies []*physics.Body
}

// MergeEvent describes one absorption. Indices refer to the body slice.
type MergeEvent struct {
	Step     int
	Time     float64
	Survivor int
	Absorbed int
}

type Observer interface {
	OnStep(info StepInfo)
}

// MergeObserver may additionally be implemented by an Observer.
type MergeObserver interface {
	OnMerge(ev MergeEvent)
}

type Result struct {
	Summary       metrics.Summary     `json:"summary"`
	Diagnostics   metrics.Diagnostics `json:"diagnostics"`
	SimulatedTime float64             `json:"simulated_time"`
	Steps         int                 `json:"steps"`
	Merges        int                 `json:"merges"`
	Bodies        []*physics.Body     `json:"-"`
}
