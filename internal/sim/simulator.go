package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/physics"
)

// accelerationChunk is the smallest body range handed to one worker.
const accelerationChunk = 16

// Simulation advances a fixed, index-stable set of bodies. It is not safe
// for concurrent use.
type Simulation struct {
	bodies    []*physics.Body
	cfg       Config
	logger    *slog.Logger
	observers []Observer

	active   int
	steps    int
	maxSteps int
	merges   int
}

func New(bodies []*physics.Body, cfg Config) (*Simulation, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, dynamo.ErrNoBodies
	}
	for i, b := range bodies {
		if b.Radius < 0 || math.IsNaN(b.Mass) || !b.Position.IsValid() || !b.Velocity.IsValid() {
			return nil, fmt.Errorf("%w: body %d (%v)", dynamo.ErrParameterBounds, i, b)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Simulation{
		bodies:   bodies,
		cfg:      cfg,
		logger:   logger,
		active:   metrics.Remaining(bodies),
		maxSteps: int(math.Ceil(cfg.MaxTime / cfg.Dt)),
	}
	return s, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if !(cfg.MaxTime > 0) {
		return fmt.Errorf("%w: max time must be positive, got %f", dynamo.ErrParameterBounds, cfg.MaxTime)
	}
	if steps := math.Ceil(cfg.MaxTime / cfg.Dt); steps >= float64(math.MaxInt) {
		return fmt.Errorf("%w: max time %g at dt %g needs too many steps", dynamo.ErrParameterBounds, cfg.MaxTime, cfg.Dt)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", dynamo.ErrParameterBounds, cfg.Workers)
	}
	return nil
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Bodies() []*physics.Body { return s.bodies }
func (s *Simulation) ActiveBodies() int       { return s.active }
func (s *Simulation) Steps() int              { return s.steps }
func (s *Simulation) Merges() int             { return s.merges }
func (s *Simulation) MaxSteps() int           { return s.maxSteps }

// Time is the simulated time elapsed so far.
func (s *Simulation) Time() float64 { return float64(s.steps) * s.cfg.Dt }

// Done reports whether max time is reached or at most one body is active.
func (s *Simulation) Done() bool {
	return s.steps >= s.maxSteps || s.active <= 1
}

// Step runs one full pipeline. Each phase finishes for every body before
// the next begins.
func (s *Simulation) Step() {
	s.resolveCollisions()
	s.updateAccelerations()
	for _, b := range s.bodies {
		b.UpdateVelocity(s.cfg.Dt)
	}
	for _, b := range s.bodies {
		b.UpdatePosition(s.cfg.Dt)
	}
	s.steps++

	info := StepInfo{Step: s.steps, Time: s.Time(), Active: s.active, Bodies: s.bodies}
	for _, obs := range s.observers {
		obs.OnStep(info)
	}
}

// Run steps until Done and summarizes the final state.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	s.logger.Debug("simulation started",
		"bodies", len(s.bodies),
		"active", s.active,
		"dt", s.cfg.Dt,
		"max_time", s.cfg.MaxTime,
		"max_steps", s.maxSteps,
		"radius_policy", s.cfg.Radius.String(),
	)

	for !s.Done() {
		select {
		case <-ctx.Done():
			return nil, &dynamo.SimulationError{
				Step:    s.steps,
				Time:    s.Time(),
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}
		s.Step()
	}

	result := s.Result()
	s.logger.Debug("simulation finished",
		"steps", result.Steps,
		"simulated_time", result.SimulatedTime,
		"remaining", result.Summary.Remaining,
		"merges", result.Merges,
	)
	return result, nil
}

// Result summarizes the current state.
func (s *Simulation) Result() *Result {
	return &Result{
		Summary:       metrics.Summarize(s.bodies),
		Diagnostics:   metrics.Diagnose(s.bodies),
		SimulatedTime: s.Time(),
		Steps:         s.steps,
		Merges:        s.merges,
		Bodies:        s.bodies,
	}
}

// resolveCollisions visits every ordered pair. The positive-mass guard is
// re-evaluated per pair, so a body absorbed earlier in the pass is skipped.
func (s *Simulation) resolveCollisions() {
	for i, body := range s.bodies {
		for j, other := range s.bodies {
			if i == j || !body.Active() || !other.Active() || !body.CheckCollision(other) {
				continue
			}

			survivor, absorbed := j, i
			if body.Mass > other.Mass {
				survivor, absorbed = i, j
			}
			s.bodies[survivor].Absorb(s.bodies[absorbed], s.cfg.Radius)
			s.active--
			s.merges++

			ev := MergeEvent{Step: s.steps + 1, Time: s.Time(), Survivor: survivor, Absorbed: absorbed}
			s.logger.Debug("merge",
				"step", ev.Step,
				"survivor", survivor,
				"absorbed", absorbed,
				"mass", s.bodies[survivor].Mass,
				"active", s.active,
			)
			for _, obs := range s.observers {
				if mo, ok := obs.(MergeObserver); ok {
					mo.OnMerge(ev)
				}
			}
		}
	}
}

// updateAccelerations rebuilds every body's acceleration from the active
// bodies. Workers only write the accelerations of their own range.
func (s *Simulation) updateAccelerations() {
	dynamo.ParallelFor(len(s.bodies), s.cfg.Workers, accelerationChunk, func(start, end int) {
		for i := start; i < end; i++ {
			body := s.bodies[i]
			body.ResetAcceleration()
			for j, other := range s.bodies {
				if i == j || !other.Active() {
					continue
				}
				body.UpdateAcceleration(other)
			}
			body.ScaleAcceleration(-physics.G)
		}
	})
}
