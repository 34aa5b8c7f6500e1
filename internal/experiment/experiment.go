package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/sim"
	"github.com/san-kum/nbodysim/internal/storage"
	"github.com/san-kum/nbodysim/internal/universe"
)

// historyEvery is the step stride of the recorded history.
const historyEvery = 1

// Outcome is a finished run with everything needed to report or store it.
type Outcome struct {
	Name       string
	Config     *config.Config
	Result     *sim.Result
	History    []storage.HistoryRow
	FinalState string
}

// StoreRun converts the outcome for the run store.
func (o *Outcome) StoreRun() storage.Run {
	return storage.Run{
		Name:       o.Name,
		Config:     o.Config,
		Result:     o.Result,
		History:    o.History,
		FinalState: o.FinalState,
	}
}

type Experiment struct {
	cfg       *config.Config
	logger    *slog.Logger
	simulator *sim.Simulation
	history   *storage.HistoryRecorder
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Name identifies the run: the universe file stem, or "random-<seed>".
func (e *Experiment) Name() string {
	if e.cfg.RandomMode() {
		return fmt.Sprintf("random-%d", e.cfg.Seed)
	}
	base := filepath.Base(e.cfg.Universe)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Bodies loads the configured universe file or generates a random one.
func (e *Experiment) Bodies() ([]*physics.Body, error) {
	if e.cfg.RandomMode() {
		return universe.Generate(e.cfg.Random.Count, e.cfg.Random.Ranges, e.cfg.Seed)
	}
	return universe.Load(e.cfg.Universe)
}

// Setup validates the configuration and builds the simulation. Observers are
// attached to the simulation before it runs.
func (e *Experiment) Setup(observers ...sim.Observer) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	bodies, err := e.Bodies()
	if err != nil {
		return err
	}

	s, err := sim.New(bodies, e.cfg.SimConfig(e.logger))
	if err != nil {
		return err
	}
	e.history = storage.NewHistoryRecorder(historyEvery)
	s.AddObserver(e.history)
	for _, o := range observers {
		s.AddObserver(o)
	}
	e.simulator = s

	e.logger.Info("universe ready",
		"name", e.Name(),
		"bodies", len(bodies),
		"active", s.ActiveBodies(),
		"random", e.cfg.RandomMode(),
	)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	result, err := e.simulator.Run(ctx)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Name:    e.Name(),
		Config:  e.cfg,
		Result:  result,
		History: e.history.Rows(),
	}

	if e.cfg.SaveFinal {
		source := e.cfg.Universe
		if e.cfg.RandomMode() {
			source = e.Name()
		}
		path := universe.FinalStatePath(source, e.cfg.OutputDir, result.SimulatedTime)
		if err := universe.SaveFinal(path, result.Bodies); err != nil {
			return nil, err
		}
		out.FinalState = path
		e.logger.Info("final state saved", "path", path)
	}

	e.logger.Info("run finished",
		"name", out.Name,
		"steps", result.Steps,
		"remaining", result.Summary.Remaining,
		"merges", result.Merges,
		"diagnostics", result.Diagnostics,
	)
	return out, nil
}

// Simulator returns the underlying simulation for stepping it directly.
func (e *Experiment) Simulator() *sim.Simulation {
	return e.simulator
}
