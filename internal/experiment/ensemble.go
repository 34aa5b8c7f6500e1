package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Ensemble runs independent random universes seeded seedStart, seedStart+1,
// and so on. Each member owns its bodies and simulation.
type Ensemble struct {
	base    *config.Config
	numRuns int
	logger  *slog.Logger
}

func NewEnsemble(base *config.Config, numRuns int, logger *slog.Logger) *Ensemble {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Ensemble{base: base, numRuns: numRuns, logger: logger}
}

// Run returns outcomes in seed order. Any member failure fails the ensemble.
func (e *Ensemble) Run(ctx context.Context) ([]*Outcome, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("%w: ensemble size must be positive, got %d", dynamo.ErrParameterBounds, e.numRuns)
	}
	if !e.base.RandomMode() {
		return nil, fmt.Errorf("%w: ensembles need a random universe", dynamo.ErrParameterBounds)
	}

	results := make([]*Outcome, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.base.Clone()
			cfg.Seed = e.base.Seed + int64(idx)

			exp := New(cfg, e.logger.With("member", idx))
			if err := exp.Setup(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("ensemble member %d: %w", i, err)
		}
	}
	return results, nil
}
