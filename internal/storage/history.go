package storage

import (
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/sim"
)

type HistoryRow struct {
	Step          int     `csv:"step" json:"step"`
	Time          float64 `csv:"time" json:"time"`
	Active        int     `csv:"active" json:"active"`
	KineticEnergy float64 `csv:"kinetic_energy" json:"kinetic_energy"`
}

// HistoryRecorder is a sim.Observer that samples every Nth step. The last
// step seen is always kept so a history ends on the final state.
type HistoryRecorder struct {
	every   int
	rows    []HistoryRow
	pending *HistoryRow
}

func NewHistoryRecorder(every int) *HistoryRecorder {
	if every < 1 {
		every = 1
	}
	return &HistoryRecorder{every: every}
}

func (h *HistoryRecorder) OnStep(info sim.StepInfo) {
	row := HistoryRow{
		Step:          info.Step,
		Time:          info.Time,
		Active:        info.Active,
		KineticEnergy: metrics.KineticEnergy(info.Bodies),
	}
	if info.Step%h.every == 0 {
		h.rows = append(h.rows, row)
		h.pending = nil
		return
	}
	h.pending = &row
}

// Rows returns the recorded samples.
func (h *HistoryRecorder) Rows() []HistoryRow {
	if h.pending != nil {
		return append(h.rows[:len(h.rows):len(h.rows)], *h.pending)
	}
	return h.rows
}
