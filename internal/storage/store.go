package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Timestamp     time.Time           `json:"timestamp"`
	Config        *config.Config      `json:"config"`
	Bodies        int                 `json:"bodies"`
	Steps         int                 `json:"steps"`
	Merges        int                 `json:"merges"`
	SimulatedTime float64             `json:"simulated_time"`
	Summary       metrics.Summary     `json:"summary"`
	Diagnostics   metrics.Diagnostics `json:"diagnostics"`
	FinalState    string              `json:"final_state,omitempty"`
}

// Run is everything recorded about one finished simulation.
type Run struct {
	Name       string
	Config     *config.Config
	Result     *sim.Result
	History    []HistoryRow
	FinalState string
}

// Save writes a run directory holding metadata.json and history.csv and
// returns the new run's id.
func (s *Store) Save(run Run) (string, error) {
	if run.Result == nil {
		return "", errors.New("storage: run has no result")
	}
	now := time.Now()
	runID, runDir, err := s.createRunDir(run.Name, now)
	if err != nil {
		return "", err
	}

	result := run.Result
	meta := RunMetadata{
		ID:            runID,
		Name:          run.Name,
		Timestamp:     now,
		Config:        run.Config,
		Bodies:        len(result.Bodies),
		Steps:         result.Steps,
		Merges:        result.Merges,
		SimulatedTime: result.SimulatedTime,
		Summary:       result.Summary,
		Diagnostics:   result.Diagnostics,
		FinalState:    run.FinalState,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	f, err := os.Create(filepath.Join(runDir, historyFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	history := run.History
	if history == nil {
		history = []HistoryRow{}
	}
	if err := gocsv.MarshalFile(&history, f); err != nil {
		return "", fmt.Errorf("writing history: %w", err)
	}

	return runID, nil
}

// createRunDir picks "<name>_<unix>" and adds a counter when runs land in
// the same second.
func (s *Store) createRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) ([]HistoryRow, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []HistoryRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []HistoryRow{}, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return rows, nil
}
