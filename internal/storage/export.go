package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	History []HistoryRow `json:"history"`
}

// ExportJSON writes a run's metadata and history as one indented document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, History: history})
}
