package universe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/nbodysim/internal/physics"
)

// Write emits the body count, a header line and one record per body.
// Absorbed bodies are kept with their non-positive mass so the file lines up
// index for index with the input universe.
func Write(w io.Writer, bodies []*physics.Body) error {
	if _, err := fmt.Fprintf(w, "%d\n", len(bodies)); err != nil {
		return fmt.Errorf("writing body count: %w", err)
	}

	records := make([]*record, len(bodies))
	for i, b := range bodies {
		records[i] = toRecord(b)
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("writing bodies: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// SaveFinal writes bodies to path, creating parent directories as needed.
func SaveFinal(path string, bodies []*physics.Body) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating final state file: %w", err)
	}
	if err := Write(f, bodies); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FinalStatePath names the final-state file after the universe it came from:
// "<stem>-<whole seconds>.tsv". An empty outDir keeps the universe's own
// directory. Random universes pass a synthetic name such as "random-42".
func FinalStatePath(universeFile, outDir string, simulatedTime float64) string {
	base := filepath.Base(universeFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("%s-%d.tsv", stem, int(simulatedTime))
	if outDir == "" {
		outDir = filepath.Dir(universeFile)
	}
	return filepath.Join(outDir, name)
}
