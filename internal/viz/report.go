package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/sim"
)

type reportLine struct {
	label string
	value string
}

func summaryLines(s metrics.Summary) []reportLine {
	return []reportLine{
		{"Remaining bodies", fmt.Sprintf("%d", s.Remaining)},
		{"Distance (mean)", s.DistanceMean.String()},
		{"Distance (stdev)", s.DistanceStdev.String()},
		{"Velocity (mean)", s.VelocityMean.String()},
		{"Velocity (stdev)", s.VelocityStdev.String()},
	}
}

func diagnosticLines(r *sim.Result) []reportLine {
	d := r.Diagnostics
	return []reportLine{
		{"Steps", fmt.Sprintf("%d", r.Steps)},
		{"Simulated time", fmt.Sprintf("%g", r.SimulatedTime)},
		{"Merges", fmt.Sprintf("%d", r.Merges)},
		{"Total mass", fmt.Sprintf("%g", d.TotalMass)},
		{"Momentum", d.Momentum.String()},
		{"Kinetic energy", fmt.Sprintf("%g", d.KineticEnergy)},
		{"Mass (mean)", fmt.Sprintf("%g", d.MassMean)},
		{"Mass (stdev)", fmt.Sprintf("%g", d.MassStdev)},
	}
}

// WriteReport prints the final-state summary as "Label: value" lines.
func WriteReport(w io.Writer, s metrics.Summary) error {
	for _, l := range summaryLines(s) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteDiagnostics prints run counters and conserved quantities.
func WriteDiagnostics(w io.Writer, r *sim.Result) error {
	for _, l := range diagnosticLines(r) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// RenderReport is the styled terminal version of WriteReport. verbose adds
// the diagnostics block.
func RenderReport(title string, r *sim.Result, verbose bool) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title) + "\n")
	renderLines(&b, summaryLines(r.Summary))
	if verbose {
		b.WriteString("\n" + Subtle.Render("diagnostics") + "\n")
		renderLines(&b, diagnosticLines(r))
	}
	return GlassPanel.Render(strings.TrimRight(b.String(), "\n"))
}

func renderLines(b *strings.Builder, lines []reportLine) {
	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l.label))
	}
	label := MetricLabel.Width(width + 2)
	for _, l := range lines {
		b.WriteString(label.Render(l.label) + MetricValue.Render(l.value) + "\n")
	}
}
