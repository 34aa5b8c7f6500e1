package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxStepsPerTick = 512
)

type TickMsg time.Time

// Model is a bubbletea view that steps a simulation on every tick and draws
// the active bodies projected through a rotatable camera.
type Model struct {
	sim          *sim.Simulation
	title        string
	canvas       *Canvas
	camera       *Camera
	running      bool
	stepsPerTick int
	active       []float64
	energy       []float64
	showHelp     bool
}

func NewModel(s *sim.Simulation, title string) *Model {
	m := &Model{
		sim:          s,
		title:        title,
		canvas:       NewCanvas(width, height),
		camera:       NewCamera(),
		running:      true,
		stepsPerTick: 1,
		active:       make([]float64, 0, historyCapacity),
		energy:       make([]float64, 0, historyCapacity),
	}
	m.record()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles keys and advances the simulation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.sim.Done() {
				m.step()
			}
		case ".", ">":
			m.stepsPerTick = min(maxStepsPerTick, m.stepsPerTick*2)
		case ",", "<":
			m.stepsPerTick = max(1, m.stepsPerTick/2)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "c":
			m.camera.Reset()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick && !m.sim.Done(); i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.sim.Step()
	m.record()
}

func (m *Model) record() {
	m.active = appendCapped(m.active, float64(m.sim.ActiveBodies()))
	m.energy = appendCapped(m.energy, metrics.KineticEnergy(m.sim.Bodies()))
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// draw renders every active body as a disc scaled by its radius.
func (m *Model) draw() {
	m.canvas.Clear()
	bodies := m.sim.Bodies()
	w, h := m.canvas.PixelSize()
	frame := FitFrame(bodies, m.camera, w, h)
	scale := frame.Scale(m.camera.Zoom)
	for _, b := range bodies {
		if !b.Active() {
			continue
		}
		x, y := frame.Project(m.camera.Rotate(b.Position), m.camera.Zoom)
		m.canvas.Disc(x, y, min(4, int(b.Radius*scale)))
	}
}

func (m *Model) status() string {
	switch {
	case m.sim.Done():
		return StatusDone.Render("DONE")
	case m.running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

// View renders the canvas and the stats pane side by side.
func (m *Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.active) > 1 {
		chart := asciigraph.Plot(m.active, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("Active bodies"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	stat := func(label, value string) {
		s.WriteString(MetricLabel.Width(12).Render(label) + MetricValue.Render(value) + "\n")
	}
	stat("Time", fmt.Sprintf("%.2f", m.sim.Time()))
	stat("Step", fmt.Sprintf("%d/%d", m.sim.Steps(), m.sim.MaxSteps()))
	stat("Active", fmt.Sprintf("%d", m.sim.ActiveBodies()))
	stat("Merges", fmt.Sprintf("%d", m.sim.Merges()))
	stat("Kinetic", fmt.Sprintf("%.4g", m.energy[len(m.energy)-1]))
	stat("Speed", fmt.Sprintf("%d steps/tick", m.stepsPerTick))

	s.WriteString(KeyHint.Render("\nSP:Pause N:Step Q:Quit\n</>:Speed x/y:Rotate +/-:Zoom\nC:Camera ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause / resume
  n        advance one step
  < >      halve / double steps per frame
  x X      rotate about x
  y Y      rotate about y
  + -      zoom
  c        reset camera
  q        quit`

// Result summarizes the state the view was left in.
func (m *Model) Result() *sim.Result { return m.sim.Result() }
