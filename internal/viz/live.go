package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/coerce"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

const (
	defaultWidth  = 60
	defaultHeight = 22
	statsWidth    = 45

	defaultTrail = 1500
	minTrail     = 50
	maxTrail     = 50000
	graphSamples = 200
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model draws a system's trajectory as it is generated. The trail keeps
// the most recent n states.
type Model struct {
	registry *chaos.Registry
	names    []string
	current  int

	base      chaos.Guarded
	sys       chaos.Guarded
	params    dynamo.Params
	initial   dynamo.Params
	paramKeys []string
	selected  int

	state     dynamo.State
	trail     dynamo.Series
	n         int
	steps     int
	fallbacks int

	running       bool
	camera        *Camera
	canvas        *Canvas
	width, height int
	showHelp      bool
}

// NewModel starts a live view of system. Unknown names show the default
// system.
func NewModel(registry *chaos.Registry, system string) Model {
	m := Model{
		registry: registry,
		names:    registry.Names(),
		n:        defaultTrail,
		running:  true,
		camera:   NewCamera(),
		width:    defaultWidth,
		height:   defaultHeight,
		canvas:   NewCanvas(defaultWidth, defaultHeight),
	}
	sys, _ := registry.Resolve(system)
	for i, name := range m.names {
		if name == sys.Name() {
			m.current = i
		}
	}
	m.load(sys)
	return m
}

func (m *Model) load(sys chaos.Guarded) {
	m.base = sys
	m.sys = sys
	m.params = sys.DefaultParams()
	m.initial = m.params.Clone()
	m.paramKeys = m.params.Names()
	m.selected = 0
	m.reset()
}

// reset restores the initial state and parameters.
func (m *Model) reset() {
	m.params = m.initial.Clone()
	m.sys = m.base
	m.state = m.base.DefaultState()
	m.trail = m.trail[:0]
	m.steps = 0
	m.fallbacks = 0
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "left", "h":
			m.switchSystem(-1)
		case "right", "l":
			m.switchSystem(1)
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "[":
			m.resizeTrail(m.n / 2)
		case "]":
			m.resizeTrail(m.n * 2)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-statsWidth-8, 10)
		m.height = max(msg.Height-4, 5)
		m.canvas = NewCanvas(m.width, m.height)
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick(); i++ {
				m.step()
			}
			m.camera.Advance()
		}
		return m, tick()
	}
	return m, nil
}

// Flows move little per step, so they take several steps per frame.
func (m Model) stepsPerTick() int {
	if _, ok := m.sys.DefaultParams()["dt"]; ok {
		return 4
	}
	return 2
}

func (m *Model) step() {
	next, outcome := m.sys.Advance(m.state)
	if outcome == coerce.Defaulted {
		m.fallbacks++
	}
	m.state = next
	m.steps++
	m.trail = append(m.trail, next)
	if len(m.trail) > m.n {
		m.trail = m.trail[len(m.trail)-m.n:]
	}
}

func (m *Model) switchSystem(dir int) {
	if len(m.names) == 0 {
		return
	}
	m.current = (m.current + dir + len(m.names)) % len(m.names)
	sys, _ := m.registry.Resolve(m.names[m.current])
	m.load(sys)
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	m.params[key] *= factor
	m.sys = m.base.Configure(m.overrides())
}

func (m *Model) overrides() map[string]any {
	out := make(map[string]any, len(m.params))
	for k, v := range m.params {
		out[k] = v
	}
	return out
}

func (m *Model) resizeTrail(n int) {
	m.n = min(max(n, minTrail), maxTrail)
	if len(m.trail) > m.n {
		m.trail = m.trail[len(m.trail)-m.n:]
	}
}

// System is the canonical name of the system on screen.
func (m Model) System() string { return m.base.Name() }

func (m Model) View() string {
	m.canvas.Clear()
	drawSeries(m.canvas, m.trail, m.camera)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.base.Name())) + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.trail) > 1 {
		col := m.trail[max(len(m.trail)-graphSamples, 0):].Column(0)
		chart := asciigraph.Plot(col, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("x0"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("Trail") + valueStyle.Render(fmt.Sprintf("%d", m.n)) + "\n")
	s.WriteString(labelStyle.Render("State") + valueStyle.Render(formatState(m.state)) + "\n")
	if m.fallbacks > 0 {
		s.WriteString(labelStyle.Render("Fallbacks") + valueStyle.Render(fmt.Sprintf("%d", m.fallbacks)) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-6s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n←→:System ↑↓:Tune ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset state and params   ║
║  ← →      - Previous/next system     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  [ ]      - Halve/double trail       ║
║  x y z    - Rotate (shift reverses)  ║
║  + -      - Zoom                     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func formatState(x dynamo.State) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return strings.Join(parts, ", ")
}

// Run opens the live view for system on the alternate screen.
func Run(registry *chaos.Registry, system string) error {
	_, err := tea.NewProgram(NewModel(registry, system), tea.WithAltScreen()).Run()
	return err
}
