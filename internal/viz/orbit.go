package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 2000
	frameInterval   = time.Second / 30
)

// Snapshot stores one frame for replay.
type Snapshot struct {
	Body sim.Body
	Tau  float64
	Norm float64
}

type TickMsg time.Time

// Model drives one body through the integrator and draws its orbit.
type Model struct {
	name          string
	integ         sim.Integrator
	cfg           sim.Config
	initial       sim.Body
	body          sim.Body
	tau           float64
	ticksPerFrame int
	canvas        *Canvas
	camera        *Camera
	trail         []spacetime.Coordinate
	history       []Snapshot
	playHead      int
	running       bool
	halted        error
	superluminal  bool
	speed         float64
	showHelp      bool
}

// NewModel prepares a live view. body must already be valid.
func NewModel(name string, integ sim.Integrator, body sim.Body, cfg sim.Config) Model {
	extent := 1.5 * body.X[spacetime.R]
	if h := body.Params.Horizon(); !math.IsNaN(h) {
		extent = max(extent, 1.5*h)
	}
	m := Model{
		name:          name,
		integ:         integ,
		cfg:           cfg,
		initial:       body,
		body:          body,
		ticksPerFrame: 10,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(extent),
		trail:         make([]spacetime.Coordinate, 0, trailCapacity),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
		running:       true,
	}
	m.observe()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.halted == nil {
				m.running = !m.running
			}
		case "n":
			if !m.running {
				m.advance()
			}
		case ">", ".":
			m.ticksPerFrame = min(10000, m.ticksPerFrame*2)
		case "<", ",":
			m.ticksPerFrame = max(1, m.ticksPerFrame/2)
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
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
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.advance()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one frame worth of ticks, stopping at the first one that
// leaves the domain.
func (m *Model) advance() {
	if m.halted != nil {
		return
	}
	for i := 0; i < m.ticksPerFrame; i++ {
		next, err := sim.Advance(m.integ, m.body, m.cfg)
		if err != nil {
			m.halted = err
			m.running = false
			break
		}
		m.body = next
		m.tau += m.cfg.TickSize()
		m.trail = append(m.trail, m.body.X)
	}
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[len(m.trail)-trailCapacity:]
	}
	m.observe()
}

// observe records the current state and refreshes the warnings.
func (m *Model) observe() {
	m.history = append(m.history, Snapshot{Body: m.body, Tau: m.tau, Norm: m.body.NormSquared()})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	v, err := spacetime.LocalSpeed(m.body.U, m.body.Here())
	if err != nil {
		v = math.NaN()
	}
	m.speed = v
	m.superluminal = v > 1
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.body = m.initial
	m.tau = 0
	m.trail = m.trail[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.halted = nil
	m.running = true
	m.observe()
}

// current is the snapshot on screen, which differs from the live state
// while replaying.
func (m Model) current() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return Snapshot{Body: m.body, Tau: m.tau, Norm: m.body.NormSquared()}
}

func (m Model) status() string {
	switch {
	case m.halted != nil:
		return "HALTED"
	case m.playHead != -1 && m.running:
		return fmt.Sprintf("REPLAYING (%d/%d)", m.playHead+1, len(m.history))
	case m.playHead != -1:
		return fmt.Sprintf("REPLAY PAUSED (%d/%d)", m.playHead+1, len(m.history))
	case m.running:
		return fmt.Sprintf("RUNNING ×%d", m.ticksPerFrame)
	default:
		return "PAUSED"
	}
}

func cartesian(x spacetime.Coordinate) Vec3 {
	cx, cy, cz := x.Cartesian()
	return Vec3{cx, cy, cz}
}

func (m *Model) draw(snap Snapshot) {
	m.canvas.Clear()
	sw, sh := m.canvas.PixelSize()

	if h := snap.Body.Params.Horizon(); !math.IsNaN(h) && h > 0 {
		m.drawRing(h, sw, sh)
	}
	if ox, oy, ok := m.camera.Project(Vec3{}, sw, sh); ok {
		m.canvas.Set(ox, oy)
	}

	px, py, have := 0, 0, false
	for _, x := range m.trail {
		sx, sy, ok := m.camera.Project(cartesian(x), sw, sh)
		if !ok {
			have = false
			continue
		}
		if have {
			m.canvas.DrawLine(px, py, sx, sy)
		} else {
			m.canvas.Set(sx, sy)
		}
		px, py, have = sx, sy, true
	}

	if bx, by, ok := m.camera.Project(cartesian(snap.Body.X), sw, sh); ok {
		m.canvas.Dot(bx, by, 1)
	}
}

// drawRing outlines the horizon's equatorial circle.
func (m *Model) drawRing(r float64, sw, sh int) {
	const n = 64
	var px, py int
	for i := 0; i <= n; i++ {
		phi := 2 * math.Pi * float64(i) / n
		x, y, ok := m.camera.Project(cartesian(spacetime.Coordinate{0, r, math.Pi / 2, phi}), sw, sh)
		if !ok {
			continue
		}
		if i > 0 {
			m.canvas.DrawLine(px, py, x, y)
		}
		px, py = x, y
	}
}

func (m Model) View() string {
	snap := m.current()
	m.draw(snap)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(titleStyle().Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(valueStyle().Render(snap.Body.Params.Variant.String()) + "\n")
	status := m.status()
	s.WriteString(statusStyle(status).Render(status) + "\n\n")

	x, u := snap.Body.X, snap.Body.U
	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("τ", fmt.Sprintf("%.4g", snap.Tau))
	row("t", fmt.Sprintf("%.4g", x[spacetime.T]))
	row("r", fmt.Sprintf("%.5g", x[spacetime.R]))
	row("θ", fmt.Sprintf("%.4f", x[spacetime.Theta]))
	row("φ", fmt.Sprintf("%.4f", x[spacetime.Phi]))
	row("Uᵗ", fmt.Sprintf("%.6g", u[spacetime.T]))
	row("g(U,U)", fmt.Sprintf("%.9f", snap.Norm))
	row("v local", fmt.Sprintf("%.4f c", m.speed))

	radii := make([]float64, 0, len(m.history))
	norms := make([]float64, 0, len(m.history))
	for _, h := range m.history {
		radii = append(radii, h.Body.X[spacetime.R])
		norms = append(norms, h.Norm)
	}
	if len(radii) > 1 {
		chart := asciigraph.Plot(radii, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("r(τ)"))
		s.WriteString("\n" + fg(CurrentTheme.Primary).Render(chart) + "\n")
	}
	s.WriteString("\n" + labelStyle().Render("norm²") + fg(CurrentTheme.Accent).Render(Sparkline(norms, 32)) + "\n")

	if m.superluminal {
		s.WriteString("\n" + warningStyle().Render("⚠ local speed exceeds c") + "\n")
	}
	if m.halted != nil {
		s.WriteString("\n" + errorStyle().Render("⚠ "+m.halted.Error()) + "\n")
	}

	s.WriteString("\n" + keyHints("space", "pause", "n", "step", "r", "reset", "q", "quit") + "\n")
	s.WriteString(keyHints("<>", "speed", "[]", "replay", "?", "help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpBox.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `Space    pause / resume
N        advance one frame while paused
< >      halve / double ticks per frame
R        reset to the initial state
[ ]      scrub back / forward through history
x X y Y  rotate the camera
+ -      zoom
T        cycle themes
?        toggle this help
Q        quit`

// Run opens the live view full screen and blocks until it exits.
func Run(name string, integ sim.Integrator, body sim.Body, cfg sim.Config) error {
	_, err := tea.NewProgram(NewModel(name, integ, body, cfg), tea.WithAltScreen()).Run()
	return err
}
