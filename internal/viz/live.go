package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mcsim/internal/mcmc"
)

const (
	canvasWidth     = 40
	canvasHeight    = 12
	historyCapacity = 600
	rateWindow      = 50
	maxStepsPerTick = 4096
)

var (
	panelStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
)

type TickMsg time.Time

// ChainFactory builds a fresh chain. It is called at start and on reset, so
// returning a chain with the same seed replays the same path.
type ChainFactory func() (*mcmc.Chain, error)

// Live steps a chain on every tick and renders its progress.
type Live struct {
	title        string
	newChain     ChainFactory
	chain        *mcmc.Chain
	bounds       mcmc.Range
	stepsPerTick int
	maxSteps     int
	running      bool
	err          error

	history   []float64
	points    [][2]float64
	rates     []float64
	windowAcc int
	windowN   int
	canvas    *Canvas
}

// NewLive builds the model. maxSteps of 0 samples until quit.
func NewLive(title string, bounds mcmc.Range, newChain ChainFactory, stepsPerTick, maxSteps int) (Live, error) {
	chain, err := newChain()
	if err != nil {
		return Live{}, err
	}
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}

	m := Live{
		title:        title,
		newChain:     newChain,
		chain:        chain,
		bounds:       bounds,
		stepsPerTick: stepsPerTick,
		maxSteps:     maxSteps,
		running:      true,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
	}
	m.clearHistory()
	m.record(chain.Current())
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Init() tea.Cmd {
	return tick()
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			if m.stepsPerTick < maxStepsPerTick {
				m.stepsPerTick *= 2
			}
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance takes up to stepsPerTick steps, stopping at maxSteps or on error.
func (m *Live) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		if m.done() {
			m.running = false
			return
		}
		x, accepted, err := m.chain.Step()
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.windowN++
		if accepted {
			m.windowAcc++
		}
		if m.windowN == rateWindow {
			m.rates = append(m.rates, float64(m.windowAcc)/rateWindow)
			if len(m.rates) > historyCapacity {
				m.rates = m.rates[1:]
			}
			m.windowAcc, m.windowN = 0, 0
		}
		m.record(x)
	}
}

func (m *Live) done() bool {
	return m.maxSteps > 0 && m.chain.Steps() >= m.maxSteps
}

func (m *Live) record(x mcmc.State) {
	m.history = append(m.history, x[0])
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	if len(x) >= 2 {
		m.points = append(m.points, [2]float64{x[0], x[1]})
		if len(m.points) > historyCapacity {
			m.points = m.points[1:]
		}
	}
}

func (m *Live) clearHistory() {
	m.history = make([]float64, 0, historyCapacity)
	m.points = make([][2]float64, 0, historyCapacity)
	m.rates = make([]float64, 0, historyCapacity)
	m.windowAcc, m.windowN = 0, 0
}

// reset restarts the chain from the factory.
func (m *Live) reset() {
	chain, err := m.newChain()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.chain = chain
	m.err = nil
	m.running = true
	m.clearHistory()
	m.record(chain.Current())
}

func (m Live) Chain() *mcmc.Chain { return m.chain }
func (m Live) Running() bool      { return m.running }
func (m Live) Err() error         { return m.err }
func (m Live) StepsPerTick() int  { return m.stepsPerTick }

func (m Live) status() string {
	switch {
	case m.err != nil:
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Low).Render("FAILED")
	case m.done():
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.High).Render("DONE")
	case !m.running:
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Mid).Render("PAUSED")
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.High).Render("RUNNING")
	}
}

func (m Live) View() string {
	var left strings.Builder
	left.WriteString(titleStyle().Render(strings.ToUpper(m.title)) + "  " + m.status() + "\n\n")
	if len(m.history) > 1 {
		left.WriteString(TracePlot(m.history, 60, 10, "x0 (recent)") + "\n")
	}
	if len(m.points) > 1 && len(m.bounds) >= 2 {
		m.canvas.Clear()
		m.canvas.Scatter(m.points, m.bounds[0], m.bounds[1], false)
		left.WriteString("\n" + mutedStyle().Render("x0 vs x1") + "\n")
		left.WriteString(accentStyle().Render(m.canvas.String()))
	}

	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.chain.Steps()))
	row("Accepted", fmt.Sprintf("%d", m.chain.Accepted()))
	row("Ratio", fmt.Sprintf("%.4f", m.chain.AcceptanceRatio()))
	row("Speed", fmt.Sprintf("%d steps/frame", m.stepsPerTick))
	s.WriteString("\n" + ProgressBar(m.chain.AcceptanceRatio(), 30) + "\n")
	s.WriteString(mutedStyle().Render(fmt.Sprintf("acceptance per %d steps", rateWindow)) + "\n")
	s.WriteString(Sparkline(m.rates, 30) + "\n\n")

	s.WriteString("STATE\n")
	for d, v := range m.chain.Current() {
		row(fmt.Sprintf("  x%d", d), fmt.Sprintf("%+.5f", v))
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Low).Render(m.err.Error()) + "\n")
	}
	s.WriteString(mutedStyle().Italic(true).Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Speed T:Theme"))

	return lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left.String()), statsStyle.Render(s.String()))
}
