package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const traceCapacity = 200

var (
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// ChainUpdate carries a snapshot of the walking chain.
type ChainUpdate struct {
	Iter       int
	Sigma      float64
	T          float64
	Acceptance float64
	Likelihood float64
	Prior      float64
	Posterior  float64
}

// DoneMsg ends the monitor, with the run error if any.
type DoneMsg struct {
	Err error
}

// Monitor owns the bubbletea program for a calibration run.
type Monitor struct {
	program *tea.Program
}

// NewMonitor builds the monitor for a scenario of nsteps iterations.
func NewMonitor(scenario string, nsteps int) *Monitor {
	m := &Monitor{}
	m.program = tea.NewProgram(newPanel(scenario, nsteps))
	return m
}

// Run blocks until the panel quits.
func (m *Monitor) Run() error {
	_, err := m.program.Run()
	return err
}

// Send delivers a chain snapshot to the panel. Safe to call from the
// sampler goroutine.
func (m *Monitor) Send(u ChainUpdate) {
	m.program.Send(u)
}

// Done tells the panel the run finished.
func (m *Monitor) Done(err error) {
	m.program.Send(DoneMsg{Err: err})
}

type panel struct {
	scenario string
	nsteps   int

	last  ChainUpdate
	trace []float64

	done    bool
	runErr  error
	started bool
}

func newPanel(scenario string, nsteps int) *panel {
	return &panel{scenario: scenario, nsteps: nsteps}
}

func (p *panel) Init() tea.Cmd { return nil }

func (p *panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		}
	case ChainUpdate:
		p.started = true
		p.last = msg
		p.trace = append(p.trace, msg.Posterior)
		if len(p.trace) > traceCapacity {
			p.trace = p.trace[len(p.trace)-traceCapacity:]
		}
	case DoneMsg:
		p.done = true
		p.runErr = msg.Err
		return p, tea.Quit
	}
	return p, nil
}

func (p *panel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("calibrate %s", p.scenario)))
	b.WriteString("\n")

	if !p.started {
		b.WriteString(valueStyle.Render("expanding network and scoring the starting position..."))
		return panelStyle.Render(b.String())
	}

	rows := []struct {
		label string
		value string
	}{
		{"iteration", fmt.Sprintf("%d / %d", p.last.Iter, p.nsteps)},
		{"sigma", fmt.Sprintf("%.4f", p.last.Sigma)},
		{"temperature", fmt.Sprintf("%.3f", p.last.T)},
		{"acceptance", fmt.Sprintf("%.3f", p.last.Acceptance)},
		{"likelihood", fmt.Sprintf("%.4f", p.last.Likelihood)},
		{"prior", fmt.Sprintf("%.4f", p.last.Prior)},
		{"posterior", fmt.Sprintf("%.4f", p.last.Posterior)},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}

	if len(p.trace) >= 2 {
		b.WriteString("\n")
		b.WriteString(asciigraph.Plot(p.trace,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("posterior trace")))
		b.WriteString("\n")
	}

	if p.done {
		b.WriteString("\n")
		if p.runErr != nil {
			b.WriteString(errStyle.Render("failed: " + p.runErr.Error()))
		} else {
			b.WriteString(doneStyle.Render("run complete"))
		}
	} else {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("q to quit"))
	}
	return panelStyle.Render(b.String())
}
