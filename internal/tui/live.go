// Package tui provides a live terminal view of a running integration.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rgeflow/internal/mssm"
	"github.com/san-kum/rgeflow/internal/rge"
)

const (
	graphWidth      = 72
	graphHeight     = 12
	historyCapacity = 400

	// log-scale distance covered per frame
	chunkSpan = 0.25
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model holds the integration state advanced frame by frame.
type Model struct {
	sys     *mssm.Model
	stepper rge.AdaptiveStepper
	cfg     rge.Config

	x    rge.State
	t    float64
	tEnd float64
	dt   float64

	gauge   [3][]float64
	running bool
	done    bool
	failed  error
	steps   int
}

func NewModel(sys *mssm.Model, stepper rge.AdaptiveStepper, cfg rge.Config) Model {
	in := sys.Inputs()
	return Model{
		sys:     sys,
		stepper: stepper,
		cfg:     cfg,
		x:       in.InitialState(),
		t:       0,
		tEnd:    in.LogSpan(),
		dt:      cfg.InitialDt,
		running: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && !m.done && m.failed == nil {
			m.advance()
		}
		if m.done || m.failed != nil {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	target := math.Min(m.t+chunkSpan, m.tEnd)

	for m.t < target {
		h := m.dt
		if m.t+h > target {
			h = target - m.t
		}

		newX, dtNext, err := m.stepper.StepAdaptive(m.sys, m.x, m.t, h, m.cfg.Tolerance)
		if err != nil {
			m.failed = err
			return
		}
		if dtNext < m.cfg.MinDt {
			m.failed = rge.ErrStepTooSmall
			return
		}
		if !newX.IsValid() || !m.sys.InRange(newX) {
			m.failed = rge.ErrDiverged
			return
		}

		m.x = newX
		m.t += h
		m.dt = math.Min(dtNext, m.cfg.MaxDt)
		m.steps++
	}

	for i := 0; i < 3; i++ {
		m.gauge[i] = append(m.gauge[i], m.x[i])
		if len(m.gauge[i]) > historyCapacity {
			m.gauge[i] = m.gauge[i][1:]
		}
	}

	if m.t >= m.tEnd {
		m.done = true
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("rgeflow live: gauge coupling running"))
	b.WriteString("\n")

	in := m.sys.Inputs()
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("scale", fmt.Sprintf("t=%.3f  mu=%.3e GeV", m.t, in.Scale(m.t)))
	row("g1 g2 g3", fmt.Sprintf("%.4f  %.4f  %.4f", m.x[mssm.G1], m.x[mssm.G2], m.x[mssm.G3]))
	row("yt yb ytau", fmt.Sprintf("%.4f  %.5f  %.5f", m.x[mssm.Yt], m.x[mssm.Yb], m.x[mssm.Ytau]))
	row("steps", fmt.Sprintf("%d", m.steps))

	if len(m.gauge[0]) > 1 {
		graph := asciigraph.PlotMany(
			[][]float64{m.gauge[0], m.gauge[1], m.gauge[2]},
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("g1, g2, g3 vs frame"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	switch {
	case m.failed != nil:
		b.WriteString(failStyle.Render(fmt.Sprintf("failed at t=%.3f: %v", m.t, m.failed)))
		b.WriteString("\n")
	case m.done:
		b.WriteString(doneStyle.Render(fmt.Sprintf("reached target scale, g1 = %.6f", m.x[mssm.G1])))
		b.WriteString("\n")
	case !m.running:
		b.WriteString(valueStyle.Render("paused"))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause · q quit"))
	b.WriteString("\n")

	return b.String()
}
