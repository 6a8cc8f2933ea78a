// Package tui renders the swarm in the terminal: a braille point cloud, a
// stats panel and a settle sparkline, with the keyboard standing in for the
// tracked hand.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glyphswarm/internal/detector"
	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

const (
	canvasW = 80
	canvasH = 22

	// World extent mapped onto the canvas; matches the default glyph
	// canvas at default scale with some margin.
	worldW = 140.0
	worldH = 52.0

	historyCap = 240
	palmStep   = 0.04
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0, 0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type Model struct {
	eng      *engine.Engine
	puppet   *detector.Puppet
	canvas   *Canvas
	tickRate int
	ticks    int
	paused   bool

	inter   hand.InteractionState
	stats   swarm.Stats
	history []float64

	err error
}

func NewModel(eng *engine.Engine, puppet *detector.Puppet, tickRate int) *Model {
	return &Model{
		eng:      eng,
		puppet:   puppet,
		canvas:   NewCanvas(canvasW, canvasH),
		tickRate: tickRate,
		history:  make([]float64, 0, historyCap),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if !m.paused {
			t := float64(m.ticks) / float64(m.tickRate)
			inter, stats, err := m.eng.Step(t)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.inter = inter
			m.stats = stats
			m.ticks++

			m.history = append(m.history, stats.MeanTargetDist)
			if len(m.history) > historyCap {
				m.history = m.history[1:]
			}
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			m.puppet.Action = hand.Neutral
		case "f":
			m.puppet.Action = hand.Fist
		case "o":
			m.puppet.Action = hand.Open
		case "p":
			m.puppet.Action = hand.Pointing
		case "t":
			m.puppet.Action = hand.TwoFingers
		case "x":
			m.puppet.Present = !m.puppet.Present
		case "left":
			// Landmarks are mirrored camera space, so left on screen
			// means a larger normalized x.
			m.puppet.PalmX = clamp(m.puppet.PalmX+palmStep, 0, 1)
		case "right":
			m.puppet.PalmX = clamp(m.puppet.PalmX-palmStep, 0, 1)
		case "up":
			m.puppet.PalmY = clamp(m.puppet.PalmY-palmStep, 0, 1)
		case "down":
			m.puppet.PalmY = clamp(m.puppet.PalmY+palmStep, 0, 1)
		case "1", "2", "3", "4", "5":
			m.puppet.FlashCount(int(msg.String()[0] - '0'))
		}
	}
	return m, nil
}

func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	m.canvas.Clear()
	pos := m.eng.Field().Positions()
	for i := 0; i < len(pos); i += 3 {
		sx := int((float64(pos[i])/worldW + 0.5) * float64(canvasW*2))
		sy := int((0.5 - float64(pos[i+1])/worldH) * float64(canvasH*4))
		m.canvas.Set(sx, sy)
	}

	theme := m.eng.Theme()

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("glyphswarm") + "\n\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("theme", fmt.Sprintf("%s (%d)", theme.Name, m.eng.Mode()))
	row("text", theme.Text)
	row("action", actionStyle.Render(m.inter.RightHandAction.String()))
	if m.inter.Present() {
		row("hand", fmt.Sprintf("%.0f, %.0f", m.inter.RightHandPosition[0], m.inter.RightHandPosition[1]))
	} else {
		row("hand", "absent")
	}
	row("settle", fmt.Sprintf("%.2f", m.stats.MeanTargetDist))
	row("speed", fmt.Sprintf("%.3f", m.stats.MeanSpeed))
	row("tick", fmt.Sprintf("%d", m.ticks))
	if m.paused {
		stats.WriteString("\n" + actionStyle.Render("paused"))
	}

	if len(m.history) > 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(40),
			asciigraph.Caption("settle"),
		)
		stats.WriteString("\n" + graphStyle.Render(graph))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)

	help := helpStyle.Render("arrows move hand · f/o/p/t/n pose · x hide hand · 1-5 count · space pause · q quit")
	return body + "\n" + help
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
