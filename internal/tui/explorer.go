package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dedx/internal/stopping"
	"github.com/san-kum/dedx/internal/viz"
)

const (
	minEnergy = 1e-3
	maxEnergy = 1e4
)

type state int

const (
	stateMenu state = iota
	stateView
)

type model struct {
	state    state
	cursor   int
	registry *stopping.Registry
	models   []string
	selected string

	particle stopping.Particle
	material stopping.Material
	grid     stopping.Grid
	engine   *stopping.Engine
	curve    []stopping.Point

	energy float64
	factor float64
	err    error

	theme  int
	width  int
	height int
}

// newExplorer builds the explorer for one particle and material. The curve
// panel is evaluated over grid.
func newExplorer(reg *stopping.Registry, p stopping.Particle, mat stopping.Material, grid stopping.Grid, theme string) *model {
	return &model{
		theme:    themeIndex(theme),
		state:    stateMenu,
		registry: reg,
		models:   reg.Names(),
		particle: p,
		material: mat,
		grid:     grid,
		energy:   10.0,
		factor:   1.1,
		width:    80,
		height:   24,
	}
}

func themeIndex(name string) int {
	want := viz.GetTheme(name).Name
	for i, t := range viz.Themes {
		if t.Name == want {
			return i
		}
	}
	return 0
}

func hint(th viz.Theme, s string) string {
	return viz.KeyHint.Foreground(th.Muted).Render(s)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateView:
		return m.viewKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.models) == 0 {
			return m, nil
		}
		m.selected = m.models[m.cursor]
		m.open()
	}
	return m, nil
}

func (m model) viewKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "right", "l":
		m.energy = clampEnergy(m.energy * m.factor)
	case "left", "h":
		m.energy = clampEnergy(m.energy / m.factor)
	case "+", "=":
		m.factor = math.Min(m.factor*m.factor, 10)
	case "-", "_":
		m.factor = math.Max(math.Sqrt(m.factor), 1.01)
	case "tab", "m":
		if len(m.models) > 0 {
			m.cursor = (m.cursor + 1) % len(m.models)
			m.selected = m.models[m.cursor]
			m.open()
		}
	case "t":
		m.theme = (m.theme + 1) % len(viz.Themes)
	case "b":
		if i, ok := peakIndex(m.curve); ok {
			m.energy = m.curve[i].Energy
		}
	}
	return m, nil
}

// open builds the engine for the selected model and evaluates its curve.
func (m *model) open() {
	m.state = stateView
	m.err = nil
	m.curve = nil

	cm, err := m.registry.Get(m.selected)
	if err != nil {
		m.engine, m.err = nil, err
		return
	}
	eng, err := stopping.New(m.particle, m.material, cm)
	if err != nil {
		m.engine, m.err = nil, err
		return
	}
	m.engine = eng

	energies, err := m.grid.Generate()
	if err != nil {
		m.err = err
		return
	}
	m.curve, m.err = eng.ComputeBatch(energies)
}

func clampEnergy(e float64) float64 {
	return math.Min(math.Max(e, minEnergy), maxEnergy)
}

func peakIndex(points []stopping.Point) (int, bool) {
	if len(points) == 0 {
		return 0, false
	}
	best := 0
	for i, p := range points {
		if p.DEDX > points[best].DEDX {
			best = i
		}
	}
	return best, true
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateView:
		return m.viewModel()
	}
	return ""
}

func (m model) viewMenu() string {
	th := viz.Themes[m.theme]
	accent, text, dim, faint := th.Style(th.Accent), th.Style(th.Text), th.Style(th.Muted), th.Style(th.Faint)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(faint.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("              " + accent.Render("d E / d x") + "\n")
	b.WriteString(faint.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("      " + dim.Render(fmt.Sprintf("%s in %s", m.particle.Name, m.material.Name)) + "\n\n")

	for i, name := range m.models {
		desc := m.describe(name)
		if i == m.cursor {
			b.WriteString("      " + accent.Render("▸ ") + text.Render(fmt.Sprintf("%-14s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-14s", name)) + faint.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(hint(th, "      ↑↓ select   enter open   q quit") + "\n")
	return b.String()
}

func (m model) describe(name string) string {
	cm, err := m.registry.Get(name)
	if err != nil {
		return ""
	}
	if d, ok := cm.(stopping.Describer); ok {
		info := d.Info()
		return fmt.Sprintf("%s  %s", info.Parametrization, info.EnergyRange)
	}
	return ""
}

func (m model) viewModel() string {
	th := viz.Themes[m.theme]
	accent, text, dim, faint := th.Style(th.Accent), th.Style(th.Text), th.Style(th.Muted), th.Style(th.Faint)
	value := th.Style(th.Value).Bold(true)
	bad := th.Style(th.Error).Bold(true)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("   " + accent.Render(m.selected) + "  " + dim.Render(m.describe(m.selected)) + "\n")
	b.WriteString(faint.Render("   "+strings.Repeat("─", 44)) + "\n\n")

	row := func(label, v string) {
		b.WriteString("   " + dim.Render(fmt.Sprintf("%-22s", label)) + v + "\n")
	}

	row("energy", text.Render(fmt.Sprintf("%10.4f MeV", m.energy)))
	row("step", text.Render(fmt.Sprintf("×%.3f", m.factor)))
	b.WriteString("\n")

	if m.engine != nil {
		k, kerr := m.engine.Kinematics(m.energy)
		dedx, derr := m.engine.ComputeDEDX(m.energy)
		mass, _ := m.engine.ComputeMassDEDX(m.energy)
		switch {
		case kerr != nil:
			row("status", bad.Render(shortError(kerr)))
		case derr != nil:
			row("γ", value.Render(fmt.Sprintf("%.6f", k.Gamma)))
			row("β²", value.Render(fmt.Sprintf("%.6g", k.Beta2)))
			row("status", bad.Render(shortError(derr)))
		default:
			row("γ", value.Render(fmt.Sprintf("%.6f", k.Gamma)))
			row("β²", value.Render(fmt.Sprintf("%.6g", k.Beta2)))
			row("Tmax", value.Render(fmt.Sprintf("%.6g MeV", k.TMax)))
			row("dE/dx", value.Render(fmt.Sprintf("%.4f MeV/cm", dedx)))
			row("mass dE/dx", value.Render(fmt.Sprintf("%.4f MeV cm²/g", mass)))
		}
	}

	if m.err != nil {
		b.WriteString("\n   " + bad.Render(shortError(m.err)) + "\n")
	}

	if len(m.curve) > 0 {
		w := min(max(m.width-12, 20), 72)
		vals := make([]float64, len(m.curve))
		for i, p := range m.curve {
			vals[i] = p.DEDX
		}
		b.WriteString("\n   " + dim.Render("curve ") + viz.Sparkline(vals, w) + "\n")
		if i, ok := peakIndex(m.curve); ok {
			p := m.curve[i]
			b.WriteString("   " + dim.Render("peak  ") + th.Style(th.Peak).Render(fmt.Sprintf("%.4f MeV/cm at %.2f MeV", p.DEDX, p.Energy)) + "\n")
		}
	}

	b.WriteString("\n" + hint(th, "   ←→ energy  ±step  b peak  tab model  t theme ("+th.Name+")  esc back  q quit") + "\n")
	return lipgloss.NewStyle().MaxWidth(max(m.width, 40)).Render(b.String())
}

func shortError(err error) string {
	var ee *stopping.EvalError
	if errors.As(err, &ee) && ee.Detail != "" {
		return ee.Detail
	}
	return err.Error()
}

// Run starts the explorer in the alternate screen using the named theme.
// Unknown theme names fall back to the first theme.
func Run(reg *stopping.Registry, p stopping.Particle, mat stopping.Material, grid stopping.Grid, theme string) error {
	_, err := tea.NewProgram(newExplorer(reg, p, mat, grid, theme), tea.WithAltScreen()).Run()
	return err
}
