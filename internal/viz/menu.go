package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/geodesim/internal/config"
)

const (
	stateMenu = iota
	stateLive
)

// Menu lists the configuration presets and opens the chosen one live.
type Menu struct {
	state   int
	cursor  int
	presets []string
	err     error
	live    Model
}

func NewMenu() Menu {
	return Menu{presets: config.ListPresets()}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m Menu) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	cfg := config.GetPreset(name)
	body, run, err := cfg.Build()
	if err != nil {
		m.err = fmt.Errorf("%s: %w", name, err)
		return m, nil
	}
	integ, err := cfg.Integrator()
	if err != nil {
		m.err = fmt.Errorf("%s: %w", name, err)
		return m, nil
	}
	m.err = nil
	m.live = NewModel(name, integ, body, run)
	m.state = stateLive
	return m, m.live.Init()
}

func (m Menu) View() string {
	if m.state == stateLive {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle().Render("GEODESIM") + "\n")
	b.WriteString("    " + hintStyle().Render("geodesics around black holes") + "\n")
	b.WriteString("    " + hintStyle().Render("────────────────────────────") + "\n\n")
	for i, name := range m.presets {
		cfg := config.Presets[name]
		desc := fmt.Sprintf("%s, r=%g %s", cfg.Metric, cfg.Initial.R, cfg.Units)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", keyStyle().Render("▸"), titleStyle().Render(fmt.Sprintf("%-16s", name)), valueStyle().Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", hintStyle().Render(fmt.Sprintf("%-16s", name)), hintStyle().Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle().Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "esc", "back", "q", "quit") + "\n")
	return b.String()
}

// RunMenu opens the preset picker full screen.
func RunMenu() error {
	_, err := tea.NewProgram(NewMenu(), tea.WithAltScreen()).Run()
	return err
}
