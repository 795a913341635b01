package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/chaoslab/internal/chaos"
)

var systemInfo = map[string]string{
	"lorenz":   "butterfly attractor",
	"rossler":  "spiral chaos",
	"henon":    "folded horseshoe map",
	"logistic": "period doubling",
	"ikeda":    "laser cavity map",
}

// menu lists the registered systems and hands over to a live Model once
// one is picked.
type menu struct {
	registry *chaos.Registry
	systems  []string
	cursor   int
	live     *Model
	size     *tea.WindowSizeMsg
}

func newMenu(registry *chaos.Registry) menu {
	return menu{registry: registry, systems: registry.Names()}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.live = nil
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = &msg
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.systems)-1 {
				m.cursor++
			}
		case "enter", " ":
			live := NewModel(m.registry, m.systems[m.cursor])
			if m.size != nil {
				next, _ := live.Update(*m.size)
				live = next.(Model)
			}
			m.live = &live
			return m, live.Init()
		}
	}
	return m, nil
}

func (m menu) View() string {
	if m.live != nil {
		return m.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("CHAOSLAB") + "\n    " + subtleStyle.Render("chaotic systems explorer") + "\n    " + subtleStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.systems {
		desc := systemInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dimStyle.Render(fmt.Sprintf("  %-12s", name)), dimStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "esc", "back", "q", "quit") + "\n")
	return b.String()
}

// RunInteractive opens the system picker on the alternate screen.
func RunInteractive(registry *chaos.Registry) error {
	_, err := tea.NewProgram(newMenu(registry), tea.WithAltScreen()).Run()
	return err
}
