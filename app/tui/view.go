package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lexcodex/symtree/surface"
)

// View draws the layer stack bottom to top, then the status and help lines.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	footer := []string{m.status.View(m.width, m.spinner.View())}
	helpView := m.help.View(m.keys)
	if helpView != "" {
		footer = append(footer, helpView)
	}
	bodyHeight := m.height
	for _, line := range footer {
		bodyHeight -= lipgloss.Height(line)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if len(m.layers) == 0 {
		msg := "Fetching symbols…"
		if m.status.err != nil {
			msg = "No outline. Press q to quit."
		}
		body = placeholderStyle.Width(m.width).Height(bodyHeight).Render(msg)
	} else {
		buf := surface.NewBuffer(surface.NewRect(0, 0, m.width, bodyHeight))
		for _, layer := range m.layers {
			layer.Render(buf.Area(), buf)
		}
		body = buf.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{body}, footer...)...)
}
