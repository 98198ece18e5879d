package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar shows the file, the focused symbol and the last fetch result.
type StatusBar struct {
	title   string
	focus   string
	symbols int
	err     error
	loading bool
}

func (s StatusBar) View(width int, spin string) string {
	left := titleStyle.Render(truncate(s.title, 30))
	if s.focus != "" {
		left += " " + s.focus
	}
	var right string
	switch {
	case s.err != nil:
		right = errorStyle.Render(s.err.Error())
	case s.loading:
		right = spin + dimStyle.Render(" fetching…")
	default:
		right = dimStyle.Render(fmt.Sprintf("%d symbols", s.symbols))
	}
	padding := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return statusStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
