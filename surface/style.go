package surface

import "github.com/charmbracelet/lipgloss"

// Color is a terminal color: a name ("red"), a 256-palette index ("39") or a
// hex value ("#1e1e2e"). The empty Color means "terminal default".
type Color string

// Modifier is a bitmask of text attributes.
type Modifier uint16

const (
	Bold Modifier = 1 << iota
	Dim
	Italic
	Underlined
	Blink
	Reversed
	Hidden
	CrossedOut
)

// Contains reports whether every bit of o is set in m.
func (m Modifier) Contains(o Modifier) bool {
	return m&o == o
}

// Style bundles foreground, background and attributes. Add and Sub are the
// attributes switched on and off when this style is patched onto another.
type Style struct {
	Fg  Color
	Bg  Color
	Add Modifier
	Sub Modifier
}

// Foreground returns a copy with the foreground set.
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy with the background set.
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// AddModifier returns a copy with m switched on.
func (s Style) AddModifier(m Modifier) Style {
	s.Sub &^= m
	s.Add |= m
	return s
}

// RemoveModifier returns a copy with m switched off.
func (s Style) RemoveModifier(m Modifier) Style {
	s.Add &^= m
	s.Sub |= m
	return s
}

// Swapped returns a copy with foreground and background exchanged.
func (s Style) Swapped() Style {
	s.Fg, s.Bg = s.Bg, s.Fg
	return s
}

// Patch layers o on top of s: set colors in o win, modifiers accumulate.
func (s Style) Patch(o Style) Style {
	if o.Fg != "" {
		s.Fg = o.Fg
	}
	if o.Bg != "" {
		s.Bg = o.Bg
	}
	s.Add = (s.Add &^ o.Sub) | o.Add
	s.Sub = (s.Sub &^ o.Add) | o.Sub
	return s
}

// Lipgloss converts the style for string rendering.
func (s Style) Lipgloss() lipgloss.Style {
	ls := lipgloss.NewStyle()
	if s.Fg != "" {
		ls = ls.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		ls = ls.Background(lipgloss.Color(s.Bg))
	}
	if s.Add.Contains(Bold) {
		ls = ls.Bold(true)
	}
	if s.Add.Contains(Dim) {
		ls = ls.Faint(true)
	}
	if s.Add.Contains(Italic) {
		ls = ls.Italic(true)
	}
	if s.Add.Contains(Underlined) {
		ls = ls.Underline(true)
	}
	if s.Add.Contains(Blink) {
		ls = ls.Blink(true)
	}
	if s.Add.Contains(Reversed) {
		ls = ls.Reverse(true)
	}
	if s.Add.Contains(CrossedOut) {
		ls = ls.Strikethrough(true)
	}
	return ls
}
