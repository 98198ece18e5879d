package surface

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// TcellColor converts a Color for a tcell screen.
func TcellColor(c Color) tcell.Color {
	if c == "" {
		return tcell.ColorDefault
	}
	if n, err := strconv.Atoi(string(c)); err == nil && n >= 0 && n < 256 {
		return tcell.PaletteColor(n)
	}
	return tcell.GetColor(string(c))
}

// Tcell converts the style for a tcell screen.
func (s Style) Tcell() tcell.Style {
	ts := tcell.StyleDefault.
		Foreground(TcellColor(s.Fg)).
		Background(TcellColor(s.Bg))
	if s.Add.Contains(Bold) {
		ts = ts.Bold(true)
	}
	if s.Add.Contains(Dim) {
		ts = ts.Dim(true)
	}
	if s.Add.Contains(Italic) {
		ts = ts.Italic(true)
	}
	if s.Add.Contains(Underlined) {
		ts = ts.Underline(true)
	}
	if s.Add.Contains(Blink) {
		ts = ts.Blink(true)
	}
	if s.Add.Contains(Reversed) {
		ts = ts.Reverse(true)
	}
	if s.Add.Contains(CrossedOut) {
		ts = ts.StrikeThrough(true)
	}
	return ts
}

// Flush copies every cell onto screen at the same coordinates. The caller
// calls screen.Show.
func (b *Buffer) Flush(screen tcell.Screen) {
	for y := b.area.Top(); y < b.area.Bottom(); y++ {
		for x := b.area.Left(); x < b.area.Right(); x++ {
			c := b.Cell(x, y)
			if c.Symbol == "" {
				continue
			}
			runes := []rune(c.Symbol)
			screen.SetContent(x, y, runes[0], runes[1:], c.Style.Tcell())
		}
	}
}
