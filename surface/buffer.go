package surface

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is one character position. A cell whose Symbol is empty is the
// trailing half of a wide character drawn in the cell to its left.
type Cell struct {
	Symbol string
	Style  Style
}

func blankCell() Cell {
	return Cell{Symbol: " "}
}

// Buffer is a fixed-size grid of styled cells addressed by absolute
// coordinates inside Area.
type Buffer struct {
	area  Rect
	cells []Cell
}

// NewBuffer allocates a blank buffer covering area.
func NewBuffer(area Rect) *Buffer {
	b := &Buffer{}
	b.Resize(area)
	return b
}

// Area returns the region the buffer covers.
func (b *Buffer) Area() Rect {
	return b.area
}

// Resize reallocates the buffer, discarding its contents.
func (b *Buffer) Resize(area Rect) {
	b.area = NewRect(area.X, area.Y, area.Width, area.Height)
	b.cells = make([]Cell, b.area.Area())
	for i := range b.cells {
		b.cells[i] = blankCell()
	}
}

func (b *Buffer) index(x, y int) (int, bool) {
	if !b.area.Contains(x, y) {
		return 0, false
	}
	return (y-b.area.Y)*b.area.Width + (x - b.area.X), true
}

// Cell returns the cell at (x, y), or nil outside the buffer.
func (b *Buffer) Cell(x, y int) *Cell {
	i, ok := b.index(x, y)
	if !ok {
		return nil
	}
	return &b.cells[i]
}

// SetString writes s starting at (x, y) without wrapping. It returns the x
// position following the last cell written.
func (b *Buffer) SetString(x, y int, s string, style Style) int {
	return b.SetStringN(x, y, s, b.area.Right()-x, style)
}

// SetStringN is SetString limited to maxWidth cells.
func (b *Buffer) SetStringN(x, y int, s string, maxWidth int, style Style) int {
	if y < b.area.Top() || y >= b.area.Bottom() {
		return x
	}
	limit := min(x+maxWidth, b.area.Right())
	cur := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// combining mark: attach to the previous cell
			if prev := b.Cell(cur-1, y); prev != nil && cur > x {
				prev.Symbol += string(r)
			}
			continue
		}
		if cur+w > limit {
			break
		}
		if c := b.Cell(cur, y); c != nil {
			c.Symbol = string(r)
			c.Style = c.Style.Patch(style)
		}
		for i := 1; i < w; i++ {
			if c := b.Cell(cur+i, y); c != nil {
				c.Symbol = ""
				c.Style = c.Style.Patch(style)
			}
		}
		cur += w
	}
	return cur
}

// SetStyle patches style onto every cell in area.
func (b *Buffer) SetStyle(area Rect, style Style) {
	area = area.Intersect(b.area)
	for y := area.Top(); y < area.Bottom(); y++ {
		for x := area.Left(); x < area.Right(); x++ {
			c := b.Cell(x, y)
			c.Style = c.Style.Patch(style)
		}
	}
}

// ClearWith resets every cell in area to a blank with the given style.
func (b *Buffer) ClearWith(area Rect, style Style) {
	area = area.Intersect(b.area)
	for y := area.Top(); y < area.Bottom(); y++ {
		for x := area.Left(); x < area.Right(); x++ {
			*b.Cell(x, y) = Cell{Symbol: " ", Style: style}
		}
	}
}

// Lines returns the plain text of every row, styles dropped.
func (b *Buffer) Lines() []string {
	lines := make([]string, 0, b.area.Height)
	for y := b.area.Top(); y < b.area.Bottom(); y++ {
		var sb strings.Builder
		for x := b.area.Left(); x < b.area.Right(); x++ {
			sb.WriteString(b.Cell(x, y).Symbol)
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// String renders the buffer as newline separated rows with ANSI styling,
// grouping runs of identically styled cells.
func (b *Buffer) String() string {
	rows := make([]string, 0, b.area.Height)
	for y := b.area.Top(); y < b.area.Bottom(); y++ {
		var row, run strings.Builder
		var runStyle Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle == (Style{}) {
				row.WriteString(run.String())
			} else {
				row.WriteString(runStyle.Lipgloss().Render(run.String()))
			}
			run.Reset()
		}
		for x := b.area.Left(); x < b.area.Right(); x++ {
			c := b.Cell(x, y)
			if c.Symbol == "" {
				continue
			}
			if c.Style != runStyle {
				flush()
				runStyle = c.Style
			}
			run.WriteString(c.Symbol)
		}
		flush()
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n")
}
