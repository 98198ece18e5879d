package tree

import (
	"strings"

	"github.com/lexcodex/symtree/surface"
)

// indentWidth is the number of cells per depth level.
const indentWidth = 2

// Row is one visible line of the tree.
type Row struct {
	Index   Index
	Depth   int
	Indent  int
	Glyph   string
	Label   string
	Focused bool
}

// Text returns the row as plain text: indentation, glyph, then label.
func (r Row) Text() string {
	return strings.Repeat(" ", r.Indent) + r.Glyph + r.Label
}

// Rows lays out the visible nodes in pre-order, skipping the children of
// collapsed nodes, and records which row holds the focus.
func (v *View[T]) Rows() []Row {
	rows := make([]Row, 0, v.arena.Len())
	v.focusedRow = -1
	v.arena.Walk(func(ix Index, depth int) bool {
		row := Row{
			Index:  ix,
			Depth:  depth,
			Indent: indentWidth * depth,
			Label:  v.arena.Payload(ix).Label(),
		}
		collapsed := v.Collapsed(ix)
		if v.arena.HasChildren(ix) {
			if collapsed {
				row.Glyph = v.theme.Glyphs.Collapsed
			} else {
				row.Glyph = v.theme.Glyphs.Expanded
			}
		}
		if v.hasFocus && ix == v.focus {
			row.Focused = true
			v.focusedRow = len(rows)
		}
		rows = append(rows, row)
		return !collapsed
	})
	return rows
}

// Lines returns the visible rows as plain text.
func (v *View[T]) Lines() []string {
	rows := v.Rows()
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = row.Text()
	}
	return lines
}

func (v *View[T]) focusStyle() surface.Style {
	return v.theme.Text.Swapped().AddModifier(surface.Reversed).Patch(v.theme.Focus)
}

func (v *View[T]) rowStyle(row Row) surface.Style {
	if row.Focused {
		return v.focusStyle()
	}
	style := v.theme.Text
	if s, ok := any(v.arena.Payload(row.Index)).(Styler); ok {
		style = style.Patch(s.Style())
	}
	return style
}

// Render clears area, frames it, and paints the visible rows inside. Rows
// that do not fit are laid out but not painted. Each column is drawn by a
// separate walk; a column starts one cell right of the widest cell drawn in
// the column before it. Indentation and glyphs belong to the first column.
func (v *View[T]) Render(area surface.Rect, buf *surface.Buffer) {
	buf.ClearWith(area, v.theme.Text)
	block := surface.Block{
		Title:       v.title,
		Borders:     surface.BordersAll,
		BorderType:  v.theme.BorderType,
		BorderStyle: v.theme.Border,
		Style:       v.theme.Text,
	}
	inner := block.Inner(area).Inner(surface.Margin{Horizontal: 1})
	block.Render(area, buf)

	rows := v.Rows()
	if v.focusedRow >= 0 && v.focusedRow < inner.Height {
		buf.SetStyle(surface.NewRect(inner.X, inner.Y+v.focusedRow, inner.Width, 1), v.focusStyle())
	}

	slot := inner
	for col := 0; col < v.columns && !slot.Empty(); col++ {
		used := v.renderColumn(col, rows, slot, buf)
		slot = slot.ClipLeft(used.Width + 1)
	}
}

func (v *View[T]) renderColumn(col int, rows []Row, area surface.Rect, buf *surface.Buffer) surface.Rect {
	var used surface.Rect
	for i, row := range rows {
		if i >= area.Height {
			break
		}
		line := surface.NewRect(area.X, area.Y+i, area.Width, 1)
		style := v.rowStyle(row)
		cell := line
		if col == 0 {
			x := buf.SetStringN(line.X, line.Y, strings.Repeat(" ", row.Indent), line.Width, style)
			if row.Glyph != "" {
				glyphStyle := style
				if !row.Focused {
					glyphStyle = style.Patch(v.theme.Glyph)
				}
				x = buf.SetStringN(x, line.Y, row.Glyph, line.Right()-x, glyphStyle)
			}
			cell = line.ClipLeft(x - line.X)
		}
		drawn := v.drawCell(row.Index, col, cell, buf, style)
		right := cell.X
		if !drawn.Empty() {
			right = max(right, drawn.Right())
		}
		used = used.Union(surface.NewRect(line.X, line.Y, right-line.X, 1))
	}
	return used
}

func (v *View[T]) drawCell(ix Index, col int, area surface.Rect, buf *surface.Buffer, style surface.Style) surface.Rect {
	payload := v.arena.Payload(ix)
	if d, ok := any(payload).(CellDrawer); ok {
		return d.DrawCell(col, area, buf, style).Intersect(area)
	}
	text := CellText(payload, col)
	end := buf.SetStringN(area.X, area.Y, text, area.Width, style)
	return surface.NewRect(area.X, area.Y, end-area.X, 1)
}

// CellText returns the plain value a payload shows in a column.
func CellText(p Payload, col int) string {
	if c, ok := p.(Columns); ok {
		cells := c.Cells()
		if col < len(cells) {
			return cells[col]
		}
		return ""
	}
	if col == 0 {
		return p.Label()
	}
	return ""
}
