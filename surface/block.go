package surface

// Borders selects which sides of a Block are drawn.
type Borders uint8

const (
	BorderTop Borders = 1 << iota
	BorderRight
	BorderBottom
	BorderLeft

	BordersNone Borders = 0
	BordersAll          = BorderTop | BorderRight | BorderBottom | BorderLeft
)

// BorderType picks the box drawing character set.
type BorderType uint8

const (
	BorderPlain BorderType = iota // ┌─┐│└┘
	BorderRounded                 // ╭─╮│╰╯
	BorderDouble                  // ╔═╗║╚╝
	BorderThick                   // ┏━┓┃┗┛
)

var borderSets = [...][6]string{
	BorderPlain:   {"┌", "─", "┐", "│", "└", "┘"},
	BorderRounded: {"╭", "─", "╮", "│", "╰", "╯"},
	BorderDouble:  {"╔", "═", "╗", "║", "╚", "╝"},
	BorderThick:   {"┏", "━", "┓", "┃", "┗", "┛"},
}

const (
	setTL = iota
	setH
	setTR
	setV
	setBL
	setBR
)

// ParseBorderType maps a config name to a BorderType, defaulting to plain.
func ParseBorderType(name string) BorderType {
	switch name {
	case "rounded":
		return BorderRounded
	case "double":
		return BorderDouble
	case "thick":
		return BorderThick
	default:
		return BorderPlain
	}
}

// Block is a framed area with an optional title on the top border.
type Block struct {
	Title       string
	Borders     Borders
	BorderType  BorderType
	BorderStyle Style
	Style       Style
}

// Inner returns the area left inside the borders.
func (b Block) Inner(area Rect) Rect {
	inner := area
	if b.Borders&BorderLeft != 0 {
		inner = inner.ClipLeft(1)
	}
	if b.Borders&BorderTop != 0 {
		inner = inner.ClipTop(1)
	}
	if b.Borders&BorderRight != 0 && inner.Width > 0 {
		inner.Width--
	}
	if b.Borders&BorderBottom != 0 && inner.Height > 0 {
		inner.Height--
	}
	return inner
}

// Render paints the frame and the title into buf.
func (b Block) Render(area Rect, buf *Buffer) {
	area = area.Intersect(buf.Area())
	if area.Empty() {
		return
	}
	buf.SetStyle(area, b.Style)
	set := borderSets[BorderPlain]
	if int(b.BorderType) < len(borderSets) {
		set = borderSets[b.BorderType]
	}
	style := b.Style.Patch(b.BorderStyle)

	if b.Borders&BorderTop != 0 {
		for x := area.Left(); x < area.Right(); x++ {
			buf.SetString(x, area.Top(), set[setH], style)
		}
	}
	if b.Borders&BorderBottom != 0 {
		for x := area.Left(); x < area.Right(); x++ {
			buf.SetString(x, area.Bottom()-1, set[setH], style)
		}
	}
	if b.Borders&BorderLeft != 0 {
		for y := area.Top(); y < area.Bottom(); y++ {
			buf.SetString(area.Left(), y, set[setV], style)
		}
	}
	if b.Borders&BorderRight != 0 {
		for y := area.Top(); y < area.Bottom(); y++ {
			buf.SetString(area.Right()-1, y, set[setV], style)
		}
	}
	if b.Borders&(BorderTop|BorderLeft) == BorderTop|BorderLeft {
		buf.SetString(area.Left(), area.Top(), set[setTL], style)
	}
	if b.Borders&(BorderTop|BorderRight) == BorderTop|BorderRight {
		buf.SetString(area.Right()-1, area.Top(), set[setTR], style)
	}
	if b.Borders&(BorderBottom|BorderLeft) == BorderBottom|BorderLeft {
		buf.SetString(area.Left(), area.Bottom()-1, set[setBL], style)
	}
	if b.Borders&(BorderBottom|BorderRight) == BorderBottom|BorderRight {
		buf.SetString(area.Right()-1, area.Bottom()-1, set[setBR], style)
	}

	if b.Title != "" && b.Borders&BorderTop != 0 {
		left := area.Left()
		if b.Borders&BorderLeft != 0 {
			left++
		}
		right := area.Right()
		if b.Borders&BorderRight != 0 {
			right--
		}
		buf.SetStringN(left, area.Top(), b.Title, right-left, b.Style)
	}
}
