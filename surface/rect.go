package surface

// Rect is a rectangular area of cells. Width or Height of zero means empty.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Margin shrinks a Rect on each side.
type Margin struct {
	Horizontal int
	Vertical   int
}

// NewRect builds a Rect, clamping negative dimensions to zero.
func NewRect(x, y, width, height int) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of cells covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the absolute position lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left() && x < r.Right() && y >= r.Top() && y < r.Bottom()
}

// Inner returns the rect shrunk by the margin on all sides.
func (r Rect) Inner(m Margin) Rect {
	if r.Width < 2*m.Horizontal || r.Height < 2*m.Vertical {
		return Rect{X: r.X, Y: r.Y}
	}
	return Rect{
		X:      r.X + m.Horizontal,
		Y:      r.Y + m.Vertical,
		Width:  r.Width - 2*m.Horizontal,
		Height: r.Height - 2*m.Vertical,
	}
}

// ClipTop removes n rows from the top.
func (r Rect) ClipTop(n int) Rect {
	if n <= 0 {
		return r
	}
	if n > r.Height {
		n = r.Height
	}
	return Rect{X: r.X, Y: r.Y + n, Width: r.Width, Height: r.Height - n}
}

// ClipLeft removes n columns from the left.
func (r Rect) ClipLeft(n int) Rect {
	if n <= 0 {
		return r
	}
	if n > r.Width {
		n = r.Width
	}
	return Rect{X: r.X + n, Y: r.Y, Width: r.Width - n, Height: r.Height}
}

// WithHeight returns the rect limited to h rows.
func (r Rect) WithHeight(h int) Rect {
	if h < 0 {
		h = 0
	}
	if h > r.Height {
		h = r.Height
	}
	r.Height = h
	return r
}

// Union returns the smallest rect containing both. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1 := min(r.Left(), o.Left())
	y1 := min(r.Top(), o.Top())
	x2 := max(r.Right(), o.Right())
	y2 := max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersect returns the overlapping part of both rects.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.Left(), o.Left())
	y1 := max(r.Top(), o.Top())
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{X: x1, Y: y1}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
