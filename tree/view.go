package tree

import (
	"io"
	"log"

	"github.com/lexcodex/symtree/surface"
)

// Glyphs are the expand/collapse markers drawn before inner nodes.
type Glyphs struct {
	Expanded  string
	Collapsed string
}

// DefaultGlyphs returns the triangle markers.
func DefaultGlyphs() Glyphs {
	return Glyphs{Expanded: "⏷ ", Collapsed: "⏵ "}
}

// Theme styles a rendered view.
type Theme struct {
	Text       surface.Style
	Border     surface.Style
	Glyph      surface.Style
	Focus      surface.Style // patched over the swapped, reversed text style
	BorderType surface.BorderType
	Glyphs     Glyphs
}

// DefaultTheme uses terminal default colors.
func DefaultTheme() Theme {
	return Theme{Glyphs: DefaultGlyphs()}
}

// FocusFunc is notified when focus moves. It receives the arena so it can
// update payloads, and the index documented on MoveDown/MoveUp.
type FocusFunc[T Payload] func(arena *Arena[T], ix Index)

// Option configures a View.
type Option[T Payload] func(*View[T])

// WithColumns sets the number of columns rendered per row.
func WithColumns[T Payload](n int) Option[T] {
	return func(v *View[T]) {
		v.SetColumns(n)
	}
}

// WithTheme sets the render theme.
func WithTheme[T Payload](theme Theme) Option[T] {
	return func(v *View[T]) {
		v.SetTheme(theme)
	}
}

// WithTitle sets the title drawn on the top border.
func WithTitle[T Payload](title string) Option[T] {
	return func(v *View[T]) {
		v.title = title
	}
}

// WithLogger sets the diagnostic sink.
func WithLogger[T Payload](logger *log.Logger) Option[T] {
	return func(v *View[T]) {
		v.SetLogger(logger)
	}
}

// WithOnFocusChange registers the focus callback.
func WithOnFocusChange[T Payload](fn FocusFunc[T]) Option[T] {
	return func(v *View[T]) {
		v.onFocus = fn
	}
}

// View holds the per-view state over an arena: which nodes are collapsed and
// which node has focus. Several views may share one arena.
type View[T Payload] struct {
	arena *Arena[T]

	collapsed map[Index]struct{}

	focus      Index
	hasFocus   bool
	focusedRow int

	onFocus FocusFunc[T]

	columns int
	title   string
	theme   Theme
	logger  *log.Logger
}

// NewView creates an unfocused, fully expanded view.
func NewView[T Payload](arena *Arena[T], opts ...Option[T]) *View[T] {
	v := &View[T]{
		arena:      arena,
		collapsed:  make(map[Index]struct{}),
		focusedRow: -1,
		columns:    1,
		theme:      DefaultTheme(),
		logger:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Arena returns the underlying arena.
func (v *View[T]) Arena() *Arena[T] {
	return v.arena
}

// SetOnFocusChange replaces the focus callback; nil removes it.
func (v *View[T]) SetOnFocusChange(fn FocusFunc[T]) {
	v.onFocus = fn
}

// SetLogger replaces the diagnostic sink; nil discards.
func (v *View[T]) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	v.logger = logger
}

// SetColumns sets the column count, minimum one.
func (v *View[T]) SetColumns(n int) {
	v.columns = max(1, n)
}

// Columns returns the column count.
func (v *View[T]) Columns() int {
	return v.columns
}

// SetTheme replaces the theme. Empty glyphs fall back to the defaults.
func (v *View[T]) SetTheme(theme Theme) {
	if theme.Glyphs.Expanded == "" {
		theme.Glyphs.Expanded = DefaultGlyphs().Expanded
	}
	if theme.Glyphs.Collapsed == "" {
		theme.Glyphs.Collapsed = DefaultGlyphs().Collapsed
	}
	v.theme = theme
}

// Focus returns the focused node.
func (v *View[T]) Focus() (Index, bool) {
	return v.focus, v.hasFocus
}

// FocusedRow returns the row the focused node occupied in the last
// Rows/Render pass, or -1.
func (v *View[T]) FocusedRow() int {
	return v.focusedRow
}

// SetFocus focuses ix without firing the callback. Collapsed ancestors are
// expanded so the node is visible.
func (v *View[T]) SetFocus(ix Index) {
	for _, anc := range v.arena.Ancestors(ix) {
		delete(v.collapsed, anc)
	}
	v.focus, v.hasFocus = ix, true
}

// Collapsed reports whether ix is collapsed.
func (v *View[T]) Collapsed(ix Index) bool {
	_, ok := v.collapsed[ix]
	return ok
}

// Toggle flips the collapse state of ix. Leaves are left alone.
func (v *View[T]) Toggle(ix Index) {
	if !v.arena.HasChildren(ix) {
		return
	}
	if v.Collapsed(ix) {
		delete(v.collapsed, ix)
	} else {
		v.collapsed[ix] = struct{}{}
	}
}

// ToggleFocused toggles the focused node, if any.
func (v *View[T]) ToggleFocused() {
	if !v.hasFocus {
		return
	}
	v.logger.Printf("toggle index=%d row=%d collapsed=%t", v.focus, v.focusedRow, v.Collapsed(v.focus))
	v.Toggle(v.focus)
}

// Collapse hides the children of ix.
func (v *View[T]) Collapse(ix Index) {
	if v.arena.HasChildren(ix) {
		v.collapsed[ix] = struct{}{}
	}
}

// Expand shows the children of ix.
func (v *View[T]) Expand(ix Index) {
	delete(v.collapsed, ix)
}

// ExpandAll clears the collapse set.
func (v *View[T]) ExpandAll() {
	clear(v.collapsed)
}

// CollapseAll collapses every inner node and moves focus to the root it
// now hides under.
func (v *View[T]) CollapseAll() {
	v.arena.Walk(func(ix Index, _ int) bool {
		if v.arena.HasChildren(ix) {
			v.collapsed[ix] = struct{}{}
		}
		return true
	})
	v.revealFocus()
}

// revealFocus moves focus to its outermost collapsed ancestor, if any.
func (v *View[T]) revealFocus() {
	if !v.hasFocus {
		return
	}
	target := v.focus
	for _, anc := range v.arena.Ancestors(v.focus) {
		if v.Collapsed(anc) {
			target = anc
		}
	}
	v.focus = target
}

func (v *View[T]) focusFirst() {
	v.focus, v.hasFocus = v.arena.First()
}

// MoveDown focuses the next visible node: the first child of an expanded
// inner node, else the next sibling, else the next uncle. Without focus it
// focuses the first root. When focus changes, the callback receives the
// node that lost focus.
func (v *View[T]) MoveDown() {
	if !v.hasFocus {
		v.focusFirst()
		return
	}
	from := v.focus
	if !v.arena.HasChildren(from) || v.Collapsed(from) {
		next, ok := v.arena.NextSibling(from)
		if !ok {
			next, ok = v.arena.NextUncle(from)
		}
		if ok {
			v.focus = next
		}
	} else {
		v.focus = v.arena.Children(from)[0]
	}
	if v.focus != from {
		v.notify(from)
	}
}

// MoveUp focuses the previous sibling, else the parent. Without focus it
// focuses the first root. When focus changes, the callback receives the
// newly focused node.
func (v *View[T]) MoveUp() {
	if !v.hasFocus {
		v.focusFirst()
		return
	}
	prev, ok := v.arena.PrevSibling(v.focus)
	if !ok {
		prev, ok = v.arena.Parent(v.focus)
	}
	if ok {
		v.focus = prev
		v.notify(prev)
	}
}

// FocusParent focuses the parent of the focused node. The callback receives
// the parent.
func (v *View[T]) FocusParent() {
	if !v.hasFocus {
		return
	}
	if parent, ok := v.arena.Parent(v.focus); ok {
		v.focus = parent
		v.notify(parent)
	}
}

// FocusFirst focuses the first root. The callback receives the root when
// focus changes.
func (v *View[T]) FocusFirst() {
	first, ok := v.arena.First()
	if !ok {
		return
	}
	changed := !v.hasFocus || v.focus != first
	v.focus, v.hasFocus = first, true
	if changed {
		v.notify(first)
	}
}

func (v *View[T]) notify(ix Index) {
	if v.onFocus != nil {
		v.onFocus(v.arena, ix)
	}
}
