package tree

// Key is a host-independent key code.
type Key int

const (
	KeyOther Key = iota
	KeyRune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnter
)

// KeyEvent is a key press translated by the host. Rune is set for KeyRune.
type KeyEvent struct {
	Key  Key
	Rune rune
}

// EventResult tells the host what happened to an event. Close asks the host
// to remove the view from its layer stack.
type EventResult struct {
	Consumed bool
	Close    bool
}

var (
	consumed = EventResult{Consumed: true}
	ignored  = EventResult{}
)

// HandleKey applies one key press. Keys the view does not bind are returned
// unconsumed so an enclosing component can handle them.
func (v *View[T]) HandleKey(ev KeyEvent) EventResult {
	key := ev.Key
	if key == KeyRune {
		switch ev.Rune {
		case 'q':
			return EventResult{Consumed: true, Close: true}
		case 'h':
			key = KeyLeft
		case 'l':
			key = KeyRight
		case 'X':
			v.ExpandAll()
			v.trace("expand all")
			return consumed
		case 'Z':
			v.CollapseAll()
			v.trace("collapse all")
			return consumed
		default:
			return ignored
		}
	}

	switch key {
	case KeyUp:
		v.MoveUp()
		v.trace("up")
	case KeyDown:
		v.MoveDown()
		v.trace("down")
	case KeyEnter:
		v.ToggleFocused()
	case KeyLeft:
		v.collapseOrParent()
		v.trace("left")
	case KeyRight:
		v.expandOrChild()
		v.trace("right")
	case KeyHome:
		v.FocusFirst()
		v.trace("home")
	default:
		return ignored
	}
	return consumed
}

func (v *View[T]) collapseOrParent() {
	if !v.hasFocus {
		v.focusFirst()
		return
	}
	if v.arena.HasChildren(v.focus) && !v.Collapsed(v.focus) {
		v.Collapse(v.focus)
		return
	}
	v.FocusParent()
}

func (v *View[T]) expandOrChild() {
	if !v.hasFocus {
		v.focusFirst()
		return
	}
	if !v.arena.HasChildren(v.focus) {
		return
	}
	if v.Collapsed(v.focus) {
		v.Expand(v.focus)
		return
	}
	v.MoveDown()
}

func (v *View[T]) trace(op string) {
	if !v.hasFocus {
		v.logger.Printf("%s no focus", op)
		return
	}
	n := v.arena.item(v.focus)
	v.logger.Printf("%s index=%d row=%d collapsed=%t child_count=%d child_index=%d",
		op, v.focus, v.focusedRow, v.Collapsed(v.focus), n.ChildCount(), n.Position())
}
