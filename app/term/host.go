// Package term hosts the outline directly on a tcell screen.
package term

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/lexcodex/symtree/app/tui"
	"github.com/lexcodex/symtree/outline"
	"github.com/lexcodex/symtree/surface"
	"github.com/lexcodex/symtree/tree"
)

// Host owns a screen, a layer stack and a status line.
type Host struct {
	screen tcell.Screen
	source tui.Source
	opts   tui.Options
	logger *log.Logger

	layers  []tui.Layer
	outline *tree.View[outline.Symbol]
	status  string
	buf     *surface.Buffer
}

// Run opens the terminal and blocks until the last layer closes or ctx is
// done.
func Run(ctx context.Context, src tui.Source, opts tui.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	return NewHost(screen, src, opts).Loop(ctx)
}

// NewHost wraps an initialized screen.
func NewHost(screen tcell.Screen, src tui.Source, opts tui.Options) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Host{
		screen: screen,
		source: src,
		opts:   opts,
		logger: logger,
		buf:    surface.NewBuffer(surface.Rect{}),
	}
}

// Load fetches the outline and pushes it, or records the error on the
// status line. refresh bypasses cached results.
func (h *Host) Load(ctx context.Context, refresh bool) {
	fetch := h.source.Fetch
	if refresh {
		fetch = h.source.Refresh
	}
	arena, err := fetch(ctx)
	if err != nil {
		h.logger.Printf("outline unavailable: %v", err)
		h.status = err.Error()
		return
	}
	h.status = fmt.Sprintf("%s: %d symbols", h.source.Title(), arena.Len())
	next := tree.NewView(arena,
		tree.WithColumns[outline.Symbol](h.opts.Columns),
		tree.WithTitle[outline.Symbol](h.source.Title()),
		tree.WithLogger[outline.Symbol](h.logger),
	)
	if h.opts.Theme != (tree.Theme{}) {
		next.SetTheme(h.opts.Theme)
	}
	if h.outline == nil {
		h.layers = append(h.layers, next)
		h.outline = next
		return
	}
	outline.CarryState(h.outline, next)
	for i, layer := range h.layers {
		if layer == tui.Layer(h.outline) {
			h.layers[i] = next
		}
	}
	h.outline = next
}

// Layers reports the stack depth.
func (h *Host) Layers() int {
	return len(h.layers)
}

// Outline returns the outline view when it is on the stack.
func (h *Host) Outline() *tree.View[outline.Symbol] {
	return h.outline
}

// Status returns the status line text.
func (h *Host) Status() string {
	return h.status
}

// HandleEvent applies one screen event and reports whether the host should
// exit.
func (h *Host) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
			h.Load(ctx, true)
			return false
		}
		kev, ok := translateKey(ev)
		if !ok {
			return false
		}
		if len(h.layers) == 0 {
			return kev.Key == tree.KeyRune && kev.Rune == 'q'
		}
		result := h.layers[len(h.layers)-1].HandleKey(kev)
		if result.Close {
			top := h.layers[len(h.layers)-1]
			h.layers = h.layers[:len(h.layers)-1]
			if top == tui.Layer(h.outline) {
				h.outline = nil
			}
			return len(h.layers) == 0
		}
	}
	return false
}

// Draw renders every layer and the status line, then shows the screen.
func (h *Host) Draw() {
	w, ht := h.screen.Size()
	area := surface.NewRect(0, 0, w, ht)
	if h.buf.Area() != area {
		h.buf.Resize(area)
	} else {
		h.buf.ClearWith(area, surface.Style{})
	}
	body := area.WithHeight(max(0, ht-1))
	for _, layer := range h.layers {
		layer.Render(body, h.buf)
	}
	h.buf.SetString(0, ht-1, h.status, surface.Style{Add: surface.Dim})
	h.screen.Clear()
	h.buf.Flush(h.screen)
	h.screen.Show()
}

// Loop loads the outline and processes events until exit.
func (h *Host) Loop(ctx context.Context) error {
	h.Load(ctx, false)
	h.Draw()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go h.screen.ChannelEvents(events, quit)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-h.opts.Changes:
			if !ok {
				h.opts.Changes = nil
				continue
			}
			h.logger.Printf("%s changed, refetching", h.source.Title())
			h.Load(ctx, true)
		case ev, ok := <-events:
			if !ok || h.HandleEvent(ctx, ev) {
				return nil
			}
		}
		h.Draw()
	}
}

func translateKey(ev *tcell.EventKey) (tree.KeyEvent, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return tree.KeyEvent{Key: tree.KeyUp}, true
	case tcell.KeyDown:
		return tree.KeyEvent{Key: tree.KeyDown}, true
	case tcell.KeyLeft:
		return tree.KeyEvent{Key: tree.KeyLeft}, true
	case tcell.KeyRight:
		return tree.KeyEvent{Key: tree.KeyRight}, true
	case tcell.KeyEnter:
		return tree.KeyEvent{Key: tree.KeyEnter}, true
	case tcell.KeyHome:
		return tree.KeyEvent{Key: tree.KeyHome}, true
	case tcell.KeyEscape:
		return tree.KeyEvent{Key: tree.KeyRune, Rune: 'q'}, true
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'j':
			return tree.KeyEvent{Key: tree.KeyDown}, true
		case 'k':
			return tree.KeyEvent{Key: tree.KeyUp}, true
		case 'g':
			return tree.KeyEvent{Key: tree.KeyHome}, true
		case ' ':
			return tree.KeyEvent{Key: tree.KeyEnter}, true
		default:
			return tree.KeyEvent{Key: tree.KeyRune, Rune: r}, true
		}
	}
	return tree.KeyEvent{}, false
}
