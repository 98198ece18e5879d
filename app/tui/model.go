// Package tui hosts the outline in a Bubble Tea program.
package tui

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexcodex/symtree/outline"
	"github.com/lexcodex/symtree/surface"
	"github.com/lexcodex/symtree/tree"
)

// Source produces the outline for one file.
type Source interface {
	Title() string
	Fetch(ctx context.Context) (*tree.Arena[outline.Symbol], error)
	Refresh(ctx context.Context) (*tree.Arena[outline.Symbol], error)
}

// Layer is one component on the compositor stack. The topmost layer
// receives key presses.
type Layer interface {
	HandleKey(ev tree.KeyEvent) tree.EventResult
	Render(area surface.Rect, buf *surface.Buffer)
}

// Options tune the outline view.
type Options struct {
	Columns int
	Theme   tree.Theme
	// Changes delivers a value whenever the source file changed on disk.
	Changes <-chan struct{}
	Logger  *log.Logger
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, src Source, opts Options) error {
	if src == nil {
		return fmt.Errorf("source is required")
	}
	program := tea.NewProgram(
		NewModel(ctx, src, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

// Model implements tea.Model around a stack of layers.
type Model struct {
	ctx    context.Context
	source Source
	opts   Options
	logger *log.Logger

	layers  []Layer
	outline *tree.View[outline.Symbol]

	keys     keyMap
	help     help.Model
	showHelp bool
	status   StatusBar
	spinner  spinner.Model

	width  int
	height int
}

// NewModel prepares a model; the first fetch runs from Init.
func NewModel(ctx context.Context, src Source, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return Model{
		ctx:     ctx,
		source:  src,
		opts:    opts,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		status:  StatusBar{title: src.Title(), loading: true},
		spinner: sp,
	}
}

type symbolsMsg struct {
	arena   *tree.Arena[outline.Symbol]
	err     error
	refresh bool
}

type fileChangedMsg struct{}

func (m Model) fetchCmd(refresh bool) tea.Cmd {
	return func() tea.Msg {
		fetch := m.source.Fetch
		if refresh {
			fetch = m.source.Refresh
		}
		arena, err := fetch(m.ctx)
		return symbolsMsg{arena: arena, err: err, refresh: refresh}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.opts.Changes == nil {
		return nil
	}
	ch := m.opts.Changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// Push puts a layer on top of the stack.
func (m *Model) Push(layer Layer) {
	m.layers = append(m.layers, layer)
}

// Pop removes the top layer.
func (m *Model) Pop() {
	if len(m.layers) == 0 {
		return
	}
	top := m.layers[len(m.layers)-1]
	m.layers = m.layers[:len(m.layers)-1]
	if v, ok := top.(*tree.View[outline.Symbol]); ok && v == m.outline {
		m.outline = nil
	}
}

// Layers reports the stack depth.
func (m Model) Layers() int {
	return len(m.layers)
}

// Outline returns the outline view when it is on the stack.
func (m Model) Outline() *tree.View[outline.Symbol] {
	return m.outline
}

func (m Model) newView(arena *tree.Arena[outline.Symbol]) *tree.View[outline.Symbol] {
	opts := []tree.Option[outline.Symbol]{
		tree.WithColumns[outline.Symbol](m.opts.Columns),
		tree.WithTitle[outline.Symbol](m.source.Title()),
		tree.WithLogger[outline.Symbol](m.logger),
		tree.WithOnFocusChange[outline.Symbol](func(a *tree.Arena[outline.Symbol], ix tree.Index) {
			sym := a.Payload(ix)
			m.logger.Printf("focus %s %s at %s", sym.KindName(), sym.Name, sym.Location())
		}),
	}
	if m.opts.Theme != (tree.Theme{}) {
		opts = append(opts, tree.WithTheme[outline.Symbol](m.opts.Theme))
	}
	return tree.NewView(arena, opts...)
}
