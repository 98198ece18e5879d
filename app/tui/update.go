package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexcodex/symtree/outline"
	"github.com/lexcodex/symtree/tree"
)

// Init starts the first fetch and, when configured, listens for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(false), m.waitForChange(), m.spinner.Tick)
}

// Update applies incoming Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case symbolsMsg:
		return m.handleSymbols(msg), nil
	case fileChangedMsg:
		m.logger.Printf("%s changed, refetching", m.source.Title())
		m.status.loading = true
		return m, tea.Batch(m.fetchCmd(true), m.waitForChange())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.status.loading = true
		return m, m.fetchCmd(true)
	}

	ev, ok := m.keys.translate(msg)
	if !ok {
		return m, nil
	}
	if len(m.layers) == 0 {
		if ev.Key == tree.KeyRune && ev.Rune == 'q' {
			return m, tea.Quit
		}
		return m, nil
	}
	result := m.layers[len(m.layers)-1].HandleKey(ev)
	if result.Close {
		m.Pop()
		if len(m.layers) == 0 {
			return m, tea.Quit
		}
	}
	m.status.focus = m.focusLabel()
	return m, nil
}

func (m Model) handleSymbols(msg symbolsMsg) Model {
	m.status.loading = false
	if msg.err != nil {
		m.logger.Printf("outline unavailable: %v", msg.err)
		m.status.err = msg.err
		return m
	}
	m.status.err = nil
	m.status.symbols = msg.arena.Len()
	if msg.refresh {
		m.logger.Printf("refreshed %s: %d symbols", m.source.Title(), msg.arena.Len())
	}

	next := m.newView(msg.arena)
	if m.outline == nil {
		m.outline = next
		m.Push(next)
		m.status.focus = m.focusLabel()
		return m
	}
	outline.CarryState(m.outline, next)
	for i, layer := range m.layers {
		if v, ok := layer.(*tree.View[outline.Symbol]); ok && v == m.outline {
			m.layers[i] = next
		}
	}
	m.outline = next
	m.status.focus = m.focusLabel()
	return m
}

func (m Model) focusLabel() string {
	if m.outline == nil {
		return ""
	}
	ix, ok := m.outline.Focus()
	if !ok {
		return ""
	}
	sym := m.outline.Arena().Payload(ix)
	return sym.Name + " " + dimStyle.Render(sym.KindName()+" "+sym.Location())
}
