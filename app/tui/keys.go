package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexcodex/symtree/tree"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Top     key.Binding
	Expand  key.Binding
	Shrink  key.Binding
	Close   key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse/parent")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand/child")),
		Toggle:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		Top:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first")),
		Expand:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "expand all")),
		Shrink:  key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "collapse all")),
		Close:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "close")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Close, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top},
		{k.Left, k.Right, k.Toggle},
		{k.Expand, k.Shrink},
		{k.Refresh, k.Close, k.Quit, k.Help},
	}
}

// translate maps a bubbletea key press onto the tree's key vocabulary.
func (k keyMap) translate(msg tea.KeyMsg) (tree.KeyEvent, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return tree.KeyEvent{Key: tree.KeyUp}, true
	case key.Matches(msg, k.Down):
		return tree.KeyEvent{Key: tree.KeyDown}, true
	case key.Matches(msg, k.Left):
		return tree.KeyEvent{Key: tree.KeyLeft}, true
	case key.Matches(msg, k.Right):
		return tree.KeyEvent{Key: tree.KeyRight}, true
	case key.Matches(msg, k.Toggle):
		return tree.KeyEvent{Key: tree.KeyEnter}, true
	case key.Matches(msg, k.Top):
		return tree.KeyEvent{Key: tree.KeyHome}, true
	case key.Matches(msg, k.Expand):
		return tree.KeyEvent{Key: tree.KeyRune, Rune: 'X'}, true
	case key.Matches(msg, k.Shrink):
		return tree.KeyEvent{Key: tree.KeyRune, Rune: 'Z'}, true
	case key.Matches(msg, k.Close):
		return tree.KeyEvent{Key: tree.KeyRune, Rune: 'q'}, true
	}
	return tree.KeyEvent{}, false
}
