package outline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/lexcodex/symtree/tree"
)

func TestCarryState(t *testing.T) {
	before, err := Build(fixture())
	require.NoError(t, err)
	from := tree.NewView(before)
	from.Collapse(before.Roots()[0])
	from.SetFocus(before.Children(before.Roots()[1])[0])

	// Serve moves ahead of Server and gains a symbol.
	symbols := fixture()
	symbols[0], symbols[1] = symbols[1], symbols[0]
	symbols = append(symbols, sym("init", protocol.SymbolKindFunction, rng(40, 0, 41, 0)))
	after, err := Build(symbols)
	require.NoError(t, err)
	to := tree.NewView(after)

	CarryState(from, to)
	server := after.Roots()[1]
	require.Equal(t, "Server", after.Payload(server).Name)
	require.True(t, to.Collapsed(server))
	require.False(t, to.Collapsed(after.Roots()[0]))

	ix, ok := to.Focus()
	require.True(t, ok)
	require.Equal(t, "Serve/ln", NamePath(after, ix))
}

func TestCarryStateDroppedFocus(t *testing.T) {
	before, err := Build(fixture())
	require.NoError(t, err)
	from := tree.NewView(before)
	from.SetFocus(before.Roots()[2])

	after, err := Build(fixture()[:2])
	require.NoError(t, err)
	to := tree.NewView(after)
	CarryState(from, to)
	_, ok := to.Focus()
	require.False(t, ok)
}
