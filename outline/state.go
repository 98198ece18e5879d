package outline

import "github.com/lexcodex/symtree/tree"

// CarryState copies collapse and focus state from a view of an old outline
// onto a view of a refetched one. Nodes are matched by their name path, so
// symbols that moved within the file keep their state.
func CarryState(from, to *tree.View[Symbol]) {
	old, next := from.Arena(), to.Arena()
	paths := make(map[string]tree.Index, next.Len())
	next.Walk(func(ix tree.Index, _ int) bool {
		paths[NamePath(next, ix)] = ix
		return true
	})
	old.Walk(func(ix tree.Index, _ int) bool {
		if from.Collapsed(ix) {
			if nix, ok := paths[NamePath(old, ix)]; ok {
				to.Collapse(nix)
			}
		}
		return true
	})
	if ix, ok := from.Focus(); ok {
		if nix, ok := paths[NamePath(old, ix)]; ok {
			to.SetFocus(nix)
		}
	}
}

// NamePath joins the names from the root down to ix with "/".
func NamePath(a *tree.Arena[Symbol], ix tree.Index) string {
	path := a.Payload(ix).Name
	for {
		parent, ok := a.Parent(ix)
		if !ok {
			return path
		}
		path = a.Payload(parent).Name + "/" + path
		ix = parent
	}
}
