package tree

func (a *Arena[T]) siblings(ix Index) []Index {
	if parent, ok := a.Parent(ix); ok {
		return a.nodes[parent].children
	}
	return a.roots
}

// NextSibling returns the node after ix in its parent's child list, or in
// the root list for roots.
func (a *Arena[T]) NextSibling(ix Index) (Index, bool) {
	siblings := a.siblings(ix)
	pos := a.nodes[ix].position
	if pos+1 < len(siblings) {
		return siblings[pos+1], true
	}
	return 0, false
}

// PrevSibling returns the node before ix among its siblings.
func (a *Arena[T]) PrevSibling(ix Index) (Index, bool) {
	pos := a.nodes[ix].position
	if pos > 0 {
		return a.siblings(ix)[pos-1], true
	}
	return 0, false
}

// NextUncle returns the first node after the subtree of ix's parent: the
// parent's next sibling, or failing that the same rule applied to the
// parent. Roots have no uncle.
func (a *Arena[T]) NextUncle(ix Index) (Index, bool) {
	parent, ok := a.Parent(ix)
	if !ok {
		return 0, false
	}
	if next, ok := a.NextSibling(parent); ok {
		return next, true
	}
	return a.NextUncle(parent)
}

// PrevUncle mirrors NextUncle towards the start of the forest.
func (a *Arena[T]) PrevUncle(ix Index) (Index, bool) {
	parent, ok := a.Parent(ix)
	if !ok {
		return 0, false
	}
	if prev, ok := a.PrevSibling(parent); ok {
		return prev, true
	}
	return a.PrevUncle(parent)
}

// Depth returns the number of ancestors of ix.
func (a *Arena[T]) Depth(ix Index) int {
	depth := 0
	for {
		parent, ok := a.Parent(ix)
		if !ok {
			return depth
		}
		depth++
		ix = parent
	}
}

// Ancestors returns the chain from the parent of ix up to its root.
func (a *Arena[T]) Ancestors(ix Index) []Index {
	var out []Index
	for {
		parent, ok := a.Parent(ix)
		if !ok {
			return out
		}
		out = append(out, parent)
		ix = parent
	}
}
