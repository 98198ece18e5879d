// Package tree implements a collapsible, navigable tree view over an
// arena of nodes. Nodes refer to each other by Index only; the arena owns
// every node and its topology never changes once built.
package tree

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lexcodex/symtree/surface"
)

// Index identifies a node inside the Arena that issued it.
type Index int

const noParent Index = -1

func (ix Index) String() string {
	return strconv.Itoa(int(ix))
}

// Payload is the content carried by a node.
type Payload interface {
	Label() string
}

// Columns is implemented by payloads that show one value per column.
// Missing columns render empty.
type Columns interface {
	Cells() []string
}

// CellDrawer is implemented by payloads that paint their own cells. The
// returned rect is the area actually drawn.
type CellDrawer interface {
	DrawCell(column int, area surface.Rect, buf *surface.Buffer, style surface.Style) surface.Rect
}

// Styler lets a payload adjust the style of its row.
type Styler interface {
	Style() surface.Style
}

// Item is the capability set every node exposes to the navigation and
// rendering code.
type Item interface {
	Index() Index
	ChildCount() int
	Child(row int) Index
	Position() int
	Parent() (Index, bool)
	Label() string
}

// ErrBrokenForest is returned by Validate when links are inconsistent.
var ErrBrokenForest = errors.New("tree: broken forest")

// Node is one arena slot.
type Node[T Payload] struct {
	Payload T

	index    Index
	parent   Index
	position int
	children []Index
}

func (n *Node[T]) Index() Index        { return n.index }
func (n *Node[T]) ChildCount() int     { return len(n.children) }
func (n *Node[T]) Child(row int) Index { return n.children[row] }
func (n *Node[T]) Position() int       { return n.position }
func (n *Node[T]) Label() string       { return n.Payload.Label() }

func (n *Node[T]) Parent() (Index, bool) {
	if n.parent == noParent {
		return 0, false
	}
	return n.parent, true
}

// Arena owns all nodes of one forest.
type Arena[T Payload] struct {
	nodes []Node[T]
	roots []Index
}

// Build converts an externally rooted forest into an arena in a single
// pre-order pass. children returns the inline children of a source node and
// payload extracts what the arena keeps. A parent's Index is always smaller
// than the Indexes of its descendants.
func Build[S any, T Payload](roots []S, children func(S) []S, payload func(S) T) *Arena[T] {
	a := &Arena[T]{roots: make([]Index, 0, len(roots))}
	for pos, src := range roots {
		a.roots = append(a.roots, buildNode(a, src, noParent, pos, children, payload))
	}
	return a
}

func buildNode[S any, T Payload](a *Arena[T], src S, parent Index, pos int, children func(S) []S, payload func(S) T) Index {
	ix := Index(len(a.nodes))
	a.nodes = append(a.nodes, Node[T]{
		Payload:  payload(src),
		index:    ix,
		parent:   parent,
		position: pos,
	})
	srcChildren := children(src)
	if len(srcChildren) == 0 {
		return ix
	}
	kids := make([]Index, 0, len(srcChildren))
	for childPos, child := range srcChildren {
		kids = append(kids, buildNode(a, child, ix, childPos, children, payload))
	}
	// children are only known once the recursive calls return
	a.nodes[ix].children = kids
	return ix
}

// Builder grows an arena one node at a time.
type Builder[T Payload] struct {
	arena *Arena[T]
}

// NewBuilder returns a builder for an empty arena.
func NewBuilder[T Payload]() *Builder[T] {
	return &Builder[T]{arena: &Arena[T]{}}
}

// AddRoot appends a new root node.
func (b *Builder[T]) AddRoot(payload T) Index {
	a := b.arena
	ix := Index(len(a.nodes))
	a.nodes = append(a.nodes, Node[T]{Payload: payload, index: ix, parent: noParent, position: len(a.roots)})
	a.roots = append(a.roots, ix)
	return ix
}

// AddChild appends a new last child of parent.
func (b *Builder[T]) AddChild(parent Index, payload T) Index {
	a := b.arena
	ix := Index(len(a.nodes))
	pos := len(a.nodes[parent].children)
	a.nodes = append(a.nodes, Node[T]{Payload: payload, index: ix, parent: parent, position: pos})
	a.nodes[parent].children = append(a.nodes[parent].children, ix)
	return ix
}

// Arena returns the arena built so far.
func (b *Builder[T]) Arena() *Arena[T] {
	return b.arena
}

// Len returns the number of nodes.
func (a *Arena[T]) Len() int {
	return len(a.nodes)
}

// Roots returns the root list. Callers must not modify it.
func (a *Arena[T]) Roots() []Index {
	return a.roots
}

// First returns the first root.
func (a *Arena[T]) First() (Index, bool) {
	if len(a.roots) == 0 {
		return 0, false
	}
	return a.roots[0], true
}

// Node returns the node at ix.
func (a *Arena[T]) Node(ix Index) *Node[T] {
	return &a.nodes[ix]
}

// item returns the node at ix through the Item contract.
func (a *Arena[T]) item(ix Index) Item {
	return &a.nodes[ix]
}

// Payload returns the payload at ix.
func (a *Arena[T]) Payload(ix Index) T {
	return a.nodes[ix].Payload
}

// SetPayload replaces the payload at ix. Topology is unaffected.
func (a *Arena[T]) SetPayload(ix Index, payload T) {
	a.nodes[ix].Payload = payload
}

// Parent returns the parent of ix, false for roots.
func (a *Arena[T]) Parent(ix Index) (Index, bool) {
	return a.nodes[ix].Parent()
}

// Children returns the ordered children of ix. Callers must not modify it.
func (a *Arena[T]) Children(ix Index) []Index {
	return a.nodes[ix].children
}

// ChildCount returns the number of children of ix.
func (a *Arena[T]) ChildCount(ix Index) int {
	return len(a.nodes[ix].children)
}

// HasChildren reports whether ix is an inner node.
func (a *Arena[T]) HasChildren(ix Index) bool {
	return len(a.nodes[ix].children) > 0
}

// Position returns the rank of ix among its siblings, or among the roots.
func (a *Arena[T]) Position(ix Index) int {
	return a.nodes[ix].position
}

// Walk visits every node in pre-order with its depth. Returning false from
// fn skips the node's subtree.
func (a *Arena[T]) Walk(fn func(ix Index, depth int) bool) {
	for _, root := range a.roots {
		a.walk(root, 0, fn)
	}
}

func (a *Arena[T]) walk(ix Index, depth int, fn func(Index, int) bool) {
	if !fn(ix, depth) {
		return
	}
	for _, child := range a.nodes[ix].children {
		a.walk(child, depth+1, fn)
	}
}

// Descendants counts the nodes below ix.
func (a *Arena[T]) Descendants(ix Index) int {
	count := 0
	for _, child := range a.nodes[ix].children {
		count += 1 + a.Descendants(child)
	}
	return count
}

// Validate checks that every link resolves and that the structure is a
// forest in which each node sits at its recorded position.
func (a *Arena[T]) Validate() error {
	seen := make([]bool, len(a.nodes))
	valid := func(ix Index) bool { return ix >= 0 && int(ix) < len(a.nodes) }

	var check func(ix, parent Index, pos int) error
	check = func(ix, parent Index, pos int) error {
		if !valid(ix) {
			return fmt.Errorf("%w: index %d out of range", ErrBrokenForest, ix)
		}
		if seen[ix] {
			return fmt.Errorf("%w: node %d reachable twice", ErrBrokenForest, ix)
		}
		seen[ix] = true
		n := &a.nodes[ix]
		if n.index != ix {
			return fmt.Errorf("%w: node %d records index %d", ErrBrokenForest, ix, n.index)
		}
		if n.parent != parent {
			return fmt.Errorf("%w: node %d records parent %d, linked from %d", ErrBrokenForest, ix, n.parent, parent)
		}
		if n.position != pos {
			return fmt.Errorf("%w: node %d records position %d, found at %d", ErrBrokenForest, ix, n.position, pos)
		}
		for childPos, child := range n.children {
			if err := check(child, ix, childPos); err != nil {
				return err
			}
		}
		return nil
	}

	for pos, root := range a.roots {
		if err := check(root, noParent, pos); err != nil {
			return err
		}
	}
	for ix, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: node %d unreachable from roots", ErrBrokenForest, ix)
		}
	}
	return nil
}
