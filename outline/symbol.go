// Package outline adapts language server document symbols to the tree engine.
package outline

import (
	"fmt"
	"slices"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/lexcodex/symtree/surface"
)

// ColumnCount is the number of cells a Symbol provides.
const ColumnCount = 4

// Symbol is the tree payload for one document symbol. Children live in the
// arena, not here.
type Symbol struct {
	Name           string
	Detail         string
	Kind           protocol.SymbolKind
	Range          protocol.Range
	SelectionRange protocol.Range
	Deprecated     bool
}

// FromDocumentSymbol copies the non-structural fields of ds.
func FromDocumentSymbol(ds protocol.DocumentSymbol) Symbol {
	return Symbol{
		Name:           ds.Name,
		Detail:         ds.Detail,
		Kind:           ds.Kind,
		Range:          ds.Range,
		SelectionRange: ds.SelectionRange,
		Deprecated:     ds.Deprecated || slices.Contains(ds.Tags, protocol.SymbolTagDeprecated),
	}
}

func (s Symbol) Label() string {
	return s.Name
}

// KindName is the lower-case symbol kind, e.g. "function".
func (s Symbol) KindName() string {
	return strings.ToLower(s.Kind.String())
}

// Span is the one-based line span of the symbol: "L12" or "L12-30".
func (s Symbol) Span() string {
	start, end := s.Range.Start.Line+1, s.Range.End.Line+1
	if start == end {
		return fmt.Sprintf("L%d", start)
	}
	return fmt.Sprintf("L%d-%d", start, end)
}

// Location is the one-based line:column of the symbol name.
func (s Symbol) Location() string {
	return fmt.Sprintf("%d:%d", s.SelectionRange.Start.Line+1, s.SelectionRange.Start.Character+1)
}

// Cells returns name, kind, span and detail.
func (s Symbol) Cells() []string {
	return []string{s.Name, s.KindName(), s.Span(), s.Detail}
}

// Style dims deprecated symbols.
func (s Symbol) Style() surface.Style {
	if s.Deprecated {
		return surface.Style{Add: surface.Dim | surface.CrossedOut}
	}
	return surface.Style{}
}
