package outline

import (
	"errors"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/lexcodex/symtree/lsp"
	"github.com/lexcodex/symtree/tree"
)

// ErrFlatResponse is returned for a flat SymbolInformation response, which
// carries no hierarchy to build a tree from.
var ErrFlatResponse = errors.New("flat symbol response has no hierarchy")

// MalformedError reports the first symbol that failed validation.
type MalformedError struct {
	Path   []string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed symbol %s: %s", strings.Join(e.Path, "/"), e.Reason)
}

// Empty returns an arena with no nodes.
func Empty() *tree.Arena[Symbol] {
	return tree.NewBuilder[Symbol]().Arena()
}

// Build validates symbols and builds an arena from them in one pre-order
// pass. On a validation failure it returns an empty arena and a
// *MalformedError.
func Build(symbols []protocol.DocumentSymbol) (*tree.Arena[Symbol], error) {
	if err := validate(symbols, nil); err != nil {
		return Empty(), err
	}
	return tree.Build(symbols, children, FromDocumentSymbol), nil
}

// FromResponse builds an arena from a decoded documentSymbol response. Only
// the nested shape is accepted.
func FromResponse(resp lsp.SymbolResponse) (*tree.Arena[Symbol], error) {
	if resp.IsFlat() {
		return Empty(), ErrFlatResponse
	}
	return Build(resp.Nested)
}

func children(ds protocol.DocumentSymbol) []protocol.DocumentSymbol {
	return ds.Children
}

func validate(symbols []protocol.DocumentSymbol, path []string) error {
	for i, ds := range symbols {
		name := ds.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("#%d", i)
		}
		here := append(path[:len(path):len(path)], name)
		switch {
		case name != ds.Name:
			return &MalformedError{Path: here, Reason: "empty name"}
		case before(ds.Range.End, ds.Range.Start):
			return &MalformedError{Path: here, Reason: "range ends before it starts"}
		case !contains(ds.Range, ds.SelectionRange):
			return &MalformedError{Path: here, Reason: "selection range outside symbol range"}
		}
		if err := validate(ds.Children, here); err != nil {
			return err
		}
	}
	return nil
}

func before(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

func contains(outer, inner protocol.Range) bool {
	return !before(inner.Start, outer.Start) && !before(outer.End, inner.End)
}

// Flatten lists every symbol in pre-order as SymbolInformation located at its
// selection range in uri.
func Flatten(uri protocol.DocumentURI, symbols []protocol.DocumentSymbol) []protocol.SymbolInformation {
	var out []protocol.SymbolInformation
	var walk func(container string, list []protocol.DocumentSymbol)
	walk = func(container string, list []protocol.DocumentSymbol) {
		for _, ds := range list {
			out = append(out, protocol.SymbolInformation{
				Name:          ds.Name,
				Kind:          ds.Kind,
				Tags:          ds.Tags,
				Deprecated:    ds.Deprecated,
				Location:      protocol.Location{URI: uri, Range: ds.SelectionRange},
				ContainerName: container,
			})
			walk(ds.Name, ds.Children)
		}
	}
	walk("", symbols)
	return out
}
