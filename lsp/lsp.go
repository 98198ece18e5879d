// Package lsp fetches document symbols from language servers and decodes the
// two response shapes the protocol allows.
package lsp

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"go.lsp.dev/protocol"
)

var (
	// ErrNoServer means no language server is configured for the document.
	ErrNoServer = errors.New("language server not active for current buffer")
	// ErrUnsupported means the server does not answer documentSymbol.
	ErrUnsupported = errors.New("language server does not support document symbols")
	// ErrUnknownShape means the response is neither DocumentSymbol[] nor
	// SymbolInformation[].
	ErrUnknownShape = errors.New("document symbol response not understood")
)

// Client fetches the symbols of one file.
type Client interface {
	DocumentSymbols(ctx context.Context, file string) (SymbolResponse, error)
	Close() error
}

// SymbolResponse is a decoded textDocument/documentSymbol result. At most one
// of Nested and Flat is set.
type SymbolResponse struct {
	Nested []protocol.DocumentSymbol
	Flat   []protocol.SymbolInformation
}

// IsFlat reports whether the server answered with the flat shape.
func (r SymbolResponse) IsFlat() bool {
	return len(r.Nested) == 0 && len(r.Flat) > 0
}

// Len is the number of top-level entries.
func (r SymbolResponse) Len() int {
	if r.IsFlat() {
		return len(r.Flat)
	}
	return len(r.Nested)
}

// DecodeSymbols classifies and decodes a raw documentSymbol result. null and
// [] decode to an empty nested response.
func DecodeSymbols(raw []byte) (SymbolResponse, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return SymbolResponse{}, nil
	}
	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return SymbolResponse{}, fmt.Errorf("%w: %v", ErrUnknownShape, err)
	}
	if len(probe) == 0 {
		return SymbolResponse{}, nil
	}
	first := probe[0]
	switch {
	case has(first, "location"):
		var flat []protocol.SymbolInformation
		if err := json.Unmarshal(raw, &flat); err != nil {
			return SymbolResponse{}, fmt.Errorf("%w: %v", ErrUnknownShape, err)
		}
		return SymbolResponse{Flat: flat}, nil
	case has(first, "range") && has(first, "selectionRange"):
		var nested []protocol.DocumentSymbol
		if err := json.Unmarshal(raw, &nested); err != nil {
			return SymbolResponse{}, fmt.Errorf("%w: %v", ErrUnknownShape, err)
		}
		return SymbolResponse{Nested: nested}, nil
	default:
		return SymbolResponse{}, ErrUnknownShape
	}
}

// EncodeSymbols writes the response back in its wire shape, so that
// DecodeSymbols returns an equal response.
func EncodeSymbols(resp SymbolResponse) ([]byte, error) {
	if resp.IsFlat() {
		return json.Marshal(resp.Flat)
	}
	if resp.Nested == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(resp.Nested)
}

func has(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
