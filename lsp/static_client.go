package lsp

import (
	"context"
	"fmt"
	"os"
)

// StaticClient answers every request with a documentSymbol payload stored
// on disk. The file is reread on each call.
type StaticClient struct {
	Path string
}

// NewStaticClient serves the payload at path.
func NewStaticClient(path string) *StaticClient {
	return &StaticClient{Path: path}
}

func (c *StaticClient) DocumentSymbols(ctx context.Context, _ string) (SymbolResponse, error) {
	if err := ctx.Err(); err != nil {
		return SymbolResponse{}, err
	}
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return SymbolResponse{}, fmt.Errorf("read symbol payload: %w", err)
	}
	resp, err := DecodeSymbols(raw)
	if err != nil {
		return SymbolResponse{}, fmt.Errorf("%s: %w", c.Path, err)
	}
	return resp, nil
}

func (c *StaticClient) Close() error { return nil }
