package lsp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

const nestedPayload = `[
  {"name": "main", "kind": 12, "range": {"start": {"line": 2, "character": 0}, "end": {"line": 9, "character": 1}},
   "selectionRange": {"start": {"line": 2, "character": 5}, "end": {"line": 2, "character": 9}},
   "children": [
     {"name": "x", "kind": 13, "range": {"start": {"line": 3, "character": 1}, "end": {"line": 3, "character": 10}},
      "selectionRange": {"start": {"line": 3, "character": 1}, "end": {"line": 3, "character": 2}}}
   ]}
]`

const flatPayload = `[
  {"name": "main", "kind": 12, "location": {"uri": "file:///tmp/main.go",
   "range": {"start": {"line": 2, "character": 0}, "end": {"line": 9, "character": 1}}}}
]`

func TestDecodeSymbols(t *testing.T) {
	resp, err := DecodeSymbols([]byte(nestedPayload))
	require.NoError(t, err)
	require.False(t, resp.IsFlat())
	require.Len(t, resp.Nested, 1)
	require.Equal(t, "main", resp.Nested[0].Name)
	require.Equal(t, protocol.SymbolKindFunction, resp.Nested[0].Kind)
	require.Len(t, resp.Nested[0].Children, 1)
	require.Equal(t, uint32(3), resp.Nested[0].Children[0].Range.Start.Line)

	resp, err = DecodeSymbols([]byte(flatPayload))
	require.NoError(t, err)
	require.True(t, resp.IsFlat())
	require.Equal(t, 1, resp.Len())
	require.Equal(t, "main", resp.Flat[0].Name)
}

func TestDecodeSymbolsEmpty(t *testing.T) {
	for _, raw := range []string{"", "null", " [] "} {
		resp, err := DecodeSymbols([]byte(raw))
		require.NoError(t, err, raw)
		require.False(t, resp.IsFlat())
		require.Zero(t, resp.Len())
	}
}

func TestDecodeSymbolsUnknownShape(t *testing.T) {
	for _, raw := range []string{`{"name": "x"}`, `[{"name": "x"}]`, `[1, 2]`, `not json`} {
		_, err := DecodeSymbols([]byte(raw))
		require.ErrorIs(t, err, ErrUnknownShape, raw)
	}
}

func TestEncodeSymbolsKeepsShape(t *testing.T) {
	for _, payload := range []string{nestedPayload, flatPayload, "[]"} {
		resp, err := DecodeSymbols([]byte(payload))
		require.NoError(t, err)
		raw, err := EncodeSymbols(resp)
		require.NoError(t, err)
		again, err := DecodeSymbols(raw)
		require.NoError(t, err)
		require.Equal(t, resp, again)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry()

	desc, err := r.Lookup("GoPls")
	require.NoError(t, err)
	require.Equal(t, "gopls", desc.Command)
	require.Equal(t, []string{"serve"}, desc.Args)

	desc, err = r.ForFile("/src/lib.rs")
	require.NoError(t, err)
	require.Equal(t, "rust-analyzer", desc.Command)

	desc, err = r.Resolve("", "component.TSX")
	require.NoError(t, err)
	require.Equal(t, "typescript", desc.LanguageID)

	_, err = r.Lookup("cobol")
	require.ErrorIs(t, err, ErrNoServer)
	_, err = r.ForFile("README")
	require.ErrorIs(t, err, ErrNoServer)
}

func TestRegistryOverride(t *testing.T) {
	r := DefaultRegistry()
	r.Add([]string{"go"}, Descriptor{Name: "go", Command: "/opt/gopls", Extensions: []string{".go", "tmpl"}})

	desc, err := r.ForFile("main.go")
	require.NoError(t, err)
	require.Equal(t, "/opt/gopls", desc.Command)
	require.Equal(t, "go", desc.LanguageID)

	desc, err = r.ForFile("page.tmpl")
	require.NoError(t, err)
	require.Equal(t, "/opt/gopls", desc.Command)

	names := []string{}
	for _, d := range r.Descriptors() {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"c", "go", "haskell", "javascript", "lua", "python", "rust", "typescript"}, names)
}

func TestStaticClient(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symbols.json")
	require.NoError(t, os.WriteFile(path, []byte(nestedPayload), 0o644))

	client := NewStaticClient(path)
	resp, err := client.DocumentSymbols(context.Background(), "ignored.go")
	require.NoError(t, err)
	require.Len(t, resp.Nested, 1)
	require.NoError(t, client.Close())

	_, err = NewStaticClient(filepath.Join(dir, "missing.json")).DocumentSymbols(context.Background(), "")
	require.ErrorIs(t, err, os.ErrNotExist)
}

type countingClient struct {
	calls int
	resp  SymbolResponse
	err   error
}

func (c *countingClient) DocumentSymbols(context.Context, string) (SymbolResponse, error) {
	c.calls++
	return c.resp, c.err
}

func (c *countingClient) Close() error { return nil }

func TestProxyCachesUntilExpiry(t *testing.T) {
	inner := &countingClient{resp: SymbolResponse{Nested: []protocol.DocumentSymbol{{Name: "a"}}}}
	proxy := NewProxy(inner, time.Minute)
	now := time.Unix(1000, 0)
	proxy.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		resp, err := proxy.DocumentSymbols(ctx, "a.go")
		require.NoError(t, err)
		require.Equal(t, "a", resp.Nested[0].Name)
	}
	require.Equal(t, 1, inner.calls)

	_, _ = proxy.DocumentSymbols(ctx, "b.go")
	require.Equal(t, 2, inner.calls)

	now = now.Add(2 * time.Minute)
	_, _ = proxy.DocumentSymbols(ctx, "a.go")
	require.Equal(t, 3, inner.calls)

	proxy.Invalidate("a.go")
	_, _ = proxy.DocumentSymbols(ctx, "a.go")
	require.Equal(t, 4, inner.calls)
}

func TestProxyDoesNotCacheErrors(t *testing.T) {
	inner := &countingClient{err: ErrUnsupported}
	proxy := NewProxy(inner, 0)
	_, err := proxy.DocumentSymbols(context.Background(), "a.go")
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = proxy.DocumentSymbols(context.Background(), "a.go")
	require.ErrorIs(t, err, ErrUnsupported)
	require.Equal(t, 2, inner.calls)
}

type memoryStore struct {
	data map[string][]byte
	fail error
}

func (m *memoryStore) LoadSnapshot(_ context.Context, path, hash string) ([]byte, bool, error) {
	if m.fail != nil {
		return nil, false, m.fail
	}
	raw, ok := m.data[path+"@"+hash]
	return raw, ok, nil
}

func (m *memoryStore) SaveSnapshot(_ context.Context, path, hash string, payload []byte) error {
	if m.fail != nil {
		return m.fail
	}
	m.data[path+"@"+hash] = payload
	return nil
}

func (m *memoryStore) Delete(_ context.Context, path string) error {
	if m.fail != nil {
		return m.fail
	}
	for key := range m.data {
		if strings.HasPrefix(key, path+"@") {
			delete(m.data, key)
		}
	}
	return nil
}

func TestSnapshotClient(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	resp, err := DecodeSymbols([]byte(nestedPayload))
	require.NoError(t, err)
	inner := &countingClient{resp: resp}
	store := &memoryStore{data: map[string][]byte{}}
	client := WithSnapshots(inner, store, nil)

	ctx := context.Background()
	got, err := client.DocumentSymbols(ctx, file)
	require.NoError(t, err)
	require.Equal(t, resp, got)
	got, err = client.DocumentSymbols(ctx, file)
	require.NoError(t, err)
	require.Equal(t, resp, got)
	require.Equal(t, 1, inner.calls)

	require.NoError(t, os.WriteFile(file, []byte("package main\n\nfunc main() {}\n"), 0o644))
	_, err = client.DocumentSymbols(ctx, file)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
	require.Len(t, store.data, 2)
}

func TestSnapshotClientInvalidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	resp, err := DecodeSymbols([]byte(nestedPayload))
	require.NoError(t, err)
	inner := &countingClient{resp: resp}
	store := &memoryStore{data: map[string][]byte{}}
	client := WithSnapshots(inner, store, nil)

	ctx := context.Background()
	_, err = client.DocumentSymbols(ctx, file)
	require.NoError(t, err)
	require.Len(t, store.data, 1)

	require.NoError(t, client.Invalidate(ctx, file))
	require.Empty(t, store.data)

	got, err := client.DocumentSymbols(ctx, file)
	require.NoError(t, err)
	require.Equal(t, resp, got)
	require.Equal(t, 2, inner.calls)
	require.Len(t, store.data, 1)
}

func TestSnapshotClientIgnoresStoreFailures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	inner := &countingClient{}
	client := WithSnapshots(inner, &memoryStore{fail: errors.New("disk full")}, nil)
	_, err := client.DocumentSymbols(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	_, err = client.DocumentSymbols(context.Background(), filepath.Join(dir, "missing.go"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestContentHash(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("abc"), 0o644))
	path, hash, err := ContentHash(file)
	require.NoError(t, err)
	require.Equal(t, file, path)
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hash)
}
