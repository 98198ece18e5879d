package lsp

import (
	"bytes"
	"context"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

type fakeServer struct {
	symbolProvider interface{}
	payload        string

	mu      sync.Mutex
	methods []string
	opened  []protocol.DocumentURI
}

func (s *fakeServer) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	s.mu.Lock()
	s.methods = append(s.methods, req.Method)
	s.mu.Unlock()

	switch req.Method {
	case "initialize":
		if err := conn.Notify(ctx, "window/logMessage", protocol.LogMessageParams{Type: protocol.MessageTypeInfo, Message: "hello"}); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"capabilities": map[string]interface{}{"documentSymbolProvider": s.symbolProvider},
			"serverInfo":   map[string]interface{}{"name": "fake"},
		}, nil
	case "textDocument/didOpen":
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.opened = append(s.opened, params.TextDocument.URI)
		s.mu.Unlock()
	case "textDocument/documentSymbol":
		return json.RawMessage(s.payload), nil
	}
	return nil, nil
}

func (s *fakeServer) seen() ([]string, []protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.methods...), append([]protocol.DocumentURI(nil), s.opened...)
}

func dialFake(t *testing.T, server *fakeServer, logger *log.Logger) *ProcessClient {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	serverConn := jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(server.handle))
	t.Cleanup(func() { _ = serverConn.Close() })

	client, err := Dial(ctx, clientSide, ProcessConfig{LanguageID: "go", RootDir: t.TempDir()}, logger)
	require.NoError(t, err)
	return client
}

func TestProcessClientDocumentSymbols(t *testing.T) {
	server := &fakeServer{symbolProvider: true, payload: nestedPayload}
	var logs bytes.Buffer
	client := dialFake(t, server, log.New(&logs, "", 0))

	file := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		resp, err := client.DocumentSymbols(ctx, file)
		require.NoError(t, err)
		require.Len(t, resp.Nested, 1)
		require.Equal(t, "x", resp.Nested[0].Children[0].Name)
	}

	methods, opened := server.seen()
	require.Equal(t, []string{"initialize", "initialized", "textDocument/didOpen", "textDocument/documentSymbol", "textDocument/documentSymbol"}, methods)
	require.Equal(t, []protocol.DocumentURI{PathToURI(file)}, opened)

	require.NoError(t, client.Forget(ctx, file))
	_, err := client.DocumentSymbols(ctx, file)
	require.NoError(t, err)
	_, opened = server.seen()
	require.Len(t, opened, 2)

	require.NoError(t, client.Close())
	methods, _ = server.seen()
	require.Contains(t, methods, "shutdown")
	require.Contains(t, logs.String(), "document_symbols=true")
}

func TestProcessClientRetriesOpenAfterReadError(t *testing.T) {
	server := &fakeServer{symbolProvider: true, payload: nestedPayload}
	client := dialFake(t, server, nil)
	defer client.Close()

	file := filepath.Join(t.TempDir(), "later.go")
	ctx := context.Background()
	_, err := client.DocumentSymbols(ctx, file)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))
	resp, err := client.DocumentSymbols(ctx, file)
	require.NoError(t, err)
	require.Len(t, resp.Nested, 1)

	methods, opened := server.seen()
	require.Equal(t, []protocol.DocumentURI{PathToURI(file)}, opened)
	require.Equal(t, []string{"initialize", "initialized", "textDocument/didOpen", "textDocument/documentSymbol"}, methods)
}

func TestProcessClientOptionsCapability(t *testing.T) {
	server := &fakeServer{symbolProvider: map[string]interface{}{"label": "outline"}, payload: flatPayload}
	client := dialFake(t, server, nil)
	defer client.Close()

	require.True(t, client.SupportsSymbols())
	file := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	resp, err := client.DocumentSymbols(context.Background(), file)
	require.NoError(t, err)
	require.True(t, resp.IsFlat())
}

func TestProcessClientUnsupported(t *testing.T) {
	for _, provider := range []interface{}{nil, false} {
		server := &fakeServer{symbolProvider: provider}
		client := dialFake(t, server, nil)

		_, err := client.DocumentSymbols(context.Background(), "main.go")
		require.ErrorIs(t, err, ErrUnsupported)
		methods, _ := server.seen()
		require.NotContains(t, methods, "textDocument/documentSymbol")
		require.NoError(t, client.Close())
	}
}

func TestStartProcessValidatesConfig(t *testing.T) {
	_, err := StartProcess(context.Background(), ProcessConfig{LanguageID: "go"}, nil)
	require.Error(t, err)
	_, err = StartProcess(context.Background(), ProcessConfig{Command: "gopls"}, nil)
	require.Error(t, err)
	_, err = StartProcess(context.Background(), ProcessConfig{Command: "/nonexistent/server", LanguageID: "go"}, nil)
	require.Error(t, err)
}

func TestPathToURI(t *testing.T) {
	require.Equal(t, protocol.DocumentURI("file:///src/main.go"), PathToURI("/src/./main.go"))
}
