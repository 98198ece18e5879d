package lsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"
)

// ProcessConfig defines how to spin up a language server process.
type ProcessConfig struct {
	Command    string
	Args       []string
	RootDir    string
	LanguageID string
}

// ProcessClient speaks LSP over a JSON-RPC stream, usually the stdio of a
// child process.
type ProcessClient struct {
	cfg    ProcessConfig
	cmd    *exec.Cmd
	conn   *jsonrpc2.Conn
	cancel context.CancelFunc
	logger *log.Logger

	mu          sync.Mutex
	openedFiles map[protocol.DocumentURI]bool
	symbols     bool
	serverName  string
}

// StartProcess launches the configured server and performs the LSP
// handshake. Server stderr goes to logger.
func StartProcess(ctx context.Context, cfg ProcessConfig, logger *log.Logger) (*ProcessClient, error) {
	if cfg.Command == "" {
		return nil, errors.New("command is required for LSP client")
	}
	if cfg.LanguageID == "" {
		return nil, errors.New("language id is required for LSP client")
	}
	root := cfg.RootDir
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	cfg.RootDir = absRoot
	logger = orDiscard(logger)

	procCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(procCtx, cfg.Command, cfg.Args...)
	cmd.Dir = absRoot

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %s: %w", cfg.Command, err)
	}
	go io.Copy(logger.Writer(), stderr)

	client := newClient(procCtx, cancel, &stdioReadWriteCloser{reader: stdout, writer: stdin}, cfg, logger)
	client.cmd = cmd
	if err := client.initialize(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("initialize %s: %w", cfg.Command, err)
	}
	return client, nil
}

// Dial performs the LSP handshake over an existing stream.
func Dial(ctx context.Context, rwc io.ReadWriteCloser, cfg ProcessConfig, logger *log.Logger) (*ProcessClient, error) {
	connCtx, cancel := context.WithCancel(context.Background())
	client := newClient(connCtx, cancel, rwc, cfg, orDiscard(logger))
	if err := client.initialize(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func newClient(ctx context.Context, cancel context.CancelFunc, rwc io.ReadWriteCloser, cfg ProcessConfig, logger *log.Logger) *ProcessClient {
	client := &ProcessClient{
		cfg:         cfg,
		cancel:      cancel,
		logger:      logger,
		openedFiles: make(map[protocol.DocumentURI]bool),
	}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	client.conn = jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(client.handle))
	return client
}

func (c *ProcessClient) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	if !req.Notif {
		switch req.Method {
		case "window/workDoneProgress/create", "client/registerCapability":
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled"}
	}
	switch req.Method {
	case "window/logMessage", "window/showMessage":
		if req.Params == nil {
			return nil, nil
		}
		var params protocol.LogMessageParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		c.logger.Printf("%s: %s", c.cfg.Command, params.Message)
	}
	return nil, nil
}

func (c *ProcessClient) initialize(ctx context.Context) error {
	params := &protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		RootURI:   protocol.DocumentURI(pathToURI(c.cfg.RootDir)),
		ClientInfo: &protocol.ClientInfo{
			Name:    "symtree",
			Version: "0.1",
		},
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				DocumentSymbol: &protocol.DocumentSymbolClientCapabilities{
					HierarchicalDocumentSymbolSupport: true,
				},
			},
		},
	}
	var result protocol.InitializeResult
	if err := c.conn.Call(ctx, "initialize", params, &result); err != nil {
		return err
	}
	c.mu.Lock()
	c.symbols = providesSymbols(result.Capabilities.DocumentSymbolProvider)
	if result.ServerInfo != nil {
		c.serverName = result.ServerInfo.Name
	}
	c.mu.Unlock()
	c.logger.Printf("initialized %s (server=%q document_symbols=%t)", c.cfg.Command, c.serverName, c.symbols)
	return c.conn.Notify(ctx, "initialized", &protocol.InitializedParams{})
}

// providesSymbols interprets the bool | DocumentSymbolOptions capability.
func providesSymbols(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// SupportsSymbols reports the server's documentSymbolProvider capability.
func (c *ProcessClient) SupportsSymbols() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.symbols
}

// Close shuts the server down and terminates the process.
func (c *ProcessClient) Close() error {
	if c == nil {
		return nil
	}
	if c.conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := c.conn.Call(ctx, "shutdown", nil, nil); err == nil {
			_ = c.conn.Notify(ctx, "exit", nil)
		}
		cancel()
		_ = c.conn.Close()
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_, _ = c.cmd.Process.Wait()
	}
	return nil
}

func (c *ProcessClient) ensureOpen(ctx context.Context, file string) error {
	uri := protocol.DocumentURI(pathToURI(file))
	c.mu.Lock()
	opened := c.openedFiles[uri]
	c.mu.Unlock()
	if opened {
		return nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	params := protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: protocol.LanguageIdentifier(c.cfg.LanguageID),
			Version:    1,
			Text:       string(data),
		},
	}
	if err := c.conn.Notify(ctx, "textDocument/didOpen", params); err != nil {
		return err
	}
	c.mu.Lock()
	c.openedFiles[uri] = true
	c.mu.Unlock()
	return nil
}

// Forget makes the next DocumentSymbols call reopen file, so the server sees
// its current contents.
func (c *ProcessClient) Forget(ctx context.Context, file string) error {
	uri := protocol.DocumentURI(pathToURI(file))
	c.mu.Lock()
	opened := c.openedFiles[uri]
	delete(c.openedFiles, uri)
	c.mu.Unlock()
	if !opened {
		return nil
	}
	return c.conn.Notify(ctx, "textDocument/didClose", protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
}

// DocumentSymbols requests textDocument/documentSymbol for file.
func (c *ProcessClient) DocumentSymbols(ctx context.Context, file string) (SymbolResponse, error) {
	if !c.SupportsSymbols() {
		return SymbolResponse{}, ErrUnsupported
	}
	if err := c.ensureOpen(ctx, file); err != nil {
		return SymbolResponse{}, err
	}
	params := protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(pathToURI(file))},
	}
	var raw json.RawMessage
	if err := c.conn.Call(ctx, "textDocument/documentSymbol", params, &raw); err != nil {
		return SymbolResponse{}, err
	}
	return DecodeSymbols(raw)
}

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.reader.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.writer.Write(p) }
func (s *stdioReadWriteCloser) Close() error {
	_ = s.reader.Close()
	return s.writer.Close()
}

func pathToURI(path string) string {
	path = filepath.Clean(path)
	if runtime.GOOS == "windows" {
		path = strings.ReplaceAll(path, "\\", "/")
		return "file:///" + strings.ReplaceAll(path, ":", "%3A")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path
}

// PathToURI converts an absolute path to a file URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(pathToURI(path))
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return logger
}
