// Package session wires configuration, the symbol source, the snapshot
// cache and logging into one object the front ends share.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/lexcodex/symtree/internal/config"
	"github.com/lexcodex/symtree/lsp"
	"github.com/lexcodex/symtree/outline"
	"github.com/lexcodex/symtree/persistence"
	"github.com/lexcodex/symtree/tree"
)

// Options select what a session outlines.
type Options struct {
	// File is the source file to outline.
	File string
	// FromJSON serves a recorded documentSymbol payload instead of starting
	// a language server.
	FromJSON string
	Language string
	NoCache  bool
	// Logger overrides the log file at Config.LogPath.
	Logger *log.Logger
}

// Session owns the client stack for one file.
type Session struct {
	Config config.Config
	Logger *log.Logger
	File   string
	Server string

	client    lsp.Client
	proxy     *lsp.Proxy
	snapshots *lsp.SnapshotClient
	raw       lsp.Client
	store     *persistence.SymbolStore
	logFile   io.Closer
}

// New builds a session. cfg is normalized first.
func New(ctx context.Context, cfg config.Config, opts Options) (*Session, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	s := &Session{Config: cfg, Logger: opts.Logger}
	if s.Logger == nil {
		logger, closer, err := config.OpenLog(cfg.LogPath)
		if err != nil {
			return nil, err
		}
		s.Logger = logger
		s.logFile = closer
	}

	file := opts.File
	if file == "" {
		file = opts.FromJSON
	}
	if file == "" {
		s.Close()
		return nil, errors.New("a source file or --from-json payload is required")
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.File = abs

	if err := s.connect(ctx, opts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) connect(ctx context.Context, opts Options) error {
	if opts.FromJSON != "" {
		s.raw = lsp.NewStaticClient(opts.FromJSON)
		s.Server = "static"
	} else {
		if _, err := os.Stat(s.File); err != nil {
			return err
		}
		language := opts.Language
		if language == "" {
			language = s.Config.Settings.Language
		}
		desc, err := Registry(s.Config.Settings).Resolve(language, s.File)
		if err != nil {
			return err
		}
		client, err := desc.Start(ctx, s.Config.Workspace, s.Logger)
		if err != nil {
			return fmt.Errorf("start %s: %w", desc.Command, err)
		}
		s.raw = client
		s.Server = desc.Name
	}

	s.wrap(s.Config.Settings.Cache.Enabled && !opts.NoCache)
	return nil
}

// wrap layers the snapshot cache and the TTL proxy over the raw client.
func (s *Session) wrap(cache bool) {
	client := s.raw
	if cache {
		store, err := persistence.OpenSymbolStore(s.Config.CachePath)
		if err != nil {
			s.Logger.Printf("symbol cache disabled: %v", err)
		} else {
			s.store = store
			s.snapshots = lsp.WithSnapshots(client, store, s.Logger)
			client = s.snapshots
		}
	}
	s.proxy = lsp.NewProxy(client, s.Config.Settings.Cache.TTL)
	s.client = s.proxy
	s.Logger.Printf("session %s server=%s cache=%t", s.File, s.Server, s.store != nil)
}

// Registry returns the default servers with the configured overrides
// applied.
func Registry(settings config.Settings) *lsp.Registry {
	registry := lsp.DefaultRegistry()
	for name, srv := range settings.Servers {
		registry.Add([]string{name}, lsp.Descriptor{
			Name:       name,
			Command:    srv.Command,
			Args:       srv.Args,
			LanguageID: srv.LanguageID,
			Extensions: srv.Extensions,
		})
	}
	return registry
}

// Title names the session for a view border.
func (s *Session) Title() string {
	return filepath.Base(s.File)
}

// Fetch returns the outline, served from cache when fresh.
func (s *Session) Fetch(ctx context.Context) (*tree.Arena[outline.Symbol], error) {
	ctx, cancel := context.WithTimeout(ctx, s.Config.Settings.FetchTimeout)
	defer cancel()
	resp, err := s.client.DocumentSymbols(ctx, s.File)
	if err != nil {
		s.Logger.Printf("fetch %s: %v", s.File, err)
		return outline.Empty(), err
	}
	arena, err := outline.FromResponse(resp)
	if err != nil {
		s.Logger.Printf("outline %s: %v", s.File, err)
		return arena, err
	}
	s.Logger.Printf("fetch %s: %d symbols", s.File, arena.Len())
	return arena, nil
}

// Refresh drops every cached result for the file, so the language server
// is asked again, and fetches.
func (s *Session) Refresh(ctx context.Context) (*tree.Arena[outline.Symbol], error) {
	s.proxy.Invalidate(s.File)
	if s.snapshots != nil {
		if err := s.snapshots.Invalidate(ctx, s.File); err != nil {
			s.Logger.Printf("snapshot invalidate %s: %v", s.File, err)
		}
	}
	if f, ok := s.raw.(interface {
		Forget(context.Context, string) error
	}); ok {
		if err := f.Forget(ctx, s.File); err != nil {
			s.Logger.Printf("forget %s: %v", s.File, err)
		}
	}
	return s.Fetch(ctx)
}

// Response returns the raw response for the file, bypassing the tree.
func (s *Session) Response(ctx context.Context) (lsp.SymbolResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Config.Settings.FetchTimeout)
	defer cancel()
	return s.client.DocumentSymbols(ctx, s.File)
}

// Close shuts the server down and releases the cache and log.
func (s *Session) Close() error {
	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.logFile != nil {
		errs = append(errs, s.logFile.Close())
	}
	return errors.Join(errs...)
}
