// Package config loads symtree settings from the workspace.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lexcodex/symtree/surface"
	"github.com/lexcodex/symtree/tree"
)

const (
	BackendBubbletea = "bubbletea"
	BackendTcell     = "tcell"
)

// Config captures the paths and settings shared by every command.
type Config struct {
	Workspace  string
	ConfigPath string
	LogPath    string
	CachePath  string
	Settings   Settings
}

// Settings is the YAML document at ConfigPath.
type Settings struct {
	Language     string                    `yaml:"language,omitempty"`
	Backend      string                    `yaml:"backend"`
	Columns      int                       `yaml:"columns"`
	FetchTimeout time.Duration             `yaml:"fetch_timeout"`
	Cache        CacheSettings             `yaml:"cache"`
	Watch        WatchSettings             `yaml:"watch"`
	Theme        ThemeSettings             `yaml:"theme"`
	Servers      map[string]ServerSettings `yaml:"servers,omitempty"`
}

type CacheSettings struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

type WatchSettings struct {
	Debounce time.Duration `yaml:"debounce"`
}

// ThemeSettings holds colors as names, palette indexes or hex values.
type ThemeSettings struct {
	Text       string `yaml:"text,omitempty"`
	Background string `yaml:"background,omitempty"`
	Border     string `yaml:"border,omitempty"`
	Glyph      string `yaml:"glyph,omitempty"`
	Focus      string `yaml:"focus,omitempty"`
	BorderType string `yaml:"border_type,omitempty"`
	Expanded   string `yaml:"expanded,omitempty"`
	Collapsed  string `yaml:"collapsed,omitempty"`
}

// ServerSettings overrides or adds a language server.
type ServerSettings struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args,omitempty"`
	LanguageID string   `yaml:"language_id,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// DefaultSettings are used for anything the config file leaves out.
func DefaultSettings() Settings {
	return Settings{
		Backend:      BackendBubbletea,
		Columns:      1,
		FetchTimeout: 10 * time.Second,
		Cache:        CacheSettings{Enabled: true, TTL: time.Minute},
		Watch:        WatchSettings{Debounce: 200 * time.Millisecond},
		Theme:        ThemeSettings{BorderType: "plain"},
	}
}

// DefaultConfig infers defaults from the current working directory.
func DefaultConfig() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Config{
		Workspace:  cwd,
		ConfigPath: filepath.Join(cwd, ".symtree", "config.yaml"),
		LogPath:    filepath.Join(cwd, ".symtree", "symtree.log"),
		CachePath:  filepath.Join(cwd, ".symtree", "symbols.db"),
		Settings:   DefaultSettings(),
	}
}

// Normalize makes every path absolute and fills missing settings.
func (c *Config) Normalize() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace path required")
	}
	absWorkspace, err := filepath.Abs(c.Workspace)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	c.Workspace = absWorkspace
	c.ConfigPath = c.resolve(c.ConfigPath, "config.yaml")
	c.LogPath = c.resolve(c.LogPath, "symtree.log")
	c.CachePath = c.resolve(c.CachePath, "symbols.db")

	defaults := DefaultSettings()
	s := &c.Settings
	if s.Backend == "" {
		s.Backend = defaults.Backend
	}
	if s.Columns <= 0 {
		s.Columns = defaults.Columns
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = defaults.FetchTimeout
	}
	if s.Cache.TTL <= 0 {
		s.Cache.TTL = defaults.Cache.TTL
	}
	if s.Watch.Debounce <= 0 {
		s.Watch.Debounce = defaults.Watch.Debounce
	}
	return c.Validate()
}

func (c *Config) resolve(path, name string) string {
	if path == "" {
		return filepath.Join(c.Workspace, ".symtree", name)
	}
	if !filepath.IsAbs(path) {
		return filepath.Join(c.Workspace, path)
	}
	return path
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch c.Settings.Backend {
	case BackendBubbletea, BackendTcell:
	default:
		return fmt.Errorf("unknown backend %q", c.Settings.Backend)
	}
	for name, srv := range c.Settings.Servers {
		if srv.Command == "" {
			return fmt.Errorf("server %q: command required", name)
		}
	}
	return nil
}

// Load reads the settings file over the defaults. A missing file yields the
// defaults.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, fmt.Errorf("config path required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to path.
func Save(path string, settings Settings) error {
	if path == "" {
		return fmt.Errorf("config path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TreeTheme converts the theme section for the tree view.
func (t ThemeSettings) TreeTheme() tree.Theme {
	text := surface.Style{Fg: surface.Color(t.Text), Bg: surface.Color(t.Background)}
	return tree.Theme{
		Text:       text,
		Border:     surface.Style{Fg: surface.Color(t.Border)},
		Glyph:      surface.Style{Fg: surface.Color(t.Glyph)},
		Focus:      surface.Style{Fg: surface.Color(t.Focus)},
		BorderType: surface.ParseBorderType(t.BorderType),
		Glyphs:     tree.Glyphs{Expanded: t.Expanded, Collapsed: t.Collapsed},
	}
}

// OpenLog opens the log file for appending. The returned closer closes it.
func OpenLog(path string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return log.New(logFile, "symtree ", log.LstdFlags|log.Lmicroseconds), logFile, nil
}
