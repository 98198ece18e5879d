package lsp

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Descriptor captures what is needed to start a language server.
type Descriptor struct {
	Name       string
	Command    string
	Args       []string
	LanguageID string
	Extensions []string
}

// Available reports whether Command is on PATH.
func (d Descriptor) Available() bool {
	_, err := exec.LookPath(d.Command)
	return err == nil
}

// Start launches the server rooted at root.
func (d Descriptor) Start(ctx context.Context, root string, logger *log.Logger) (*ProcessClient, error) {
	return StartProcess(ctx, ProcessConfig{
		Command:    d.Command,
		Args:       d.Args,
		RootDir:    root,
		LanguageID: d.LanguageID,
	}, logger)
}

// Registry maps language keys, aliases and file extensions to descriptors.
type Registry struct {
	byKey map[string]Descriptor
	byExt map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]Descriptor),
		byExt: make(map[string]string),
	}
}

// DefaultRegistry knows the common servers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Add([]string{"go", "gopls"}, Descriptor{Name: "go", Command: "gopls", Args: []string{"serve"}, LanguageID: "go", Extensions: []string{"go"}})
	r.Add([]string{"rust", "rs", "rust-analyzer"}, Descriptor{Name: "rust", Command: "rust-analyzer", LanguageID: "rust", Extensions: []string{"rs"}})
	r.Add([]string{"c", "cpp", "cc", "clang", "clangd"}, Descriptor{Name: "c", Command: "clangd", LanguageID: "c", Extensions: []string{"c", "h", "cpp", "hpp", "cc", "cxx"}})
	r.Add([]string{"haskell", "hls"}, Descriptor{Name: "haskell", Command: "haskell-language-server-wrapper", Args: []string{"--lsp"}, LanguageID: "haskell", Extensions: []string{"hs"}})
	r.Add([]string{"typescript", "ts"}, Descriptor{Name: "typescript", Command: "typescript-language-server", Args: []string{"--stdio"}, LanguageID: "typescript", Extensions: []string{"ts", "tsx"}})
	r.Add([]string{"javascript", "js"}, Descriptor{Name: "javascript", Command: "typescript-language-server", Args: []string{"--stdio"}, LanguageID: "javascript", Extensions: []string{"js", "jsx"}})
	r.Add([]string{"lua"}, Descriptor{Name: "lua", Command: "lua-language-server", LanguageID: "lua", Extensions: []string{"lua"}})
	r.Add([]string{"python", "py", "pylsp"}, Descriptor{Name: "python", Command: "pylsp", LanguageID: "python", Extensions: []string{"py"}})
	return r
}

// Add registers desc under every key and under its extensions. Later
// registrations replace earlier ones.
func (r *Registry) Add(keys []string, desc Descriptor) {
	if desc.Name == "" && len(keys) > 0 {
		desc.Name = strings.ToLower(keys[0])
	}
	if desc.LanguageID == "" {
		desc.LanguageID = desc.Name
	}
	r.byKey[strings.ToLower(desc.Name)] = desc
	for _, key := range keys {
		r.byKey[strings.ToLower(key)] = desc
	}
	for _, ext := range desc.Extensions {
		r.byExt[strings.ToLower(strings.TrimPrefix(ext, "."))] = strings.ToLower(desc.Name)
	}
}

// Lookup finds the descriptor for a language key or alias.
func (r *Registry) Lookup(language string) (Descriptor, error) {
	desc, ok := r.byKey[strings.ToLower(language)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: no server for language %q", ErrNoServer, language)
	}
	return desc, nil
}

// ForFile picks the descriptor by file extension.
func (r *Registry) ForFile(path string) (Descriptor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	name, ok := r.byExt[ext]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: no server for %q files", ErrNoServer, ext)
	}
	return r.byKey[name], nil
}

// Resolve uses language when set, otherwise the extension of path.
func (r *Registry) Resolve(language, path string) (Descriptor, error) {
	if language != "" {
		return r.Lookup(language)
	}
	return r.ForFile(path)
}

// Descriptors lists the distinct descriptors sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	seen := make(map[string]bool)
	var out []Descriptor
	for _, desc := range r.byKey {
		if seen[desc.Name] {
			continue
		}
		seen[desc.Name] = true
		out = append(out, r.byKey[strings.ToLower(desc.Name)])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
