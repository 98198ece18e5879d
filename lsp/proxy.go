package lsp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Proxy caches DocumentSymbols results per file for a TTL.
type Proxy struct {
	client Client
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	value      SymbolResponse
	expiration time.Time
}

// NewProxy wraps client. A zero ttl means one minute.
func NewProxy(client Client, ttl time.Duration) *Proxy {
	if ttl == 0 {
		ttl = time.Minute
	}
	return &Proxy{
		client: client,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
}

func (p *Proxy) DocumentSymbols(ctx context.Context, file string) (SymbolResponse, error) {
	return p.cached(file, func() (SymbolResponse, error) {
		return p.client.DocumentSymbols(ctx, file)
	})
}

func (p *Proxy) cached(key string, fetch func() (SymbolResponse, error)) (SymbolResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.cache[key]; ok && p.now().Before(entry.expiration) {
		return entry.value, nil
	}
	val, err := fetch()
	if err != nil {
		return SymbolResponse{}, err
	}
	p.cache[key] = cacheEntry{value: val, expiration: p.now().Add(p.ttl)}
	return val, nil
}

// Invalidate drops the cached result for file.
func (p *Proxy) Invalidate(file string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, file)
}

func (p *Proxy) Close() error {
	return p.client.Close()
}

// SnapshotStore persists raw documentSymbol payloads by file and content
// hash.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, path, hash string) ([]byte, bool, error)
	SaveSnapshot(ctx context.Context, path, hash string, payload []byte) error
	Delete(ctx context.Context, path string) error
}

// SnapshotClient serves unchanged files from a SnapshotStore and records
// fresh responses into it. Store failures are logged, never returned.
type SnapshotClient struct {
	client Client
	store  SnapshotStore
	logger *log.Logger
}

// WithSnapshots wraps client with store.
func WithSnapshots(client Client, store SnapshotStore, logger *log.Logger) *SnapshotClient {
	return &SnapshotClient{client: client, store: store, logger: orDiscard(logger)}
}

func (c *SnapshotClient) DocumentSymbols(ctx context.Context, file string) (SymbolResponse, error) {
	path, hash, err := ContentHash(file)
	if err != nil {
		return SymbolResponse{}, err
	}
	if raw, ok, err := c.store.LoadSnapshot(ctx, path, hash); err != nil {
		c.logger.Printf("snapshot load %s: %v", path, err)
	} else if ok {
		if resp, err := DecodeSymbols(raw); err == nil {
			c.logger.Printf("snapshot hit %s", path)
			return resp, nil
		}
	}
	resp, err := c.client.DocumentSymbols(ctx, file)
	if err != nil {
		return SymbolResponse{}, err
	}
	raw, err := EncodeSymbols(resp)
	if err == nil {
		err = c.store.SaveSnapshot(ctx, path, hash, raw)
	}
	if err != nil {
		c.logger.Printf("snapshot save %s: %v", path, err)
	}
	return resp, nil
}

// Invalidate drops every stored snapshot of file so the next request goes
// to the wrapped client.
func (c *SnapshotClient) Invalidate(ctx context.Context, file string) error {
	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	return c.store.Delete(ctx, path)
}

func (c *SnapshotClient) Close() error {
	return c.client.Close()
}

// ContentHash returns the absolute path of file and the hex SHA-256 of its
// contents.
func ContentHash(file string) (string, string, error) {
	path, err := filepath.Abs(file)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("hash %s: %w", file, err)
	}
	sum := sha256.Sum256(data)
	return path, hex.EncodeToString(sum[:]), nil
}
