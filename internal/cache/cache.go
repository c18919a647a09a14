// Package cache remembers each file's scan result keyed by path and content
// hash, so unchanged files are not rescanned between builds.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/yacobolo/atomcss/internal/scanner"
)

// formatVersion is bumped whenever the encoded layout changes.
const formatVersion = 1

// Entry is one file's cached contribution.
type Entry struct {
	Hash   uint64         `json:"hash,string"`
	Tokens []string       `json:"tokens"`
	Notes  []scanner.Note `json:"notes,omitempty"`
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	config  uint64
	entries map[string]Entry
}

// New returns an empty cache bound to a configuration hash.
func New(config uint64) *Cache {
	return &Cache{config: config, entries: make(map[string]Entry)}
}

// Hash fingerprints file content.
func Hash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Lookup returns the entry for path if it was stored for the same content.
func (c *Cache) Lookup(path string, hash uint64) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[path]
	if !ok || e.Hash != hash {
		return Entry{}, false
	}
	return e, true
}

// Store records path's entry, replacing any previous one.
func (c *Cache) Store(path string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = e
}

// Invalidate drops path's entry and reports whether it existed.
func (c *Cache) Invalidate(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[path]
	delete(c.entries, path)
	return ok
}

// Prune drops entries whose path is not in live and returns how many went.
func (c *Cache) Prune(live map[string]struct{}) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for path := range c.entries {
		if _, ok := live[path]; !ok {
			delete(c.entries, path)
			n++
		}
	}
	return n
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type document struct {
	Version int              `json:"version"`
	Config  uint64           `json:"config,string"`
	Entries map[string]Entry `json:"entries"`
}

// Encode writes the cache as JSON.
func (c *Cache) Encode(w io.Writer) error {
	c.mu.RLock()
	doc := document{Version: formatVersion, Config: c.config, Entries: c.entries}
	defer c.mu.RUnlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	return nil
}

// Decode reads a cache written by Encode. A cache from another format
// version or configuration comes back empty: it is disposable.
func Decode(r io.Reader, config uint64) (*Cache, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return New(config), fmt.Errorf("failed to decode cache: %w", err)
	}

	if doc.Version != formatVersion || doc.Config != config || doc.Entries == nil {
		return New(config), nil
	}
	return &Cache{config: config, entries: doc.Entries}, nil
}
