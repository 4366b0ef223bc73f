package lspserver

import (
	"sync"

	protocol "github.com/ekropotin/quickmark-go/internal/lsp/protocol"
)

// lintResultCache remembers the last diagnostics computed for a document
// version, so a pull-mode diagnostic request for a version already linted
// gets the cached full report instead of re-running the engine. (Whether
// to answer "unchanged" is decided before the cache is consulted, from the
// request's previous result id.) Diagnostics are
// cached post-severity-resolution, since severity depends on the config in
// effect at lint time and isn't itself worth recomputing from raw violations.
type lintResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	version     int32
	diagnostics []*protocol.Diagnostic
}

func newLintResultCache() *lintResultCache {
	return &lintResultCache{entries: make(map[string]cacheEntry)}
}

// get returns the cached diagnostics for uri if they were computed for the
// given version.
func (c *lintResultCache) get(uri string, version int32) ([]*protocol.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[uri]
	if !ok || entry.version != version {
		return nil, false
	}
	return entry.diagnostics, true
}

func (c *lintResultCache) set(uri string, version int32, diagnostics []*protocol.Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uri] = cacheEntry{version: version, diagnostics: diagnostics}
}

func (c *lintResultCache) delete(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uri)
}

func (c *lintResultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
