package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/internal/options"
	"github.com/erraggy/docproj/projection"
)

// documentInput represents the two ways documents can be provided to a tool.
// Exactly one of File or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a YAML or JSON file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline YAML or JSON content"`
}

// read returns the raw bytes and a source name for error messages.
func (in documentInput) read() ([]byte, string, error) {
	if err := options.ValidateSingleInputSource(
		"exactly one of file or content must be provided (got none)",
		"exactly one of file or content must be provided (got both)",
		in.File != "", in.Content != "",
	); err != nil {
		return nil, "", err
	}

	if in.Content != "" {
		if int64(len(in.Content)) > cfg.MaxInlineSize {
			return nil, "", fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set DOCPROJ_MAX_INLINE_SIZE to increase",
				len(in.Content), cfg.MaxInlineSize)
		}
		return []byte(in.Content), "content", nil
	}

	data, err := os.ReadFile(in.File)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return data, in.File, nil
}

// validateOutputPath returns the cleaned absolute form of an output path.
// Symlinks are refused so a client cannot redirect the write elsewhere.
func validateOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	info, err := os.Lstat(abs)
	switch {
	case os.IsNotExist(err):
		return abs, nil
	case err != nil:
		return "", fmt.Errorf("checking output path: %w", err)
	case info.Mode()&os.ModeSymlink != 0:
		return "", fmt.Errorf("refusing to write output to a symlink path: %s", abs)
	case info.IsDir():
		return "", fmt.Errorf("output path is a directory: %s", abs)
	}
	return abs, nil
}

func decodeOptions(source string) []document.DecodeOption {
	opts := []document.DecodeOption{document.WithSource(source)}
	if cfg.NormalizeFieldNames {
		opts = append(opts, document.WithNormalizedFieldNames())
	}
	return opts
}

// resolveDocuments decodes every document in the input, enforcing cfg.MaxDocuments.
func (in documentInput) resolveDocuments() ([]*document.Document, error) {
	data, source, err := in.read()
	if err != nil {
		return nil, err
	}
	docs, err := document.DecodeAll(data, decodeOptions(source)...)
	if err != nil {
		return nil, err
	}
	if len(docs) > cfg.MaxDocuments {
		return nil, fmt.Errorf("%d documents exceed the maximum of %d; set DOCPROJ_MAX_DOCUMENTS to increase", len(docs), cfg.MaxDocuments)
	}
	return docs, nil
}

// resolveTree compiles the specification in the input into a tree, using
// the cache when it is enabled. Compiled trees are read-only and shared.
func (in documentInput) resolveTree(addFields bool) (*projection.Node, error) {
	data, source, err := in.read()
	if err != nil {
		return nil, err
	}

	policies := cfg.policies()
	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(data, addFields, policies)
		if cached := treeCache.get(key); cached != nil {
			return cached, nil
		}
	}

	spec, err := document.Decode(data, decodeOptions(source)...)
	if err != nil {
		return nil, err
	}
	build := projection.Build
	if addFields {
		build = projection.BuildAddFields
	}
	tree, err := build(spec, policies)
	if err != nil {
		return nil, err
	}
	tree.Optimize()

	if key != "" {
		treeCache.putWithTTL(key, tree, cfg.CacheTTL)
	}
	return tree, nil
}

// makeCacheKey hashes the specification together with everything that
// changes how it compiles.
func makeCacheKey(data []byte, addFields bool, policies projection.Policies) string {
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "\x00%t\x00%s\x00%s\x00%s", addFields, policies.ArrayRecursion, policies.DefaultID, policies.IDField)
	return "spec:" + hex.EncodeToString(h.Sum(nil))
}

// cacheEntry holds a compiled tree with LRU ordering and TTL expiry.
type cacheEntry struct {
	tree      *projection.Node
	insertAt  time.Time
	expiresAt time.Time
}

// treeCacheStore provides a session-scoped cache of compiled trees keyed by
// a SHA-256 hash of the specification. A background sweeper removes expired
// entries.
type treeCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var treeCache = &treeCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached tree or nil. Expired entries are lazily removed.
func (c *treeCacheStore) get(key string) *projection.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.tree
	}
	return nil
}

// putWithTTL stores a tree, evicting the oldest entry if at capacity.
func (c *treeCacheStore) putWithTTL(key string, tree *projection.Node, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{tree: tree, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *treeCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// Only the first call spawns a sweeper. It stops when ctx is cancelled.
func (c *treeCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *treeCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *treeCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
