// Package srccache provides a small LRU cache of component source text so
// the analyzers don't re-read the same file eight times per run.
package srccache

import (
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultSize = 512

// Cache caches file contents keyed by inventory-relative path.
type Cache struct {
	root  string
	cache *lru.Cache[string, string]
}

// New creates a cache rooted at the discovery root.
func New(root string) (*Cache, error) {
	c, err := lru.New[string, string](defaultSize)
	if err != nil {
		return nil, fmt.Errorf("creating source cache: %w", err)
	}
	return &Cache{root: root, cache: c}, nil
}

// Root returns the discovery root the cache resolves paths against.
func (c *Cache) Root() string {
	return c.root
}

// Get returns the source text for a component path, reading it from disk
// on a cache miss.
func (c *Cache) Get(relPath string) (string, error) {
	if src, ok := c.cache.Get(relPath); ok {
		return src, nil
	}

	data, err := os.ReadFile(filepath.Join(c.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", relPath, err)
	}

	src := string(data)
	c.cache.Add(relPath, src)
	return src, nil
}

// Put seeds the cache, used by discovery which has already read the file.
func (c *Cache) Put(relPath, src string) {
	c.cache.Add(relPath, src)
}
