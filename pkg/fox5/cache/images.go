// Package cache keeps recently decoded images in memory.
package cache

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5"
)

// DefaultSize is the number of images kept when no size is configured
const DefaultSize = 64

// Source decodes images by id; *fox5.File satisfies it
type Source interface {
	Image(id int) (*fox5.Picture, error)
}

// Images is a bounded LRU view over a Source. Loads are serialized, so a
// Source that is not safe for concurrent use can sit behind it.
type Images struct {
	mu     sync.Mutex
	src    Source
	lru    *lru.Cache[int, *fox5.Picture]
	logger hclog.Logger

	hits   uint64
	misses uint64
}

// New creates a cache of size pictures in front of src
func New(src Source, size int, logger hclog.Logger) (*Images, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	lcache, err := lru.NewWithEvict[int, *fox5.Picture](size, func(id int, _ *fox5.Picture) {
		logger.Trace("🗑️ Image evicted", "id", id)
	})
	if err != nil {
		return nil, fmt.Errorf("creating image cache: %w", err)
	}
	return &Images{src: src, lru: lcache, logger: logger}, nil
}

// Image returns a cached picture or loads it from the source. Failed loads
// are not cached.
func (c *Images) Image(id int) (*fox5.Picture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pic, ok := c.lru.Get(id); ok {
		c.hits++
		return pic, nil
	}
	c.misses++

	pic, err := c.src.Image(id)
	if err != nil {
		return nil, err
	}
	c.lru.Add(id, pic)
	c.logger.Trace("💾 Image cached", "id", id, "bytes", len(pic.Pixels), "cached", c.lru.Len())
	return pic, nil
}

// Len returns the number of cached pictures
func (c *Images) Len() int {
	return c.lru.Len()
}

// Stats returns hit and miss counts since creation
func (c *Images) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Purge drops every cached picture
func (c *Images) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
