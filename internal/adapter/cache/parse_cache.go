package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// ParseCache is an LRU cache of parse results keyed by comment text, with
// entries expiring after a TTL.
type ParseCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	result    domain.ParserResult
	timestamp time.Time
}

func NewParseCache(maxSize int, ttl time.Duration) *ParseCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ParseCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:16])
}

func (c *ParseCache) Get(text string) (domain.ParserResult, bool) {
	key := cacheKey(text)

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return domain.ParserResult{}, false
	}

	if time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return domain.ParserResult{}, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return cloneResult(entry.result), true
}

func (c *ParseCache) Put(text string, result domain.ParserResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(text)
	entry := &cacheEntry{result: cloneResult(result), timestamp: time.Now()}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

func (c *ParseCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *ParseCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ParseCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ParseCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ParseCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// cloneResult copies the parts slice so callers cannot modify cached data.
func cloneResult(r domain.ParserResult) domain.ParserResult {
	out := domain.ParserResult{Parts: slices.Clone(r.Parts)}
	if out.Parts == nil && r.Parts != nil {
		out.Parts = []domain.CommentPart{}
	}
	if r.Error != nil {
		e := *r.Error
		out.Error = &e
	}
	return out
}

// CachedParser answers repeated comments from a ParseCache.
type CachedParser struct {
	parser port.CommentParser
	cache  *ParseCache
	hits   atomic.Int64
	misses atomic.Int64
}

var _ port.CommentParser = (*CachedParser)(nil)

func NewCachedParser(parser port.CommentParser, cache *ParseCache) *CachedParser {
	return &CachedParser{
		parser: parser,
		cache:  cache,
	}
}

func (p *CachedParser) Parse(text string) domain.ParserResult {
	if result, hit := p.cache.Get(text); hit {
		p.hits.Add(1)
		return result
	}
	p.misses.Add(1)

	result := p.parser.Parse(text)
	p.cache.Put(text, result)
	return result
}

// Stats returns the number of cache hits and misses so far.
func (p *CachedParser) Stats() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}
