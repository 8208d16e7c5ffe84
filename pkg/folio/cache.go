package folio

import (
	"container/list"
	"sync"
)

// TemplateCache keeps parsed templates keyed by name, usually a file path.
// An entry is reused only while its source text is unchanged. The least
// recently used entry is evicted once MaxSize entries are held.
type TemplateCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lru     *list.List
	maxSize int
}

type cacheEntry struct {
	key      string
	src      string
	template *Template
	element  *list.Element
}

var (
	defaultCache     *TemplateCache
	defaultCacheOnce sync.Once
)

// DefaultTemplateCache returns the process-wide cache, sized from the global
// configuration on first use.
func DefaultTemplateCache() *TemplateCache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewTemplateCache(GetGlobalConfig().CacheMaxSize)
	})
	return defaultCache
}

// NewTemplateCache creates a cache holding at most maxSize templates.
// A maxSize of 0 disables caching.
func NewTemplateCache(maxSize int) *TemplateCache {
	return &TemplateCache{
		entries: make(map[string]*cacheEntry),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Parse returns the cached template for key when src matches the cached
// source, and otherwise parses src and caches the result. Parse errors are
// not cached.
func (tc *TemplateCache) Parse(key, src string) (*Template, error) {
	if tc.maxSize == 0 {
		return ParseTemplate(src)
	}

	tc.mu.Lock()
	if entry, ok := tc.entries[key]; ok && entry.src == src {
		tc.lru.MoveToFront(entry.element)
		tc.mu.Unlock()
		GetLogger().WithField("key", key).Debug("Template cache hit")
		return entry.template, nil
	}
	tc.mu.Unlock()

	tmpl, err := ParseTemplate(src)
	if err != nil {
		return nil, err
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if existing, ok := tc.entries[key]; ok {
		existing.src = src
		existing.template = tmpl
		tc.lru.MoveToFront(existing.element)
		return tmpl, nil
	}

	if tc.lru.Len() >= tc.maxSize {
		if oldest := tc.lru.Back(); oldest != nil {
			old := oldest.Value.(*cacheEntry)
			delete(tc.entries, old.key)
			tc.lru.Remove(oldest)
		}
	}

	entry := &cacheEntry{key: key, src: src, template: tmpl}
	entry.element = tc.lru.PushFront(entry)
	tc.entries[key] = entry
	return tmpl, nil
}

// Get returns the cached template for key, if any.
func (tc *TemplateCache) Get(key string) (*Template, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, ok := tc.entries[key]
	if !ok {
		return nil, false
	}
	tc.lru.MoveToFront(entry.element)
	return entry.template, true
}

// Remove drops key from the cache.
func (tc *TemplateCache) Remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, ok := tc.entries[key]; ok {
		tc.lru.Remove(entry.element)
		delete(tc.entries, key)
	}
}

// Clear empties the cache.
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.entries = make(map[string]*cacheEntry)
	tc.lru.Init()
}

// Size returns the number of cached templates.
func (tc *TemplateCache) Size() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.entries)
}
