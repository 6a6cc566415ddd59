package processor

import (
	"context"
	"sync"
	"time"

	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/pkg/errors"
)

// DefinitionLoader loads mapping definitions by key, for example a file path.
type DefinitionLoader interface {
	LoadDefinition(ctx context.Context, key string) (*models.MappingDefinition, error)
}

// DefinitionLoaderFunc adapts a function to DefinitionLoader.
type DefinitionLoaderFunc func(ctx context.Context, key string) (*models.MappingDefinition, error)

func (f DefinitionLoaderFunc) LoadDefinition(ctx context.Context, key string) (*models.MappingDefinition, error) {
	return f(ctx, key)
}

// ContextCache keeps the contexts created from loaded definitions so that a definition is
// validated and compiled once per TTL.
type ContextCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	loader  DefinitionLoader
	factory *engine.Factory
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	hits    int64
	misses  int64
}

type cacheEntry struct {
	context   *engine.Context
	expiresAt time.Time
}

type ContextCacheConfig struct {
	MaxSize int
	TTL     time.Duration
}

func DefaultContextCacheConfig() ContextCacheConfig {
	return ContextCacheConfig{
		MaxSize: 100,
		TTL:     5 * time.Minute,
	}
}

func NewContextCache(loader DefinitionLoader, factory *engine.Factory, config ContextCacheConfig) *ContextCache {
	if config.MaxSize <= 0 {
		config.MaxSize = DefaultContextCacheConfig().MaxSize
	}
	return &ContextCache{
		entries: make(map[string]*cacheEntry),
		loader:  loader,
		factory: factory,
		maxSize: config.MaxSize,
		ttl:     config.TTL,
		now:     time.Now,
	}
}

// Get returns the context of the definition stored under key, loading it on a miss.
// A zero TTL never expires entries.
func (c *ContextCache) Get(ctx context.Context, key string) (*engine.Context, error) {
	c.mu.Lock()
	entry, exists := c.entries[key]
	if exists && (c.ttl == 0 || c.now().Before(entry.expiresAt)) {
		c.hits++
		c.mu.Unlock()
		return entry.context, nil
	}
	c.misses++
	c.mu.Unlock()

	def, err := c.loader.LoadDefinition(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load definition %s", key)
	}
	mappingContext, err := c.factory.CreateContext(def)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create context for definition %s", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = &cacheEntry{context: mappingContext, expiresAt: c.now().Add(c.ttl)}
	return mappingContext, nil
}

// evictOldest must be called with the lock held.
func (c *ContextCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}

func (c *ContextCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *ContextCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}

func (c *ContextCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Size:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
	}
}
