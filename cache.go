package mdx

import (
	"bytes"
	"container/list"
	"context"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlockCache is an optional cache for decompressed key/record blocks.
// spec.md §5 permits but does not require one; Dictionary never
// constructs entries it didn't already have to decompress, so a cache
// only saves repeat work across lookups that hit the same block.
type BlockCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

func blockCacheKey(kind string, dictName string, blockIndex int) string {
	return fmt.Sprintf("mdx:%s:%s:%d", kind, dictName, blockIndex)
}

// lruCache is the default in-process BlockCache: a size-bounded LRU
// guarded by a RWMutex, per the design note in spec.md §9 ("guard with
// a reader-writer lock or use a lock-free LRU").
type lruCache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type lruEntry struct {
	key   string
	value []byte
}

// NewLRUCache creates an in-process decompressed-block cache holding
// up to capacity entries, evicting least-recently-used blocks first.
func NewLRUCache(capacity int) BlockCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *lruCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *lruCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*lruEntry).value = value
		return
	}

	el := c.ll.PushFront(&lruEntry{key: key, value: value})
	c.items[key] = el

	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*lruEntry).key)
	}
}

// redisCache is a BlockCache backed by Redis, intended for deployments
// that run several dictionary-serving replicas and want decompressed
// blocks shared across processes rather than recomputed per-replica.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing Redis client as a BlockCache. A zero
// ttl means entries never expire.
func NewRedisCache(client *redis.Client, ttl time.Duration) BlockCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warningf("redisCache.Get(%s) failed: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Warningf("redisCache.Set(%s) failed: %v", key, err)
	}
}

// encodeKeyEntryCache/decodeKeyEntryCache serialize a decompressed key
// block's KeyEntry slice for storage in a BlockCache, which only ever
// deals in byte slices (so the same cache interface serves both the
// raw decompressed record bytes and the parsed key entries).
func encodeKeyEntryCache(entries []KeyEntry) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		log.Warningf("encodeKeyEntryCache failed: %v", err)
		return nil
	}
	return buf.Bytes()
}

func decodeKeyEntryCache(data []byte) ([]KeyEntry, error) {
	var entries []KeyEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("mdx: key entry cache decode: %w", err)
	}
	return entries, nil
}
