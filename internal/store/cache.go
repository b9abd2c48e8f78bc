// Package store provides the conversion result cache and the usage stats
// store.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultBloomFalsePositiveRate is the false positive rate for the cache's
// negative-lookup filter.
const DefaultBloomFalsePositiveRate = 0.001

// ResultCache is a thread-safe LRU cache fronted by a Bloom filter, used to
// skip the network pipeline for recently converted items. The filter only
// serves as a fast negative check; entries evicted from the LRU may still
// test positive, which costs one map lookup and nothing else.
type ResultCache[V any] struct {
	mutex sync.RWMutex
	bloom *bloom.BloomFilter
	lru   *lru.Cache[string, V]
}

// NewResultCache creates a cache holding up to maxEntries results.
func NewResultCache[V any](maxEntries int, bloomFalsePositiveRate float64) *ResultCache[V] {
	lruCache, _ := lru.New[string, V](maxEntries)

	if maxEntries < 0 || maxEntries > int(^uint(0)>>1) {
		panic("maxEntries value out of range for uint conversion")
	}
	bloomFilter := bloom.NewWithEstimates(uint(maxEntries), bloomFalsePositiveRate)

	return &ResultCache[V]{
		bloom: bloomFilter,
		lru:   lruCache,
	}
}

// Get returns the cached result for key, if present.
func (rc *ResultCache[V]) Get(key string) (V, bool) {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()

	if !rc.bloom.TestString(key) {
		var zero V
		return zero, false
	}

	return rc.lru.Get(key)
}

// Add stores a result under key, evicting the least recently used entry when
// the cache is full.
func (rc *ResultCache[V]) Add(key string, value V) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	rc.bloom.AddString(key)
	rc.lru.Add(key, value)
}

// Len returns the number of cached entries.
func (rc *ResultCache[V]) Len() int {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()

	return rc.lru.Len()
}
