package resilience

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Fingerprint returns the cache key for a request text. The text is
// normalized (trimmed, lowercased, inner whitespace collapsed) so that
// trivially different spellings of the same question share an entry.
func Fingerprint(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	value     string
	createdAt time.Time
}

// ResponseCache holds previously computed responses with a per-entry TTL.
// Expired entries are evicted lazily on lookup. Safe for concurrent use.
type ResponseCache struct {
	mutex   sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration

	// now is replaceable in tests
	now func() time.Time
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached response for a fingerprint. An entry whose age has
// reached the TTL is removed and reported as absent.
func (cache *ResponseCache) Get(fingerprint string) (string, bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	entry, ok := cache.entries[fingerprint]
	if !ok {
		return "", false
	}
	if cache.now().Sub(entry.createdAt) >= cache.ttl {
		delete(cache.entries, fingerprint)
		return "", false
	}
	return entry.value, true
}

// Put stores a response, overwriting any existing entry and resetting its age.
func (cache *ResponseCache) Put(fingerprint, response string) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	cache.entries[fingerprint] = cacheEntry{
		value:     response,
		createdAt: cache.now(),
	}
}

// Len reports the number of stored entries, including ones that have
// expired but not yet been looked up.
func (cache *ResponseCache) Len() int {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	return len(cache.entries)
}
