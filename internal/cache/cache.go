package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// keyPrefix versions all cache entries; bump it when the cached payload
// shape changes so stale entries are never decoded.
const keyPrefix = "veracity:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// QueryKey generates a cache key from request parts (query text, result
// count, provider). Parts are joined and hashed so arbitrary claim text
// never leaks into file names.
func QueryKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// StateKey generates a readable cache key for small state blobs such as
// quota counters. The name must be filesystem-safe.
func StateKey(name string) string {
	return keyPrefix + name
}
