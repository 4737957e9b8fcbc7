// Package cache provides a small TTL cache for provider responses, so a
// batch run does not re-fetch contract history or research for companies
// it already saw.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the caching interface shared by the provider clients.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a request URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "prospector:v1:" + hex.EncodeToString(hash[:])
}
