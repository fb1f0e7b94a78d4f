package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores serialized verification results keyed by normalized claim
// text, so a burst of responses repeating the same claim hits external
// knowledge sources once
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a normalized claim. Claims are hashed so
// response text never appears in cache file names, and the namespace is
// versioned so a merge-semantics change invalidates old entries.
func Key(normalized string) string {
	hash := sha256.Sum256([]byte(normalized))
	return "truthguard:v1:" + hex.EncodeToString(hash[:])
}
