// Package cache stores rendered parse reports so unchanged export files
// skip re-extraction. Keys are derived from source content, not paths:
// an edited file never serves a stale timeline.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for report caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from the raw bytes of an export file.
func Key(content []byte) string {
	hash := sha256.Sum256(content)
	return "claimline:v1:" + hex.EncodeToString(hash[:])
}
