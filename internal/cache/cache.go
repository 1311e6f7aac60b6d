// Package cache holds per-process caches for collaborator responses.
// Customer-relationship data is sensitive, so there is deliberately no disk
// tier: everything lives in memory and dies with the process.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from an identifier. Tax ids never appear
// verbatim in the key space.
func Key(id string) string {
	hash := sha256.Sum256([]byte(id))
	return "triagem:v1:" + hex.EncodeToString(hash[:])
}
