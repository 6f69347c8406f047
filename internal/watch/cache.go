package watch

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ContentCache remembers the digest of the last scanned content per path so
// identical bytes are not scanned twice.
type ContentCache struct {
	digests *lru.Cache[string, string]
}

// NewContentCache creates a cache tracking at most size paths.
func NewContentCache(size int) (*ContentCache, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &ContentCache{digests: c}, nil
}

// Digest returns the hex sha256 of raw.
func Digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Changed reports whether raw differs from the content last stored for path.
func (c *ContentCache) Changed(path string, raw []byte) bool {
	prev, ok := c.digests.Get(path)
	return !ok || prev != Digest(raw)
}

// Store records raw as the latest scanned content for path.
func (c *ContentCache) Store(path string, raw []byte) {
	c.digests.Add(path, Digest(raw))
}

// Forget drops path so the next scan always runs.
func (c *ContentCache) Forget(path string) {
	c.digests.Remove(path)
}
