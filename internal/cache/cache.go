// Package cache memoizes per-file digest text so watch mode does not
// re-parse files that have not changed between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/maypok86/otter"
)

// DefaultCapacity bounds the number of memoized digests. Watch mode
// revisits the same tree, so the project's file count is the natural
// working set.
const DefaultCapacity = 4096

// Memo caches digest text keyed on content hash, language, and rule-set
// fingerprint. A change to any of the three misses, so stale text can
// never be served for edited files or reconfigured rules.
type Memo struct {
	cache otter.Cache[string, string]
}

// New creates a memo bounded to capacity entries. Capacity <= 0 uses
// DefaultCapacity.
func New(capacity int) (*Memo, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c, err := otter.MustBuilder[string, string](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, err
	}

	return &Memo{cache: c}, nil
}

// Key derives the memo key for one file under one rule table.
func Key(source []byte, language, fingerprint string) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:]) + ":" + language + ":" + fingerprint
}

// Get returns the memoized digest text for key.
func (m *Memo) Get(key string) (string, bool) {
	return m.cache.Get(key)
}

// Put memoizes text under key.
func (m *Memo) Put(key, text string) {
	m.cache.Set(key, text)
}

// Stats reports hit and miss counts for verbose logging.
func (m *Memo) Stats() (hits, misses int64) {
	s := m.cache.Stats()
	return s.Hits(), s.Misses()
}

// Close releases the cache's background resources.
func (m *Memo) Close() {
	m.cache.Close()
}
