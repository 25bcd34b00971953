package resolve

import (
	"cmp"
	"slices"

	gocache "github.com/patrickmn/go-cache"
)

// Key identifies a failed lookup. Both fields compare exactly, as supplied.
type Key struct {
	Name string
	Hint Hint
}

// String joins the fields with '|', which cannot occur in a file name.
func (k Key) String() string {
	return k.Name + "|" + k.Hint.String()
}

// MissCache remembers lookups that already failed a full search. It only
// grows: entries never expire and are never removed.
type MissCache struct {
	cache *gocache.Cache
}

// NewMissCache creates an empty cache with no expiry and no janitor.
func NewMissCache() *MissCache {
	return &MissCache{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Contains reports whether the key has already failed.
func (m *MissCache) Contains(k Key) bool {
	_, found := m.cache.Get(k.String())
	return found
}

// Add inserts the key if absent and reports whether it was new.
func (m *MissCache) Add(k Key) bool {
	return m.cache.Add(k.String(), k, gocache.NoExpiration) == nil
}

// Len returns the number of remembered misses.
func (m *MissCache) Len() int {
	return m.cache.ItemCount()
}

// Keys returns every remembered miss ordered by name, then hint.
func (m *MissCache) Keys() []Key {
	items := m.cache.Items()
	keys := make([]Key, 0, len(items))
	for _, item := range items {
		if k, ok := item.Object.(Key); ok {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Hint, b.Hint)
	})
	return keys
}
