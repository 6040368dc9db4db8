package headers

import (
	"strings"
)

// entry is a single key/value pair in the container.
type entry struct {
	key   string
	value string
}

// Container is an ordered metadata multimap with a trailers-begin mark and a
// per-key trailer-eligibility policy. The zero value is not usable; create
// containers with New.
type Container struct {
	entries  []entry
	mark     int // index of the first trailer entry, -1 while unmarked
	eligible map[string]bool
}

// New returns an empty container. No keys are trailer-eligible until
// declared with AllowTrailers.
func New() *Container {
	return &Container{
		mark:     -1,
		eligible: make(map[string]bool),
	}
}

// CanonicalKey lowercases a metadata key. Wire metadata keys are
// case-insensitive and transmitted in lowercase.
func CanonicalKey(key string) string {
	return strings.ToLower(key)
}

// Add appends a key/value entry to the current region: the initial-header
// region before MarkTrailersBegin has been called, the trailer region after.
func (c *Container) Add(key, value string) {
	c.entries = append(c.entries, entry{key: CanonicalKey(key), value: value})
}

// Set replaces every existing entry for key with a single entry in the
// current region.
func (c *Container) Set(key, value string) {
	c.remove(CanonicalKey(key))
	c.Add(key, value)
}

// remove deletes all entries for key, keeping the trailers mark consistent.
func (c *Container) remove(key string) {
	kept := c.entries[:0]
	mark := c.mark
	for i, e := range c.entries {
		if e.key == key {
			if c.mark >= 0 && i < c.mark {
				mark--
			}
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept
	c.mark = mark
}

// Get returns the first non-empty value for key, merging the header and
// trailer regions. The second result reports whether the key is present at
// all.
func (c *Container) Get(key string) (string, bool) {
	key = CanonicalKey(key)
	found := false
	for _, e := range c.entries {
		if e.key != key {
			continue
		}
		found = true
		if e.value != "" {
			return e.value, true
		}
	}
	return "", found
}

// Values returns every value for key across both regions, in insertion
// order. It returns nil when the key is absent.
func (c *Container) Values(key string) []string {
	key = CanonicalKey(key)
	var vals []string
	for _, e := range c.entries {
		if e.key == key {
			vals = append(vals, e.value)
		}
	}
	return vals
}

// Has reports whether at least one entry exists for key.
func (c *Container) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Len returns the total number of entries across both regions.
func (c *Container) Len() int {
	return len(c.entries)
}

// MarkTrailersBegin switches the container into trailer mode: entries added
// from now on belong to the trailer region. Marking twice is the same as
// marking once.
func (c *Container) MarkTrailersBegin() {
	if c.mark < 0 {
		c.mark = len(c.entries)
	}
}

// TrailersStarted reports whether MarkTrailersBegin has been called.
func (c *Container) TrailersStarted() bool {
	return c.mark >= 0
}

// AllowTrailers declares the given keys trailer-eligible.
func (c *Container) AllowTrailers(keys ...string) {
	for _, k := range keys {
		c.eligible[CanonicalKey(k)] = true
	}
}

// TrailerEligible reports whether key may be transmitted in the trailer
// section. Keys default to ineligible until declared with AllowTrailers.
func (c *Container) TrailerEligible(key string) bool {
	return c.eligible[CanonicalKey(key)]
}

// Each calls fn for every entry in insertion order. The trailer argument is
// true for entries in the trailer region.
func (c *Container) Each(fn func(key, value string, trailer bool)) {
	for i, e := range c.entries {
		fn(e.key, e.value, c.mark >= 0 && i >= c.mark)
	}
}

// Keys returns the distinct keys across both regions in first-seen order.
func (c *Container) Keys() []string {
	seen := make(map[string]bool, len(c.entries))
	var keys []string
	for _, e := range c.entries {
		if !seen[e.key] {
			seen[e.key] = true
			keys = append(keys, e.key)
		}
	}
	return keys
}
