package prefs

import (
	"encoding/json"
	"sort"
)

// Counter counts string keys while remembering first-insertion order, so
// top-k queries break count ties deterministically by the order keys were
// first seen.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Inc increments key by one.
func (c *Counter) Inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Get returns the count for key.
func (c *Counter) Get(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.counts)
}

// Top returns the k highest-count keys; ties keep first-inserted order.
func (c *Counter) Top(k int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if k < len(keys) {
		keys = keys[:k]
	}
	return keys
}

// Snapshot returns a copy of the counts map.
func (c *Counter) Snapshot() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// clone returns a deep copy of the counter.
func (c *Counter) clone() *Counter {
	out := &Counter{counts: make(map[string]int, len(c.counts))}
	for k, v := range c.counts {
		out.counts[k] = v
	}
	out.order = append([]string(nil), c.order...)
	return out
}

// MarshalJSON serializes the counter as a plain counts object.
func (c *Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.counts)
}
