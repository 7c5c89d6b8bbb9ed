package hostcache

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// cache maps a lookup key to its resolved entry. The key is the
// queried host name for forward lookups and the canonical name
// returned by the backend for reverse lookups.
//
// A single lock serializes all operations; it is never held across a
// backend query. Entries stay until clear.
type cache struct {
	mu    sync.Mutex
	hosts map[string]HostEntry
}

func newCache() *cache {
	return &cache{hosts: make(map[string]HostEntry)}
}

func (c *cache) lookup(key string) (HostEntry, bool) {
	c.mu.Lock()
	e, ok := c.hosts[key]
	c.mu.Unlock()
	return e, ok
}

// insert stores e under key unless the key is already present: the
// first committed entry for a key wins. It returns the entry now
// stored, so racing callers converge on a single visible entry.
func (c *cache) insert(key string, e HostEntry) HostEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.hosts[key]; ok {
		return prev
	}
	c.hosts[key] = e
	return e
}

func (c *cache) clear() {
	c.mu.Lock()
	c.hosts = make(map[string]HostEntry)
	c.mu.Unlock()
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hosts)
}

// writeTo dumps the cached entries as text, one key per line, sorted
// for stable output.
func (c *cache) writeTo(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.hosts))
	for k := range c.hosts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", k, c.hosts[k]); err != nil {
			return err
		}
	}
	return nil
}
