package patterns

import "sort"

// counter tallies string keys while remembering first-seen order, so that
// mode and top-N selection break frequency ties deterministically by
// tabulation order.
type counter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int), order: make(map[string]int)}
}

func (c *counter) Add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order[key] = c.next
		c.next++
	}
	c.counts[key]++
}

func (c *counter) Len() int { return len(c.counts) }

// Mode returns the most frequent key, or "" when the counter is empty.
// Ties resolve to the first-seen key.
func (c *counter) Mode() string {
	top := c.Top(1)
	if len(top) == 0 {
		return ""
	}
	return top[0]
}

// Top returns up to n keys ordered by descending count, ties broken by
// first-seen order.
func (c *counter) Top(n int) []string {
	keys := c.sortedKeys()
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// TopCounts returns the counts map restricted to the top n keys.
func (c *counter) TopCounts(n int) map[string]int {
	result := make(map[string]int)
	for _, k := range c.Top(n) {
		result[k] = c.counts[k]
	}
	return result
}

// Counts returns a copy of the full counts map.
func (c *counter) Counts() map[string]int {
	result := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		result[k] = v
	}
	return result
}

func (c *counter) sortedKeys() []string {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := c.counts[keys[i]], c.counts[keys[j]]
		if ci != cj {
			return ci > cj
		}
		return c.order[keys[i]] < c.order[keys[j]]
	})
	return keys
}
