// Package emit deduplicates compiled rules and serializes them as a
// stylesheet in layer order.
package emit

import (
	"sync"

	"github.com/yacobolo/atomcss/internal/css"
)

// Collector accumulates rules from concurrent compilers. Adding the same rule
// twice, or in a different order, yields the same stylesheet.
type Collector struct {
	mu    sync.Mutex
	rules map[string]css.Rule
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{rules: make(map[string]css.Rule)}
}

// Add records rules. Among rules with the same key the one that sorts first
// is kept.
func (c *Collector) Add(rules ...css.Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range rules {
		keep(c.rules, r)
	}
}

// Stylesheet assembles everything collected so far.
func (c *Collector) Stylesheet() *Stylesheet {
	c.mu.Lock()
	rules := make([]css.Rule, 0, len(c.rules))
	for _, r := range c.rules {
		rules = append(rules, r)
	}
	c.mu.Unlock()

	return Assemble(rules)
}

func keep(m map[string]css.Rule, r css.Rule) {
	key := r.Key()
	if prev, ok := m[key]; ok && !r.Less(prev) {
		return
	}
	m[key] = r
}
