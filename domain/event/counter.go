package event

import "sync"

// Counter keeps one running total per event type.
type Counter struct {
	mu     sync.RWMutex
	counts map[Type]uint64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[Type]uint64)}
}

func (c *Counter) Increment(t Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[t]++
}

func (c *Counter) Get(t Type) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[t]
}

// Snapshot copies all totals.
func (c *Counter) Snapshot() map[Type]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make(map[Type]uint64, len(c.counts))
	for k, v := range c.counts {
		res[k] = v
	}
	return res
}
