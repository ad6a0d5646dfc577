// Package counter holds the demo counter slice: a single integer that can be
// incremented by an arbitrary amount or decremented by one.
package counter

import "sync"

type Counter struct {
	mu    sync.Mutex
	count int
}

func New() *Counter {
	return &Counter{}
}

func (c *Counter) Increment(amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count += amount
}

func (c *Counter) Decrement() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count--
}

func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.count
}
