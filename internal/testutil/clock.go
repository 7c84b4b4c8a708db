package testutil

import "sync"

// DeterministicClock is a counting id source for tests.
//
// It satisfies calculator.IDSource and calculator.Seeder, so history ids in
// tests are 1, 2, 3, ... instead of wall-clock milliseconds. It can be reset
// so the same scenario produces identical ids on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a new deterministic clock starting at 0.
//
// The first call to Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{seq: 0}
}

// Next increments and returns the next sequence number.
//
// Thread-safe: uses mutex to protect seq access.
// Monotonic: always returns seq+1, never decreases.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
//
// Thread-safe: uses mutex to protect seq access.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Seed advances the clock to last if it is behind, so the next id is
// last+1. Seeding never moves the clock backwards.
func (c *DeterministicClock) Seed(last int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if last > c.seq {
		c.seq = last
	}
}

// Reset resets the clock to 0.
//
// Used for test reuse. After Reset(), the next call to Next() returns 1.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
