package calculator

import (
	"sync"
	"time"
)

// IDSource hands out history entry ids. Each call to Next must return a
// value greater than every value it returned before.
type IDSource interface {
	Next() int64
}

// Seeder is implemented by id sources that can resume after a known id.
// The engine seeds its source with the largest persisted id on startup.
type Seeder interface {
	Seed(last int64)
}

// TimestampIDs issues creation timestamps in Unix milliseconds. When the
// wall clock has not advanced past the previous id (or went backwards), the
// previous id plus one is used instead, so ids stay strictly increasing.
type TimestampIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestampIDs returns a wall-clock id source.
func NewTimestampIDs() *TimestampIDs {
	return &TimestampIDs{now: time.Now}
}

// Next returns the next id.
func (c *TimestampIDs) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Seed makes every later id greater than last.
func (c *TimestampIDs) Seed(last int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if last > c.last {
		c.last = last
	}
}
