package core

import (
	"sync"
	"time"
)

// IDGenerator hands out transaction identifiers.
//
// Observe is called with every identifier already present in a loaded ledger
// so generators never reissue one.
type IDGenerator interface {
	NextID() int64
	Observe(id int64)
}

// Clock issues the current time in Unix milliseconds. Two calls within the
// same millisecond are bumped forward so identifiers stay unique while still
// reading as creation timestamps.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClock returns a Clock reading from now, or time.Now when now is nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

func (c *Clock) Observe(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.last {
		c.last = id
	}
}

// Counter issues strictly increasing identifiers starting after the largest
// observed one. Identifiers from a Counter are not timestamps, so month
// filters over them are meaningless.
type Counter struct {
	mu   sync.Mutex
	last int64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

func (c *Counter) Observe(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.last {
		c.last = id
	}
}

// CreatedAt interprets a transaction id as its creation time in loc.
func CreatedAt(id int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(id).In(loc)
}
