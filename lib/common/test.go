// Provide test utilities for the common package
package common

import (
	"sync"
	"time"
)

// Initialize a new config object for unittests
func NewTestConfig() Config {
	p := NewConfig()

	p.EntranceFee = Amount(100)
	p.Interval = 60 * time.Second
	p.SubscriptionID = 1

	return p
}

// TestClock is a `Clock` which only moves by `Advance`.
type TestClock struct {
	sync.Mutex
	now time.Time
}

func NewTestClock(now time.Time) *TestClock {
	return &TestClock{now: now}
}

func (c *TestClock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	return c.now
}

func (c *TestClock) Advance(d time.Duration) {
	c.Lock()
	defer c.Unlock()

	c.now = c.now.Add(d)
}
