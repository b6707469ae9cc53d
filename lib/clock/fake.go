// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when Advance is called.
// Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
	changed *sync.Cond
}

type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time
}

// Fake returns a FakeClock that reads initial until advanced.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.changed = sync.NewCond(&clock.mu)
	return clock
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After registers a waiter that fires once the clock is advanced to or
// past now+d. Non-positive durations fire immediately without
// registering.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.waiters = append(c.waiters, &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	c.changed.Broadcast()
	return channel
}

// Advance moves the clock forward by d and releases every waiter whose
// deadline has been reached, earliest first.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current

	var due, remaining []*fakeWaiter
	for _, waiter := range c.waiters {
		if waiter.deadline.After(target) {
			remaining = append(remaining, waiter)
		} else {
			due = append(due, waiter)
		}
	}
	c.waiters = remaining
	c.changed.Broadcast()
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, waiter := range due {
		waiter.channel <- target
	}
}

// WaitForTimers blocks until at least n waiters are pending. Tests call
// it before Advance so the goroutine under test has registered its
// timer.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.waiters) < n {
		c.changed.Wait()
	}
}

// PendingTimers returns the number of registered, unfired waiters.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
