// Package timeutil lets code that timestamps work take its time source as a
// dependency.
package timeutil

import "time"

// Clock is the time source for timestamps and elapsed durations.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// MockClock is frozen at one instant until Advance moves it. It is not safe
// for concurrent use.
type MockClock struct {
	now time.Time
}

// NewMockClock returns a MockClock reading t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time { return c.now }

// Since is measured against the mocked instant.
func (c *MockClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
