package testhelpers

import (
	"sync"
	"time"
)

// FutureWindow returns a stay starting tomorrow at 15:00 UTC and ending two
// days later at 11:00 UTC, the usual check-in/check-out shape.
func FutureWindow(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := day.AddDate(0, 0, 1).Add(15 * time.Hour)
	end := day.AddDate(0, 0, 3).Add(11 * time.Hour)
	return start, end
}

// FakeClock is a manually advanced clock for code taking a now func.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock { return &FakeClock{now: t} }

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
