// Package clock abstracts the current instant so accounting stays
// deterministic in tests.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in the local time zone. Shift boundaries are
// local times of day, so the location matters.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fake is a manually driven clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake fixed at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
