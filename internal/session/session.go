// Package session holds the per-day tracker state and its persisted form.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/earned/internal/milestone"
)

// WorkSession is the single per-day tracker state.
type WorkSession struct {
	// ID identifies the day's session in logs. A new one is issued on
	// first run, reset and rollover.
	ID string

	// Configuration. Survives reset and rollover.
	HourlyWage float64
	DailyGoal  float64
	StartTime  *TimeOfDay // nil when unset
	EndTime    *TimeOfDay // nil when unset
	DarkMode   bool

	// Transient accounting state.
	Paused     bool
	PauseStart time.Time     // non-zero iff Paused
	TotalPause time.Duration // completed pause intervals only

	// LastSaveDate is the calendar day the session was last persisted.
	LastSaveDate Date

	Milestones []milestone.Milestone
}

// New returns the first-run session: zero configuration and the default
// milestone set.
func New() *WorkSession {
	return &WorkSession{
		ID:         uuid.New().String(),
		Milestones: milestone.Defaults(),
	}
}

// ResetTransient clears the accounting state and re-arms every milestone,
// leaving configuration untouched.
func (s *WorkSession) ResetTransient() {
	s.ID = uuid.New().String()
	s.Paused = false
	s.PauseStart = time.Time{}
	s.TotalPause = 0
	milestone.Rearm(s.Milestones)
}

// Clone returns a deep copy of s.
func (s *WorkSession) Clone() *WorkSession {
	c := *s
	if s.StartTime != nil {
		t := *s.StartTime
		c.StartTime = &t
	}
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	c.Milestones = milestone.Clone(s.Milestones)
	return &c
}
