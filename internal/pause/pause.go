// Package pause owns the Running/Paused transitions of a WorkSession and the
// running total of paused time.
package pause

import (
	"time"

	"github.com/fakeyudi/earned/internal/session"
)

// State is the pause state machine's position.
type State string

const (
	Running State = "running"
	Paused  State = "paused"
)

// Of returns the state s is in.
func Of(s *session.WorkSession) State {
	if s.Paused {
		return Paused
	}
	return Running
}

// Toggle flips s between Running and Paused at now and returns the new
// state. Each call flips; there is no double-invocation guard.
func Toggle(s *session.WorkSession, now time.Time) State {
	if !s.Paused {
		s.Paused = true
		s.PauseStart = now
		return Paused
	}
	s.TotalPause += gap(s.PauseStart, now)
	s.PauseStart = time.Time{}
	s.Paused = false
	return Running
}

// Current is the length of the pause in progress, or 0 while running.
func Current(s *session.WorkSession, now time.Time) time.Duration {
	if !s.Paused {
		return 0
	}
	return gap(s.PauseStart, now)
}

// Reconcile runs on load. While the process was not running nothing could be
// tracked, so a pause left open in the stored record absorbs the time up to
// now and restarts at now. It returns the absorbed gap. Records that break
// the PauseStart-iff-Paused invariant are repaired without adding time.
func Reconcile(s *session.WorkSession, now time.Time) time.Duration {
	switch {
	case s.Paused && s.PauseStart.IsZero():
		s.PauseStart = now
		return 0
	case !s.Paused:
		s.PauseStart = time.Time{}
		return 0
	}
	added := gap(s.PauseStart, now)
	s.TotalPause += added
	s.PauseStart = now
	return added
}

// gap is now-since clamped at zero so a clock stepping backwards never
// shrinks the pause total.
func gap(since, now time.Time) time.Duration {
	if since.IsZero() {
		return 0
	}
	if d := now.Sub(since); d > 0 {
		return d
	}
	return 0
}
