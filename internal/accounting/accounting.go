// Package accounting derives elapsed work time, earnings, time left in the
// shift and goal progress from a WorkSession and an instant. Every function
// is pure; callers pass the current time in.
package accounting

import (
	"math"
	"time"

	"github.com/fakeyudi/earned/internal/pause"
	"github.com/fakeyudi/earned/internal/session"
)

// ShiftStart anchors s.StartTime to now's calendar date. When that lands in
// the future the shift began yesterday; this is how an overnight shift is
// represented without storing its start date. ok is false when no start
// time is configured.
func ShiftStart(now time.Time, s *session.WorkSession) (start time.Time, ok bool) {
	if s.StartTime == nil {
		return time.Time{}, false
	}
	start = s.StartTime.On(now)
	if start.After(now) {
		start = s.StartTime.On(now.AddDate(0, 0, -1))
	}
	return start, true
}

// ElapsedWork is wall time since the shift start minus completed pauses and
// the pause in progress, floored at zero.
func ElapsedWork(now time.Time, s *session.WorkSession) time.Duration {
	start, ok := ShiftStart(now, s)
	if !ok {
		return 0
	}
	elapsed := now.Sub(start) - s.TotalPause - pause.Current(s, now)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Earnings is elapsed hours times the hourly wage.
func Earnings(now time.Time, s *session.WorkSession) float64 {
	if s.HourlyWage <= 0 || s.StartTime == nil {
		return 0
	}
	return math.Max(0, ElapsedWork(now, s).Hours()*s.HourlyWage)
}

// RemainingKind distinguishes the three remaining-time outcomes.
type RemainingKind string

const (
	Unset    RemainingKind = "unset"
	Counting RemainingKind = "counting"
	Finished RemainingKind = "finished"
)

// Remaining is the time left until the shift ends.
type Remaining struct {
	Kind RemainingKind
	Left time.Duration // only meaningful when Kind == Counting
	End  time.Time     // the anchored end instant, zero when Unset
}

// ShiftEnd anchors s.EndTime to the current shift. With a start time the end
// is placed on the shift start's date and pushed one day later when it is
// not after the start, which covers overnight shifts. Without a start time
// the end is anchored to today.
func ShiftEnd(now time.Time, s *session.WorkSession) (end time.Time, ok bool) {
	if s.EndTime == nil {
		return time.Time{}, false
	}
	start, hasStart := ShiftStart(now, s)
	if !hasStart {
		return s.EndTime.On(now), true
	}
	end = s.EndTime.On(start)
	if !end.After(start) {
		end = s.EndTime.On(start.AddDate(0, 0, 1))
	}
	return end, true
}

// RemainingToEnd reports Finished once the current shift's end has passed
// instead of rolling over to tomorrow's end time.
func RemainingToEnd(now time.Time, s *session.WorkSession) Remaining {
	end, ok := ShiftEnd(now, s)
	if !ok {
		return Remaining{Kind: Unset}
	}
	if !now.Before(end) {
		return Remaining{Kind: Finished, End: end}
	}
	return Remaining{Kind: Counting, Left: end.Sub(now), End: end}
}

// Progress is earnings as a percentage of goal, capped at 100.
func Progress(earnings, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(100, earnings/goal*100)
}

// Snapshot is everything the presentation layer renders for one tick.
type Snapshot struct {
	At         time.Time
	Earnings   float64
	HourlyWage float64
	DailyGoal  float64
	Elapsed    time.Duration
	Remaining  Remaining
	Progress   float64
	State      pause.State
	PausedFor  time.Duration
	DarkMode   bool
	SessionID  string
}

// Compute evaluates every output for now.
func Compute(now time.Time, s *session.WorkSession) Snapshot {
	earnings := Earnings(now, s)
	return Snapshot{
		At:         now,
		Earnings:   earnings,
		HourlyWage: s.HourlyWage,
		DailyGoal:  s.DailyGoal,
		Elapsed:    ElapsedWork(now, s),
		Remaining:  RemainingToEnd(now, s),
		Progress:   Progress(earnings, s.DailyGoal),
		State:      pause.Of(s),
		PausedFor:  s.TotalPause + pause.Current(s, now),
		DarkMode:   s.DarkMode,
		SessionID:  s.ID,
	}
}
