package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/fakeyudi/earned/internal/milestone"
)

func TestCheckRolloverSameDayKeepsState(t *testing.T) {
	today := Date{Year: 2026, Month: time.October, Day: 14}
	s := New()
	s.LastSaveDate = today
	s.TotalPause = time.Hour
	id := s.ID

	assert.False(t, CheckRollover(s, today))
	assert.Equal(t, time.Hour, s.TotalPause)
	assert.Equal(t, id, s.ID)
}

// Feature: earned, Property: rollover resets transient fields only
func TestCheckRolloverResetsTransientOnly(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New()
		s.HourlyWage = rapid.Float64Range(0, 500).Draw(rt, "wage")
		s.DailyGoal = rapid.Float64Range(0, 5000).Draw(rt, "goal")
		s.StartTime = &TimeOfDay{Hour: rapid.IntRange(0, 23).Draw(rt, "start_h")}
		s.EndTime = &TimeOfDay{Hour: rapid.IntRange(0, 23).Draw(rt, "end_h")}
		s.DarkMode = rapid.Bool().Draw(rt, "dark")
		s.TotalPause = time.Duration(rapid.Int64Range(0, int64(10*time.Hour)).Draw(rt, "pause"))
		s.Paused = rapid.Bool().Draw(rt, "paused")
		if s.Paused {
			s.PauseStart = time.Unix(1_760_000_000, 0)
		}
		milestone.Evaluate(rapid.Float64Range(0, 1000).Draw(rt, "earned"), s.Milestones)
		s.LastSaveDate = Date{Year: 2026, Month: time.October, Day: rapid.IntRange(1, 13).Draw(rt, "day")}

		before := s.Clone()
		if !CheckRollover(s, Date{Year: 2026, Month: time.October, Day: 14}) {
			rt.Fatal("expected rollover")
		}

		if s.TotalPause != 0 || s.Paused || !s.PauseStart.IsZero() {
			rt.Fatalf("transient fields not reset: %+v", s)
		}
		for i, m := range s.Milestones {
			if m.Shown {
				rt.Fatalf("milestone %d still shown", i)
			}
			if m.Threshold != before.Milestones[i].Threshold || m.Message != before.Milestones[i].Message {
				rt.Fatalf("milestone %d definition changed", i)
			}
		}
		if s.HourlyWage != before.HourlyWage || s.DailyGoal != before.DailyGoal ||
			*s.StartTime != *before.StartTime || *s.EndTime != *before.EndTime || s.DarkMode != before.DarkMode {
			rt.Fatalf("configuration changed: before %+v after %+v", before, s)
		}
		if s.ID == before.ID {
			rt.Fatal("expected a new session ID")
		}
	})
}
