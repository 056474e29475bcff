package tracker

import (
	"math"
	"strconv"
	"strings"

	"github.com/fakeyudi/earned/internal/session"
)

// Settings is the raw settings-form input. Every field is text as typed.
type Settings struct {
	HourlyWage string
	DailyGoal  string
	StartTime  string
	EndTime    string
}

// Coercion records an input value that could not be used as typed.
type Coercion struct {
	Field string
	Input string
	Used  string
}

// Parsed is Settings after coercion.
type Parsed struct {
	HourlyWage float64
	DailyGoal  float64
	StartTime  *session.TimeOfDay
	EndTime    *session.TimeOfDay
}

// ParseSettings never rejects input: unparsable or negative numbers become
// 0 and unparsable times become unset. Blank fields are unset/zero without a
// coercion entry.
func ParseSettings(in Settings) (Parsed, []Coercion) {
	var out Parsed
	var coerced []Coercion

	number := func(field, raw string) float64 {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			coerced = append(coerced, Coercion{Field: field, Input: raw, Used: "0"})
			return 0
		}
		return f
	}
	clock := func(field, raw string) *session.TimeOfDay {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		t, err := session.ParseTimeOfDay(raw)
		if err != nil {
			coerced = append(coerced, Coercion{Field: field, Input: raw, Used: "unset"})
			return nil
		}
		return &t
	}

	out.HourlyWage = number("hourlyWage", in.HourlyWage)
	out.DailyGoal = number("dailyGoal", in.DailyGoal)
	out.StartTime = clock("startTime", in.StartTime)
	out.EndTime = clock("endTime", in.EndTime)
	return out, coerced
}

// SettingsOf renders the configuration of s back into form input.
func SettingsOf(s *session.WorkSession) Settings {
	in := Settings{
		HourlyWage: strconv.FormatFloat(s.HourlyWage, 'f', -1, 64),
		DailyGoal:  strconv.FormatFloat(s.DailyGoal, 'f', -1, 64),
	}
	if s.StartTime != nil {
		in.StartTime = s.StartTime.String()
	}
	if s.EndTime != nil {
		in.EndTime = s.EndTime.String()
	}
	return in
}
