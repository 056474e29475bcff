package session

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/fakeyudi/earned/internal/milestone"
)

// record is the persisted wire form. Field names are fixed by the stored
// schema and must not change.
type record struct {
	HourlyWage     float64           `json:"hourlyWage"`
	DailyGoal      float64           `json:"dailyGoal"`
	StartTime      *string           `json:"startTime"`
	EndTime        *string           `json:"endTime"`
	DarkMode       bool              `json:"darkMode"`
	TotalPauseTime int64             `json:"totalPauseTime"`
	Paused         bool              `json:"paused"`
	PauseStartTime *int64            `json:"pauseStartTime"`
	Milestones     []milestoneRecord `json:"milestones"`
	LastSaveDate   string            `json:"lastSaveDate"`
	SessionID      string            `json:"sessionId,omitempty"`
}

type milestoneRecord struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
	Shown   bool    `json:"shown"`
}

// FieldWarning describes one field that was missing or unusable and fell
// back to its default.
type FieldWarning struct {
	Field  string
	Reason string
}

func (w FieldWarning) String() string { return w.Field + ": " + w.Reason }

// DecodeError is returned when a stored record is not a JSON object at all.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "failed to parse session state: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes s in the persisted schema.
func Encode(s *WorkSession) ([]byte, error) {
	rec := record{
		HourlyWage:     s.HourlyWage,
		DailyGoal:      s.DailyGoal,
		DarkMode:       s.DarkMode,
		TotalPauseTime: s.TotalPause.Milliseconds(),
		Paused:         s.Paused,
		Milestones:     make([]milestoneRecord, 0, len(s.Milestones)),
		LastSaveDate:   s.LastSaveDate.String(),
		SessionID:      s.ID,
	}
	if s.StartTime != nil {
		v := s.StartTime.String()
		rec.StartTime = &v
	}
	if s.EndTime != nil {
		v := s.EndTime.String()
		rec.EndTime = &v
	}
	if s.Paused && !s.PauseStart.IsZero() {
		ms := s.PauseStart.UnixMilli()
		rec.PauseStartTime = &ms
	}
	for _, m := range s.Milestones {
		rec.Milestones = append(rec.Milestones, milestoneRecord{Amount: m.Threshold, Message: m.Message, Shown: m.Shown})
	}
	return json.Marshal(rec)
}

// Decode parses a stored record field by field. Missing fields and fields of
// the wrong type take their defaults and are reported as warnings; only a
// payload that is not a JSON object fails.
func Decode(data []byte) (*WorkSession, []FieldWarning, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, nil, &DecodeError{Err: err}
	}
	if fields == nil {
		return nil, nil, &DecodeError{Err: fmt.Errorf("record is null")}
	}

	d := decoder{fields: fields}
	s := New()
	s.HourlyWage = d.amount("hourlyWage")
	s.DailyGoal = d.amount("dailyGoal")
	s.StartTime = d.timeOfDay("startTime")
	s.EndTime = d.timeOfDay("endTime")
	s.DarkMode = d.boolean("darkMode")
	s.TotalPause = d.millis("totalPauseTime")
	s.Paused = d.boolean("paused")
	s.PauseStart = d.instant("pauseStartTime")
	s.LastSaveDate = d.date("lastSaveDate")
	if id := d.str("sessionId"); id != "" {
		s.ID = id
	}
	if ms, ok := d.milestones("milestones"); ok {
		s.Milestones = ms
	}
	return s, d.warnings, nil
}

type decoder struct {
	fields   map[string]json.RawMessage
	warnings []FieldWarning
}

func (d *decoder) warn(field, format string, args ...any) {
	d.warnings = append(d.warnings, FieldWarning{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// raw returns the field's bytes, or nil when absent or JSON null.
func (d *decoder) raw(field string) json.RawMessage {
	v, ok := d.fields[field]
	if !ok || string(v) == "null" {
		return nil
	}
	return v
}

// amount decodes a non-negative finite number.
func (d *decoder) amount(field string) float64 {
	v := d.raw(field)
	if v == nil {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		d.warn(field, "not a number: %s", v)
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		d.warn(field, "out of range: %v", f)
		return 0
	}
	return f
}

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// millis decodes a non-negative millisecond count as a duration.
func (d *decoder) millis(field string) time.Duration {
	ms := d.amount(field)
	if ms > maxMillis {
		d.warn(field, "out of range: %v", ms)
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (d *decoder) boolean(field string) bool {
	v := d.raw(field)
	if v == nil {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		d.warn(field, "not a boolean: %s", v)
		return false
	}
	return b
}

func (d *decoder) str(field string) string {
	v := d.raw(field)
	if v == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.warn(field, "not a string: %s", v)
		return ""
	}
	return s
}

func (d *decoder) timeOfDay(field string) *TimeOfDay {
	s := d.str(field)
	if s == "" {
		return nil
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		d.warn(field, "%v", err)
		return nil
	}
	return &t
}

// instant accepts epoch milliseconds or an RFC 3339 string.
func (d *decoder) instant(field string) time.Time {
	v := d.raw(field)
	if v == nil {
		return time.Time{}
	}
	var ms float64
	if err := json.Unmarshal(v, &ms); err == nil {
		if ms <= 0 || ms > maxMillis || math.IsNaN(ms) || math.IsInf(ms, 0) {
			d.warn(field, "out of range: %v", ms)
			return time.Time{}
		}
		return time.UnixMilli(int64(ms))
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.Local()
		}
	}
	d.warn(field, "not an instant: %s", v)
	return time.Time{}
}

func (d *decoder) date(field string) Date {
	s := d.str(field)
	if s == "" {
		return Date{}
	}
	day, err := ParseDate(s)
	if err != nil {
		d.warn(field, "%v", err)
		return Date{}
	}
	return day
}

// milestones reports ok=false when the field is absent or null so the
// caller keeps the defaults. Unusable entries are dropped individually.
func (d *decoder) milestones(field string) ([]milestone.Milestone, bool) {
	v := d.raw(field)
	if v == nil {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		d.warn(field, "not an array: %s", v)
		return nil, false
	}
	out := make([]milestone.Milestone, 0, len(items))
	for i, item := range items {
		var m milestoneRecord
		if err := json.Unmarshal(item, &m); err != nil {
			d.warn(fmt.Sprintf("%s[%d]", field, i), "dropped: %v", err)
			continue
		}
		out = append(out, milestone.Milestone{Threshold: m.Amount, Message: m.Message, Shown: m.Shown})
	}
	return out, true
}
