package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour, Minute, Second int
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (the forms an HTML time
// input produces).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM", s)
	}
	limits := [3]int{23, 59, 59}
	var vals [3]int
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 || strings.Trim(p, "0123456789") != "" {
			return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > limits[i] {
			return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM", s)
		}
		vals[i] = n
	}
	return TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}, nil
}

// MustTimeOfDay is ParseTimeOfDay for literals; it panics on bad input.
func MustTimeOfDay(s string) *TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func (t TimeOfDay) String() string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors t to the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, day.Location())
}

// Date is a calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// dateLayouts are accepted on input; the first is written.
// The second is JavaScript's Date.toDateString() form.
var dateLayouts = []string{"2006-01-02", "Mon Jan 02 2006"}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses any accepted date layout.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
