// Package report renders a tracker snapshot for the status command.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/earned/internal/accounting"
	"github.com/fakeyudi/earned/internal/milestone"
)

// Status is the serializable view of one snapshot.
type Status struct {
	At               time.Time  `json:"at" yaml:"at"`
	SessionID        string     `json:"sessionId" yaml:"session_id"`
	State            string     `json:"state" yaml:"state"`
	Currency         string     `json:"currency" yaml:"currency"`
	Earnings         float64    `json:"earnings" yaml:"earnings"`
	HourlyWage       float64    `json:"hourlyWage" yaml:"hourly_wage"`
	DailyGoal        float64    `json:"dailyGoal" yaml:"daily_goal"`
	Progress         float64    `json:"progress" yaml:"progress"`
	ElapsedSeconds   int64      `json:"elapsedSeconds" yaml:"elapsed_seconds"`
	PausedSeconds    int64      `json:"pausedSeconds" yaml:"paused_seconds"`
	Remaining        string     `json:"remaining" yaml:"remaining"` // unset | counting | finished
	RemainingSeconds *int64     `json:"remainingSeconds,omitempty" yaml:"remaining_seconds,omitempty"`
	ShiftEnd         *time.Time `json:"shiftEnd,omitempty" yaml:"shift_end,omitempty"`
	Reached          []string   `json:"milestonesReached,omitempty" yaml:"milestones_reached,omitempty"`
}

// NewStatus builds the view of snap; fired lists milestones that fired while
// producing it.
func NewStatus(snap accounting.Snapshot, fired []milestone.Fired, currency string) Status {
	st := Status{
		At:             snap.At,
		SessionID:      snap.SessionID,
		State:          string(snap.State),
		Currency:       currency,
		Earnings:       round2(snap.Earnings),
		HourlyWage:     snap.HourlyWage,
		DailyGoal:      snap.DailyGoal,
		Progress:       round1(snap.Progress),
		ElapsedSeconds: int64(snap.Elapsed / time.Second),
		PausedSeconds:  int64(snap.PausedFor / time.Second),
		Remaining:      string(snap.Remaining.Kind),
	}
	if snap.Remaining.Kind == accounting.Counting {
		left := int64(snap.Remaining.Left / time.Second)
		st.RemainingSeconds = &left
	}
	if !snap.Remaining.End.IsZero() {
		end := snap.Remaining.End
		st.ShiftEnd = &end
	}
	for _, f := range fired {
		st.Reached = append(st.Reached, f.Message)
	}
	return st
}

// Renderer serializes a Status to bytes.
type Renderer interface {
	Render(st Status) ([]byte, error)
}

// Format names accepted by NewRenderer.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NewRenderer returns the renderer for format; "" is text.
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "", FormatText:
		return &TextRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatYAML:
		return &YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

// JSONRenderer renders a Status as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(st Status) ([]byte, error) {
	out, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// YAMLRenderer renders a Status as YAML.
type YAMLRenderer struct{}

func (r *YAMLRenderer) Render(st Status) ([]byte, error) {
	return yaml.Marshal(st)
}

// TextRenderer renders a Status as aligned human-readable lines.
type TextRenderer struct{}

func (r *TextRenderer) Render(st Status) ([]byte, error) {
	var sb strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&sb, "%-11s%s\n", label+":", value)
	}

	row("Earned", Money(st.Currency, st.Earnings))
	row("Rate", Money(st.Currency, st.HourlyWage)+"/hour")
	row("Worked", Clock(time.Duration(st.ElapsedSeconds)*time.Second))

	remaining := "--:--:--"
	switch st.Remaining {
	case string(accounting.Counting):
		if st.RemainingSeconds != nil {
			remaining = Clock(time.Duration(*st.RemainingSeconds) * time.Second)
		}
	case string(accounting.Finished):
		remaining = "Finished"
	}
	row("Remaining", remaining)

	if st.DailyGoal > 0 {
		row("Goal", Percent(st.Progress)+" of "+Money(st.Currency, st.DailyGoal))
	} else {
		row("Goal", "not set")
	}

	state := st.State
	if st.PausedSeconds > 0 {
		state += " (paused " + Clock(time.Duration(st.PausedSeconds)*time.Second) + " today)"
	}
	row("State", state)

	for _, msg := range st.Reached {
		row("Milestone", msg)
	}
	return []byte(sb.String()), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
