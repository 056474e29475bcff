// Package milestone implements one-shot earnings thresholds. Each milestone
// latches the first time earnings reach its threshold and stays latched until
// the day is reset or rolls over.
package milestone

import "sort"

// Milestone is a threshold notification. Shown is the per-day latch.
type Milestone struct {
	Threshold float64
	Message   string
	Shown     bool
}

// Fired is a milestone that latched during one Evaluate call.
type Fired struct {
	Threshold float64
	Message   string
}

// Defaults returns a fresh copy of the built-in milestone set.
func Defaults() []Milestone {
	return []Milestone{
		{Threshold: 50, Message: "☕ Coffee money earned!"},
		{Threshold: 100, Message: "🍔 Lunch money earned!"},
		{Threshold: 200, Message: "🚗 Commute covered!"},
		{Threshold: 500, Message: "🎉 Small goal reached!"},
	}
}

// Evaluate latches every unshown milestone whose threshold earnings has
// reached and returns them in slice order. Milestones are evaluated
// independently; calling Evaluate again with the same or higher earnings
// never returns an already latched milestone.
func Evaluate(earnings float64, ms []Milestone) []Fired {
	var fired []Fired
	for i := range ms {
		m := &ms[i]
		if m.Shown || earnings < m.Threshold {
			continue
		}
		m.Shown = true
		fired = append(fired, Fired{Threshold: m.Threshold, Message: m.Message})
	}
	return fired
}

// Rearm clears every latch.
func Rearm(ms []Milestone) {
	for i := range ms {
		ms[i].Shown = false
	}
}

// Add inserts a milestone keeping thresholds ascending. An existing
// threshold gets the new message and keeps its latch.
func Add(ms []Milestone, threshold float64, message string) []Milestone {
	for i := range ms {
		if ms[i].Threshold == threshold {
			ms[i].Message = message
			return ms
		}
	}
	ms = append(ms, Milestone{Threshold: threshold, Message: message})
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Threshold < ms[j].Threshold })
	return ms
}

// Remove deletes the milestone at threshold. It reports whether one existed.
func Remove(ms []Milestone, threshold float64) ([]Milestone, bool) {
	for i := range ms {
		if ms[i].Threshold == threshold {
			return append(ms[:i], ms[i+1:]...), true
		}
	}
	return ms, false
}

// Clone returns an independent copy of ms.
func Clone(ms []Milestone) []Milestone {
	if ms == nil {
		return nil
	}
	out := make([]Milestone, len(ms))
	copy(out, ms)
	return out
}
