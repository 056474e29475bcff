package milestone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEvaluateFiresEachThresholdOnceAcrossTicks(t *testing.T) {
	ms := []Milestone{
		{Threshold: 50, Message: "fifty"},
		{Threshold: 100, Message: "hundred"},
	}

	assert.Empty(t, Evaluate(0, ms), "tick 1")

	fired := Evaluate(75, ms)
	require.Len(t, fired, 1, "tick 2")
	assert.Equal(t, "fifty", fired[0].Message)

	fired = Evaluate(130, ms)
	require.Len(t, fired, 1, "tick 3")
	assert.Equal(t, "hundred", fired[0].Message)

	assert.Empty(t, Evaluate(130, ms), "tick 4")
	assert.True(t, ms[0].Shown)
	assert.True(t, ms[1].Shown)
}

func TestEvaluateFiresSeveralInOneJump(t *testing.T) {
	ms := Defaults()
	fired := Evaluate(250, ms)
	require.Len(t, fired, 3)
	assert.Equal(t, []float64{50, 100, 200}, []float64{fired[0].Threshold, fired[1].Threshold, fired[2].Threshold})
	assert.False(t, ms[3].Shown)
}

func TestEvaluateExactThresholdFires(t *testing.T) {
	ms := []Milestone{{Threshold: 50, Message: "x"}}
	assert.Len(t, Evaluate(50, ms), 1)
}

func TestRearmClearsLatches(t *testing.T) {
	ms := Defaults()
	Evaluate(1000, ms)
	Rearm(ms)
	for _, m := range ms {
		assert.False(t, m.Shown)
	}
	assert.Len(t, Evaluate(1000, ms), 4)
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	a := Defaults()
	a[0].Shown = true
	assert.False(t, Defaults()[0].Shown)
}

func TestAddKeepsOrderAndReplacesMessage(t *testing.T) {
	ms := []Milestone{{Threshold: 100, Message: "a", Shown: true}}
	ms = Add(ms, 50, "b")
	ms = Add(ms, 300, "c")
	ms = Add(ms, 100, "a2")

	require.Len(t, ms, 3)
	assert.Equal(t, 50.0, ms[0].Threshold)
	assert.Equal(t, "a2", ms[1].Message)
	assert.True(t, ms[1].Shown)
	assert.Equal(t, 300.0, ms[2].Threshold)
}

func TestRemove(t *testing.T) {
	ms, ok := Remove(Defaults(), 100)
	assert.True(t, ok)
	assert.Len(t, ms, 3)

	_, ok = Remove(ms, 12345)
	assert.False(t, ok)
}

// Feature: earned, Property: a milestone fires exactly once per day
func TestEvaluateAtMostOncePerLatch(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		ms := make([]Milestone, n)
		for i := range ms {
			ms[i] = Milestone{Threshold: rapid.Float64Range(0, 1000).Draw(rt, "threshold")}
		}
		earnings := rapid.SliceOfN(rapid.Float64Range(0, 1200), 1, 30).Draw(rt, "earnings")

		counts := make(map[int]int)
		for _, e := range earnings {
			before := Clone(ms)
			fired := Evaluate(e, ms)
			for i := range ms {
				if ms[i].Shown && !before[i].Shown {
					counts[i]++
					if e < ms[i].Threshold {
						rt.Fatalf("milestone %d fired below threshold: %v < %v", i, e, ms[i].Threshold)
					}
				}
				if before[i].Shown && !ms[i].Shown {
					rt.Fatalf("milestone %d un-latched", i)
				}
			}
			if len(fired) > n {
				rt.Fatalf("fired %d of %d", len(fired), n)
			}
		}
		for i, c := range counts {
			if c > 1 {
				rt.Fatalf("milestone %d fired %d times", i, c)
			}
		}
	})
}
