package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryTicksUntilStopped(t *testing.T) {
	s := New(zerolog.Nop(), time.UTC)
	defer s.Close()

	var n atomic.Int32
	h := s.Every(5*time.Millisecond, func(time.Time) { n.Add(1) })

	require.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, time.Millisecond)
	s.Stop(h)

	// Allow an in-flight tick to land, then the count must freeze.
	time.Sleep(20 * time.Millisecond)
	frozen := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, n.Load())
}

func TestStopUnknownHandleIsNoop(t *testing.T) {
	s := New(zerolog.Nop(), nil)
	s.Stop(Handle(42))
	s.Close()
}

func TestCronRejectsBadSpec(t *testing.T) {
	s := New(zerolog.Nop(), time.UTC)
	defer s.Close()
	_, err := s.Cron("not a spec", "bad", func() {})
	assert.Error(t, err)
}

func TestCronRunsEverySecondSpec(t *testing.T) {
	s := New(zerolog.Nop(), time.UTC)
	defer s.Close()

	var n atomic.Int32
	_, err := s.Cron("* * * * * *", "each-second", func() { n.Add(1) })
	require.NoError(t, err)
	require.Eventually(t, func() bool { return n.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestCloseWaitsForTickers(t *testing.T) {
	s := New(zerolog.Nop(), time.UTC)
	var running atomic.Bool
	s.Every(time.Millisecond, func(time.Time) {
		running.Store(true)
		time.Sleep(5 * time.Millisecond)
		running.Store(false)
	})
	time.Sleep(10 * time.Millisecond)
	s.Close()
	assert.False(t, running.Load())
}
