// Package scheduler runs periodic callbacks. Interval jobs use a ticker
// goroutine each; calendar jobs (such as midnight rollover) use cron specs.
package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Handle identifies a running job for Stop.
type Handle int

// Scheduler manages interval and cron jobs.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	log     zerolog.Logger
	next    Handle
	tickers map[Handle]chan struct{}
	entries map[Handle]cron.EntryID
	wg      sync.WaitGroup
	started bool
}

// New creates a scheduler. Times passed to cron jobs are in loc.
func New(log zerolog.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		log:     log.With().Str("component", "scheduler").Logger(),
		tickers: make(map[Handle]chan struct{}),
		entries: make(map[Handle]cron.EntryID),
	}
}

// Every calls fn with the tick time every interval until the handle is
// stopped. A stalled fn delays later ticks; missed ticks are dropped.
func (s *Scheduler) Every(interval time.Duration, fn func(time.Time)) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	stop := make(chan struct{})

	s.mu.Lock()
	s.next++
	h := s.next
	s.tickers[h] = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	}()

	s.log.Debug().Int("handle", int(h)).Dur("interval", interval).Msg("Interval job started")
	return h
}

// Cron registers fn on a six-field cron spec (seconds first), for example
// "0 0 0 * * *" for midnight. The cron runner starts on first use.
func (s *Scheduler) Cron(spec, name string, fn func()) (Handle, error) {
	id, err := s.cron.AddFunc(spec, func() {
		s.log.Debug().Str("job", name).Msg("Running job")
		fn()
	})
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.next++
	h := s.next
	s.entries[h] = id
	if !s.started {
		s.cron.Start()
		s.started = true
	}
	s.mu.Unlock()

	s.log.Info().Str("schedule", spec).Str("job", name).Msg("Job registered")
	return h, nil
}

// Stop cancels one job. Unknown handles are ignored.
func (s *Scheduler) Stop(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.tickers[h]; ok {
		close(stop)
		delete(s.tickers, h)
		return
	}
	if id, ok := s.entries[h]; ok {
		s.cron.Remove(id)
		delete(s.entries, h)
	}
}

// Close stops every job and waits for running callbacks to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	for h, stop := range s.tickers {
		close(stop)
		delete(s.tickers, h)
	}
	started := s.started
	s.started = false
	s.mu.Unlock()

	if started {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
	s.log.Debug().Msg("Scheduler stopped")
}
