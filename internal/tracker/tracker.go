// Package tracker owns the day's WorkSession. It wires the accounting
// engine, pause tracker, milestone evaluator and persistence store together
// behind the operations the presentation layer calls.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fakeyudi/earned/internal/accounting"
	"github.com/fakeyudi/earned/internal/clock"
	"github.com/fakeyudi/earned/internal/milestone"
	"github.com/fakeyudi/earned/internal/pause"
	"github.com/fakeyudi/earned/internal/session"
)

// ErrNotOpen is returned by operations called before Open.
var ErrNotOpen = errors.New("tracker not opened")

// Options tune persistence and rollover.
type Options struct {
	// SaveDebounce coalesces tick-triggered writes (milestone latches) to at
	// most one per window. Zero writes on every change. User actions always
	// write through.
	SaveDebounce time.Duration

	// LiveRollover makes every operation check for a calendar-day change,
	// not only Open.
	LiveRollover bool
}

// OpenResult reports what Open found.
type OpenResult struct {
	FirstRun      bool
	Recovered     bool // stored record was unreadable and replaced
	RolledOver    bool
	PauseAbsorbed time.Duration
	Warnings      []session.FieldWarning
}

// TickResult is the output of one recompute.
type TickResult struct {
	Snapshot   accounting.Snapshot
	Fired      []milestone.Fired
	RolledOver bool
}

// Tracker is safe for use from several goroutines; every entry point
// serializes on one mutex.
type Tracker struct {
	mu    sync.Mutex
	store session.SessionStore
	clock clock.Clock
	log   zerolog.Logger
	opts  Options

	sess     *session.WorkSession
	dirty    bool
	lastSave time.Time
}

// New returns an unopened Tracker.
func New(store session.SessionStore, clk clock.Clock, log zerolog.Logger, opts Options) *Tracker {
	if clk == nil {
		clk = clock.System{}
	}
	return &Tracker{
		store: store,
		clock: clk,
		log:   log.With().Str("component", "tracker").Logger(),
		opts:  opts,
	}
}

// Open loads the stored session, absorbs a pause left open while the process
// was not running, then applies day rollover. A missing or unreadable record
// starts a fresh session, which is persisted immediately.
func (t *Tracker) Open(ctx context.Context) (OpenResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	var res OpenResult

	s, warnings, err := t.store.Load(ctx)
	var decodeErr *session.DecodeError
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNoSession):
		res.FirstRun = true
	case errors.As(err, &decodeErr):
		t.log.Warn().Err(err).Msg("Stored session unreadable, starting from defaults")
		res.Recovered = true
	default:
		return res, err
	}

	if s == nil {
		t.sess = session.New()
		if err := t.saveLocked(ctx, now); err != nil {
			return res, err
		}
		t.log.Info().Str("session_id", t.sess.ID).Msg("New session created")
		return res, nil
	}

	res.Warnings = warnings
	for _, w := range warnings {
		t.log.Warn().Str("field", w.Field).Str("reason", w.Reason).Msg("Stored field ignored")
	}

	res.PauseAbsorbed = pause.Reconcile(s, now)
	if res.PauseAbsorbed > 0 {
		t.log.Info().Dur("gap", res.PauseAbsorbed).Msg("Offline time added to pause")
	}

	t.sess = s
	if session.CheckRollover(s, session.DateOf(now)) {
		res.RolledOver = true
		t.log.Info().Str("session_id", s.ID).Msg("New day, session reset")
		if err := t.saveLocked(ctx, now); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Tick recomputes every output for now and latches milestones.
func (t *Tracker) Tick(ctx context.Context, now time.Time) (TickResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return TickResult{}, ErrNotOpen
	}

	var res TickResult
	rolled, err := t.liveRolloverLocked(ctx, now)
	if err != nil {
		return res, err
	}
	res.RolledOver = rolled

	res.Snapshot = accounting.Compute(now, t.sess)
	res.Fired = milestone.Evaluate(res.Snapshot.Earnings, t.sess.Milestones)
	for _, f := range res.Fired {
		t.log.Info().Float64("threshold", f.Threshold).Float64("earnings", res.Snapshot.Earnings).Msg("Milestone reached")
	}
	if len(res.Fired) > 0 {
		t.dirty = true
	}

	if t.dirty && (t.opts.SaveDebounce <= 0 || now.Sub(t.lastSave) >= t.opts.SaveDebounce) {
		if err := t.saveLocked(ctx, now); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Snapshot computes outputs at the clock's current time without latching
// milestones.
func (t *Tracker) Snapshot() (accounting.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return accounting.Snapshot{}, ErrNotOpen
	}
	return accounting.Compute(t.clock.Now(), t.sess), nil
}

// TogglePause flips the pause state and persists.
func (t *Tracker) TogglePause(ctx context.Context) (pause.State, error) {
	var state pause.State
	err := t.mutate(ctx, func(s *session.WorkSession, now time.Time) {
		state = pause.Toggle(s, now)
		t.log.Info().Str("state", string(state)).Msg("Pause toggled")
	})
	return state, err
}

// ApplySettings coerces the form input, stores it and persists. Coercions
// are logged and returned.
func (t *Tracker) ApplySettings(ctx context.Context, in Settings) ([]Coercion, error) {
	parsed, coerced := ParseSettings(in)
	for _, c := range coerced {
		t.log.Warn().Str("field", c.Field).Str("input", c.Input).Str("used", c.Used).Msg("Setting coerced")
	}
	err := t.mutate(ctx, func(s *session.WorkSession, _ time.Time) {
		s.HourlyWage = parsed.HourlyWage
		s.DailyGoal = parsed.DailyGoal
		s.StartTime = parsed.StartTime
		s.EndTime = parsed.EndTime
	})
	return coerced, err
}

// ResetDay clears the transient fields (pause state and milestone latches)
// and persists. Configuration is kept.
func (t *Tracker) ResetDay(ctx context.Context) error {
	return t.mutate(ctx, func(s *session.WorkSession, _ time.Time) {
		s.ResetTransient()
		t.log.Info().Str("session_id", s.ID).Msg("Day reset")
	})
}

// ToggleTheme flips the dark mode preference and returns the new value.
func (t *Tracker) ToggleTheme(ctx context.Context) (bool, error) {
	var dark bool
	err := t.mutate(ctx, func(s *session.WorkSession, _ time.Time) {
		s.DarkMode = !s.DarkMode
		dark = s.DarkMode
	})
	return dark, err
}

// AddMilestone adds or renames the milestone at threshold.
func (t *Tracker) AddMilestone(ctx context.Context, threshold float64, message string) error {
	return t.mutate(ctx, func(s *session.WorkSession, _ time.Time) {
		s.Milestones = milestone.Add(s.Milestones, threshold, message)
	})
}

// RemoveMilestone deletes the milestone at threshold, reporting whether
// it existed. Nothing is written when it did not.
func (t *Tracker) RemoveMilestone(ctx context.Context, threshold float64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return false, ErrNotOpen
	}
	now := t.clock.Now()
	if _, err := t.liveRolloverLocked(ctx, now); err != nil {
		return false, err
	}
	var ok bool
	t.sess.Milestones, ok = milestone.Remove(t.sess.Milestones, threshold)
	if !ok {
		return false, nil
	}
	return true, t.saveLocked(ctx, now)
}

// CheckRollover resets the day when the calendar date has changed since the
// last save. Live views call it from a midnight job.
func (t *Tracker) CheckRollover(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return false, ErrNotOpen
	}
	now := t.clock.Now()
	if !session.CheckRollover(t.sess, session.DateOf(now)) {
		return false, nil
	}
	t.log.Info().Str("session_id", t.sess.ID).Msg("New day, session reset")
	return true, t.saveLocked(ctx, now)
}

// Reload replaces the in-memory session with the stored one, for when
// another process changed it. Milestones latched here but not yet written
// stay latched and are written on the next tick or Flush. An unreadable
// record leaves the current session in place.
func (t *Tracker) Reload(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, warnings, err := t.store.Load(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("Reload failed, keeping current session")
		return err
	}
	for _, w := range warnings {
		t.log.Warn().Str("field", w.Field).Str("reason", w.Reason).Msg("Stored field ignored")
	}
	pause.Reconcile(s, t.clock.Now())
	merged := t.dirty && t.carryLatches(s)
	t.sess = s
	t.dirty = merged
	t.log.Debug().Str("session_id", s.ID).Bool("pending", merged).Msg("Session reloaded")
	return nil
}

// carryLatches copies the Shown flags of the current session onto the
// same-day record s. It reports whether any flag was carried.
func (t *Tracker) carryLatches(s *session.WorkSession) bool {
	if t.sess == nil || t.sess.ID != s.ID || t.sess.LastSaveDate != s.LastSaveDate {
		return false
	}
	shown := make(map[float64]bool)
	for _, m := range t.sess.Milestones {
		if m.Shown {
			shown[m.Threshold] = true
		}
	}
	carried := false
	for i := range s.Milestones {
		if !s.Milestones[i].Shown && shown[s.Milestones[i].Threshold] {
			s.Milestones[i].Shown = true
			carried = true
		}
	}
	return carried
}

// Flush writes pending debounced state.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil || !t.dirty {
		return nil
	}
	return t.saveLocked(ctx, t.clock.Now())
}

// Session returns a copy of the current session.
func (t *Tracker) Session() (*session.WorkSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return nil, ErrNotOpen
	}
	return t.sess.Clone(), nil
}

// Now reads the tracker's clock.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// mutate applies a user action and writes through.
func (t *Tracker) mutate(ctx context.Context, fn func(s *session.WorkSession, now time.Time)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return ErrNotOpen
	}
	now := t.clock.Now()
	if _, err := t.liveRolloverLocked(ctx, now); err != nil {
		return err
	}
	fn(t.sess, now)
	return t.saveLocked(ctx, now)
}

// liveRolloverLocked keeps a save at 00:00:01 from stamping today's date on
// yesterday's accounting.
func (t *Tracker) liveRolloverLocked(ctx context.Context, now time.Time) (bool, error) {
	if !t.opts.LiveRollover || !session.CheckRollover(t.sess, session.DateOf(now)) {
		return false, nil
	}
	t.log.Info().Str("session_id", t.sess.ID).Msg("New day, session reset")
	return true, t.saveLocked(ctx, now)
}

func (t *Tracker) saveLocked(ctx context.Context, now time.Time) error {
	if err := t.store.Save(ctx, t.sess, session.DateOf(now)); err != nil {
		t.dirty = true
		return err
	}
	t.dirty = false
	t.lastSave = now
	return nil
}
