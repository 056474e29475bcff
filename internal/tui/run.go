package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/earned/internal/scheduler"
)

// MidnightSpec fires at 00:00:00 local time.
const MidnightSpec = "0 0 0 * * *"

// WatchFunc blocks until ctx is done, calling onChange whenever the stored
// session is changed by someone else.
type WatchFunc func(ctx context.Context, onChange func()) error

// RunOptions configures Run.
type RunOptions struct {
	Config
	// Rollover registers the midnight reset job.
	Rollover bool
	// Watch is optional.
	Watch WatchFunc
}

// Run starts the live view and blocks until the user quits or ctx is
// cancelled. Pending state is flushed on the way out.
func Run(ctx context.Context, tr Tracker, opts RunOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, tr, opts.Config), tea.WithAltScreen(), tea.WithContext(ctx))

	sched := scheduler.New(opts.Log, time.Local)
	defer sched.Close()
	if opts.Rollover {
		if _, err := sched.Cron(MidnightSpec, "rollover", func() { p.Send(rolloverMsg{}) }); err != nil {
			return err
		}
	}

	if opts.Watch != nil {
		go func() {
			err := opts.Watch(ctx, func() { p.Send(reloadMsg{}) })
			if err != nil && !errors.Is(err, context.Canceled) {
				opts.Log.Warn().Err(err).Msg("Session watch stopped")
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if ferr := tr.Flush(context.Background()); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
