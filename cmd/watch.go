package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/earned/internal/logger"
	"github.com/fakeyudi/earned/internal/report"
	"github.com/fakeyudi/earned/internal/scheduler"
	"github.com/fakeyudi/earned/internal/session"
	"github.com/fakeyudi/earned/internal/storage"
	"github.com/fakeyudi/earned/internal/tracker"
	"github.com/fakeyudi/earned/internal/tui"
)

var (
	watchPlain    bool
	watchEvery    time.Duration
	watchDuration time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of today's earnings",
	Long: `Live view of today's earnings.

Keys: p pause/resume, t theme, space/esc hide, r reset day, q quit.
Without a terminal, or with --plain, one status line is printed per
interval instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if watchDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, watchDuration)
			defer cancel()
		}

		if watchPlain || !isInteractive() {
			return watchPlainLines(ctx, cmd)
		}
		return watchLive(ctx, cmd)
	},
}

// watchLive runs the TUI. Logs go to a file so they do not draw over it.
func watchLive(ctx context.Context, cmd *cobra.Command) error {
	dir, err := dataDir()
	if err != nil {
		return err
	}
	fileLog, closer, err := logger.OpenFile(filepath.Join(dir, "earned.log"), logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closer.Close()

	h, err := openTracker(cmd, fileLog)
	if err != nil {
		return err
	}
	defer h.Close()

	if h.open.FirstRun {
		if err := runSetup(cmd, h.tr, true); err != nil {
			return err
		}
	}

	opts := tui.RunOptions{
		Config: tui.Config{
			Clock:    now,
			Interval: cfg.TickInterval(),
			Currency: cfg.Currency,
			Log:      fileLog,
		},
		Rollover: cfg.Rollover(),
	}
	if fkv, ok := h.kv.(*storage.FileKV); ok {
		opts.Watch = func(ctx context.Context, onChange func()) error {
			return fkv.Watch(ctx, session.RecordKey, h.store.LastWritten, func([]byte) { onChange() })
		}
	}
	return tui.Run(ctx, h.tr, opts)
}

// watchPlainLines prints a status line every interval until ctx is done.
func watchPlainLines(ctx context.Context, cmd *cobra.Command) error {
	h, err := openTracker(cmd, log)
	if err != nil {
		return err
	}
	defer h.Close()

	// Tracker calls use the command context so a cancelled ctx does not
	// abort the final writes.
	opCtx := cmd.Context()
	out := cmd.OutOrStdout()
	var mu sync.Mutex // ticker and cron callbacks both print

	sched := scheduler.New(log, time.Local)
	defer sched.Close()

	printTick := func() {
		mu.Lock()
		defer mu.Unlock()
		res, err := h.tr.Tick(opCtx, now.Now())
		if err != nil {
			log.Error().Err(err).Msg("Tick failed")
			if res.Snapshot.At.IsZero() {
				return
			}
		}
		fmt.Fprintln(out, plainLine(res, cfg.Currency))
		for _, f := range res.Fired {
			fmt.Fprintf(out, "🎯 %s\n", f.Message)
		}
	}

	printTick()
	sched.Every(watchEvery, func(time.Time) { printTick() })
	if cfg.Rollover() {
		_, err := sched.Cron(tui.MidnightSpec, "rollover", func() {
			mu.Lock()
			defer mu.Unlock()
			rolled, err := h.tr.CheckRollover(opCtx)
			if err != nil {
				log.Error().Err(err).Msg("Rollover failed")
				return
			}
			if rolled {
				fmt.Fprintln(out, "🌅 New day, earnings reset")
			}
		})
		if err != nil {
			return err
		}
	}

	<-ctx.Done()
	sched.Close()
	return h.tr.Flush(opCtx)
}

func plainLine(res tracker.TickResult, currency string) string {
	s := res.Snapshot
	return fmt.Sprintf("%s  %s  worked %s  left %s  goal %s  %s",
		s.At.Format("15:04:05"),
		report.Money(currency, s.Earnings),
		report.Clock(s.Elapsed),
		report.RemainingText(s.Remaining),
		report.Percent(s.Progress),
		s.State,
	)
}

func init() {
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "print status lines instead of the live view")
	watchCmd.Flags().DurationVar(&watchEvery, "every", time.Second, "line interval for plain output")
	watchCmd.Flags().DurationVar(&watchDuration, "duration", 0, "stop after this long (0 runs until interrupted)")
	rootCmd.AddCommand(watchCmd)
}
