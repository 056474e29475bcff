package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/earned/internal/clock"
	"github.com/fakeyudi/earned/internal/config"
	"github.com/fakeyudi/earned/internal/logger"
	"github.com/fakeyudi/earned/internal/session"
	"github.com/fakeyudi/earned/internal/storage"
	"github.com/fakeyudi/earned/internal/tracker"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// log is the command logger, writing to stderr.
var log = zerolog.Nop()

// now is the clock every command reads. Tests replace it.
var now clock.Clock = clock.System{}

// isInteractive reports whether prompts can be shown. Tests replace it.
var isInteractive = func() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

var (
	storeFlag   string
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:          "earned",
	Short:        "Watch what you have earned today, second by second",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		cfg = config.Merge(global, config.LoadEnv())

		if cmd.Flags().Changed("store") {
			cfg.Store = storeFlag
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDirFlag
		}

		log = logger.New(logger.Config{
			Level:  cfg.LogLevel,
			Pretty: cfg.LogPretty,
			Output: cmd.ErrOrStderr(),
		})
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// dataDir is the configured data directory, or the XDG default.
func dataDir() (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	return session.DataDir()
}

// handle bundles an opened tracker with the storage it owns.
type handle struct {
	tr    *tracker.Tracker
	store *session.Store
	kv    storage.KV
	open  tracker.OpenResult
}

func (h *handle) Close() error {
	return h.kv.Close()
}

// openTracker opens the configured store and loads today's session.
// Commands must Close the handle.
func openTracker(cmd *cobra.Command, lg zerolog.Logger) (*handle, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	kv, err := storage.Open(cfg.Store, dir, now)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(kv)
	tr := tracker.New(store, now, lg, tracker.Options{
		SaveDebounce: cfg.SaveDebounce(),
		LiveRollover: cfg.Rollover(),
	})
	res, err := tr.Open(cmd.Context())
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if res.Recovered {
		cmd.PrintErrln("warning: saved data was unreadable and has been reset to defaults")
	}
	return &handle{tr: tr, store: store, kv: kv, open: res}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", `storage backend: "file" or "sqlite"`)
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory holding saved state")
}
