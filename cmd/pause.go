package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/earned/internal/pause"
	"github.com/fakeyudi/earned/internal/report"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the clock, or resume it if already paused",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		state, err := h.tr.TogglePause(cmd.Context())
		if err != nil {
			return err
		}
		snap, err := h.tr.Snapshot()
		if err != nil {
			return err
		}

		if state == pause.Paused {
			cmd.Println("⏸ Paused.")
		} else {
			cmd.Println("▶ Resumed.")
		}
		cmd.Printf("Paused today: %s\n", report.Clock(snap.PausedFor))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
}
