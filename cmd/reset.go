package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset today's pause time and milestones (settings are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			if !isInteractive() {
				return errors.New("refusing to reset without --yes when not attached to a terminal")
			}
			ok, err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).askBool("Reset today's data?", false)
			if err != nil {
				return err
			}
			if !ok {
				cmd.Println("Reset cancelled.")
				return nil
			}
		}

		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		if err := h.tr.ResetDay(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("✓ Today's data has been reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
