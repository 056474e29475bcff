package cmd

import "github.com/spf13/cobra"

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Toggle dark mode for the live view",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		dark, err := h.tr.ToggleTheme(cmd.Context())
		if err != nil {
			return err
		}
		if dark {
			cmd.Println("Dark mode on.")
		} else {
			cmd.Println("Dark mode off.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
