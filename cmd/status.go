package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/earned/internal/report"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's earnings, work time and goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := report.NewRenderer(statusFormat)
		if err != nil {
			return err
		}

		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		res, err := h.tr.Tick(cmd.Context(), now.Now())
		if err != nil {
			return err
		}

		out, err := renderer.Render(report.NewStatus(res.Snapshot, res.Fired, cfg.Currency))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(statusCmd)
}
