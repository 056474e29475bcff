package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/earned/internal/tracker"
)

var (
	setWage  string
	setGoal  string
	setStart string
	setEnd   string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change wage, goal or shift times",
	Long: `Change wage, goal or shift times. Only the flags you pass change.
Numbers that cannot be read are saved as 0; times that cannot be read
are cleared. Pass an empty value (--end "") to clear a time.`,
	Example: "  earned set --wage 45 --goal 360 --start 09:00 --end 17:30",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("wage") && !flags.Changed("goal") && !flags.Changed("start") && !flags.Changed("end") {
			return errors.New("nothing to set: pass --wage, --goal, --start or --end")
		}

		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		s, err := h.tr.Session()
		if err != nil {
			return err
		}
		in := tracker.SettingsOf(s)
		if flags.Changed("wage") {
			in.HourlyWage = setWage
		}
		if flags.Changed("goal") {
			in.DailyGoal = setGoal
		}
		if flags.Changed("start") {
			in.StartTime = setStart
		}
		if flags.Changed("end") {
			in.EndTime = setEnd
		}

		return applySettings(cmd, h.tr, in)
	},
}

// applySettings saves in and reports what was coerced.
func applySettings(cmd *cobra.Command, tr *tracker.Tracker, in tracker.Settings) error {
	coerced, err := tr.ApplySettings(cmd.Context(), in)
	if err != nil {
		return err
	}
	for _, c := range coerced {
		cmd.PrintErrf("warning: %s %q is not valid, saved as %s\n", c.Field, c.Input, c.Used)
	}

	s, err := tr.Session()
	if err != nil {
		return err
	}
	saved := tracker.SettingsOf(s)
	cmd.Println("✓ Settings saved.")
	cmd.Printf("  Hourly wage: %s\n", saved.HourlyWage)
	cmd.Printf("  Daily goal:  %s\n", saved.DailyGoal)
	cmd.Printf("  Start:       %s\n", orDash(saved.StartTime))
	cmd.Printf("  End:         %s\n", orDash(saved.EndTime))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	setCmd.Flags().StringVar(&setWage, "wage", "", "hourly wage")
	setCmd.Flags().StringVar(&setGoal, "goal", "", "daily earnings goal")
	setCmd.Flags().StringVar(&setStart, "start", "", "shift start, HH:MM")
	setCmd.Flags().StringVar(&setEnd, "end", "", "shift end, HH:MM")
	rootCmd.AddCommand(setCmd)
}
