package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/earned/internal/report"
)

var milestoneCmd = &cobra.Command{
	Use:     "milestone",
	Aliases: []string{"milestones"},
	Short:   "List, add or remove earnings milestones",
}

var milestoneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List milestones and whether they fired today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		s, err := h.tr.Session()
		if err != nil {
			return err
		}
		if len(s.Milestones) == 0 {
			cmd.Println("no milestones")
			return nil
		}
		for _, m := range s.Milestones {
			mark := " "
			if m.Shown {
				mark = "✓"
			}
			cmd.Printf("  [%s] %10s  %s\n", mark, report.Money(cfg.Currency, m.Threshold), m.Message)
		}
		return nil
	},
}

var milestoneAddCmd = &cobra.Command{
	Use:     "add <amount> <message>",
	Short:   "Add a milestone, or rename the one at amount",
	Example: `  earned milestone add 300 "🍕 Pizza night covered!"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		message := strings.Join(args[1:], " ")

		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		if err := h.tr.AddMilestone(cmd.Context(), amount, message); err != nil {
			return err
		}
		cmd.Printf("✓ Milestone at %s added.\n", report.Money(cfg.Currency, amount))
		return nil
	},
}

var milestoneRemoveCmd = &cobra.Command{
	Use:   "remove <amount>",
	Short: "Remove the milestone at amount",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}

		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()

		ok, err := h.tr.RemoveMilestone(cmd.Context(), amount)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no milestone at %s", report.Money(cfg.Currency, amount))
		}
		cmd.Printf("✓ Milestone at %s removed.\n", report.Money(cfg.Currency, amount))
		return nil
	},
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid amount %q: want a positive number", s)
	}
	return v, nil
}

func init() {
	milestoneCmd.AddCommand(milestoneListCmd, milestoneAddCmd, milestoneRemoveCmd)
	rootCmd.AddCommand(milestoneCmd)
}
