package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/earned/internal/tracker"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Enter wage, goal and shift times interactively (re-run anytime to edit)",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openTracker(cmd, log)
		if err != nil {
			return err
		}
		defer h.Close()
		return runSetup(cmd, h.tr, false)
	},
}

// runSetup runs the interactive settings form. Current values are the
// defaults for each prompt. If firstRun is true, a welcome message is shown.
func runSetup(cmd *cobra.Command, tr *tracker.Tracker, firstRun bool) error {
	out := cmd.OutOrStdout()
	if firstRun {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Welcome to earned! Let's get you set up.")
	}

	s, err := tr.Session()
	if err != nil {
		return err
	}
	in := tracker.SettingsOf(s)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(out, "  │         earned settings         │")
	fmt.Fprintln(out, "  └─────────────────────────────────┘")
	fmt.Fprintln(out, "  Enter keeps the value in brackets, '-' clears it.")
	fmt.Fprintln(out)

	p := newPrompter(cmd.InOrStdin(), out)
	if in.HourlyWage, err = p.ask("  Hourly wage", in.HourlyWage); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if in.DailyGoal, err = p.ask("  Daily goal", in.DailyGoal); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if in.StartTime, err = p.ask("  Shift start (HH:MM)", in.StartTime); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if in.EndTime, err = p.ask("  Shift end (HH:MM)", in.EndTime); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	dark, err := p.askBool("  Dark mode", s.DarkMode)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	fmt.Fprintln(out)

	if err := applySettings(cmd, tr, in); err != nil {
		return err
	}
	if dark != s.DarkMode {
		if _, err := tr.ToggleTheme(cmd.Context()); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "  Setup complete. Run 'earned watch' to see the money come in.")
	fmt.Fprintln(out)
	return nil
}

// prompter reads line answers. An empty answer keeps the default.
type prompter struct {
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(in), out: out}
}

func (p *prompter) ask(prompt, defaultVal string) (string, error) {
	if defaultVal != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal, nil
	}
	if line == "-" {
		return "", nil
	}
	return line, nil
}

func (p *prompter) askBool(prompt string, defaultVal bool) (bool, error) {
	def := "n"
	if defaultVal {
		def = "y"
	}
	ans, err := p.ask(prompt+" (y/n)", def)
	if err != nil {
		return false, err
	}
	ans = strings.ToLower(ans)
	return ans == "y" || ans == "yes", nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
