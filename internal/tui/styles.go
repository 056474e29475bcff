package tui

import "github.com/charmbracelet/lipgloss"

// theme is one palette. darkMode in the session picks between the two.
type theme struct {
	title    lipgloss.Style
	money    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	dim      lipgloss.Style
	toast    lipgloss.Style
	prompt   lipgloss.Style
	errStyle lipgloss.Style
	paused   lipgloss.Style
	running  lipgloss.Style

	gradientA, gradientB string
}

var lightTheme = theme{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("27")).
		Padding(0, 2),
	money: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("28")),
	label:    lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
	value:    lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
	dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	toast:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("34")).Padding(0, 1),
	prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("166")).Padding(0, 1),
	errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	paused:   lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Bold(true),
	running:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),

	gradientA: "#3B82F6",
	gradientB: "#10B981",
}

var darkTheme = theme{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 2),
	money: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")),
	label:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	value:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	toast:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("29")).Padding(0, 1),
	prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("130")).Padding(0, 1),
	errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	paused:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	running:  lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),

	gradientA: "#6366F1",
	gradientB: "#22D3EE",
}

func themeFor(dark bool) theme {
	if dark {
		return darkTheme
	}
	return lightTheme
}

// decoy is shown while the boss key is active.
var decoyLines = []string{
	"package main",
	"",
	"import (",
	"\t\"fmt\"",
	"\t\"os\"",
	")",
	"",
	"func main() {",
	"\tif err := run(os.Args[1:]); err != nil {",
	"\t\tfmt.Fprintln(os.Stderr, err)",
	"\t\tos.Exit(1)",
	"\t}",
	"}",
}

var (
	decoyGutter = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	decoyStatus = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)
