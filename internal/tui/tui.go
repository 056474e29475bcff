// Package tui provides the Bubble Tea live view for earned watch.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/fakeyudi/earned/internal/accounting"
	"github.com/fakeyudi/earned/internal/clock"
	"github.com/fakeyudi/earned/internal/pause"
	"github.com/fakeyudi/earned/internal/report"
	"github.com/fakeyudi/earned/internal/tracker"
)

// ToastDuration is how long a milestone or action message stays visible.
const ToastDuration = 3 * time.Second

const decoyTitle = "main.go - vim"

// Tracker is the part of *tracker.Tracker the live view drives.
type Tracker interface {
	Tick(ctx context.Context, now time.Time) (tracker.TickResult, error)
	TogglePause(ctx context.Context) (pause.State, error)
	ToggleTheme(ctx context.Context) (bool, error)
	ResetDay(ctx context.Context) error
	CheckRollover(ctx context.Context) (bool, error)
	Reload(ctx context.Context) error
	Flush(ctx context.Context) error
}

// ── Messages ─────────────

type tickMsg time.Time

// rolloverMsg is sent by the midnight job.
type rolloverMsg struct{}

// reloadMsg is sent when another process rewrote the stored session.
type reloadMsg struct{}

type toast struct {
	text  string
	until time.Time
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the live view.
type Model struct {
	ctx      context.Context
	tr       Tracker
	clock    clock.Clock
	log      zerolog.Logger
	interval time.Duration
	currency string

	snap   accounting.Snapshot
	toasts []toast
	err    error

	hidden       bool // boss key
	confirmReset bool
	title        string

	keys     keyMap
	help     help.Model
	progress progress.Model
	width    int
}

// Config holds what New needs besides the tracker.
type Config struct {
	Clock    clock.Clock
	Interval time.Duration
	Currency string
	Log      zerolog.Logger
}

// New creates the live view model. ctx bounds every tracker call.
func New(ctx context.Context, tr Tracker, cfg Config) Model {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 250 * time.Millisecond
	}
	m := Model{
		ctx:      ctx,
		tr:       tr,
		clock:    cfg.Clock,
		log:      cfg.Log.With().Str("component", "tui").Logger(),
		interval: cfg.Interval,
		currency: cfg.Currency,
		keys:     defaultKeys(),
		help:     help.New(),
	}
	m.progress = m.newProgress(false)
	return m
}

func (m Model) newProgress(dark bool) progress.Model {
	th := themeFor(dark)
	p := progress.New(progress.WithGradient(th.gradientA, th.gradientB), progress.WithoutPercentage())
	p.Width = 40
	if m.width > 0 {
		p.Width = min(60, max(10, m.width-20))
	}
	return p
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	now := m.clock.Now()
	return func() tea.Msg { return tickMsg(now) }
}

func (m Model) tick() tea.Cmd {
	clk := m.clock
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg(clk.Now()) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		cmd := m.refresh(time.Time(msg))
		return m, tea.Batch(cmd, m.tick())

	case rolloverMsg:
		rolled, err := m.tr.CheckRollover(m.ctx)
		if err != nil {
			m.fail("rollover", err)
			return m, nil
		}
		now := m.clock.Now()
		if rolled {
			m.addToast("🌅 New day, earnings reset", now)
		}
		return m, m.refresh(now)

	case reloadMsg:
		if err := m.tr.Reload(m.ctx); err != nil {
			m.fail("reload", err)
			return m, nil
		}
		return m, m.refresh(m.clock.Now())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress = m.newProgress(m.snap.DarkMode)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.confirmReset {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmReset = false
			if err := m.tr.ResetDay(m.ctx); err != nil {
				m.fail("reset", err)
				return m, nil
			}
			now := m.clock.Now()
			m.addToast("Today's data has been reset", now)
			return m, m.refresh(now)
		case key.Matches(msg, m.keys.Cancel):
			m.confirmReset = false
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Boss) {
		m.hidden = !m.hidden
		m.title = ""
		return m, m.windowTitle()
	}
	if m.hidden {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Pause):
		state, err := m.tr.TogglePause(m.ctx)
		if err != nil {
			m.fail("pause", err)
			return m, nil
		}
		now := m.clock.Now()
		if state == pause.Paused {
			m.addToast("⏸ Paused", now)
		} else {
			m.addToast("▶ Resumed", now)
		}
		return m, m.refresh(now)

	case key.Matches(msg, m.keys.Theme):
		dark, err := m.tr.ToggleTheme(m.ctx)
		if err != nil {
			m.fail("theme", err)
			return m, nil
		}
		m.progress = m.newProgress(dark)
		return m, m.refresh(m.clock.Now())

	case key.Matches(msg, m.keys.Reset):
		m.confirmReset = true
	}
	return m, nil
}

// refresh recomputes the snapshot at now, queues toasts for fired
// milestones and drops expired ones.
func (m *Model) refresh(now time.Time) tea.Cmd {
	res, err := m.tr.Tick(m.ctx, now)
	if err != nil {
		// Tick still computed the snapshot when only the save failed.
		m.fail("tick", err)
	} else {
		m.err = nil
	}
	if !res.Snapshot.At.IsZero() {
		m.snap = res.Snapshot
	}
	if res.RolledOver {
		m.addToast("🌅 New day, earnings reset", now)
	}
	for _, f := range res.Fired {
		m.addToast(f.Message, now)
	}

	live := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.until) {
			live = append(live, t)
		}
	}
	m.toasts = live
	return m.windowTitle()
}

func (m *Model) addToast(text string, now time.Time) {
	m.toasts = append(m.toasts, toast{text: text, until: now.Add(ToastDuration)})
}

func (m *Model) fail(op string, err error) {
	m.err = err
	m.log.Error().Err(err).Str("op", op).Msg("Tracker operation failed")
}

// windowTitle returns a SetWindowTitle command when the title changed.
func (m *Model) windowTitle() tea.Cmd {
	title := report.Money(m.currency, m.snap.Earnings) + " - earned"
	if m.hidden {
		title = decoyTitle
	}
	if title == m.title {
		return nil
	}
	m.title = title
	return tea.SetWindowTitle(title)
}

// ── Views ────────────────────

func (m Model) View() string {
	if m.hidden {
		return m.viewDecoy()
	}

	th := themeFor(m.snap.DarkMode)
	var sb strings.Builder

	width := m.width
	if width <= 0 {
		width = 60
	}
	sb.WriteString(th.title.Width(width).Render("earned"))
	sb.WriteString("\n\n")

	sb.WriteString("  " + th.money.Render(report.Money(m.currency, m.snap.Earnings)) + "\n")
	sb.WriteString("  " + th.dim.Render("Rate "+report.Money(m.currency, m.snap.HourlyWage)+"/hour") + "\n\n")

	row := func(label, value string) {
		sb.WriteString(th.label.Render(fmt.Sprintf("  %-10s", label)) + "  " + th.value.Render(value) + "\n")
	}
	row("Worked", report.Clock(m.snap.Elapsed))
	row("Remaining", report.RemainingText(m.snap.Remaining))
	if m.snap.DailyGoal > 0 {
		row("Goal", report.Percent(m.snap.Progress)+" of "+report.Money(m.currency, m.snap.DailyGoal))
		sb.WriteString("  " + m.progress.ViewAs(m.snap.Progress/100) + "\n")
	} else {
		row("Goal", "not set")
	}

	state := th.running.Render("▶ running")
	if m.snap.State == pause.Paused {
		state = th.paused.Render("⏸ paused")
	}
	if m.snap.PausedFor > 0 {
		state += th.dim.Render("  (paused " + report.Clock(m.snap.PausedFor) + " today)")
	}
	row("State", state)

	if len(m.toasts) > 0 {
		sb.WriteString("\n")
		for _, t := range m.toasts {
			sb.WriteString("  " + th.toast.Render(t.text) + "\n")
		}
	}
	if m.err != nil {
		sb.WriteString("\n  " + th.errStyle.Render("error: "+m.err.Error()) + "\n")
	}

	sb.WriteString("\n")
	if m.confirmReset {
		sb.WriteString("  " + th.prompt.Render("Reset today's data? (y/n)") + "\n")
	} else {
		sb.WriteString("  " + m.help.View(m.keys) + "\n")
	}
	return sb.String()
}

func (m Model) viewDecoy() string {
	var lines []string
	for i, l := range decoyLines {
		lines = append(lines, decoyGutter.Render(fmt.Sprintf("%3d ", i+1))+strings.ReplaceAll(l, "\t", "    "))
	}
	width := m.width
	if width <= 0 {
		width = 60
	}
	lines = append(lines, "", decoyStatus.Width(width).Render("NORMAL  main.go  go  utf-8"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
