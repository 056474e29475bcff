package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fakeyudi/earned/internal/clock"
	"github.com/fakeyudi/earned/internal/session"
	"github.com/fakeyudi/earned/internal/storage"
)

// executeCommand runs root with args and returns combined stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	return executeWithInput(root, "", args...)
}

func executeWithInput(root *cobra.Command, input string, args ...string) (string, error) {
	resetFlags(root)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return buf.String(), err
}

// resetFlags restores every flag to its default so values do not leak
// between executions of the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

var testStart = time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

// setupEnv isolates config and data directories and installs a fake clock.
func setupEnv(t *testing.T) (dataHome string, clk *clock.Fake) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	for _, k := range []string{"EARNED_STORE", "EARNED_DATA_DIR", "EARNED_LOG_LEVEL", "EARNED_CURRENCY", "EARNED_TICK_INTERVAL_MS", "EARNED_SAVE_DEBOUNCE_MS", "EARNED_ROLLOVER_AT_MIDNIGHT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	clk = clock.NewFake(testStart)
	prevNow, prevInteractive := now, isInteractive
	now = clk
	isInteractive = func() bool { return false }
	t.Cleanup(func() {
		now, isInteractive = prevNow, prevInteractive
	})
	return filepath.Join(tmp, "data"), clk
}

func storedSession(t *testing.T, dataHome string) *session.WorkSession {
	t.Helper()
	kv, err := storage.NewFileKV(filepath.Join(dataHome, "earned"))
	require.NoError(t, err)
	s, _, err := session.NewStore(kv).Load(context.Background())
	require.NoError(t, err)
	return s
}

func TestStatusOnFirstRun(t *testing.T) {
	dataHome, _ := setupEnv(t)

	out, err := executeCommand(rootCmd, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Earned:    ¥0.00")
	assert.Contains(t, out, "Remaining: --:--:--")
	assert.Contains(t, out, "Goal:      not set")

	assert.FileExists(t, filepath.Join(dataHome, "earned", "earningsTracker.json"))
}

func TestSetThenStatusJSON(t *testing.T) {
	setupEnv(t)

	out, err := executeCommand(rootCmd, "set", "--wage", "60", "--goal", "480", "--start", "09:00", "--end", "17:00")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Settings saved.")

	out, err = executeCommand(rootCmd, "status", "--format", "json")
	require.NoError(t, err, out)
	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &st), out)
	assert.Equal(t, 60.0, st["earnings"])
	assert.Equal(t, "counting", st["remaining"])
	assert.Equal(t, 25200.0, st["remainingSeconds"])
	assert.Equal(t, 12.5, st["progress"])
	assert.Equal(t, []any{"☕ Coffee money earned!"}, st["milestonesReached"])

	out, err = executeCommand(rootCmd, "status", "-f", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "milestonesReached", "milestone fires once per day")
}

func TestSetOnlyChangesPassedFlags(t *testing.T) {
	dataHome, _ := setupEnv(t)

	_, err := executeCommand(rootCmd, "set", "--wage", "60", "--start", "09:00")
	require.NoError(t, err)
	_, err = executeCommand(rootCmd, "set", "--goal", "300")
	require.NoError(t, err)

	s := storedSession(t, dataHome)
	assert.Equal(t, 60.0, s.HourlyWage)
	assert.Equal(t, 300.0, s.DailyGoal)
	require.NotNil(t, s.StartTime)
	assert.Equal(t, "09:00", s.StartTime.String())
}

func TestSetCoercesBadInput(t *testing.T) {
	dataHome, _ := setupEnv(t)

	out, err := executeCommand(rootCmd, "set", "--wage", "abc", "--end", "9pm")
	require.NoError(t, err)
	assert.Contains(t, out, `warning: hourlyWage "abc" is not valid, saved as 0`)
	assert.Contains(t, out, `warning: endTime "9pm" is not valid, saved as unset`)

	s := storedSession(t, dataHome)
	assert.Zero(t, s.HourlyWage)
	assert.Nil(t, s.EndTime)
}

func TestSetWithoutFlagsFails(t *testing.T) {
	setupEnv(t)
	_, err := executeCommand(rootCmd, "set")
	assert.ErrorContains(t, err, "nothing to set")
}

func TestPauseTogglesAndAccumulates(t *testing.T) {
	_, clk := setupEnv(t)

	out, err := executeCommand(rootCmd, "pause")
	require.NoError(t, err)
	assert.Contains(t, out, "⏸ Paused.")

	clk.Advance(5 * time.Minute)
	out, err = executeCommand(rootCmd, "pause")
	require.NoError(t, err)
	assert.Contains(t, out, "▶ Resumed.")
	assert.Contains(t, out, "Paused today: 00:05:00")
}

func TestResetRequiresConfirmation(t *testing.T) {
	dataHome, _ := setupEnv(t)
	_, err := executeCommand(rootCmd, "pause")
	require.NoError(t, err)

	_, err = executeCommand(rootCmd, "reset")
	assert.ErrorContains(t, err, "--yes")

	isInteractive = func() bool { return true }
	out, err := executeWithInput(rootCmd, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset cancelled.")
	assert.True(t, storedSession(t, dataHome).Paused)

	out, err = executeWithInput(rootCmd, "y\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Today's data has been reset")
	assert.False(t, storedSession(t, dataHome).Paused)
}

func TestResetWithYes(t *testing.T) {
	setupEnv(t)
	out, err := executeCommand(rootCmd, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Today's data has been reset")
}

func TestThemeToggles(t *testing.T) {
	setupEnv(t)
	out, err := executeCommand(rootCmd, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "Dark mode on.")
	out, err = executeCommand(rootCmd, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "Dark mode off.")
}

func TestMilestoneCommands(t *testing.T) {
	setupEnv(t)

	out, err := executeCommand(rootCmd, "milestone", "add", "300", "🍕", "Pizza", "night")
	require.NoError(t, err, out)
	assert.Contains(t, out, "¥300.00")

	_, err = executeCommand(rootCmd, "milestone", "remove", "500")
	require.NoError(t, err)

	out, err = executeCommand(rootCmd, "milestone", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "🍕 Pizza night")
	assert.Contains(t, out, "☕ Coffee money earned!")
	assert.NotContains(t, out, "Small goal reached")
	assert.Less(t, strings.Index(out, "Commute"), strings.Index(out, "Pizza"), "sorted by amount")

	_, err = executeCommand(rootCmd, "milestone", "remove", "999")
	assert.ErrorContains(t, err, "no milestone")
	_, err = executeCommand(rootCmd, "milestone", "add", "0", "x")
	assert.ErrorContains(t, err, "invalid amount")
}

func TestSetupPromptsWithCurrentValues(t *testing.T) {
	dataHome, _ := setupEnv(t)
	_, err := executeCommand(rootCmd, "set", "--wage", "50")
	require.NoError(t, err)

	out, err := executeWithInput(rootCmd, "\n360\n08:30\n17:30\ny\n", "setup")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Hourly wage [50]:")
	assert.Contains(t, out, "Setup complete.")

	s := storedSession(t, dataHome)
	assert.Equal(t, 50.0, s.HourlyWage)
	assert.Equal(t, 360.0, s.DailyGoal)
	assert.Equal(t, "08:30", s.StartTime.String())
	assert.Equal(t, "17:30", s.EndTime.String())
	assert.True(t, s.DarkMode)
}

func TestWatchPlainPrintsLines(t *testing.T) {
	setupEnv(t)
	_, err := executeCommand(rootCmd, "set", "--wage", "60", "--start", "09:00")
	require.NoError(t, err)

	out, err := executeCommand(rootCmd, "watch", "--every", "10ms", "--duration", "80ms")
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], "¥60.00")
	assert.Contains(t, lines[0], "worked 01:00:00")
	assert.Contains(t, out, "🎯 ☕ Coffee money earned!")
}

func TestSQLiteStoreFlag(t *testing.T) {
	dataHome, _ := setupEnv(t)

	_, err := executeCommand(rootCmd, "--store", "sqlite", "set", "--wage", "30", "--start", "09:00")
	require.NoError(t, err)
	out, err := executeCommand(rootCmd, "--store", "sqlite", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Earned:    ¥30.00")

	assert.FileExists(t, filepath.Join(dataHome, "earned", "earned.db"))
	assert.NoFileExists(t, filepath.Join(dataHome, "earned", "earningsTracker.json"))
}

func TestDataDirFlag(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	_, err := executeCommand(rootCmd, "--data-dir", dir, "theme")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "earningsTracker.json"))
}

// Feature: earned, Property 1: status reports wage times worked hours
func TestStatusEarningsProperty(t *testing.T) {
	setupEnv(t)

	rapid.Check(t, func(rt *rapid.T) {
		wage := rapid.IntRange(0, 500).Draw(rt, "wage")
		minutes := rapid.IntRange(0, 600).Draw(rt, "minutes")
		start := testStart.Add(-time.Duration(minutes) * time.Minute)
		dir := t.TempDir()

		_, err := executeCommand(rootCmd, "--data-dir", dir, "set",
			"--wage", fmt.Sprint(wage), "--start", start.Format("15:04"))
		if err != nil {
			rt.Fatalf("set: %v", err)
		}
		out, err := executeCommand(rootCmd, "--data-dir", dir, "status", "--format", "json")
		if err != nil {
			rt.Fatalf("status: %v", err)
		}
		var st struct {
			Earnings float64 `json:"earnings"`
		}
		if err := json.Unmarshal([]byte(out), &st); err != nil {
			rt.Fatalf("decode %q: %v", out, err)
		}
		want := float64(wage) * float64(minutes) / 60
		if math.Abs(st.Earnings-want) > 0.006 {
			rt.Fatalf("earnings: want %.2f, got %.2f", want, st.Earnings)
		}
	})
}
