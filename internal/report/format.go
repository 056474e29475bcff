package report

import (
	"fmt"
	"time"

	"github.com/fakeyudi/earned/internal/accounting"
)

// Money formats amount with two decimals behind the currency symbol.
func Money(currency string, amount float64) string {
	return fmt.Sprintf("%s%.2f", currency, amount)
}

// Clock formats d as HH:MM:SS. Hours are not wrapped at 24.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// RemainingText renders the time-to-end output.
func RemainingText(r accounting.Remaining) string {
	switch r.Kind {
	case accounting.Counting:
		return Clock(r.Left)
	case accounting.Finished:
		return "Finished"
	default:
		return "--:--:--"
	}
}

// Percent formats progress with one decimal.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
