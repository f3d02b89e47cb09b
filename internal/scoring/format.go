package scoring

import (
	"fmt"
	"math"
	"time"
)

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// humanizeDuration renders |d| as minutes under an hour, hours under two days,
// and whole days beyond that.
func humanizeDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Hour:
		return plural(max(1, int(d.Minutes())), "minute")
	case d < 48*time.Hour:
		return plural(max(1, int(math.Round(d.Hours()))), "hour")
	default:
		return plural(int(math.Round(d.Hours()/24)), "day")
	}
}

func timeRemaining(until time.Duration) string {
	switch {
	case until < 0:
		return "Overdue by " + humanizeDuration(until)
	case until < time.Hour:
		return "Due in " + humanizeDuration(until)
	default:
		return humanizeDuration(until) + " left"
	}
}

func wholeDays(d time.Duration) int {
	return int(d / day)
}
