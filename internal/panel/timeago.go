package panel

import (
	"fmt"
	"time"
)

// TimeAgo renders a timestamp relative to now. Buckets are half-open on the
// lower bound: exactly 60 minutes is "1h ago", not "60m ago". Anything a
// week old or older falls back to the calendar date.
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed/time.Hour))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed/(24*time.Hour)))
	default:
		return t.Format("Jan 2, 2006")
	}
}
