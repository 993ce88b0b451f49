// Package cooldown projects remaining wait times for rate-limited actions.
// It holds no timers of its own: remaining time is a pure function of the
// server-reported last-action timestamp and the wall clock, so the display is
// only as fresh as the last poll. That coarseness is intentional.
package cooldown

import (
	"fmt"
	"time"
)

// Durations the server enforces.
const (
	ItemForge = 60 * time.Second
	TokenMine = 600 * time.Second
)

// Remaining returns the wait left before the action is allowed again,
// ceiling-rounded to whole seconds, or 0 when the cooldown has elapsed.
// lastAction is the server-reported unix-seconds timestamp.
func Remaining(now time.Time, lastAction int64, duration time.Duration) time.Duration {
	elapsed := now.Sub(time.Unix(lastAction, 0))
	remaining := duration - elapsed
	if remaining <= 0 {
		return 0
	}
	// Round up so "0.2s left" still reads as 1s rather than ready.
	return remaining.Truncate(time.Second) + boundary(remaining)
}

func boundary(d time.Duration) time.Duration {
	if d%time.Second == 0 {
		return 0
	}
	return time.Second
}

// Format renders a remaining duration as "2m 30s" or "45s". Zero means ready
// and renders empty: no cooldown message is shown once the wait has elapsed.
func Format(remaining time.Duration) string {
	if remaining <= 0 {
		return ""
	}
	secs := int(remaining / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
