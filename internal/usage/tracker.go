// Package usage enforces the per-user daily analysis quota. Quota windows
// are UTC calendar days; the count resets at midnight UTC.
package usage

import (
	"context"
	"time"
)

// Unlimited disables quota enforcement for a tracker.
const Unlimited = -1

// DefaultDailyLimit is the shipped per-user allowance.
const DefaultDailyLimit = 50

// Tracker counts analysis runs per user per day.
type Tracker interface {
	// CheckAndIncrement atomically consumes one run if the user has quota
	// left. It returns the remaining allowance after the increment, or
	// domain.ErrQuotaExceeded when the user is already at the limit.
	CheckAndIncrement(ctx context.Context, userID string) (remaining int, err error)

	// Remaining reports the allowance left without consuming any.
	Remaining(ctx context.Context, userID string) (int, error)
}

// dayKey buckets a user into the current UTC calendar day.
func dayKey(userID string, now time.Time) string {
	return userID + ":" + now.UTC().Format("2006-01-02")
}

// untilMidnightUTC returns the remaining lifetime of the current window.
func untilMidnightUTC(now time.Time) time.Duration {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return midnight.Sub(now)
}
