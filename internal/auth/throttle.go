package auth

import (
	"context"
	"fmt"
	"time"
)

// AttemptCounter is the slice of Repository the throttle needs.
type AttemptCounter interface {
	CountRecentFailures(ctx context.Context, username string, since time.Time) (int64, error)
}

// Throttle decides lockout from the attempt log alone: a username is locked
// while the count of failed attempts inside the trailing window reaches the
// maximum. The window slides with the clock, so the lock releases as soon as
// the oldest qualifying failure ages out, with no per-user unlock timestamp to
// keep consistent.
type Throttle struct {
	attempts AttemptCounter
	max      int
	window   time.Duration
	now      func() time.Time
}

func NewThrottle(attempts AttemptCounter, max int, window time.Duration) *Throttle {
	return &Throttle{
		attempts: attempts,
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// IsLockedOut reports whether username is currently locked. Lockout is
// username-scoped; source addresses are recorded for audit but never gate.
func (t *Throttle) IsLockedOut(ctx context.Context, username string) (bool, error) {
	since := t.now().Add(-t.window)
	count, err := t.attempts.CountRecentFailures(ctx, username, since)
	if err != nil {
		return false, fmt.Errorf("count recent failures: %w", err)
	}
	return count >= int64(t.max), nil
}

// Max returns the configured failure threshold.
func (t *Throttle) Max() int {
	return t.max
}

// Window returns the configured sliding window.
func (t *Throttle) Window() time.Duration {
	return t.window
}
