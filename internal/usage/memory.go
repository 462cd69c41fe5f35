package usage

import (
	"context"
	"sync"
	"time"

	"github.com/shopsleuth/engine/internal/domain"
)

// MemoryTracker keeps quota counts in process memory. Suitable for a single
// instance and for tests; multi-instance deployments need the Redis tracker.
type MemoryTracker struct {
	mu    sync.Mutex
	users map[string]*dayCount
	limit int
	now   func() time.Time
}

type dayCount struct {
	day   string
	count int
}

// NewMemoryTracker builds an in-memory tracker. A limit of Unlimited
// disables enforcement.
func NewMemoryTracker(limit int) *MemoryTracker {
	return &MemoryTracker{
		users: make(map[string]*dayCount),
		limit: limit,
		now:   time.Now,
	}
}

func (t *MemoryTracker) CheckAndIncrement(_ context.Context, userID string) (int, error) {
	if t.limit == Unlimited {
		return Unlimited, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entryLocked(userID)
	if entry.count >= t.limit {
		return 0, domain.ErrQuotaExceeded
	}

	entry.count++
	return t.limit - entry.count, nil
}

func (t *MemoryTracker) Remaining(_ context.Context, userID string) (int, error) {
	if t.limit == Unlimited {
		return Unlimited, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	remaining := t.limit - t.entryLocked(userID).count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// entryLocked returns the user's counter for the current UTC day, resetting
// any stale counter from a previous day. Caller must hold the mutex.
func (t *MemoryTracker) entryLocked(userID string) *dayCount {
	day := t.now().UTC().Format("2006-01-02")
	entry, ok := t.users[userID]
	if !ok || entry.day != day {
		entry = &dayCount{day: day}
		t.users[userID] = entry
	}
	return entry
}
