package recognition

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuotaStore persists the daily quota counter as two scalar entries:
// a date string and a used count.
type QuotaStore interface {
	Load(ctx context.Context) (QuotaState, error)
	Save(ctx context.Context, state QuotaState) error
}

const (
	quotaDateKey = "recognition:quota:date"
	quotaUsedKey = "recognition:quota:used"
)

type redisQuotaStore struct {
	client redis.UniversalClient
}

// NewRedisQuotaStore persists quota state in Redis.
func NewRedisQuotaStore(client redis.UniversalClient) QuotaStore {
	return &redisQuotaStore{client: client}
}

func (s *redisQuotaStore) Load(ctx context.Context) (QuotaState, error) {
	vals, err := s.client.MGet(ctx, quotaDateKey, quotaUsedKey).Result()
	if err != nil {
		return QuotaState{}, err
	}

	var state QuotaState
	if d, ok := vals[0].(string); ok {
		state.Date = d
	}
	if u, ok := vals[1].(string); ok {
		if n, err := strconv.Atoi(u); err == nil {
			state.Used = n
		}
	}
	return state, nil
}

func (s *redisQuotaStore) Save(ctx context.Context, state QuotaState) error {
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, quotaDateKey, state.Date, 0)
		pipe.Set(ctx, quotaUsedKey, strconv.Itoa(state.Used), 0)
		return nil
	})
	return err
}

// QuotaTracker gates how many provider calls may happen per calendar
// day. Comparison is by date string, not a rolling window: the first
// touch on a new day resets the counter. Storage failures fail open so a
// transient Redis hiccup never blocks recognition outright.
//
// The read-check-increment sequence is not atomic; concurrent calls can
// miscount slightly, which is acceptable for a self-imposed soft cap.
type QuotaTracker struct {
	store QuotaStore
	limit int
	now   func() time.Time
}

// NewQuotaTracker creates a tracker with the given daily limit.
func NewQuotaTracker(store QuotaStore, limit int) *QuotaTracker {
	return &QuotaTracker{
		store: store,
		limit: limit,
		now:   time.Now,
	}
}

// today formats the current calendar date.
func (t *QuotaTracker) today() string {
	return t.now().Format("2006-01-02")
}

// CheckAndMaybeReset returns the current quota state, resetting the
// counter when the stored date is not today.
func (t *QuotaTracker) CheckAndMaybeReset(ctx context.Context) QuotaState {
	today := t.today()

	state, err := t.store.Load(ctx)
	if err != nil {
		// Fail open: treat the full quota as available
		return QuotaState{Date: today, Used: 0}
	}

	if state.Date != today {
		state = QuotaState{Date: today, Used: 0}
		// Best effort; a failed save is retried implicitly on the next call
		_ = t.store.Save(ctx, state)
	}

	return state
}

// Increment records one consumed quota unit. Errors are swallowed; the
// tracker fails open.
func (t *QuotaTracker) Increment(ctx context.Context) {
	state := t.CheckAndMaybeReset(ctx)
	state.Used++
	_ = t.store.Save(ctx, state)
}

// Remaining returns how many calls are left today, clamped to
// [0, limit].
func (t *QuotaTracker) Remaining(ctx context.Context) int {
	state := t.CheckAndMaybeReset(ctx)
	remaining := t.limit - state.Used
	if remaining < 0 {
		return 0
	}
	if remaining > t.limit {
		return t.limit
	}
	return remaining
}

// Limit returns the configured daily limit.
func (t *QuotaTracker) Limit() int {
	return t.limit
}
