package recognition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeQuotaStore is an in-memory QuotaStore with injectable failures.
type fakeQuotaStore struct {
	state    QuotaState
	loadErr  error
	saveErr  error
	saveCall int
}

func (s *fakeQuotaStore) Load(ctx context.Context) (QuotaState, error) {
	if s.loadErr != nil {
		return QuotaState{}, s.loadErr
	}
	return s.state, nil
}

func (s *fakeQuotaStore) Save(ctx context.Context, state QuotaState) error {
	s.saveCall++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state = state
	return nil
}

func trackerAt(store QuotaStore, limit int, day time.Time) *QuotaTracker {
	t := NewQuotaTracker(store, limit)
	t.now = func() time.Time { return day }
	return t
}

func TestQuotaTracker_CheckAndMaybeReset(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("same date keeps the counter", func(t *testing.T) {
		store := &fakeQuotaStore{state: QuotaState{Date: "2025-03-14", Used: 7}}
		tracker := trackerAt(store, 50, day)

		state := tracker.CheckAndMaybeReset(ctx)
		assert.Equal(t, "2025-03-14", state.Date)
		assert.Equal(t, 7, state.Used)
		assert.Zero(t, store.saveCall)
	})

	t.Run("new date resets and persists", func(t *testing.T) {
		store := &fakeQuotaStore{state: QuotaState{Date: "2025-03-13", Used: 50}}
		tracker := trackerAt(store, 50, day)

		state := tracker.CheckAndMaybeReset(ctx)
		assert.Equal(t, "2025-03-14", state.Date)
		assert.Zero(t, state.Used)
		assert.Equal(t, QuotaState{Date: "2025-03-14", Used: 0}, store.state)
	})

	t.Run("empty store counts as a new day", func(t *testing.T) {
		store := &fakeQuotaStore{}
		tracker := trackerAt(store, 50, day)

		state := tracker.CheckAndMaybeReset(ctx)
		assert.Equal(t, "2025-03-14", state.Date)
		assert.Zero(t, state.Used)
	})

	t.Run("load failure fails open", func(t *testing.T) {
		store := &fakeQuotaStore{
			state:   QuotaState{Date: "2025-03-14", Used: 50},
			loadErr: errors.New("redis down"),
		}
		tracker := trackerAt(store, 50, day)

		state := tracker.CheckAndMaybeReset(ctx)
		assert.Equal(t, "2025-03-14", state.Date)
		assert.Zero(t, state.Used, "full quota must look available on load failure")
	})

	t.Run("save failure on reset is tolerated", func(t *testing.T) {
		store := &fakeQuotaStore{
			state:   QuotaState{Date: "2025-03-13", Used: 12},
			saveErr: errors.New("redis down"),
		}
		tracker := trackerAt(store, 50, day)

		state := tracker.CheckAndMaybeReset(ctx)
		assert.Zero(t, state.Used)
	})
}

func TestQuotaTracker_Increment(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("same day increments", func(t *testing.T) {
		store := &fakeQuotaStore{state: QuotaState{Date: "2025-03-14", Used: 3}}
		tracker := trackerAt(store, 50, day)

		tracker.Increment(ctx)
		assert.Equal(t, 4, store.state.Used)
	})

	t.Run("increment after a date change starts from zero", func(t *testing.T) {
		store := &fakeQuotaStore{state: QuotaState{Date: "2025-03-13", Used: 49}}
		tracker := trackerAt(store, 50, day)

		tracker.Increment(ctx)
		assert.Equal(t, QuotaState{Date: "2025-03-14", Used: 1}, store.state)
	})

	t.Run("store failures are swallowed", func(t *testing.T) {
		store := &fakeQuotaStore{saveErr: errors.New("redis down")}
		tracker := trackerAt(store, 50, day)

		assert.NotPanics(t, func() { tracker.Increment(ctx) })
	})
}

func TestQuotaTracker_Remaining(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		used     int
		limit    int
		expected int
	}{
		{name: "untouched", used: 0, limit: 50, expected: 50},
		{name: "partially used", used: 20, limit: 50, expected: 30},
		{name: "exhausted", used: 50, limit: 50, expected: 0},
		{name: "overrun clamps to zero", used: 55, limit: 50, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeQuotaStore{state: QuotaState{Date: "2025-03-14", Used: tt.used}}
			tracker := trackerAt(store, tt.limit, day)
			assert.Equal(t, tt.expected, tracker.Remaining(ctx))
		})
	}
}
