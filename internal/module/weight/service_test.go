package weight

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRepository is an in-memory Repository for tests.
type memRepository struct {
	entries []Entry
}

func (r *memRepository) Create(ctx context.Context, entry *Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error) {
	var out []Entry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *memRepository) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries {
		if e.UserID == userID && !e.RecordedAt.Before(from) && e.RecordedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	for i, e := range r.entries {
		if e.ID == id && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

func newTestService(now time.Time) (*Service, *memRepository) {
	repo := &memRepository{}
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("records an entry", func(t *testing.T) {
		svc, repo := newTestService(now)

		entry, err := svc.Add(ctx, userID, 81.5, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, 81.5, entry.WeightKg)
		assert.Equal(t, now, entry.RecordedAt, "zero recorded_at defaults to now")
		assert.Len(t, repo.entries, 1)
	})

	t.Run("rejects implausible values", func(t *testing.T) {
		svc, _ := newTestService(now)

		_, err := svc.Add(ctx, userID, 5, time.Time{})
		assert.ErrorIs(t, err, ErrImplausibleWeight)

		_, err = svc.Add(ctx, userID, 500, time.Time{})
		assert.ErrorIs(t, err, ErrImplausibleWeight)
	})
}

func TestService_DailySeries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	userID := uuid.New()

	svc, _ := newTestService(now)

	// Two measurements on the same day, one two days earlier
	_, err := svc.Add(ctx, userID, 82.0, now.AddDate(0, 0, -2))
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, 81.2, now.Add(-6*time.Hour))
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, 81.0, now.Add(-1*time.Hour))
	require.NoError(t, err)

	points, err := svc.DailySeries(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "2025-03-12", points[0].Day)
	require.NotNil(t, points[0].WeightKg)
	assert.Equal(t, 82.0, *points[0].WeightKg)

	assert.Equal(t, "2025-03-13", points[1].Day)
	assert.Nil(t, points[1].WeightKg, "days without entries render as gaps")

	assert.Equal(t, "2025-03-14", points[2].Day)
	require.NotNil(t, points[2].WeightKg)
	assert.Equal(t, 81.0, *points[2].WeightKg, "latest measurement of the day wins")
}

func TestService_WeeklySeries(t *testing.T) {
	ctx := context.Background()
	// A Friday
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	svc, _ := newTestService(now)

	// Current week (starts Monday 2025-03-10)
	_, err := svc.Add(ctx, userID, 80.0, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, 82.0, time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Previous week
	_, err = svc.Add(ctx, userID, 83.0, time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	points, err := svc.WeeklySeries(ctx, userID, 4)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2025-03-03", points[0].WeekStart)
	assert.Equal(t, 83.0, points[0].AverageKg)
	assert.Equal(t, 1, points[0].Count)

	assert.Equal(t, "2025-03-10", points[1].WeekStart)
	assert.InDelta(t, 81.0, points[1].AverageKg, 0.001)
	assert.Equal(t, 80.0, points[1].MinKg)
	assert.Equal(t, 82.0, points[1].MaxKg)
	assert.Equal(t, 2, points[1].Count)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	userID := uuid.New()

	svc, _ := newTestService(now)
	entry, err := svc.Add(ctx, userID, 80, time.Time{})
	require.NoError(t, err)

	t.Run("other users cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, uuid.New(), entry.ID)
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, userID, entry.ID))

		entries, err := svc.List(ctx, userID, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
