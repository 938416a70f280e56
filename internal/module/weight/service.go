package weight

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeriesPoint is a single chart data point. Weight is nil for days
// without a measurement so the chart can render gaps.
type SeriesPoint struct {
	Day      string   `json:"day"`
	WeightKg *float64 `json:"weight_kg"`
}

// WeekPoint aggregates a calendar week of measurements.
type WeekPoint struct {
	WeekStart string  `json:"week_start"`
	AverageKg float64 `json:"average_kg"`
	MinKg     float64 `json:"min_kg"`
	MaxKg     float64 `json:"max_kg"`
	Count     int     `json:"count"`
}

// Service provides weight history operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new weight service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Add records a weight measurement.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, weightKg float64, recordedAt time.Time) (*Entry, error) {
	if weightKg < 10 || weightKg > 400 {
		return nil, ErrImplausibleWeight
	}
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	entry := &Entry{
		ID:         uuid.New(),
		UserID:     userID,
		WeightKg:   weightKg,
		RecordedAt: recordedAt,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create weight entry: %w", err)
	}

	s.logger.Debug("weight recorded",
		zap.String("user_id", userID.String()),
		zap.Float64("weight_kg", weightKg),
	)
	return entry, nil
}

// List returns the most recent measurements, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListRecent(ctx, userID, limit)
}

// Delete removes a measurement owned by the user.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// DailySeries returns one point per calendar day for the last days days.
// Days with several measurements keep the latest one.
func (s *Service) DailySeries(ctx context.Context, userID uuid.UUID, days int) ([]SeriesPoint, error) {
	if days <= 0 {
		days = 30
	}
	if days > 366 {
		days = 366
	}

	today := s.now()
	from := startOfDay(today.AddDate(0, 0, -(days - 1)))

	entries, err := s.repo.ListBetween(ctx, userID, from, startOfDay(today).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	// Entries arrive oldest first, so the last write per day wins
	latest := make(map[string]float64, len(entries))
	for _, e := range entries {
		latest[e.Day()] = e.WeightKg
	}

	points := make([]SeriesPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		point := SeriesPoint{Day: day}
		if v, ok := latest[day]; ok {
			w := v
			point.WeightKg = &w
		}
		points = append(points, point)
	}
	return points, nil
}

// WeeklySeries aggregates the last weeks calendar weeks (Monday start).
// Weeks without measurements are omitted.
func (s *Service) WeeklySeries(ctx context.Context, userID uuid.UUID, weeks int) ([]WeekPoint, error) {
	if weeks <= 0 {
		weeks = 12
	}
	if weeks > 52 {
		weeks = 52
	}

	today := s.now()
	from := startOfWeek(today).AddDate(0, 0, -7*(weeks-1))

	entries, err := s.repo.ListBetween(ctx, userID, from, startOfDay(today).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sum, min, max float64
		count         int
	}
	buckets := map[string]*bucket{}

	for _, e := range entries {
		week := startOfWeek(e.RecordedAt).Format("2006-01-02")
		b, ok := buckets[week]
		if !ok {
			b = &bucket{min: e.WeightKg, max: e.WeightKg}
			buckets[week] = b
		}
		b.sum += e.WeightKg
		b.count++
		if e.WeightKg < b.min {
			b.min = e.WeightKg
		}
		if e.WeightKg > b.max {
			b.max = e.WeightKg
		}
	}

	// Week-start date strings sort chronologically
	keys := make([]string, 0, len(buckets))
	for week := range buckets {
		keys = append(keys, week)
	}
	sort.Strings(keys)

	points := make([]WeekPoint, 0, len(keys))
	for _, week := range keys {
		b := buckets[week]
		points = append(points, WeekPoint{
			WeekStart: week,
			AverageKg: b.sum / float64(b.count),
			MinKg:     b.min,
			MaxKg:     b.max,
			Count:     b.count,
		})
	}
	return points, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday as week start
	return day.AddDate(0, 0, -offset)
}
