package diary

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutrilog/server/internal/shared/storage"
	"go.uber.org/zap"
)

// CalorieGoalSource supplies the user's daily calorie target for the
// summary. A zero value means no goal is configured.
type CalorieGoalSource interface {
	DailyCalorieGoal(ctx context.Context, userID uuid.UUID) float64
}

// Service provides food and exercise diary operations.
type Service struct {
	repo      Repository
	photos    storage.PhotoStore
	goals     CalorieGoalSource
	logger    *zap.Logger
	photoTTL  time.Duration
	now       func() time.Time
}

// NewService creates a new diary service. photos and goals may be nil;
// photo uploads and goal lines in the summary are skipped then.
func NewService(repo Repository, photos storage.PhotoStore, goals CalorieGoalSource, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		photos:   photos,
		goals:    goals,
		logger:   logger,
		photoTTL: 15 * time.Minute,
		now:      time.Now,
	}
}

// LogFood records a food entry, storing the photo when one is attached.
func (s *Service) LogFood(ctx context.Context, userID uuid.UUID, req *LogFoodRequest) (*FoodEntry, error) {
	if !req.MealType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMealType, req.MealType)
	}

	loggedAt := req.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = s.now()
	}

	entry := &FoodEntry{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		MealType: req.MealType,
		LoggedAt: loggedAt,
	}

	if req.PhotoBase64 != "" {
		key, err := s.storePhoto(ctx, userID, entry.ID, req.PhotoBase64)
		if err != nil {
			return nil, err
		}
		entry.PhotoKey = key
	}

	if err := s.repo.CreateFood(ctx, entry); err != nil {
		return nil, fmt.Errorf("create food entry: %w", err)
	}
	return entry, nil
}

// DeleteFood removes a food entry and its stored photo.
func (s *Service) DeleteFood(ctx context.Context, userID, id uuid.UUID) error {
	entry, err := s.repo.GetFood(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteFood(ctx, userID, id); err != nil {
		return err
	}

	if entry.PhotoKey != "" && s.photos != nil {
		// The entry is gone either way; an orphaned photo is only noise
		if err := s.photos.Delete(ctx, entry.PhotoKey); err != nil {
			s.logger.Warn("delete meal photo failed",
				zap.String("photo_key", entry.PhotoKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

// LogExercise records an activity.
func (s *Service) LogExercise(ctx context.Context, userID uuid.UUID, req *LogExerciseRequest) (*ExerciseEntry, error) {
	loggedAt := req.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = s.now()
	}

	entry := &ExerciseEntry{
		ID:             uuid.New(),
		UserID:         userID,
		Activity:       strings.TrimSpace(req.Activity),
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
		LoggedAt:       loggedAt,
	}
	if err := s.repo.CreateExercise(ctx, entry); err != nil {
		return nil, fmt.Errorf("create exercise entry: %w", err)
	}
	return entry, nil
}

// DeleteExercise removes an activity entry.
func (s *Service) DeleteExercise(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteExercise(ctx, userID, id)
}

// Summary aggregates one calendar day of the diary against the user's
// calorie goal.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, day time.Time) (*DaySummary, error) {
	from := startOfDay(day)
	to := from.AddDate(0, 0, 1)

	foods, err := s.repo.ListFoodBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	exercises, err := s.repo.ListExerciseBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{
		Date:      from.Format("2006-01-02"),
		Foods:     make([]FoodEntryResponse, 0, len(foods)),
		Exercises: exercises,
	}
	if summary.Exercises == nil {
		summary.Exercises = []ExerciseEntry{}
	}

	for _, f := range foods {
		summary.CaloriesConsumed += f.Calories
		summary.Protein += f.Protein
		summary.Carbs += f.Carbs
		summary.Fat += f.Fat
		summary.Foods = append(summary.Foods, FoodEntryResponse{
			FoodEntry: f,
			PhotoURL:  s.photoURL(ctx, f.PhotoKey),
		})
	}
	for _, e := range exercises {
		summary.CaloriesBurned += e.CaloriesBurned
	}
	summary.NetCalories = summary.CaloriesConsumed - summary.CaloriesBurned

	if s.goals != nil {
		if goal := s.goals.DailyCalorieGoal(ctx, userID); goal > 0 {
			summary.CalorieGoal = goal
			summary.CaloriesLeft = goal - summary.NetCalories
		}
	}
	return summary, nil
}

// storePhoto decodes a base64 data URI and uploads it.
func (s *Service) storePhoto(ctx context.Context, userID, entryID uuid.UUID, payload string) (string, error) {
	if s.photos == nil {
		return "", nil
	}

	contentType := "image/jpeg"
	b64 := payload
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ";base64,")
		if idx < 0 {
			return "", ErrInvalidPhoto
		}
		contentType = payload[len("data:"):idx]
		b64 = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}

	key := fmt.Sprintf("meal-photos/%s/%s.jpg", userID, entryID)
	if err := s.photos.Put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("store meal photo: %w", err)
	}
	return key, nil
}

// photoURL resolves a storage key to a presigned URL, best effort.
func (s *Service) photoURL(ctx context.Context, key string) string {
	if key == "" || s.photos == nil {
		return ""
	}
	url, err := s.photos.PresignGet(ctx, key, s.photoTTL)
	if err != nil {
		s.logger.Warn("presign meal photo failed", zap.String("photo_key", key), zap.Error(err))
		return ""
	}
	return url
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
