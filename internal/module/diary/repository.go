package diary

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for diary data access.
type Repository interface {
	CreateFood(ctx context.Context, entry *FoodEntry) error
	ListFoodBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]FoodEntry, error)
	GetFood(ctx context.Context, userID, id uuid.UUID) (*FoodEntry, error)
	DeleteFood(ctx context.Context, userID, id uuid.UUID) error

	CreateExercise(ctx context.Context, entry *ExerciseEntry) error
	ListExerciseBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ExerciseEntry, error)
	DeleteExercise(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new diary repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFood(ctx context.Context, entry *FoodEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListFoodBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]FoodEntry, error) {
	var entries []FoodEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) GetFood(ctx context.Context, userID, id uuid.UUID) (*FoodEntry, error) {
	var entry FoodEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) DeleteFood(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&FoodEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repository) CreateExercise(ctx context.Context, entry *ExerciseEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListExerciseBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ExerciseEntry, error) {
	var entries []ExerciseEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) DeleteExercise(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&ExerciseEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
