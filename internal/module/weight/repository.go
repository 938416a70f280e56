package weight

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for weight entry data access.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error)
	ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Entry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new weight repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *repository) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from, to).
		Order("recorded_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Entry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
