package weight

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents a single weight measurement.
type Entry struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	WeightKg   float64   `json:"weight_kg" gorm:"not null"`
	RecordedAt time.Time `json:"recorded_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Entry) TableName() string {
	return "weight_entries"
}

// Day formats the measurement's calendar day.
func (e *Entry) Day() string {
	return e.RecordedAt.Format("2006-01-02")
}
