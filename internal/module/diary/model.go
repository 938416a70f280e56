package diary

import (
	"time"

	"github.com/google/uuid"
)

// MealType slots a food entry into the day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// IsValid checks if the value is a known meal type.
func (m MealType) IsValid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	default:
		return false
	}
}

// FoodEntry is one logged food with its macros.
type FoodEntry struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"not null"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	MealType MealType  `json:"meal_type" gorm:"column:meal_type"`

	// Object storage key of the captured meal photo, empty when the
	// entry was logged without one.
	PhotoKey string `json:"photo_key,omitempty" gorm:"column:photo_key"`

	LoggedAt  time.Time `json:"logged_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (FoodEntry) TableName() string {
	return "food_entries"
}

// ExerciseEntry is one logged activity.
type ExerciseEntry struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Activity       string    `json:"activity" gorm:"not null"`
	DurationMin    int       `json:"duration_min"`
	CaloriesBurned float64   `json:"calories_burned"`
	LoggedAt       time.Time `json:"logged_at" gorm:"not null;index"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (ExerciseEntry) TableName() string {
	return "exercise_entries"
}
