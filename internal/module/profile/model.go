package profile

import (
	"time"

	"github.com/google/uuid"
)

// Sex is the biological sex used by the energy formulas.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// IsValid checks if the value is a known sex.
func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

// ActivityLevel classifies weekly exercise volume.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"   // Little or no exercise
	ActivityLight      ActivityLevel = "light"       // 1-3 days/week
	ActivityModerate   ActivityLevel = "moderate"    // 3-5 days/week
	ActivityActive     ActivityLevel = "active"      // 6-7 days/week
	ActivityVeryActive ActivityLevel = "very_active" // Physical job or twice daily
)

// Multiplier returns the TDEE activity factor.
func (a ActivityLevel) Multiplier() float64 {
	switch a {
	case ActivitySedentary:
		return 1.2
	case ActivityLight:
		return 1.375
	case ActivityModerate:
		return 1.55
	case ActivityActive:
		return 1.725
	case ActivityVeryActive:
		return 1.9
	default:
		return 0
	}
}

// IsValid checks if the value is a known activity level.
func (a ActivityLevel) IsValid() bool {
	return a.Multiplier() > 0
}

// Goal is the user's weight objective.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// IsValid checks if the value is a known goal.
func (g Goal) IsValid() bool {
	switch g {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	default:
		return false
	}
}

// CalorieAdjustment returns the daily kcal offset applied to TDEE.
func (g Goal) CalorieAdjustment() float64 {
	switch g {
	case GoalLose:
		return -500
	case GoalGain:
		return 500
	default:
		return 0
	}
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// Profile holds the body metrics the energy formulas need.
type Profile struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	HeightCm      float64       `json:"height_cm"`
	WeightKg      float64       `json:"weight_kg"`
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	ActivityLevel ActivityLevel `json:"activity_level" gorm:"column:activity_level"`
	Goal          Goal          `json:"goal"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName returns the database table name.
func (Profile) TableName() string {
	return "profiles"
}

// IsComplete reports whether every field the energy formulas need is set.
func (p *Profile) IsComplete() bool {
	return p.HeightCm > 0 && p.WeightKg > 0 && p.Age > 0 &&
		p.Sex.IsValid() && p.ActivityLevel.IsValid() && p.Goal.IsValid()
}
