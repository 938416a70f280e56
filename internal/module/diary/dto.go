package diary

import "time"

// LogFoodRequest records a food entry. Macros usually come straight
// from a recognition result the client confirmed.
type LogFoodRequest struct {
	Name     string   `json:"name" binding:"required"`
	Calories float64  `json:"calories" binding:"gte=0"`
	Protein  float64  `json:"protein" binding:"gte=0"`
	Carbs    float64  `json:"carbs" binding:"gte=0"`
	Fat      float64  `json:"fat" binding:"gte=0"`
	MealType MealType `json:"meal_type" binding:"required"`

	// Optional captured meal photo as a base64 data URI
	PhotoBase64 string `json:"photo_base64,omitempty"`

	LoggedAt time.Time `json:"logged_at,omitempty"`
}

// LogExerciseRequest records an activity.
type LogExerciseRequest struct {
	Activity       string    `json:"activity" binding:"required"`
	DurationMin    int       `json:"duration_min" binding:"required,gt=0"`
	CaloriesBurned float64   `json:"calories_burned" binding:"gte=0"`
	LoggedAt       time.Time `json:"logged_at,omitempty"`
}

// FoodEntryResponse is a food entry with a resolved photo URL.
type FoodEntryResponse struct {
	FoodEntry
	PhotoURL string `json:"photo_url,omitempty"`
}

// DaySummary aggregates one calendar day of the diary.
type DaySummary struct {
	Date             string              `json:"date"`
	CaloriesConsumed float64             `json:"calories_consumed"`
	CaloriesBurned   float64             `json:"calories_burned"`
	NetCalories      float64             `json:"net_calories"`
	Protein          float64             `json:"protein"`
	Carbs            float64             `json:"carbs"`
	Fat              float64             `json:"fat"`
	CalorieGoal      float64             `json:"calorie_goal,omitempty"`
	CaloriesLeft     float64             `json:"calories_left,omitempty"`
	Foods            []FoodEntryResponse `json:"foods"`
	Exercises        []ExerciseEntry     `json:"exercises"`
}
