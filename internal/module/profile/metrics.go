package profile

import "errors"

// EnergyMetrics is the computed output of the body-metric formulas.
type EnergyMetrics struct {
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
	BMI              float64 `json:"bmi"`
	BMICategory      string  `json:"bmi_category"`
	DailyCalorieGoal float64 `json:"daily_calorie_goal"`
}

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0 // to meters
	return weightKg / (h * h), nil
}

// BMICategory maps a BMI value onto the WHO classification.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// CalculateBMR computes the basal metabolic rate with the Mifflin-St Jeor
// equation.
func CalculateBMR(sex Sex, weightKg, heightCm float64, age int) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0, errors.New("weight, height and age must be positive")
	}

	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch sex {
	case SexMale:
		return base + 5, nil
	case SexFemale:
		return base - 161, nil
	default:
		return 0, errors.New("unknown sex")
	}
}

// ComputeEnergyMetrics derives all the metrics for a complete profile.
func ComputeEnergyMetrics(p *Profile) (*EnergyMetrics, error) {
	if !p.IsComplete() {
		return nil, ErrProfileIncomplete
	}

	bmr, err := CalculateBMR(p.Sex, p.WeightKg, p.HeightCm, p.Age)
	if err != nil {
		return nil, err
	}

	bmi, err := CalculateBMI(p.HeightCm, p.WeightKg)
	if err != nil {
		return nil, err
	}

	tdee := bmr * p.ActivityLevel.Multiplier()

	return &EnergyMetrics{
		BMR:              bmr,
		TDEE:             tdee,
		BMI:              bmi,
		BMICategory:      BMICategory(bmi),
		DailyCalorieGoal: tdee + p.Goal.CalorieAdjustment(),
	}, nil
}
