package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMR(t *testing.T) {
	t.Run("male", func(t *testing.T) {
		bmr, err := CalculateBMR(SexMale, 80, 180, 30)
		require.NoError(t, err)
		assert.InDelta(t, 1780.0, bmr, 0.01)
	})

	t.Run("female", func(t *testing.T) {
		bmr, err := CalculateBMR(SexFemale, 60, 165, 25)
		require.NoError(t, err)
		assert.InDelta(t, 1345.25, bmr, 0.01)
	})

	t.Run("rejects non-positive inputs", func(t *testing.T) {
		_, err := CalculateBMR(SexMale, 0, 180, 30)
		assert.Error(t, err)

		_, err = CalculateBMR(SexMale, 80, -1, 30)
		assert.Error(t, err)

		_, err = CalculateBMR(SexMale, 80, 180, 0)
		assert.Error(t, err)
	})

	t.Run("rejects unknown sex", func(t *testing.T) {
		_, err := CalculateBMR(Sex("other"), 80, 180, 30)
		assert.Error(t, err)
	})
}

func TestCalculateBMI(t *testing.T) {
	t.Run("typical values", func(t *testing.T) {
		bmi, err := CalculateBMI(180, 80)
		require.NoError(t, err)
		assert.InDelta(t, 24.69, bmi, 0.01)
	})

	t.Run("rejects implausible values", func(t *testing.T) {
		_, err := CalculateBMI(30, 80)
		assert.Error(t, err)

		_, err = CalculateBMI(180, 500)
		assert.Error(t, err)
	})
}

func TestBMICategory(t *testing.T) {
	tests := []struct {
		bmi      float64
		category string
	}{
		{17.0, "Underweight"},
		{22.0, "Normal weight"},
		{27.5, "Overweight"},
		{32.0, "Obesity class I"},
		{37.0, "Obesity class II"},
		{42.0, "Obesity class III"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.category, BMICategory(tt.bmi))
	}
}

func TestComputeEnergyMetrics(t *testing.T) {
	t.Run("complete profile", func(t *testing.T) {
		p := &Profile{
			HeightCm:      180,
			WeightKg:      80,
			Age:           30,
			Sex:           SexMale,
			ActivityLevel: ActivityModerate,
			Goal:          GoalLose,
		}

		m, err := ComputeEnergyMetrics(p)
		require.NoError(t, err)

		assert.InDelta(t, 1780.0, m.BMR, 0.01)
		assert.InDelta(t, 1780.0*1.55, m.TDEE, 0.01)
		assert.InDelta(t, 1780.0*1.55-500, m.DailyCalorieGoal, 0.01)
		assert.Equal(t, "Normal weight", m.BMICategory)
	})

	t.Run("maintain goal leaves tdee unchanged", func(t *testing.T) {
		p := &Profile{
			HeightCm:      165,
			WeightKg:      60,
			Age:           25,
			Sex:           SexFemale,
			ActivityLevel: ActivitySedentary,
			Goal:          GoalMaintain,
		}

		m, err := ComputeEnergyMetrics(p)
		require.NoError(t, err)
		assert.Equal(t, m.TDEE, m.DailyCalorieGoal)
	})

	t.Run("incomplete profile rejected", func(t *testing.T) {
		_, err := ComputeEnergyMetrics(&Profile{HeightCm: 180})
		assert.ErrorIs(t, err, ErrProfileIncomplete)
	})
}
