package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fitreport/internal/domain"
)

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, 3.0, Round(2.5, 0))
	assert.Equal(t, -2.0, Round(-2.5, 0))
	assert.Equal(t, 150.2, Round(150.15000001, 1))
	assert.Equal(t, 12.0, Round(11.6, 0))
}

func TestPerc(t *testing.T) {
	assert.Nil(t, Perc(nil, Float(2000)))
	assert.Nil(t, Perc(Float(100), nil))
	assert.Nil(t, Perc(Float(100), Float(0)))
	assert.Nil(t, Perc(Float(math.NaN()), Float(10)))
	assert.Equal(t, 0.0, *Perc(Float(0), Float(2000)))
	assert.Equal(t, 30.0, *Perc(Float(600), Float(2000)))
	assert.Equal(t, 33.0, *Perc(Float(1), Float(3)))
}

func TestAvg_SkipsAbsent(t *testing.T) {
	assert.Nil(t, Avg(nil))
	assert.Nil(t, Avg([]*float64{nil, nil}))
	assert.Equal(t, 2.0, *Avg([]*float64{Float(1), nil, Float(3)}))
	// A logged zero is data.
	assert.Equal(t, 1.0, *Avg([]*float64{Float(0), Float(2), nil}))
}

func TestDelta(t *testing.T) {
	assert.Nil(t, Delta(Float(1), nil, 1))
	assert.Nil(t, Delta(nil, Float(1), 1))
	assert.Equal(t, -2.2, *Delta(Float(150.1), Float(152.3), 1))
	assert.Equal(t, 0.0, *Delta(Float(3), Float(3), 0))
}

func TestDailyExtractors(t *testing.T) {
	d := &Day{Totals: &domain.NutritionTotals{
		Calories:      Float(2000),
		Protein:       Float(150),
		Carbohydrates: Float(200),
		Fat:           Float(60),
	}}
	assert.Equal(t, 2000.0, *DailyCalories(d))
	assert.Equal(t, 30.0, *DailyProteinPercent(d))
	assert.Equal(t, 40.0, *DailyCarbPercent(d))
	assert.Equal(t, 27.0, *DailyFatPercent(d))

	assert.Nil(t, DailyCalories(&Day{}))
	assert.Nil(t, DailyProteinPercent(&Day{Totals: &domain.NutritionTotals{Protein: Float(100)}}))
	assert.Nil(t, DailyWeight(&Day{}))
	assert.Nil(t, DailyWeight(nil))
}

func TestDailyExerciseSummary(t *testing.T) {
	got := DailyExerciseSummary([]domain.ExerciseEntry{
		{Names: []string{"Running", "Yoga"}, Minutes: Float(30)},
		{Names: []string{"Running"}, Minutes: Float(15)},
		{Names: []string{"Cycling"}},
	})
	assert.Equal(t, []string{"Cycling", "Running", "Yoga"}, got.Names)
	assert.Equal(t, 45.0, got.Minutes)

	empty := DailyExerciseSummary(nil)
	assert.Empty(t, empty.Names)
	assert.Zero(t, empty.Minutes)
}

func TestWeeklyExerciseSummary(t *testing.T) {
	got := WeeklyExerciseSummary([]ExerciseDay{
		{Minutes: 60}, {Minutes: 0}, {Minutes: 45}, {Minutes: 20},
	})
	assert.Equal(t, 3, got.NumDays)
	assert.Equal(t, 2.1, got.TotalHours)
}

func TestExerciseCountDeltas(t *testing.T) {
	current := ExerciseCounts([]ExerciseDay{
		{Names: []string{"Running"}},
		{Names: []string{"Running", "Yoga"}},
	})
	previous := map[string]int{"Running": 1, "Swimming": 2}

	assert.Equal(t, map[string]int{"Running": 2, "Yoga": 1}, current)
	assert.Equal(t, map[string]int{"Running": 1, "Yoga": 1}, ExerciseCountDeltas(current, previous))
}
