package domain

import (
	"context"
	"time"
)

// NutritionTotals are the totals of one day. A nil field was not reported,
// which is different from a reported zero.
type NutritionTotals struct {
	Calories      *float64 `json:"calories,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Sodium        *float64 `json:"sodium,omitempty"`
}

// ExerciseEntry is a single exercise session.
type ExerciseEntry struct {
	Names   []string `json:"names"`
	Minutes *float64 `json:"minutes,omitempty"`
}

// DailyLog is the nutrition diary of one day.
type DailyLog struct {
	Day       string           `json:"day"`
	Totals    *NutritionTotals `json:"totals,omitempty"`
	Exercises []ExerciseEntry  `json:"exercises,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// NutritionRepository is the port for the daily nutrition diary.
type NutritionRepository interface {
	UpsertDay(ctx context.Context, userID string, log DailyLog) error
	ListRecentDays(ctx context.Context, userID string, limit int) ([]DailyLog, error)
}
