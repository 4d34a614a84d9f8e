package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"fitreport/internal/domain"
)

// NutritionService records the daily nutrition diary.
type NutritionService struct {
	repo  domain.NutritionRepository
	clock Clock
}

func NewNutritionService(repo domain.NutritionRepository, clock Clock) *NutritionService {
	return &NutritionService{repo: repo, clock: clock}
}

// LogDay replaces the diary of one day. An empty day means today. Missing
// totals stay missing; they are never stored as zero.
func (s *NutritionService) LogDay(ctx context.Context, userID string, log domain.DailyLog) (*domain.DailyLog, error) {
	if log.Day == "" {
		log.Day = s.clock.Today()
	}
	day, err := domain.NormalizeDayKey(log.Day, s.clock.Loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	log.Day = day

	if t := log.Totals; t != nil {
		for name, v := range map[string]*float64{
			"calories":      t.Calories,
			"carbohydrates": t.Carbohydrates,
			"fat":           t.Fat,
			"protein":       t.Protein,
			"sodium":        t.Sodium,
		} {
			if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
				return nil, fmt.Errorf("%w: %s must be a number >= 0", ErrInvalidInput, name)
			}
		}
	}

	exercises := make([]domain.ExerciseEntry, 0, len(log.Exercises))
	for _, e := range log.Exercises {
		if e.Minutes != nil && (*e.Minutes < 0 || math.IsNaN(*e.Minutes)) {
			return nil, fmt.Errorf("%w: exercise minutes must be >= 0", ErrInvalidInput)
		}
		names := make([]string, 0, len(e.Names))
		for _, n := range e.Names {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		exercises = append(exercises, domain.ExerciseEntry{Names: names, Minutes: e.Minutes})
	}
	log.Exercises = exercises
	log.UpdatedAt = s.clock.now()

	if err := s.repo.UpsertDay(ctx, userID, log); err != nil {
		return nil, err
	}
	return &log, nil
}

// ListRecent returns the most recent diary days, newest first.
func (s *NutritionService) ListRecent(ctx context.Context, userID string, limit int) ([]domain.DailyLog, error) {
	return s.repo.ListRecentDays(ctx, userID, limit)
}
