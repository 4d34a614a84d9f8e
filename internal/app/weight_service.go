package app

import (
	"context"
	"fmt"

	"fitreport/internal/domain"
)

// WeightService encapsulates weight-tracking use cases. Weights are stored
// in pounds and converted on the way in and out.
type WeightService struct {
	repo  domain.WeightRepository
	clock Clock
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository, clock Clock) *WeightService {
	return &WeightService{repo: repo, clock: clock}
}

// WeightReading is a stored weight expressed in a display unit.
type WeightReading struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func reading(e *domain.WeightEntry, unit string) *WeightReading {
	if e == nil {
		return nil
	}
	lbs, ok := domain.ParseWeight(e.Value)
	if !ok {
		return nil
	}
	return &WeightReading{Day: e.Day, Value: domain.WeightInPrefUnits(lbs, unit), Unit: unit}
}

func requireUnit(unit string) (string, error) {
	u := domain.NormalizeUnit(unit)
	if u == "" {
		return "", fmt.Errorf("%w: unit must be %q or %q", ErrInvalidInput, domain.UnitLb, domain.UnitKg)
	}
	return u, nil
}

// GetTodayWeight returns today's weight, or nil when none was logged.
func (s *WeightService) GetTodayWeight(ctx context.Context, userID, unit string) (*WeightReading, string, error) {
	today := s.clock.Today()
	unit, err := requireUnit(unit)
	if err != nil {
		return nil, today, err
	}
	entry, err := s.repo.WeightForDay(ctx, userID, today)
	if err != nil {
		return nil, today, err
	}
	return reading(entry, unit), today, nil
}

// RecordWeight validates and stores today's weight, replacing any earlier
// value for the day.
func (s *WeightService) RecordWeight(ctx context.Context, userID string, value float64, unit string) (*WeightReading, string, error) {
	today := s.clock.Today()
	if value <= 0 {
		return nil, today, fmt.Errorf("%w: value must be > 0", ErrInvalidInput)
	}
	unit, err := requireUnit(unit)
	if err != nil {
		return nil, today, err
	}

	lbs := domain.ToPounds(value, unit)
	if err := s.repo.UpsertWeight(ctx, userID, today, domain.FormatWeight(lbs), s.clock.now()); err != nil {
		return nil, today, err
	}
	return &WeightReading{Day: today, Value: value, Unit: unit}, today, nil
}

// ListRecent returns the most recent weights up to limit. Stored values that
// are not numbers are skipped.
func (s *WeightService) ListRecent(ctx context.Context, userID string, limit int, unit string) ([]WeightReading, error) {
	unit, err := requireUnit(unit)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListRecentWeights(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]WeightReading, 0, len(entries))
	for i := range entries {
		if r := reading(&entries[i], unit); r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// UndoLast deletes the most recently written weight and returns today's
// weight afterwards.
func (s *WeightService) UndoLast(ctx context.Context, userID, unit string) (bool, *WeightReading, string, error) {
	today := s.clock.Today()
	unit, err := requireUnit(unit)
	if err != nil {
		return false, nil, today, err
	}
	deleted, err := s.repo.DeleteLatestWeight(ctx, userID)
	if err != nil {
		return false, nil, today, err
	}
	entry, _ := s.repo.WeightForDay(ctx, userID, today)
	return deleted, reading(entry, unit), today, nil
}
