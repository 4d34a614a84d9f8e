package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fitreport/internal/domain"
	"fitreport/internal/trend"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	snapshots domain.SnapshotReader
	clock     Clock
	weekStart time.Weekday
}

// NewChartsService creates a ChartsService reading from snapshots.
func NewChartsService(snapshots domain.SnapshotReader, clock Clock, weekStart time.Weekday) *ChartsService {
	return &ChartsService{snapshots: snapshots, clock: clock, weekStart: weekStart}
}

// WeightPoint is one day of the weight chart. Either value may be absent.
type WeightPoint struct {
	Day    string   `json:"day"`
	Weight *float64 `json:"weight"`
	Target *float64 `json:"target"`
}

// WeightTrend returns the logged weights next to the target trajectory, one
// point per day from the first logged weight to the end of the program (or
// today when that is later), in unit.
func (s *ChartsService) WeightTrend(ctx context.Context, userID, unit string) ([]WeightPoint, string, error) {
	snap, err := s.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("read snapshot: %w", err)
	}
	if snap == nil {
		snap = &domain.Snapshot{}
	}
	unit, err = displayUnit(unit, snap.Profile)
	if err != nil {
		return nil, "", err
	}
	in, err := engineInput(snap, s.weekStart, s.clock.Loc)
	if err != nil {
		return nil, "", err
	}
	display := func(lbs float64) *float64 {
		return trend.Float(trend.Round(domain.WeightInPrefUnits(lbs, unit), 1))
	}

	var targets map[string]float64
	if snap.Profile != nil {
		today, err := trend.ParseDay(s.clock.Today())
		if err != nil {
			return nil, "", err
		}
		in.Today = today
		targets, err = trend.TargetWeights(in)
		switch {
		case errors.Is(err, trend.ErrMissingBaseline):
			return []WeightPoint{}, unit, nil
		case err != nil:
			return nil, "", err
		}
	}

	byDay := make(map[string]*WeightPoint)
	point := func(day string) *WeightPoint {
		p, ok := byDay[day]
		if !ok {
			p = &WeightPoint{Day: day}
			byDay[day] = p
		}
		return p
	}
	for day, d := range in.Days {
		if d.Weight != nil {
			point(day).Weight = display(*d.Weight)
		}
	}
	for day, w := range targets {
		point(day).Target = display(w)
	}

	out := make([]WeightPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, unit, nil
}
