package trend

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrMissingBaseline is returned when there is no starting weight to
	// interpolate a target trajectory from.
	ErrMissingBaseline = errors.New("missing baseline weight")
)

// ClosedDailyRange returns every day from start to end, both inclusive.
func ClosedDailyRange(start, end time.Time) ([]time.Time, error) {
	start, end = DayOf(start), DayOf(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, FormatDay(start), FormatDay(end))
	}
	out := make([]time.Time, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out, nil
}

// DaysBetween returns the number of whole days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(math.Round(DayOf(end).Sub(DayOf(start)).Hours() / 24))
}

// LinearTargetWeights spreads numDays values evenly from start to end, both
// endpoints included. A single day yields just the start weight.
func LinearTargetWeights(start, end float64, numDays int) []float64 {
	if numDays <= 0 {
		return nil
	}
	if numDays == 1 {
		return []float64{start}
	}
	step := (end - start) / float64(numDays-1)
	out := make([]float64, numDays)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[numDays-1] = end
	return out
}

// TargetPlan describes the glide path from the first logged weight to the
// target weight at the end of the program.
type TargetPlan struct {
	StartDate   time.Time
	EndDate     time.Time
	StartWeight float64
	EndWeight   float64
}

// BuildDailyTargetWeightMap returns the interpolated target weight for every
// day of the plan, keyed by day.
func BuildDailyTargetWeightMap(p TargetPlan) (map[string]float64, error) {
	if math.IsNaN(p.StartWeight) || math.IsInf(p.StartWeight, 0) {
		return nil, ErrMissingBaseline
	}
	days, err := ClosedDailyRange(p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	weights := LinearTargetWeights(p.StartWeight, p.EndWeight, len(days))
	out := make(map[string]float64, len(days))
	for i, d := range days {
		out[FormatDay(d)] = weights[i]
	}
	return out, nil
}
