package trend

import (
	"encoding/json"
	"fmt"
)

// Status is the classification of one metric for one week.
type Status int

const (
	NoData Status = iota
	OnTrack
	AtRisk
	OffTrack
)

var statusLabels = [...]string{
	NoData:   "No Data",
	OnTrack:  "On Track",
	AtRisk:   "At Risk",
	OffTrack: "Off Track",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusLabels) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusLabels[s]
}

// Win reports whether the status deserves the reward styling.
func (s Status) Win() bool {
	return s == OnTrack
}

// MarshalJSON encodes the status as its label.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status label.
func (s *Status) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	for i, l := range statusLabels {
		if l == label {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", label)
}

// Direction is whether the user is trying to gain or lose weight.
type Direction int

const (
	Gaining Direction = iota
	Cutting
)

func (d Direction) String() string {
	if d == Cutting {
		return "cutting"
	}
	return "gaining"
}

// Tolerance bands. Presentation maps Status to colors and never re-derives
// these.
const (
	weightOnTrackBuffer = 0.5
	weightAtRiskBuffer  = 1.5

	calorieOnTrackFactor = 1.05
	calorieAtRiskFactor  = 1.15

	proteinOnTrackFactor = 1.15
	proteinAtRiskFactor  = 1.3

	exerciseOnTrackDays = 1
	exerciseAtRiskDays  = 3
)

func band(onTrack, atRisk bool) Status {
	switch {
	case onTrack:
		return OnTrack
	case atRisk:
		return AtRisk
	default:
		return OffTrack
	}
}

// WeightStatus classifies an average weight against the target weight.
func WeightStatus(weight *float64, target float64, dir Direction) Status {
	if !present(weight) {
		return NoData
	}
	w := *weight
	if dir == Gaining {
		return band(w+weightOnTrackBuffer >= target, w+weightAtRiskBuffer >= target)
	}
	return band(w-weightOnTrackBuffer <= target, w-weightAtRiskBuffer <= target)
}

// CalorieStatus classifies average calories against the calorie target.
func CalorieStatus(actual *float64, target float64, dir Direction) Status {
	if !present(actual) {
		return NoData
	}
	a := *actual
	if dir == Gaining {
		return band(a*calorieOnTrackFactor >= target, a*calorieAtRiskFactor >= target)
	}
	return band(a <= target*calorieOnTrackFactor, a <= target*calorieAtRiskFactor)
}

// ProteinStatus classifies the protein share of calories against its target.
func ProteinStatus(actual *float64, target float64) Status {
	if !present(actual) {
		return NoData
	}
	a := *actual
	return band(a*proteinOnTrackFactor >= target, a*proteinAtRiskFactor >= target)
}

// ExerciseStatus classifies the number of days exercised against a target.
func ExerciseStatus(actual *float64, target float64) Status {
	if !present(actual) {
		return NoData
	}
	a := *actual
	return band(a+exerciseOnTrackDays >= target, a+exerciseAtRiskDays >= target)
}

// Band is the per-day color class used by the weekly grids.
type Band string

const (
	BandNoData Band = "no-data"
	BandLow    Band = "low"
	BandTarget Band = "target"
	BandHigh   Band = "high"
	BandMiss   Band = "miss"
)

// Calorie day bands relative to the calorie target.
const (
	lowCalorieFactor  = 0.8
	highCalorieFactor = 1.2
	proteinDayFactor  = 0.9
)

// CalorieBand classifies one day's calories.
func CalorieBand(calories *float64, target float64) Band {
	switch {
	case !present(calories):
		return BandNoData
	case *calories < target*lowCalorieFactor:
		return BandLow
	case *calories > target*highCalorieFactor:
		return BandHigh
	default:
		return BandTarget
	}
}

// ProteinBand classifies one day's protein percentage.
func ProteinBand(percent *float64, target float64) Band {
	switch {
	case !present(percent):
		return BandNoData
	case *percent >= target*proteinDayFactor:
		return BandTarget
	default:
		return BandMiss
	}
}

// ExerciseBand classifies one day's exercise minutes: under 30 minutes is
// high (red), under an hour is low, an hour or more is target.
func ExerciseBand(minutes *float64) Band {
	switch {
	case !present(minutes):
		return BandNoData
	case *minutes < 30:
		return BandHigh
	case *minutes < 60:
		return BandLow
	default:
		return BandTarget
	}
}
