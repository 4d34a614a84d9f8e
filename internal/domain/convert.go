package domain

import "strings"

// Weight units. Stored weights are always pounds.
const (
	UnitLb = "lbs"
	UnitKg = "kg"
)

const kgToLb = 2.20462

// NormalizeUnit maps accepted spellings onto UnitLb or UnitKg. It returns ""
// for anything else.
func NormalizeUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "lb", "lbs", "pound", "pounds":
		return UnitLb
	case "kg", "kgs", "kilogram", "kilograms":
		return UnitKg
	}
	return ""
}

// ConvertWeight converts a weight value between "kg" and "lbs".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	from, to = NormalizeUnit(from), NormalizeUnit(to)
	if from == "" || to == "" || from == to {
		return v
	}
	if from == UnitKg {
		return v * kgToLb
	}
	return v / kgToLb
}

// WeightInPrefUnits converts a canonical pound value for display.
func WeightInPrefUnits(lbs float64, unit string) float64 {
	return ConvertWeight(lbs, UnitLb, unit)
}

// ToPounds converts a user-entered weight into the canonical unit.
func ToPounds(v float64, unit string) float64 {
	return ConvertWeight(v, unit, UnitLb)
}
