package trend

import (
	"math"
	"sort"

	"fitreport/internal/domain"
)

// Calories per gram of each macro.
const (
	kcalPerGramCarb    = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
)

// Day is everything logged on one calendar day, weight already parsed and
// expressed in pounds.
type Day struct {
	Weight    *float64                `json:"weight,omitempty"`
	Totals    *domain.NutritionTotals `json:"totals,omitempty"`
	Exercises []domain.ExerciseEntry  `json:"exercises,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Round rounds half up to precision decimal places, matching the rounding
// the reports have always shown.
func Round(v float64, precision int) float64 {
	f := math.Pow(10, float64(precision))
	return math.Floor(v*f+0.5) / f
}

// RoundPtr rounds v when present.
func RoundPtr(v *float64, precision int) *float64 {
	if !present(v) {
		return nil
	}
	return Float(Round(*v, precision))
}

// Perc returns round(100*part/whole). It is undefined (nil) when either side
// is missing or whole is zero.
func Perc(part, whole *float64) *float64 {
	if !present(part) || !present(whole) || *whole == 0 {
		return nil
	}
	return Float(Round(100 * *part / *whole, 0))
}

// Avg averages the present values; absent values count in neither the sum
// nor the denominator. It is nil when nothing is present.
func Avg(values []*float64) *float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if present(v) {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return Float(sum / float64(n))
}

// Delta returns round(current-previous) when both are present.
func Delta(current, previous *float64, precision int) *float64 {
	if !present(current) || !present(previous) {
		return nil
	}
	return Float(Round(*current-*previous, precision))
}

func scale(v *float64, by float64) *float64 {
	if !present(v) {
		return nil
	}
	return Float(*v * by)
}

// DailyCalories extracts the calorie total of a day.
func DailyCalories(d *Day) *float64 {
	if d == nil || d.Totals == nil {
		return nil
	}
	return d.Totals.Calories
}

// DailyProteinPercent is the share of calories coming from protein.
func DailyProteinPercent(d *Day) *float64 {
	if d == nil || d.Totals == nil {
		return nil
	}
	return Perc(scale(d.Totals.Protein, kcalPerGramProtein), d.Totals.Calories)
}

// DailyCarbPercent is the share of calories coming from carbohydrates.
func DailyCarbPercent(d *Day) *float64 {
	if d == nil || d.Totals == nil {
		return nil
	}
	return Perc(scale(d.Totals.Carbohydrates, kcalPerGramCarb), d.Totals.Calories)
}

// DailyFatPercent is the share of calories coming from fat.
func DailyFatPercent(d *Day) *float64 {
	if d == nil || d.Totals == nil {
		return nil
	}
	return Perc(scale(d.Totals.Fat, kcalPerGramFat), d.Totals.Calories)
}

// DailyWeight extracts the weight of a day.
func DailyWeight(d *Day) *float64 {
	if d == nil {
		return nil
	}
	return d.Weight
}

// ExerciseDay summarises the exercise of one day.
type ExerciseDay struct {
	Names   []string `json:"names"`
	Minutes float64  `json:"minutes"`
}

// DailyExerciseSummary sums the minutes of all sessions (missing minutes
// count as zero) and collects the distinct exercise names, sorted.
func DailyExerciseSummary(exercises []domain.ExerciseEntry) ExerciseDay {
	seen := make(map[string]struct{})
	var out ExerciseDay
	for _, e := range exercises {
		if present(e.Minutes) {
			out.Minutes += *e.Minutes
		}
		for _, name := range e.Names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out.Names = append(out.Names, name)
		}
	}
	sort.Strings(out.Names)
	return out
}

// ExerciseWeek summarises the exercise of a week.
type ExerciseWeek struct {
	NumDays    int     `json:"numDays"`
	TotalHours float64 `json:"totalHours"`
}

// WeeklyExerciseSummary counts days with any exercise and the total hours.
func WeeklyExerciseSummary(days []ExerciseDay) ExerciseWeek {
	var out ExerciseWeek
	var minutes float64
	for _, d := range days {
		if d.Minutes > 0 {
			out.NumDays++
		}
		minutes += d.Minutes
	}
	out.TotalHours = Round(minutes/60, 1)
	return out
}

// ExerciseCounts counts on how many days each exercise name appears.
func ExerciseCounts(days []ExerciseDay) map[string]int {
	counts := make(map[string]int)
	for _, d := range days {
		for _, name := range d.Names {
			counts[name]++
		}
	}
	return counts
}

// ExerciseCountDeltas subtracts previous counts from current ones for every
// name present in the current week. Names missing from previous count as 0
// for the subtraction only.
func ExerciseCountDeltas(current, previous map[string]int) map[string]int {
	out := make(map[string]int, len(current))
	for name, n := range current {
		out[name] = n - previous[name]
	}
	return out
}
