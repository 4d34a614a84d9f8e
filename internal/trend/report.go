package trend

import (
	"math"
	"sort"
	"time"

	"fitreport/internal/domain"
)

// ReviewBufferDays shifts review dates back before grouping: a review handed
// in a few days into the next week still belongs to the week it reflects on.
const ReviewBufferDays = 5

// TargetExerciseDays is the weekly exercise goal.
const TargetExerciseDays = 7

// Target is the user's program: where they want to go and by when.
type Target struct {
	Direction    Direction
	TargetWeight float64
	Nutrition    domain.NutritionTargets
	// ProgramStart defaults to the first day with a logged weight.
	ProgramStart time.Time
	ProgramEnd   time.Time
}

// Input is everything BuildReport needs. Days are keyed by "2006-01-02" and
// weights are in pounds.
type Input struct {
	Days      map[string]Day
	Reviews   map[string]string
	Target    Target
	WeekStart time.Weekday
	Today     time.Time
	// ActiveIdx indexes Report.Weeks; out of range selects the latest week.
	ActiveIdx int
}

// Row compares the current week with the previous one. Nil values are
// absent and render as "-", never as zero.
type Row struct {
	Label    string   `json:"label"`
	Current  *float64 `json:"current"`
	Previous *float64 `json:"previous"`
	Delta    *float64 `json:"delta"`
	Win      bool     `json:"win"`
	Warning  bool     `json:"warning"`
}

// StatusRow is one line of the overview.
type StatusRow struct {
	Label  string   `json:"label"`
	Actual *float64 `json:"actual"`
	Target *float64 `json:"target"`
	Status Status   `json:"status"`
}

// Overview classifies the active week against the targets.
type Overview struct {
	Status   Status    `json:"status"`
	Weight   StatusRow `json:"weight"`
	Calories StatusRow `json:"calories"`
	Protein  StatusRow `json:"protein"`
	Exercise StatusRow `json:"exercise"`
}

// DayValue is one day of a weekly grid.
type DayValue struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
	Band  Band     `json:"band,omitempty"`
}

// WeekRange is the lowest and highest weight of a week.
type WeekRange struct {
	Week string   `json:"week"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

// WeekGrid is one row of a weekly grid chart.
type WeekGrid struct {
	Week    string     `json:"week"`
	Days    []DayValue `json:"days"`
	Average *float64   `json:"average"`
	Win     bool       `json:"win"`
}

// WeightSummary is the weight section of the report.
type WeightSummary struct {
	WeighIns  Row         `json:"weighIns"`
	Average   Row         `json:"average"`
	Top       Row         `json:"top"`
	Bottom    Row         `json:"bottom"`
	Ranges    []WeekRange `json:"ranges"`
	IntraWeek []DayValue  `json:"intraWeek"`
}

// MacroRow is a macro nutrient: the row compares calorie percentages, the
// grams are shown alongside.
type MacroRow struct {
	Row
	Grams         *float64 `json:"grams"`
	GramsPrevious *float64 `json:"gramsPrevious"`
}

// NutritionSummary is the nutrition section of the report.
type NutritionSummary struct {
	DaysLogged     Row        `json:"daysLogged"`
	Calories       Row        `json:"calories"`
	Carbs          MacroRow   `json:"carbs"`
	Fats           MacroRow   `json:"fats"`
	Protein        MacroRow   `json:"protein"`
	Sodium         Row        `json:"sodium"`
	LowDays        Row        `json:"lowDays"`
	TargetDays     Row        `json:"targetDays"`
	HighDays       Row        `json:"highDays"`
	WeeklyCalories []WeekGrid `json:"weeklyCalories"`
	WeeklyProtein  []WeekGrid `json:"weeklyProtein"`
}

// ExerciseNameRow compares how often one exercise was done.
type ExerciseNameRow struct {
	Name     string `json:"name"`
	Current  int    `json:"current"`
	Previous *int   `json:"previous"`
	Delta    int    `json:"delta"`
	Warning  bool   `json:"warning"`
}

// ExerciseSummary is the exercise section of the report.
type ExerciseSummary struct {
	DaysExercised  Row               `json:"daysExercised"`
	HoursExercised Row               `json:"hoursExercised"`
	Names          []ExerciseNameRow `json:"names"`
	Counts         map[string]int    `json:"counts"`
	CountDeltas    map[string]int    `json:"countDeltas"`
	WeeklyMinutes  []WeekGrid        `json:"weeklyMinutes"`
}

// Report is the whole weekly report for the active week.
type Report struct {
	Weeks     []string         `json:"weeks"`
	ActiveIdx int              `json:"activeIdx"`
	Week      string           `json:"week"`
	Window    []string         `json:"window"`
	Direction string           `json:"direction"`
	Overview  Overview         `json:"overview"`
	Weight    WeightSummary    `json:"weight"`
	Nutrition NutritionSummary `json:"nutrition"`
	Exercise  ExerciseSummary  `json:"exercise"`
	Review    *string          `json:"review"`
}

// Weeks lists the completed weeks holding any record, oldest first.
func Weeks(days map[string]Day, weekStart time.Weekday, today time.Time) ([]string, error) {
	grouped, err := GroupByWeek(days, weekStart, today)
	if err != nil {
		return nil, err
	}
	return CompletedWeeks(grouped, weekStart, today), nil
}

// BuildReport computes the report for the active week of in. It fails only
// when the target trajectory cannot be built (ErrMissingBaseline,
// ErrInvalidRange); missing data otherwise flows through as absent values.
func BuildReport(in Input) (*Report, error) {
	grouped, err := GroupByWeek(in.Days, in.WeekStart, in.Today)
	if err != nil {
		return nil, err
	}

	targetWeights, err := TargetWeights(in)
	if err != nil {
		return nil, err
	}
	groupedTargets, err := GroupByWeek(targetWeights, in.WeekStart, in.Today)
	if err != nil {
		return nil, err
	}

	weeks := CompletedWeeks(grouped, in.WeekStart, in.Today)
	idx := in.ActiveIdx
	if idx < 0 || idx >= len(weeks) {
		idx = len(weeks) - 1
	}

	windowKeys := ActiveWindow(weeks, idx, WindowSize)
	window := make([]WeekBucket[Day], 0, len(windowKeys))
	for _, key := range windowKeys {
		b, ok := grouped[key]
		if !ok {
			start, err := ParseDay(key)
			if err != nil {
				return nil, err
			}
			b = newBucket[Day](start)
		}
		window = append(window, b)
	}

	r := &Report{
		Weeks:     weeks,
		ActiveIdx: idx,
		Window:    windowKeys,
		Direction: in.Target.Direction.String(),
	}
	if len(windowKeys) == 0 {
		// No completed week yet: every section reports absence.
		window = []WeekBucket[Day]{newBucket[Day](MostRecentWeekday(in.Today, in.WeekStart).AddDate(0, 0, -DaysPerWeek))}
	} else {
		r.Week = windowKeys[0]
	}

	var weekTargets []float64
	if tb, ok := groupedTargets[window[0].Start]; ok {
		weekTargets = tb.Logged()
	}

	r.Overview = buildOverview(window[0], weekTargets, in.Target)
	r.Weight = buildWeightSummary(window, in.Target.Direction)
	r.Nutrition = buildNutritionSummary(window, in.Target)
	r.Exercise = buildExerciseSummary(window)
	if r.Week != "" {
		r.Review = activeReview(in.Reviews, r.Week, in.WeekStart)
	}
	return r, nil
}

// TargetWeights returns the daily target trajectory of in. It is anchored on
// the first weight logged on or after the program start and no later than
// today, and ends at the target weight on the program end (today when unset).
func TargetWeights(in Input) (map[string]float64, error) {
	start := in.Target.ProgramStart
	startWeight := math.NaN()
	var today time.Time
	if !in.Today.IsZero() {
		today = DayOf(in.Today)
	}

	keys := make([]string, 0, len(in.Days))
	for k, d := range in.Days {
		if present(d.Weight) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		day, err := ParseDay(k)
		if err != nil {
			return nil, err
		}
		if !start.IsZero() && day.Before(DayOf(start)) {
			continue
		}
		if !today.IsZero() && day.After(today) {
			break
		}
		if start.IsZero() {
			start = day
		}
		startWeight = *in.Days[k].Weight
		break
	}

	end := in.Target.ProgramEnd
	if end.IsZero() {
		end = in.Today
	}
	return BuildDailyTargetWeightMap(TargetPlan{
		StartDate:   start,
		EndDate:     end,
		StartWeight: startWeight,
		EndWeight:   in.Target.TargetWeight,
	})
}

func slotValues(b WeekBucket[Day], f func(*Day) *float64) []*float64 {
	out := make([]*float64, 0, DaysPerWeek)
	for i := range b.Days {
		s := &b.Days[i]
		if !s.Logged {
			out = append(out, nil)
			continue
		}
		out = append(out, f(&s.Value))
	}
	return out
}

func presentValues(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if present(v) {
			out = append(out, *v)
		}
	}
	return out
}

func hasDiary(d *Day) bool {
	return d.Totals != nil || d.Exercises != nil
}

func diaryDays(b WeekBucket[Day]) []*Day {
	var out []*Day
	for i := range b.Days {
		if b.Days[i].Logged && hasDiary(&b.Days[i].Value) {
			out = append(out, &b.Days[i].Value)
		}
	}
	return out
}

func nutritionDays(b WeekBucket[Day]) []*Day {
	var out []*Day
	for i := range b.Days {
		if b.Days[i].Logged && b.Days[i].Value.Totals != nil {
			out = append(out, &b.Days[i].Value)
		}
	}
	return out
}

func field(days []*Day, f func(*domain.NutritionTotals) *float64) []*float64 {
	out := make([]*float64, 0, len(days))
	for _, d := range days {
		out = append(out, f(d.Totals))
	}
	return out
}

func buildOverview(week WeekBucket[Day], weekTargets []float64, t Target) Overview {
	weight := RoundPtr(Avg(slotValues(week, DailyWeight)), 1)
	var targetWeight *float64
	if len(weekTargets) > 0 {
		var sum float64
		for _, w := range weekTargets {
			sum += w
		}
		targetWeight = Float(Round(sum/float64(len(weekTargets)), 1))
	}
	weightRow := StatusRow{Label: "Avg Weight", Actual: weight, Target: targetWeight}
	if targetWeight != nil {
		weightRow.Status = WeightStatus(weight, *targetWeight, t.Direction)
	}

	days := nutritionDays(week)
	calories := RoundPtr(Avg(field(days, caloriesOf)), 0)
	protein := RoundPtr(Avg(field(days, proteinOf)), 0)
	proteinPerc := Perc(scale(protein, kcalPerGramProtein), calories)
	targetProteinPerc := Perc(Float(t.Nutrition.Protein*kcalPerGramProtein), Float(t.Nutrition.Calories))

	proteinRow := StatusRow{Label: "Avg Protein (%)", Actual: proteinPerc, Target: targetProteinPerc}
	if targetProteinPerc != nil {
		proteinRow.Status = ProteinStatus(proteinPerc, *targetProteinPerc)
	}

	var exerciseDays *float64
	if diary := diaryDays(week); len(diary) > 0 {
		summaries := make([]ExerciseDay, 0, len(diary))
		for _, d := range diary {
			summaries = append(summaries, DailyExerciseSummary(d.Exercises))
		}
		exerciseDays = Float(float64(WeeklyExerciseSummary(summaries).NumDays))
	}

	return Overview{
		Status: weightRow.Status,
		Weight: weightRow,
		Calories: StatusRow{
			Label:  "Avg Calories",
			Actual: calories,
			Target: Float(t.Nutrition.Calories),
			Status: CalorieStatus(calories, t.Nutrition.Calories, t.Direction),
		},
		Protein: proteinRow,
		Exercise: StatusRow{
			Label:  "Days Exercised",
			Actual: exerciseDays,
			Target: Float(TargetExerciseDays),
			Status: ExerciseStatus(exerciseDays, TargetExerciseDays),
		},
	}
}

// directional marks a row a win when the value moved the way the program
// wants, and a warning when it moved the other way.
func directional(r Row, dir Direction) Row {
	if r.Current == nil || r.Previous == nil {
		return r
	}
	if dir == Gaining {
		r.Win = *r.Current > *r.Previous
	} else {
		r.Win = *r.Current < *r.Previous
	}
	r.Warning = !r.Win && r.Delta != nil && *r.Delta != 0
	return r
}

func compare(label string, cur, prev *float64, havePrev bool, precision int) Row {
	r := Row{Label: label, Current: RoundPtr(cur, precision)}
	if havePrev {
		r.Previous = RoundPtr(prev, precision)
		r.Delta = Delta(r.Current, r.Previous, precision)
	}
	return r
}

func countRow(label string, cur, prev int, havePrev bool) Row {
	r := Row{Label: label, Current: Float(float64(cur))}
	if havePrev {
		r.Previous = Float(float64(prev))
		r.Delta = Float(float64(cur - prev))
	}
	return r
}

func extreme(values []float64, pick func(a, b float64) float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	out := values[0]
	for _, v := range values[1:] {
		out = pick(out, v)
	}
	return Float(out)
}

func buildWeightSummary(window []WeekBucket[Day], dir Direction) WeightSummary {
	cur, prev, havePrev := currentAndPrevious(window)
	curW := presentValues(slotValues(cur, DailyWeight))
	prevW := presentValues(slotValues(prev, DailyWeight))

	weighIns := countRow("Weigh-ins", len(curW), len(prevW), havePrev)
	weighIns.Win = len(curW) > len(prevW) || len(curW) == DaysPerWeek
	weighIns.Warning = !weighIns.Win && weighIns.Delta != nil && *weighIns.Delta != 0

	avg := func(v []float64) *float64 {
		if len(v) == 0 {
			return nil
		}
		var sum float64
		for _, x := range v {
			sum += x
		}
		return Float(sum / float64(len(v)))
	}

	s := WeightSummary{
		WeighIns: weighIns,
		Average:  directional(compare("Avg Weight", avg(curW), avg(prevW), havePrev, 1), dir),
		Top:      directional(compare("Top Weight", extreme(curW, math.Max), extreme(prevW, math.Max), havePrev, 1), dir),
		Bottom:   directional(compare("Bottom Weight", extreme(curW, math.Min), extreme(prevW, math.Min), havePrev, 1), dir),
	}

	for _, b := range window {
		w := presentValues(slotValues(b, DailyWeight))
		s.Ranges = append(s.Ranges, WeekRange{
			Week: b.Start,
			Min:  RoundPtr(extreme(w, math.Min), 1),
			Max:  RoundPtr(extreme(w, math.Max), 1),
		})
	}

	for i, v := range slotValues(cur, DailyWeight) {
		s.IntraWeek = append(s.IntraWeek, DayValue{Date: cur.Days[i].Date, Value: RoundPtr(v, 1)})
	}
	return s
}

func caloriesOf(t *domain.NutritionTotals) *float64 { return t.Calories }
func carbsOf(t *domain.NutritionTotals) *float64    { return t.Carbohydrates }
func fatOf(t *domain.NutritionTotals) *float64      { return t.Fat }
func proteinOf(t *domain.NutritionTotals) *float64  { return t.Protein }
func sodiumOf(t *domain.NutritionTotals) *float64   { return t.Sodium }

// withinBand reports whether v lies within ±10% of target.
func withinBand(v, target *float64) bool {
	return present(v) && present(target) && *v >= 0.9**target && *v <= 1.1**target
}

type nutritionWeek struct {
	days     []*Day
	calories *float64
}

func macro(label string, cur, prev nutritionWeek, havePrev bool, f func(*domain.NutritionTotals) *float64, kcalPerGram float64, target *float64) MacroRow {
	grams := RoundPtr(Avg(field(cur.days, f)), 0)
	perc := Perc(scale(grams, kcalPerGram), cur.calories)
	m := MacroRow{Row: Row{Label: label, Current: perc}, Grams: grams}
	if havePrev {
		m.GramsPrevious = RoundPtr(Avg(field(prev.days, f)), 0)
		m.Previous = Perc(scale(m.GramsPrevious, kcalPerGram), prev.calories)
		m.Delta = Delta(m.Current, m.Previous, 0)
	}
	m.Win = withinBand(perc, target)
	return m
}

func calorieDayCounts(days []*Day, target float64) (low, onTarget, high int) {
	for _, d := range days {
		switch CalorieBand(d.Totals.Calories, target) {
		case BandLow:
			low++
		case BandTarget:
			onTarget++
		case BandHigh:
			high++
		}
	}
	return low, onTarget, high
}

func buildNutritionSummary(window []WeekBucket[Day], t Target) NutritionSummary {
	cb, pb, havePrev := currentAndPrevious(window)
	cur := nutritionWeek{days: nutritionDays(cb)}
	prev := nutritionWeek{days: nutritionDays(pb)}
	cur.calories = RoundPtr(Avg(field(cur.days, caloriesOf)), 0)
	prev.calories = RoundPtr(Avg(field(prev.days, caloriesOf)), 0)

	targets := t.Nutrition
	targetCalories := Float(targets.Calories)
	targetCarbs := Perc(Float(targets.Carbohydrates*kcalPerGramCarb), targetCalories)
	targetFats := Perc(Float(targets.Fat*kcalPerGramFat), targetCalories)
	targetProtein := Perc(Float(targets.Protein*kcalPerGramProtein), targetCalories)

	var s NutritionSummary

	// Any diary entry counts as a logged day, with or without totals.
	logCur, logPrev := len(diaryDays(cb)), len(diaryDays(pb))
	s.DaysLogged = countRow("Days Logged", logCur, logPrev, havePrev)
	s.DaysLogged.Win = logCur == DaysPerWeek
	s.DaysLogged.Warning = havePrev && logCur < logPrev

	s.Calories = compare("Avg Calories", cur.calories, prev.calories, havePrev, 0)
	s.Calories.Win = withinBand(cur.calories, targetCalories)
	if !s.Calories.Win && s.Calories.Delta != nil {
		if t.Direction == Gaining {
			s.Calories.Warning = *s.Calories.Delta < 0
		} else {
			s.Calories.Warning = *s.Calories.Delta > 0
		}
	}

	s.Carbs = macro("Avg Carbs", cur, prev, havePrev, carbsOf, kcalPerGramCarb, targetCarbs)
	s.Fats = macro("Avg Fats", cur, prev, havePrev, fatOf, kcalPerGramFat, targetFats)
	s.Protein = macro("Avg Protein", cur, prev, havePrev, proteinOf, kcalPerGramProtein, targetProtein)
	s.Protein.Win = present(s.Protein.Current) && present(targetProtein) && *s.Protein.Current >= *targetProtein*proteinDayFactor
	s.Protein.Warning = present(s.Protein.Current) && !s.Protein.Win

	s.Sodium = compare("Avg Sodium", Avg(field(cur.days, sodiumOf)), Avg(field(prev.days, sodiumOf)), havePrev, 0)
	s.Sodium.Win = present(s.Sodium.Current) && *s.Sodium.Current <= targets.Sodium*1.1
	s.Sodium.Warning = present(s.Sodium.Current) && !s.Sodium.Win &&
		present(s.Sodium.Previous) && *s.Sodium.Current > *s.Sodium.Previous

	low, onTarget, high := calorieDayCounts(cur.days, targets.Calories)
	pLow, pOnTarget, pHigh := calorieDayCounts(prev.days, targets.Calories)
	logged := len(cur.days) > 0
	s.LowDays = countRow("Low Days", low, pLow, havePrev)
	s.LowDays.Win = logged && low == 0
	s.TargetDays = countRow("Target Days", onTarget, pOnTarget, havePrev)
	s.TargetDays.Win = onTarget == DaysPerWeek
	s.HighDays = countRow("High Days", high, pHigh, havePrev)
	s.HighDays.Win = logged && high == 0

	for _, b := range window {
		s.WeeklyCalories = append(s.WeeklyCalories, grid(b, DailyCalories, func(v *float64) Band {
			return CalorieBand(v, targets.Calories)
		}))
		s.WeeklyProtein = append(s.WeeklyProtein, grid(b, DailyProteinPercent, func(v *float64) Band {
			if targetProtein == nil {
				return BandNoData
			}
			return ProteinBand(v, *targetProtein)
		}))
	}
	return s
}

// grid builds one weekly grid row; the week is a win when every day landed
// in the target band.
func grid(b WeekBucket[Day], f func(*Day) *float64, classify func(*float64) Band) WeekGrid {
	values := slotValues(b, f)
	g := WeekGrid{Week: b.Start, Average: RoundPtr(Avg(values), 0), Win: true}
	for i, v := range values {
		band := classify(v)
		g.Days = append(g.Days, DayValue{Date: b.Days[i].Date, Value: v, Band: band})
		if band != BandTarget {
			g.Win = false
		}
	}
	return g
}

func exerciseDays(b WeekBucket[Day]) []ExerciseDay {
	diary := diaryDays(b)
	out := make([]ExerciseDay, 0, len(diary))
	for _, d := range diary {
		out = append(out, DailyExerciseSummary(d.Exercises))
	}
	return out
}

func exerciseMinutes(d *Day) *float64 {
	if !hasDiary(d) {
		return nil
	}
	return Float(DailyExerciseSummary(d.Exercises).Minutes)
}

func buildExerciseSummary(window []WeekBucket[Day]) ExerciseSummary {
	cb, pb, havePrev := currentAndPrevious(window)
	cur, prev := exerciseDays(cb), exerciseDays(pb)
	curSum, prevSum := WeeklyExerciseSummary(cur), WeeklyExerciseSummary(prev)

	var s ExerciseSummary
	s.DaysExercised = countRow("Days Exercised", curSum.NumDays, prevSum.NumDays, havePrev)
	s.DaysExercised.Win = curSum.NumDays == TargetExerciseDays
	s.DaysExercised.Warning = havePrev && curSum.NumDays < prevSum.NumDays

	hours := func(days []ExerciseDay, sum ExerciseWeek) *float64 {
		if len(days) == 0 {
			return nil
		}
		return Float(sum.TotalHours)
	}
	s.HoursExercised = compare("Hours Exercised", hours(cur, curSum), hours(prev, prevSum), havePrev, 1)
	s.HoursExercised.Win = present(s.HoursExercised.Current) && *s.HoursExercised.Current >= TargetExerciseDays
	s.HoursExercised.Warning = !s.HoursExercised.Win && present(s.HoursExercised.Previous) &&
		present(s.HoursExercised.Current) && *s.HoursExercised.Current < *s.HoursExercised.Previous

	counts := ExerciseCounts(cur)
	prevCounts := ExerciseCounts(prev)
	s.Counts = counts
	s.CountDeltas = ExerciseCountDeltas(counts, prevCounts)

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row := ExerciseNameRow{Name: name, Current: counts[name], Delta: s.CountDeltas[name]}
		if p, ok := prevCounts[name]; ok {
			row.Previous = &p
			row.Warning = counts[name] < p
		}
		s.Names = append(s.Names, row)
	}

	for _, b := range window {
		s.WeeklyMinutes = append(s.WeeklyMinutes, grid(b, exerciseMinutes, ExerciseBand))
	}
	return s
}

// activeReview picks the latest review that belongs to week.
func activeReview(reviews map[string]string, week string, weekStart time.Weekday) *string {
	var best string
	found := false
	for key := range reviews {
		day, err := ParseDay(key)
		if err != nil {
			continue
		}
		shifted := MostRecentWeekday(day.AddDate(0, 0, -ReviewBufferDays), weekStart)
		if FormatDay(shifted) != week {
			continue
		}
		if !found || key > best {
			best, found = key, true
		}
	}
	if !found {
		return nil
	}
	text := reviews[best]
	return &text
}
