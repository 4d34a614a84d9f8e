package trend

// ConvertWeights re-expresses every weight of r with conv, rounded to one
// decimal. Counts, statuses, wins and warnings are left as computed.
func (r *Report) ConvertWeights(conv func(float64) float64) {
	weight := func(v *float64) *float64 {
		if !present(v) {
			return v
		}
		return Float(Round(conv(*v), 1))
	}
	row := func(rw *Row) {
		rw.Current = weight(rw.Current)
		rw.Previous = weight(rw.Previous)
		if rw.Delta != nil {
			rw.Delta = Delta(rw.Current, rw.Previous, 1)
		}
	}

	r.Overview.Weight.Actual = weight(r.Overview.Weight.Actual)
	r.Overview.Weight.Target = weight(r.Overview.Weight.Target)

	row(&r.Weight.Average)
	row(&r.Weight.Top)
	row(&r.Weight.Bottom)
	for i := range r.Weight.Ranges {
		r.Weight.Ranges[i].Min = weight(r.Weight.Ranges[i].Min)
		r.Weight.Ranges[i].Max = weight(r.Weight.Ranges[i].Max)
	}
	for i := range r.Weight.IntraWeek {
		r.Weight.IntraWeek[i].Value = weight(r.Weight.IntraWeek[i].Value)
	}
}
