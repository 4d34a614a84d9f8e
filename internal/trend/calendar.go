// Package trend groups daily fitness records into calendar weeks, compares the
// current week against the previous one and classifies each metric against
// the user's targets. Everything in this package is a pure function of its
// inputs: callers hand it a snapshot and get a value back.
package trend

import (
	"fmt"
	"sort"
	"time"
)

// DayLayout is the canonical key format for a calendar day.
const DayLayout = "2006-01-02"

// DaysPerWeek is the number of slots in every WeekBucket.
const DaysPerWeek = 7

// DayOf strips the clock and location from t, keeping its calendar date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a "2006-01-02" key into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// FormatDay formats t as a day key.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// MostRecentWeekday returns the latest date <= day whose weekday is wd.
// This is the week key; it is intentionally not ISO-8601 week numbering.
func MostRecentWeekday(day time.Time, wd time.Weekday) time.Time {
	day = DayOf(day)
	back := (int(day.Weekday()) - int(wd) + DaysPerWeek) % DaysPerWeek
	return day.AddDate(0, 0, -back)
}

// Slot is one day inside a WeekBucket. Logged is false when nothing was
// recorded for that date; Value is then the zero value and must be ignored.
type Slot[V any] struct {
	Date   string `json:"date"`
	Value  V      `json:"value"`
	Logged bool   `json:"logged"`
}

// WeekBucket holds the seven days of one week, starting at Start.
type WeekBucket[V any] struct {
	Start string                `json:"start"`
	Days  [DaysPerWeek]Slot[V] `json:"days"`
}

// Logged returns the values of the logged days in week order.
func (b WeekBucket[V]) Logged() []V {
	out := make([]V, 0, DaysPerWeek)
	for _, s := range b.Days {
		if s.Logged {
			out = append(out, s.Value)
		}
	}
	return out
}

// LoggedCount returns the number of days with a record.
func (b WeekBucket[V]) LoggedCount() int {
	n := 0
	for _, s := range b.Days {
		if s.Logged {
			n++
		}
	}
	return n
}

func newBucket[V any](start time.Time) WeekBucket[V] {
	b := WeekBucket[V]{Start: FormatDay(start)}
	for i := range b.Days {
		b.Days[i].Date = FormatDay(start.AddDate(0, 0, i))
	}
	return b
}

// GroupByWeek assigns every day to the bucket keyed by the most recent
// weekStart on or before it. Buckets only exist for weeks holding at least
// one day. A non-zero today drops days after it; it never changes keys.
func GroupByWeek[V any](days map[string]V, weekStart time.Weekday, today time.Time) (map[string]WeekBucket[V], error) {
	out := make(map[string]WeekBucket[V])
	var limit time.Time
	if !today.IsZero() {
		limit = DayOf(today)
	}

	for key, v := range days {
		day, err := ParseDay(key)
		if err != nil {
			return nil, err
		}
		if !limit.IsZero() && day.After(limit) {
			continue
		}

		start := MostRecentWeekday(day, weekStart)
		startKey := FormatDay(start)
		b, ok := out[startKey]
		if !ok {
			b = newBucket[V](start)
		}
		idx := int(day.Sub(start).Hours() / 24)
		b.Days[idx] = Slot[V]{Date: key, Value: v, Logged: true}
		out[startKey] = b
	}
	return out, nil
}

// SortedWeeks returns the buckets most recent first.
func SortedWeeks[V any](grouped map[string]WeekBucket[V]) []WeekBucket[V] {
	out := make([]WeekBucket[V], 0, len(grouped))
	for _, b := range grouped {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start > out[j].Start
	})
	return out
}

// Flatten turns buckets back into a day map holding only logged days.
func Flatten[V any](grouped map[string]WeekBucket[V]) map[string]V {
	out := make(map[string]V)
	for _, b := range grouped {
		for _, s := range b.Days {
			if s.Logged {
				out[s.Date] = s.Value
			}
		}
	}
	return out
}

// CompletedWeeks returns the week starts of all buckets except the one
// containing today, oldest first. This is the list a user navigates.
func CompletedWeeks[V any](grouped map[string]WeekBucket[V], weekStart time.Weekday, today time.Time) []string {
	current := FormatDay(MostRecentWeekday(today, weekStart))
	weeks := make([]string, 0, len(grouped))
	for start := range grouped {
		if start == current {
			continue
		}
		weeks = append(weeks, start)
	}
	sort.Strings(weeks)
	return weeks
}
