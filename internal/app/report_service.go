package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"fitreport/internal/domain"
	"fitreport/internal/metrics"
	"fitreport/internal/trend"
)

// ReportService builds weekly reports from a snapshot of a user's records.
// It keeps no state between calls: every report is computed from scratch.
type ReportService struct {
	snapshots domain.SnapshotReader
	changes   domain.ChangeFeed
	metrics   *metrics.Manager
	clock     Clock
	weekStart time.Weekday
}

// NewReportService creates a ReportService. weekStart is used for users who
// did not pick one.
func NewReportService(snapshots domain.SnapshotReader, changes domain.ChangeFeed, m *metrics.Manager, clock Clock, weekStart time.Weekday) *ReportService {
	return &ReportService{
		snapshots: snapshots,
		changes:   changes,
		metrics:   m,
		clock:     clock,
		weekStart: weekStart,
	}
}

// Weeks lists the completed weeks the user can navigate, oldest first.
func (s *ReportService) Weeks(ctx context.Context, userID string) ([]string, error) {
	in, _, err := s.input(ctx, userID, -1, "")
	if err != nil {
		return nil, err
	}
	return trend.Weeks(in.Days, in.WeekStart, in.Today)
}

// Build computes the report for week weekIdx (an index into Weeks; negative
// selects the latest). Weights are reported in unit, or in the user's
// preferred unit when unit is empty.
func (s *ReportService) Build(ctx context.Context, userID string, weekIdx int, unit string) (*trend.Report, error) {
	start := time.Now()
	log := logrus.WithFields(logrus.Fields{"user": userID, "week": weekIdx})

	in, unit, err := s.input(ctx, userID, weekIdx, unit)
	if err != nil {
		s.countBuild("error")
		return nil, err
	}

	report, err := trend.BuildReport(in)
	if s.metrics != nil {
		s.metrics.HistReportDuration.Observe(time.Since(start).Seconds())
	}
	switch {
	case errors.Is(err, trend.ErrMissingBaseline):
		s.countBuild("insufficient_history")
		log.Debug("no baseline weight yet")
		return nil, err
	case err != nil:
		s.countBuild("error")
		log.WithError(err).Error("build report")
		return nil, err
	}

	s.countBuild("ok")
	s.countStatuses(report.Overview)
	if unit != domain.UnitLb {
		report.ConvertWeights(func(lbs float64) float64 { return domain.WeightInPrefUnits(lbs, unit) })
	}
	log.WithFields(logrus.Fields{
		"active": report.Week,
		"status": report.Overview.Status.String(),
	}).Debug("report built")
	return report, nil
}

// Stream emits a fresh report now and after every change to the user's
// records, until ctx is done or emit fails. While the user has no baseline
// weight the stream stays open and waits for one.
func (s *ReportService) Stream(ctx context.Context, userID string, weekIdx int, unit string, emit func(*trend.Report) error) error {
	changed, cancel := s.changes.Subscribe(userID)
	defer cancel()

	if s.metrics != nil {
		s.metrics.GaugeStreams.Inc()
		defer s.metrics.GaugeStreams.Dec()
	}

	for {
		report, err := s.Build(ctx, userID, weekIdx, unit)
		switch {
		case errors.Is(err, trend.ErrMissingBaseline), errors.Is(err, ErrProfileNotFound):
		case err != nil:
			return err
		default:
			if err := emit(report); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if s.metrics != nil {
				s.metrics.CounterChanges.Inc()
			}
		}
	}
}

func (s *ReportService) countBuild(outcome string) {
	if s.metrics != nil {
		s.metrics.CounterReports.WithLabelValues(outcome).Inc()
	}
}

func (s *ReportService) countStatuses(o trend.Overview) {
	if s.metrics == nil {
		return
	}
	for metric, st := range map[string]trend.Status{
		"weight":   o.Weight.Status,
		"calories": o.Calories.Status,
		"protein":  o.Protein.Status,
		"exercise": o.Exercise.Status,
	} {
		s.metrics.CounterStatus.WithLabelValues(metric, st.String()).Inc()
	}
}

// input reads the user's snapshot and returns the engine input together with
// the resolved display unit.
func (s *ReportService) input(ctx context.Context, userID string, weekIdx int, unit string) (trend.Input, string, error) {
	snap, err := s.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return trend.Input{}, "", fmt.Errorf("read snapshot: %w", err)
	}
	if snap == nil || snap.Profile == nil {
		return trend.Input{}, "", ErrProfileNotFound
	}
	unit, err = displayUnit(unit, snap.Profile)
	if err != nil {
		return trend.Input{}, "", err
	}

	today, err := trend.ParseDay(s.clock.Today())
	if err != nil {
		return trend.Input{}, "", err
	}
	in, err := engineInput(snap, s.weekStart, s.clock.Loc)
	if err != nil {
		return trend.Input{}, "", err
	}
	in.Today = today
	in.ActiveIdx = weekIdx
	return in, unit, nil
}

// displayUnit resolves the unit weights are shown in.
func displayUnit(requested string, p *domain.Profile) (string, error) {
	if requested != "" {
		u := domain.NormalizeUnit(requested)
		if u == "" {
			return "", fmt.Errorf("%w: unit must be %q or %q", ErrInvalidInput, domain.UnitLb, domain.UnitKg)
		}
		return u, nil
	}
	if p != nil {
		if u := domain.NormalizeUnit(p.IdealMetric); u != "" {
			return u, nil
		}
	}
	return domain.UnitLb, nil
}

// engineInput turns a raw snapshot into engine input. Keys are normalised
// to ISO days and unreadable keys and weights are dropped. Weights stay in
// pounds.
func engineInput(snap *domain.Snapshot, defaultWeekStart time.Weekday, loc *time.Location) (trend.Input, error) {
	if loc == nil {
		loc = time.Local
	}
	p := snap.Profile
	var err error

	days := make(map[string]trend.Day)

	for _, raw := range sortedKeys(snap.Weights) {
		key, err := domain.NormalizeDayKey(raw, loc)
		if err != nil {
			logrus.WithField("key", raw).Warn("skipping weight with unreadable day")
			continue
		}
		lbs, ok := domain.ParseWeight(snap.Weights[raw])
		if !ok {
			continue
		}
		d := days[key]
		d.Weight = trend.Float(lbs)
		days[key] = d
	}

	for _, raw := range sortedKeys(snap.Days) {
		key, err := domain.NormalizeDayKey(raw, loc)
		if err != nil {
			logrus.WithField("key", raw).Warn("skipping diary day with unreadable day")
			continue
		}
		entry := snap.Days[raw]
		d := days[key]
		d.Totals = entry.Totals
		d.Exercises = entry.Exercises
		if d.Exercises == nil {
			d.Exercises = []domain.ExerciseEntry{}
		}
		days[key] = d
	}

	reviews := make(map[string]string, len(snap.Reviews))
	for _, raw := range sortedKeys(snap.Reviews) {
		key, err := domain.NormalizeDayKey(raw, loc)
		if err != nil {
			continue
		}
		reviews[key] = snap.Reviews[raw]
	}

	in := trend.Input{Days: days, Reviews: reviews, WeekStart: defaultWeekStart}
	if p == nil {
		return in, nil
	}

	if p.WeekStart != "" {
		if in.WeekStart, err = domain.ParseWeekday(p.WeekStart); err != nil {
			return trend.Input{}, err
		}
	}

	in.Target = trend.Target{
		Direction:    trend.Cutting,
		TargetWeight: p.TargetWeight,
		Nutrition:    p.TargetNutrition,
	}
	if p.IsGaining() {
		in.Target.Direction = trend.Gaining
	}
	if in.Target.ProgramStart, err = profileDay(p.ProgramStart, loc); err != nil {
		return trend.Input{}, err
	}
	if in.Target.ProgramEnd, err = profileDay(p.ProgramEnd, loc); err != nil {
		return trend.Input{}, err
	}
	return in, nil
}

func profileDay(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	key, err := domain.NormalizeDayKey(raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	return trend.ParseDay(key)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
