package app

import (
	"context"
	"fmt"

	"fitreport/internal/domain"
)

// ProfileService manages the per-user program configuration.
type ProfileService struct {
	repo  domain.ProfileRepository
	clock Clock
}

func NewProfileService(repo domain.ProfileRepository, clock Clock) *ProfileService {
	return &ProfileService{repo: repo, clock: clock}
}

// Get returns the profile with the target weight in the user's preferred
// unit.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	out := *p
	out.TargetWeight = domain.WeightInPrefUnits(p.TargetWeight, p.IdealMetric)
	return &out, nil
}

// Put validates and stores p. Its target weight is read in p.IdealMetric.
func (s *ProfileService) Put(ctx context.Context, userID string, p domain.Profile) (*domain.Profile, error) {
	p.UserID = userID
	if p.Mode != domain.ModeBulk && p.Mode != domain.ModeCut {
		return nil, fmt.Errorf("%w: mode must be %q or %q", ErrInvalidInput, domain.ModeBulk, domain.ModeCut)
	}
	if p.IdealMetric == "" {
		p.IdealMetric = domain.UnitLb
	}
	unit, err := requireUnit(p.IdealMetric)
	if err != nil {
		return nil, err
	}
	p.IdealMetric = unit
	if p.TargetWeight <= 0 {
		return nil, fmt.Errorf("%w: target weight must be > 0", ErrInvalidInput)
	}

	n := p.TargetNutrition
	if n.Calories <= 0 {
		return nil, fmt.Errorf("%w: calorie target must be > 0", ErrInvalidInput)
	}
	if n.Carbohydrates < 0 || n.Fat < 0 || n.Protein < 0 || n.Sodium < 0 {
		return nil, fmt.Errorf("%w: nutrition targets must be >= 0", ErrInvalidInput)
	}

	end, err := profileDay(p.ProgramEnd, s.clock.Loc)
	if err != nil || end.IsZero() {
		return nil, fmt.Errorf("%w: program end must be a date", ErrInvalidInput)
	}
	start, err := profileDay(p.ProgramStart, s.clock.Loc)
	if err != nil {
		return nil, fmt.Errorf("%w: program start must be a date", ErrInvalidInput)
	}
	if !start.IsZero() && start.After(end) {
		return nil, fmt.Errorf("%w: program start is after its end", ErrInvalidInput)
	}
	p.ProgramEnd = end.Format("2006-01-02")
	if !start.IsZero() {
		p.ProgramStart = start.Format("2006-01-02")
	}

	if p.WeekStart != "" {
		wd, err := domain.ParseWeekday(p.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		p.WeekStart = wd.String()
	}

	display := p.TargetWeight
	p.TargetWeight = domain.ToPounds(p.TargetWeight, unit)
	p.UpdatedAt = s.clock.now()
	if err := s.repo.PutProfile(ctx, p); err != nil {
		return nil, err
	}
	p.TargetWeight = display
	return &p, nil
}
