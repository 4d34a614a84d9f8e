package app_test

import (
	"context"
	"time"

	"fitreport/internal/app"
	"fitreport/internal/domain"
)

func fixedClock(day string) app.Clock {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" 09:30", time.UTC)
	if err != nil {
		panic(err)
	}
	return app.Clock{Now: func() time.Time { return t }, Loc: time.UTC}
}

type mockWeightRepo struct {
	upsertFn func(ctx context.Context, userID, day, value string, at time.Time) error
	deleteFn func(ctx context.Context, userID string) (bool, error)
	dayFn    func(ctx context.Context, userID, day string) (*domain.WeightEntry, error)
	listFn   func(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error)
}

func (m *mockWeightRepo) UpsertWeight(ctx context.Context, userID, day, value string, at time.Time) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, day, value, at)
	}
	return nil
}

func (m *mockWeightRepo) DeleteLatestWeight(ctx context.Context, userID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return false, nil
}

func (m *mockWeightRepo) WeightForDay(ctx context.Context, userID, day string) (*domain.WeightEntry, error) {
	if m.dayFn != nil {
		return m.dayFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListRecentWeights(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

type mockNutritionRepo struct {
	upsertFn func(ctx context.Context, userID string, log domain.DailyLog) error
	listFn   func(ctx context.Context, userID string, limit int) ([]domain.DailyLog, error)
}

func (m *mockNutritionRepo) UpsertDay(ctx context.Context, userID string, log domain.DailyLog) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, log)
	}
	return nil
}

func (m *mockNutritionRepo) ListRecentDays(ctx context.Context, userID string, limit int) ([]domain.DailyLog, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

type mockProfileRepo struct {
	getFn func(ctx context.Context, userID string) (*domain.Profile, error)
	putFn func(ctx context.Context, p domain.Profile) error
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) PutProfile(ctx context.Context, p domain.Profile) error {
	if m.putFn != nil {
		return m.putFn(ctx, p)
	}
	return nil
}

type mockReviewRepo struct {
	addFn  func(ctx context.Context, r domain.Review) error
	listFn func(ctx context.Context, userID string) ([]domain.Review, error)
}

func (m *mockReviewRepo) AddReview(ctx context.Context, r domain.Review) error {
	if m.addFn != nil {
		return m.addFn(ctx, r)
	}
	return nil
}

func (m *mockReviewRepo) ListReviews(ctx context.Context, userID string) ([]domain.Review, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

type mockSnapshots struct {
	snapshotFn func(ctx context.Context, userID string) (*domain.Snapshot, error)
}

func (m *mockSnapshots) Snapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx, userID)
	}
	return &domain.Snapshot{}, nil
}

func snapshotOf(s *domain.Snapshot) *mockSnapshots {
	return &mockSnapshots{snapshotFn: func(context.Context, string) (*domain.Snapshot, error) { return s, nil }}
}

type mockFeed struct {
	ch chan struct{}
}

func (m *mockFeed) Subscribe(string) (<-chan struct{}, func()) {
	return m.ch, func() {}
}
