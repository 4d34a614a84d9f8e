package memory

import (
	"context"
	"testing"
	"time"

	"fitreport/internal/domain"
	"fitreport/internal/feed"
)

func TestWeightRepository(t *testing.T) {
	db := New(nil)
	ctx := context.Background()
	userID := "u1"

	now := time.Now()
	if err := db.UpsertWeight(ctx, userID, "2024-01-01", "180", now); err != nil {
		t.Fatalf("UpsertWeight: %v", err)
	}
	_ = db.UpsertWeight(ctx, userID, "2024-01-02", "179.5", now.Add(time.Minute))
	// Replaces the first day's value.
	_ = db.UpsertWeight(ctx, userID, "2024-01-01", "181", now.Add(2*time.Minute))

	events, err := db.ListRecentWeights(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ListRecentWeights: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 weights, got %d", len(events))
	}
	if events[0].Day != "2024-01-02" {
		t.Errorf("expected newest day first, got %s", events[0].Day)
	}

	// Other user sees nothing
	if others, _ := db.ListRecentWeights(ctx, "u2", 10); len(others) != 0 {
		t.Error("expected 0 weights for other user")
	}

	w, err := db.WeightForDay(ctx, userID, "2024-01-01")
	if err != nil {
		t.Fatalf("WeightForDay: %v", err)
	}
	if w == nil || w.Value != "181" {
		t.Fatalf("expected 181, got %+v", w)
	}

	// The latest write was the replaced 2024-01-01 value.
	ok, err := db.DeleteLatestWeight(ctx, userID)
	if err != nil || !ok {
		t.Fatalf("DeleteLatestWeight: %v, %v", ok, err)
	}
	if w, _ := db.WeightForDay(ctx, userID, "2024-01-01"); w != nil {
		t.Errorf("expected day deleted, got %+v", w)
	}
	if ok, _ := db.DeleteLatestWeight(ctx, "u2"); ok {
		t.Error("expected nothing to delete for other user")
	}
}

func TestNutritionRepository(t *testing.T) {
	db := New(nil)
	ctx := context.Background()
	cal := 2000.0

	_ = db.UpsertDay(ctx, "u1", domain.DailyLog{Day: "2024-01-01"})
	_ = db.UpsertDay(ctx, "u1", domain.DailyLog{Day: "2024-01-02", Totals: &domain.NutritionTotals{Calories: &cal}})
	_ = db.UpsertDay(ctx, "u1", domain.DailyLog{Day: "2024-01-03"})

	days, err := db.ListRecentDays(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListRecentDays: %v", err)
	}
	if len(days) != 2 || days[0].Day != "2024-01-03" || days[1].Totals == nil {
		t.Fatalf("unexpected days: %+v", days)
	}
}

func TestProfileAndReviews(t *testing.T) {
	db := New(nil)
	ctx := context.Background()

	if p, _ := db.GetProfile(ctx, "u1"); p != nil {
		t.Fatal("expected no profile")
	}
	_ = db.PutProfile(ctx, domain.Profile{UserID: "u1", Mode: domain.ModeCut, TargetWeight: 170})
	p, err := db.GetProfile(ctx, "u1")
	if err != nil || p == nil || p.TargetWeight != 170 {
		t.Fatalf("GetProfile: %+v, %v", p, err)
	}
	p.TargetWeight = 1
	if again, _ := db.GetProfile(ctx, "u1"); again.TargetWeight != 170 {
		t.Error("profile must be returned by copy")
	}

	_ = db.AddReview(ctx, domain.Review{UserID: "u1", Day: "2024-01-15", Text: "first"})
	_ = db.AddReview(ctx, domain.Review{UserID: "u1", Day: "2024-01-15", Text: "second"})
	reviews, _ := db.ListReviews(ctx, "u1")
	if len(reviews) != 1 || reviews[0].Text != "second" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}

func TestSnapshot(t *testing.T) {
	db := New(nil)
	ctx := context.Background()

	snap, err := db.Snapshot(ctx, "nobody")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Profile != nil || len(snap.Weights) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}

	db.Import("u1", domain.Snapshot{
		Profile: &domain.Profile{Mode: domain.ModeBulk},
		Weights: map[string]string{"1/2/2024": "150", "1704240000000": "oops"},
		Reviews: map[string]string{"2024-01-15": "ok"},
	})
	_ = db.UpsertDay(ctx, "u1", domain.DailyLog{Day: "2024-01-02"})

	snap, _ = db.Snapshot(ctx, "u1")
	if snap.Weights["1/2/2024"] != "150" || snap.Weights["1704240000000"] != "oops" {
		t.Errorf("imported keys must be kept verbatim: %+v", snap.Weights)
	}
	if _, ok := snap.Days["2024-01-02"]; !ok {
		t.Error("expected diary day in snapshot")
	}
	if snap.Reviews["2024-01-15"] != "ok" || snap.Profile == nil || snap.Profile.UserID != "u1" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestWritesPublishChanges(t *testing.T) {
	hub := feed.NewHub()
	db := New(hub)
	ctx := context.Background()

	ch, cancel := hub.Subscribe("u1")
	defer cancel()

	writes := map[string]func(){
		"weight":  func() { _ = db.UpsertWeight(ctx, "u1", "2024-01-01", "180", time.Now()) },
		"undo":    func() { _, _ = db.DeleteLatestWeight(ctx, "u1") },
		"day":     func() { _ = db.UpsertDay(ctx, "u1", domain.DailyLog{Day: "2024-01-01"}) },
		"profile": func() { _ = db.PutProfile(ctx, domain.Profile{UserID: "u1"}) },
		"review":  func() { _ = db.AddReview(ctx, domain.Review{UserID: "u1", Day: "2024-01-01"}) },
		"import":  func() { db.Import("u1", domain.Snapshot{}) },
	}
	for _, name := range []string{"weight", "undo", "day", "profile", "review", "import"} {
		writes[name]()
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("%s: expected a change notification", name)
		}
	}

	// Another user's write does not reach u1.
	_ = db.UpsertWeight(ctx, "u2", "2024-01-01", "180", time.Now())
	select {
	case <-ch:
		t.Fatal("unexpected notification")
	default:
	}
}

func TestUserRepository(t *testing.T) {
	db := New(nil)
	ctx := context.Background()

	u, err := db.Create(ctx, "id-1", "bob", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != "bob" {
		t.Errorf("expected bob, got %s", u.Username)
	}
	if _, err := db.Create(ctx, "id-2", "bob", "hash"); err == nil {
		t.Error("expected duplicate username to fail")
	}

	u2, err := db.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u2 == nil || u2.ID != u.ID {
		t.Error("failed to retrieve user")
	}
	if byID, _ := db.GetByID(ctx, "id-1"); byID == nil {
		t.Error("failed to retrieve user by id")
	}

	count, _ := db.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestSessionRepository(t *testing.T) {
	db := New(nil)
	repo := db.NewSessionRepo()
	ctx := context.Background()

	err := repo.Create(ctx, domain.Session{Token: "token123", UserID: "id-1", UserAgent: "ua", ExpiresAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = repo.Create(ctx, domain.Session{Token: "old", UserID: "id-1", ExpiresAt: time.Now().Add(-time.Hour)})

	sess, err := repo.GetByToken(ctx, "token123")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if sess == nil || sess.UserAgent != "ua" {
		t.Fatalf("expected session, got %+v", sess)
	}
	if old, _ := repo.GetByToken(ctx, "old"); old != nil {
		t.Error("expected expired session to be hidden")
	}

	_ = repo.DeleteExpired(ctx)
	_ = repo.Delete(ctx, "token123")
	sess, _ = repo.GetByToken(ctx, "token123")
	if sess != nil {
		t.Error("expected nil (deleted)")
	}
}
