// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fitreport/internal/domain"
)

// ImportedAt is the write time given to imported weights.
var ImportedAt = time.Unix(0, 0).UTC()

// Notifier is told about every change to a user's records.
type Notifier interface {
	Publish(userID string)
}

type userData struct {
	weights map[string]domain.WeightEntry
	days    map[string]domain.DailyLog
	reviews map[string]domain.Review
	profile *domain.Profile
}

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	data     map[string]*userData
	users    []*domain.User
	sessions map[string]*domain.Session
	notifier Notifier
}

// New creates a new in-memory database. notifier may be nil.
func New(notifier Notifier) *DB {
	return &DB{
		data:     make(map[string]*userData),
		sessions: make(map[string]*domain.Session),
		notifier: notifier,
	}
}

// Ensure interfaces are met.
var (
	_ domain.WeightRepository    = (*DB)(nil)
	_ domain.NutritionRepository = (*DB)(nil)
	_ domain.ProfileRepository   = (*DB)(nil)
	_ domain.ReviewRepository    = (*DB)(nil)
	_ domain.SnapshotReader      = (*DB)(nil)
	_ domain.UserRepository      = (*DB)(nil)
	_ domain.SessionRepository   = (*SessionRepo)(nil)
)

// user returns the records of userID. Callers hold db.mu.
func (db *DB) user(userID string) *userData {
	u, ok := db.data[userID]
	if !ok {
		u = &userData{
			weights: make(map[string]domain.WeightEntry),
			days:    make(map[string]domain.DailyLog),
			reviews: make(map[string]domain.Review),
		}
		db.data[userID] = u
	}
	return u
}

func (db *DB) notify(userID string) {
	if db.notifier != nil {
		db.notifier.Publish(userID)
	}
}

// Import replaces a user's records with snap. Keys are stored as given so
// that imported legacy data keeps its original day keys. Imported weights
// sort before anything written later.
func (db *DB) Import(userID string, snap domain.Snapshot) {
	db.mu.Lock()
	delete(db.data, userID)
	u := db.user(userID)
	now := time.Now().UTC()
	for day, v := range snap.Weights {
		u.weights[day] = domain.WeightEntry{UserID: userID, Day: day, Value: v, CreatedAt: ImportedAt}
	}
	for day, log := range snap.Days {
		log.Day = day
		u.days[day] = log
	}
	for day, text := range snap.Reviews {
		u.reviews[day] = domain.Review{UserID: userID, Day: day, Text: text, CreatedAt: now}
	}
	if snap.Profile != nil {
		p := *snap.Profile
		p.UserID = userID
		u.profile = &p
	}
	db.mu.Unlock()

	db.notify(userID)
}

// --- SnapshotReader ---

// Snapshot returns a copy of everything stored for userID.
func (db *DB) Snapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	snap := &domain.Snapshot{
		Weights: make(map[string]string),
		Days:    make(map[string]domain.DailyLog),
		Reviews: make(map[string]string),
	}
	u, ok := db.data[userID]
	if !ok {
		return snap, nil
	}
	for day, w := range u.weights {
		snap.Weights[day] = w.Value
	}
	for day, log := range u.days {
		snap.Days[day] = log
	}
	for day, r := range u.reviews {
		snap.Reviews[day] = r.Text
	}
	if u.profile != nil {
		p := *u.profile
		snap.Profile = &p
	}
	return snap, nil
}

// --- WeightRepository ---

// UpsertWeight stores the weight of a day, replacing any earlier value.
func (db *DB) UpsertWeight(ctx context.Context, userID, day, value string, createdAt time.Time) error {
	db.mu.Lock()
	db.user(userID).weights[day] = domain.WeightEntry{
		UserID:    userID,
		Day:       day,
		Value:     value,
		CreatedAt: createdAt.UTC(),
	}
	db.mu.Unlock()

	db.notify(userID)
	return nil
}

// DeleteLatestWeight deletes the most recently written weight.
func (db *DB) DeleteLatestWeight(ctx context.Context, userID string) (bool, error) {
	db.mu.Lock()
	u, ok := db.data[userID]
	if !ok || len(u.weights) == 0 {
		db.mu.Unlock()
		return false, nil
	}

	var latest *domain.WeightEntry
	for _, w := range u.weights {
		if latest == nil || w.CreatedAt.After(latest.CreatedAt) {
			w := w
			latest = &w
		}
	}
	delete(u.weights, latest.Day)
	db.mu.Unlock()

	db.notify(userID)
	return true, nil
}

// WeightForDay returns the weight stored for day.
func (db *DB) WeightForDay(ctx context.Context, userID, day string) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.data[userID]
	if !ok {
		return nil, nil
	}
	if w, ok := u.weights[day]; ok {
		return &w, nil
	}
	return nil, nil
}

// ListRecentWeights lists weights newest day first.
func (db *DB) ListRecentWeights(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.data[userID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.WeightEntry, 0, len(u.weights))
	for _, w := range u.weights {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day > result[j].Day
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// --- NutritionRepository ---

// UpsertDay replaces the diary of log.Day.
func (db *DB) UpsertDay(ctx context.Context, userID string, log domain.DailyLog) error {
	db.mu.Lock()
	db.user(userID).days[log.Day] = log
	db.mu.Unlock()

	db.notify(userID)
	return nil
}

// ListRecentDays lists diary days newest first.
func (db *DB) ListRecentDays(ctx context.Context, userID string, limit int) ([]domain.DailyLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.data[userID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.DailyLog, 0, len(u.days))
	for _, log := range u.days {
		result = append(result, log)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day > result[j].Day
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// --- ProfileRepository ---

// GetProfile returns the profile of userID.
func (db *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.data[userID]
	if !ok || u.profile == nil {
		return nil, nil
	}
	p := *u.profile
	return &p, nil
}

// PutProfile replaces the profile of p.UserID.
func (db *DB) PutProfile(ctx context.Context, p domain.Profile) error {
	db.mu.Lock()
	db.user(p.UserID).profile = &p
	db.mu.Unlock()

	db.notify(p.UserID)
	return nil
}

// --- ReviewRepository ---

// AddReview stores a review; a second review on the same day replaces the
// first.
func (db *DB) AddReview(ctx context.Context, r domain.Review) error {
	db.mu.Lock()
	db.user(r.UserID).reviews[r.Day] = r
	db.mu.Unlock()

	db.notify(r.UserID)
	return nil
}

// ListReviews lists the reviews of userID.
func (db *DB) ListReviews(ctx context.Context, userID string) ([]domain.Review, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.data[userID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.Review, 0, len(u.reviews))
	for _, r := range u.reviews {
		result = append(result, r)
	}
	return result, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, id, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username || u.ID == id {
			return nil, errors.New("user already exists")
		}
	}

	u := &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.db.sessions[s.Token] = &s
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		if time.Now().After(s.ExpiresAt) {
			delete(r.db.sessions, token)
			return nil, nil
		}
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
